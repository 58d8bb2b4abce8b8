package controller

import (
	"restaurant-discovery-be/internal/dto"
	"restaurant-discovery-be/internal/pkg/serverutils"
	"restaurant-discovery-be/internal/service"
	"restaurant-discovery-be/pkg/analyzer"

	"github.com/gofiber/fiber/v2"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	ReceiveReview(ctx *fiber.Ctx) error
	GetPipelineState(ctx *fiber.Ctx) error
}

type reviewController struct {
	pipeline service.IPipelineService
}

func NewReviewController(pipeline service.IPipelineService) IReviewController {
	return &reviewController{pipeline: pipeline}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reviews")
	h.Post("/", c.ReceiveReview)
	h.Get("/pipeline", c.GetPipelineState)
}

// ReceiveReview accepts a raw review for ingestion. The pipeline processes
// it asynchronously, so a 202 only means "queued".
func (c *reviewController) ReceiveReview(ctx *fiber.Ctx) error {
	var req dto.ReceiveReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.pipeline.ReceiveReviewData(analyzer.Review{
		Source: req.Source,
		URL:    req.URL,
		Text:   req.Text,
	}); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Review accepted", dto.ReceiveReviewResponse{
		Accepted:      true,
		PipelineState: string(c.pipeline.State()),
	}))
}

func (c *reviewController) GetPipelineState(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Pipeline state", map[string]string{
		"state": string(c.pipeline.State()),
	}))
}
