package controller

import (
	"restaurant-discovery-be/internal/dto"
	"restaurant-discovery-be/internal/mapper"
	"restaurant-discovery-be/internal/pkg/serverutils"
	"restaurant-discovery-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultSearchLimit = 10

type IRestaurantController interface {
	RegisterRoutes(r fiber.Router)
	GetRestaurant(ctx *fiber.Ctx) error
	GetRestaurants(ctx *fiber.Ctx) error
	DeleteRestaurant(ctx *fiber.Ctx) error
	SearchByField(ctx *fiber.Ctx) error
	HybridSearch(ctx *fiber.Ctx) error
}

type restaurantController struct {
	restaurants service.IRestaurantService
	search      service.ISearchService
	mapper      *mapper.RestaurantMapper
}

func NewRestaurantController(
	restaurants service.IRestaurantService,
	search service.ISearchService,
	restaurantMapper *mapper.RestaurantMapper,
) IRestaurantController {
	return &restaurantController{
		restaurants: restaurants,
		search:      search,
		mapper:      restaurantMapper,
	}
}

func (c *restaurantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/restaurants")
	h.Get("/", c.GetRestaurants)
	h.Post("/search", c.SearchByField)
	h.Post("/search/hybrid", c.HybridSearch)
	h.Get("/:id", c.GetRestaurant)
	h.Delete("/:id", c.DeleteRestaurant)
}

func (c *restaurantController) GetRestaurant(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	res, err := c.restaurants.Get(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Restaurant detail", c.mapper.ToResponse(res)))
}

func (c *restaurantController) GetRestaurants(ctx *fiber.Ctx) error {
	res, err := c.restaurants.GetAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Restaurant list", c.mapper.ToListResponse(res)))
}

func (c *restaurantController) DeleteRestaurant(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.restaurants.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Restaurant deleted", nil))
}

func (c *restaurantController) SearchByField(ctx *fiber.Ctx) error {
	var req dto.SearchByFieldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	hits, err := c.search.SearchByField(ctx.Context(), req.Field, req.Query, req.Limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search results", c.toSearchResult(hits)))
}

func (c *restaurantController) HybridSearch(ctx *fiber.Ctx) error {
	var req dto.HybridSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	hits, err := c.search.HybridSearch(ctx.Context(), req.Queries, req.Weights, req.Limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search results", c.toSearchResult(hits)))
}

func (c *restaurantController) toSearchResult(hits []*service.ScoredRestaurant) dto.SearchResultResponse {
	results := make([]dto.ScoredRestaurantResponse, 0, len(hits))
	for _, hit := range hits {
		results = append(results, c.mapper.ToScoredResponse(hit.Restaurant, hit.Score))
	}
	return dto.SearchResultResponse{Results: results, Total: len(results)}
}
