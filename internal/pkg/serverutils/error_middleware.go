package serverutils

import (
	"errors"

	"restaurant-discovery-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors that escaped a controller to
// HTTP statuses. Fiber errors keep their own status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, entity.ErrEntityNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, entity.ErrInvalidRequest),
			errors.Is(err, entity.ErrAddressNormalization):
			status = fiber.StatusBadRequest
		case errors.Is(err, entity.ErrDataAccess):
			status = fiber.StatusServiceUnavailable
		}

		return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
	}
}
