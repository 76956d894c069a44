package serverutils

import (
	"errors"

	"semantic-docs-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the application error taxonomy onto HTTP statuses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *apperr.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		var notFoundErr *apperr.NotFoundError
		if errors.As(err, &notFoundErr) {
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(notFoundErr.Error()))
		}

		var providerErr *apperr.ProviderError
		if errors.As(err, &providerErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(providerErr.Error()))
		}

		var dimensionErr *apperr.DimensionMismatchError
		if errors.As(err, &dimensionErr) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(dimensionErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
