package serverutils

import (
	"errors"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/pkg/ledger"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		validationErr *entity.ValidationError
		notFoundErr   *entity.NotFoundError
		configErr     *entity.ConfigurationError
		gatewayErr    *entity.GatewayError
		deliveryErr   *ledger.DeliveryError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	case errors.As(err, &configErr), errors.Is(err, entity.ErrSessionBusy):
		return fiber.StatusConflict
	case errors.Is(err, entity.ErrUnauthorized), errors.Is(err, entity.ErrSessionNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, entity.ErrArchiveUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &deliveryErr), errors.As(err, &gatewayErr):
		return fiber.StatusBadGateway
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders any error a handler returns in the common envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

func WriteError(ctx *fiber.Ctx, err error) error {
	code := StatusFor(err)
	body := ErrorResponse(code, err.Error())

	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		body.Field = validationErr.Field
	}
	if code == fiber.StatusInternalServerError {
		body.Message = "internal server error"
	}

	return ctx.Status(code).JSON(body)
}
