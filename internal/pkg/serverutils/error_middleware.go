package serverutils

import (
	"errors"

	"ai-interview-coach-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors bubbling out of handlers into
// the JSON envelope with the status code of their kind.
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

		code := apperror.StatusCode(apperror.KindOf(err))
		msg := err.Error()
		if code == 500 {
			// Don't leak internals
			msg = "internal server error"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, msg))
	}
}
