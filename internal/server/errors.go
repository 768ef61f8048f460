package server

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"admindash/auth"
)

// ErrorHandler maps application errors to HTTP responses. Authentication
// failures collapse to a single message so credential probing does not leak
// which part of the check failed.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"detail": fiberErr.Message,
			})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			logger.Error("unhandled error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail": "An unexpected error occurred. Please try again later.",
			})
		}

		status, detail := mapRichError(richErr)

		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "category", string(richErr.Category), "error", err)
		}

		payload := fiber.Map{
			"detail": detail,
		}

		var fieldErrs validation.Errors
		if goerrors.As(err, &fieldErrs) {
			payload["errors"] = fieldErrs
		}

		return c.Status(status).JSON(payload)
	}
}

func mapRichError(richErr *goerrors.Error) (int, string) {
	switch richErr.Category {
	case goerrors.CategoryAuth:
		if richErr.TextCode == auth.TextCodeAccountInactive {
			return fiber.StatusUnauthorized, "Account is inactive"
		}
		if richErr.TextCode == auth.TextCodeInvalidCreds {
			return fiber.StatusUnauthorized, "Incorrect email or password"
		}
		return fiber.StatusUnauthorized, "Could not validate credentials"
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden, "Not enough permissions"
	case goerrors.CategoryValidation:
		return fiber.StatusBadRequest, richErr.Message
	case goerrors.CategoryBadInput:
		return fiber.StatusBadRequest, richErr.Message
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound, richErr.Message
	case goerrors.CategoryConflict:
		return fiber.StatusConflict, richErr.Message
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests, richErr.Message
	case goerrors.CategoryOperation:
		return fiber.StatusServiceUnavailable, "Database service unavailable. Please try again later."
	default:
		return fiber.StatusInternalServerError, "An unexpected error occurred. Please try again later."
	}
}
