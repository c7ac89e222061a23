package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		case errors.Is(err, domain.ErrEmptyAudio),
			errors.Is(err, domain.ErrInvalidLevel),
			errors.Is(err, domain.ErrInvalidScenario):
			code = fiber.StatusBadRequest
		case errors.Is(err, domain.ErrUnsupportedFormat),
			errors.Is(err, domain.ErrAudioTooLong):
			code = fiber.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrTranscription):
			code = fiber.StatusBadGateway
		}

		if code == fiber.StatusInternalServerError {
			log.Error("internal server error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
