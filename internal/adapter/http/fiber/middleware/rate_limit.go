package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/speakeasy-labs/fluency-service/pkg/config"
)

// RateLimit throttles requests per client IP. Audio evaluation is
// expensive, so the default ceiling is deliberately low.
func RateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	max := 60
	if cfg.MaxRequests > 0 {
		max = cfg.MaxRequests
	}
	window := time.Minute
	if cfg.Window > 0 {
		window = cfg.Window
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		},
	})
}
