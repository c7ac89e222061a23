package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func() error

type HealthHandler struct {
	started time.Time
	version string
	checks  map[string]HealthCheck
	log     *zap.Logger
}

func NewHealthHandler(version string, checks map[string]HealthCheck, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		started: time.Now(),
		version: version,
		checks:  checks,
		log:     log,
	}
}

// Health reports overall status plus per-component detail.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	components := make(map[string]string, len(h.checks))
	status := "healthy"
	for name, check := range h.checks {
		if err := check(); err != nil {
			components[name] = "unhealthy"
			status = "degraded"
			h.log.Warn("health check failed", zap.String("component", name), zap.Error(err))
		} else {
			components[name] = "healthy"
		}
	}

	return c.JSON(fiber.Map{
		"status":         status,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"components":     components,
	})
}

// Live is the liveness probe. It succeeds whenever the process serves.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// Ready fails when any dependency is down.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	for name, check := range h.checks {
		if err := check(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString(name + " not ready")
		}
	}
	return c.SendString("Ready")
}
