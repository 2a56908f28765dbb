package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	redis       *persistence.Redis
	sessions    func() int
	metrics     *observability.Metrics
}

// NewHealthHandler returns a new handler instance. redis may be nil when
// preferences are kept in memory.
func NewHealthHandler(serviceName, version string, redis *persistence.Redis, sessions func() int) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, redis: redis, sessions: sessions}
}

// WithMetrics exposes counters on the Metrics endpoint.
func (h *HealthHandler) WithMetrics(metrics *observability.Metrics) *HealthHandler {
	h.metrics = metrics
	return h
}

// Metrics dumps the in-process counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	snapshot := h.metrics.Snapshot()
	if snapshot == nil {
		return fiber.NewError(fiber.StatusNotFound, "metrics disabled")
	}
	return c.JSON(snapshot)
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	}
	if h.sessions != nil {
		body["sessions"] = h.sessions()
	}
	return c.JSON(body)
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	redisStatus := h.redis.Status(ctx)
	depStatus := fiber.Map{"redis": redisStatus}
	ready := redisStatus == persistence.RedisOK || redisStatus == persistence.RedisDisabled

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
