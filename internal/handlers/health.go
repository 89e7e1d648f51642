package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/marminbh/webhook-relay/internal/dispatcher"
	"github.com/marminbh/webhook-relay/internal/retry"
)

// HealthHandler reports process liveness and pipeline depth.
type HealthHandler struct {
	Dispatcher *dispatcher.Dispatcher
	Scheduler  *retry.Scheduler
}

func NewHealthHandler(d *dispatcher.Dispatcher, s *retry.Scheduler) *HealthHandler {
	return &HealthHandler{
		Dispatcher: d,
		Scheduler:  s,
	}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "webhook-relay",
		"storage":   "in-memory",
		"queues": fiber.Map{
			"dispatch_depth": h.Dispatcher.Depth(),
			"retry_depth":    h.Scheduler.Depth(),
		},
	})
}
