package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/audit"
	"github.com/marminbh/webhook-relay/internal/registry"
	"github.com/marminbh/webhook-relay/internal/retry"
	"github.com/marminbh/webhook-relay/internal/service"
	"github.com/marminbh/webhook-relay/internal/store"
)

// DashboardHandler serves aggregate stats, the recent delivery log feed and
// the operator's manual retry action.
type DashboardHandler struct {
	Auditor   *audit.Auditor
	Events    *service.EventService
	Registry  *registry.Registry
	Scheduler *retry.Scheduler
	Logger    *zap.Logger
}

func NewDashboardHandler(auditor *audit.Auditor, events *service.EventService, reg *registry.Registry, scheduler *retry.Scheduler, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		Auditor:   auditor,
		Events:    events,
		Registry:  reg,
		Scheduler: scheduler,
		Logger:    logger,
	}
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   h.Auditor.Stats(),
	})
}

// Logs handles GET /api/dashboard/logs.
func (h *DashboardHandler) Logs(c *fiber.Ctx) error {
	limit, offset, ok := parsePagination(c, 50)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be positive and offset non-negative",
		})
	}

	logs := h.Auditor.Recent(limit, offset)
	return c.JSON(fiber.Map{
		"success": true,
		"logs":    logs,
		"count":   len(logs),
	})
}

// Retry handles POST /api/dashboard/retry/:logId: the sanctioned in-place
// requeue of a failed attempt, followed by one immediate redelivery.
func (h *DashboardHandler) Retry(c *fiber.Ctx) error {
	id, ok := parseID(c, "logId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid log id",
		})
	}

	log, err := h.Auditor.Requeue(id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrLogNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Log entry not found",
			})
		case errors.Is(err, store.ErrAlreadySucceeded):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Delivery already successful",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to retry delivery",
			})
		}
	}

	event := h.Events.GetByID(log.EventID)
	webhook := h.Registry.GetByID(log.WebhookID)
	if event != nil && webhook != nil {
		h.Scheduler.ScheduleManual(event, webhook, log.AttemptCount)
	} else {
		h.Logger.Warn("Requeued delivery has no live event or webhook, skipping redelivery",
			zap.Int64("log_id", log.ID),
			zap.Int64("event_id", log.EventID),
			zap.Int64("webhook_id", log.WebhookID),
		)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Delivery marked for retry",
	})
}
