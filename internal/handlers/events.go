package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/audit"
	"github.com/marminbh/webhook-relay/internal/service"
)

// EventsHandler serves event intake and the event query surface.
type EventsHandler struct {
	Service *service.EventService
	Auditor *audit.Auditor
	Logger  *zap.Logger
}

func NewEventsHandler(svc *service.EventService, auditor *audit.Auditor, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		Service: svc,
		Auditor: auditor,
		Logger:  logger,
	}
}

type intakeRequest struct {
	ExternalID string          `json:"event_id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
}

// Create handles POST /api/events: idempotent intake that queues delivery and
// returns immediately.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req intakeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	if req.ExternalID == "" || req.Type == "" || len(req.Payload) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: event_id, type, payload",
		})
	}

	event := h.Service.Intake(req.ExternalID, req.Type, req.Payload)
	if event == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Duplicate event ignored",
			"event":   nil,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"event":   event,
		"message": "Event created and queued for delivery",
	})
}

// List handles GET /api/events with limit/offset pagination.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	limit, offset, ok := parsePagination(c, 50)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be positive and offset non-negative",
		})
	}

	events := h.Service.GetAll(limit, offset)
	return c.JSON(fiber.Map{
		"success": true,
		"events":  events,
		"pagination": fiber.Map{
			"limit":  limit,
			"offset": offset,
			"count":  len(events),
		},
	})
}

// GetByID handles GET /api/events/:id.
func (h *EventsHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid event id",
		})
	}

	event := h.Service.GetByID(id)
	if event == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"event":   event,
	})
}

// ListByType handles GET /api/events/type/:type.
func (h *EventsHandler) ListByType(c *fiber.Ctx) error {
	limit, _, ok := parsePagination(c, 50)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be positive",
		})
	}

	events := h.Service.GetByType(c.Params("type"), limit)
	return c.JSON(fiber.Map{
		"success": true,
		"events":  events,
		"count":   len(events),
	})
}

// DeliveryLogs handles GET /api/events/:id/delivery-logs, returning the audit
// trail for one event enriched with webhook targets.
func (h *EventsHandler) DeliveryLogs(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid event id",
		})
	}

	if h.Service.GetByID(id) == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Event not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"logs":    h.Auditor.ByEvent(id),
	})
}
