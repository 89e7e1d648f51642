package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/models"
	"github.com/marminbh/webhook-relay/internal/registry"
)

// WebhooksHandler serves the subscription management surface.
type WebhooksHandler struct {
	Registry *registry.Registry
	Logger   *zap.Logger
}

func NewWebhooksHandler(reg *registry.Registry, logger *zap.Logger) *WebhooksHandler {
	return &WebhooksHandler{
		Registry: reg,
		Logger:   logger,
	}
}

type createWebhookRequest struct {
	EventType string `json:"event_type"`
	TargetURL string `json:"target_url"`
	Secret    string `json:"secret"`
}

// Create handles POST /api/webhooks.
func (h *WebhooksHandler) Create(c *fiber.Ctx) error {
	var req createWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	if req.EventType == "" || req.TargetURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: event_type, target_url",
		})
	}

	webhook, err := h.Registry.Create(req.EventType, req.TargetURL, req.Secret)
	if err != nil {
		h.Logger.Error("Failed to create webhook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create webhook",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"webhook": webhook,
		"message": "Webhook subscription created successfully",
	})
}

// List handles GET /api/webhooks.
func (h *WebhooksHandler) List(c *fiber.Ctx) error {
	webhooks := h.Registry.GetAll()
	return c.JSON(fiber.Map{
		"success":  true,
		"webhooks": webhooks,
		"count":    len(webhooks),
	})
}

// GetByID handles GET /api/webhooks/:id.
func (h *WebhooksHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid webhook id",
		})
	}

	webhook := h.Registry.GetByID(id)
	if webhook == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Webhook not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"webhook": webhook,
	})
}

// Update handles PUT /api/webhooks/:id with any subset of the mutable fields.
func (h *WebhooksHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid webhook id",
		})
	}

	var upd models.WebhookUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON body",
		})
	}

	webhook := h.Registry.Update(id, upd)
	if webhook == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Webhook not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"webhook": webhook,
		"message": "Webhook updated successfully",
	})
}

// Delete handles DELETE /api/webhooks/:id.
func (h *WebhooksHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid webhook id",
		})
	}

	if !h.Registry.Delete(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Webhook not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Webhook deleted successfully",
	})
}

// Toggle handles PATCH /api/webhooks/:id/toggle.
func (h *WebhooksHandler) Toggle(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid webhook id",
		})
	}

	webhook := h.Registry.ToggleActive(id)
	if webhook == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Webhook not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"webhook": webhook,
		"message": "Webhook status toggled successfully",
	})
}
