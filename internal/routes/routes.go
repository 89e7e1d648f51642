package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marminbh/webhook-relay/internal/handlers"
)

// SetupRoutes configures all application routes with dependencies
func SetupRoutes(
	app *fiber.App,
	events *handlers.EventsHandler,
	webhooks *handlers.WebhooksHandler,
	dashboard *handlers.DashboardHandler,
	health *handlers.HealthHandler,
) {
	app.Get("/health", health.Check)

	api := app.Group("/api")

	ev := api.Group("/events")
	ev.Post("/", events.Create)
	ev.Get("/", events.List)
	ev.Get("/type/:type", events.ListByType)
	ev.Get("/:id", events.GetByID)
	ev.Get("/:id/delivery-logs", events.DeliveryLogs)

	wh := api.Group("/webhooks")
	wh.Post("/", webhooks.Create)
	wh.Get("/", webhooks.List)
	wh.Get("/:id", webhooks.GetByID)
	wh.Put("/:id", webhooks.Update)
	wh.Delete("/:id", webhooks.Delete)
	wh.Patch("/:id/toggle", webhooks.Toggle)

	dash := api.Group("/dashboard")
	dash.Get("/stats", dashboard.Stats)
	dash.Get("/logs", dashboard.Logs)
	dash.Post("/retry/:logId", dashboard.Retry)
}
