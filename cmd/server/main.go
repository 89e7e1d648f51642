package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/audit"
	"github.com/marminbh/webhook-relay/internal/cache"
	"github.com/marminbh/webhook-relay/internal/config"
	"github.com/marminbh/webhook-relay/internal/delivery"
	"github.com/marminbh/webhook-relay/internal/dispatcher"
	"github.com/marminbh/webhook-relay/internal/handlers"
	"github.com/marminbh/webhook-relay/internal/logger"
	"github.com/marminbh/webhook-relay/internal/registry"
	"github.com/marminbh/webhook-relay/internal/retry"
	"github.com/marminbh/webhook-relay/internal/routes"
	"github.com/marminbh/webhook-relay/internal/service"
	"github.com/marminbh/webhook-relay/internal/store"
)

func main() {
	if err := logger.Init(os.Getenv("LOG_LEVEL")); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// In-memory repositories; all state is volatile with the process.
	events := store.NewEventStore()
	webhooks := store.NewWebhookStore()
	logs := store.NewDeliveryLogStore()

	subscriberCache := cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	reg := registry.New(webhooks, subscriberCache, logger.Logger)
	auditor := audit.New(logs, events, webhooks, logger.Logger)

	scheduler := retry.NewScheduler(cfg.Retry, logger.Logger)
	engine := delivery.NewEngine(reg, auditor, scheduler, cfg.Delivery, logger.Logger)
	scheduler.SetDeliverer(engine)
	scheduler.Start()
	defer scheduler.Stop()

	disp := dispatcher.NewDispatcher(cfg.Dispatcher, engine, logger.Logger)
	if err := disp.Start(); err != nil {
		logger.Fatal("Failed to start dispatcher", zap.Error(err))
	}
	defer func() {
		if err := disp.Stop(); err != nil {
			logger.Error("Error stopping dispatcher", zap.Error(err))
		}
	}()

	eventService := service.NewEventService(events, disp, logger.Logger)

	app := fiber.New(fiber.Config{
		AppName:      "Webhook Event Relay",
		ServerHeader: "Fiber",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	routes.SetupRoutes(app,
		handlers.NewEventsHandler(eventService, auditor, logger.Logger),
		handlers.NewWebhooksHandler(reg, logger.Logger),
		handlers.NewDashboardHandler(auditor, eventService, reg, scheduler, logger.Logger),
		handlers.NewHealthHandler(disp, scheduler),
	)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
