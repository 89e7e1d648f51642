// Package delivery implements the fan-out engine: it resolves the active
// subscribers for an event through the lookup cache, dispatches signed HTTP
// requests to all of them concurrently, records every attempt in the audit
// log, and hands failures to the retry scheduler.
package delivery

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marminbh/webhook-relay/internal/audit"
	"github.com/marminbh/webhook-relay/internal/config"
	"github.com/marminbh/webhook-relay/internal/models"
	"github.com/marminbh/webhook-relay/internal/registry"
	"github.com/marminbh/webhook-relay/internal/retry"
)

type Engine struct {
	registry  *registry.Registry
	auditor   *audit.Auditor
	scheduler *retry.Scheduler
	client    *http.Client
	cfg       config.DeliveryConfig
	logger    *zap.Logger
}

func NewEngine(reg *registry.Registry, auditor *audit.Auditor, scheduler *retry.Scheduler, cfg config.DeliveryConfig, logger *zap.Logger) *Engine {
	return &Engine{
		registry:  reg,
		auditor:   auditor,
		scheduler: scheduler,
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		cfg:       cfg,
		logger:    logger,
	}
}

// DeliverEvent fans the event out to every active subscriber of its type.
// Dispatches run concurrently and all settle before the counts return; one
// failing dispatch never affects another. Each failure is handed to the retry
// scheduler with attempt number 1.
func (e *Engine) DeliverEvent(ctx context.Context, event *models.Event) (delivered, failed int) {
	webhooks := e.registry.ActiveSubscribers(event.Type)
	if len(webhooks) == 0 {
		e.logger.Debug("No webhooks registered for event type",
			zap.String("event_type", event.Type),
			zap.Int64("event_id", event.ID),
		)
		return 0, 0
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.cfg.FanoutConcurrency)

	for _, webhook := range webhooks {
		webhook := webhook
		g.Go(func() error {
			outcome := e.attempt(ctx, event, webhook, 1)

			mu.Lock()
			if outcome.Success {
				delivered++
			} else {
				failed++
			}
			mu.Unlock()

			if !outcome.Success {
				e.scheduler.Schedule(event, webhook, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info("Event fan-out settled",
		zap.Int64("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.Int("delivered", delivered),
		zap.Int("failed", failed),
	)
	return delivered, failed
}

// Redeliver performs one delivery attempt on behalf of the retry scheduler or
// a manual requeue, recording it with the given audit attempt count.
func (e *Engine) Redeliver(ctx context.Context, event *models.Event, webhook *models.Webhook, attemptCount int) bool {
	return e.attempt(ctx, event, webhook, attemptCount).Success
}

// attempt posts to one webhook and appends exactly one audit record, success
// or failure.
func (e *Engine) attempt(ctx context.Context, event *models.Event, webhook *models.Webhook, attemptCount int) Outcome {
	outcome := e.post(ctx, event, webhook)

	status := models.DeliverySuccess
	errMsg := ""
	if !outcome.Success {
		status = models.DeliveryFailed
		if outcome.Err != nil {
			errMsg = outcome.Err.Error()
		}
		e.logger.Warn("Webhook delivery failed",
			zap.Int64("event_id", event.ID),
			zap.Int64("webhook_id", webhook.ID),
			zap.String("target_url", webhook.TargetURL),
			zap.Int("attempt_count", attemptCount),
			zap.Int("response_code", outcome.StatusCode),
			zap.String("error", errMsg),
		)
	}

	e.auditor.Append(event.ID, webhook.ID, status, attemptCount, outcome.StatusCode, errMsg)
	return outcome
}
