// Package audit is the query and bookkeeping surface over the delivery log:
// it appends attempt records for the delivery engine, enriches them with the
// event and webhook they reference, aggregates dashboard statistics, and
// handles the operator-triggered requeue.
package audit

import (
	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/models"
	"github.com/marminbh/webhook-relay/internal/store"
)

type Auditor struct {
	logs     *store.DeliveryLogStore
	events   *store.EventStore
	webhooks *store.WebhookStore
	logger   *zap.Logger
}

func New(logs *store.DeliveryLogStore, events *store.EventStore, webhooks *store.WebhookStore, logger *zap.Logger) *Auditor {
	return &Auditor{
		logs:     logs,
		events:   events,
		webhooks: webhooks,
		logger:   logger,
	}
}

// Append records one delivery attempt. Fan-out and retry chains call this
// concurrently; the underlying store serializes writers.
func (a *Auditor) Append(eventID, webhookID int64, status models.DeliveryStatus, attemptCount, responseCode int, errorMessage string) *models.DeliveryLog {
	log := a.logs.Append(eventID, webhookID, status, attemptCount, responseCode, errorMessage)

	a.logger.Debug("Delivery attempt recorded",
		zap.Int64("log_id", log.ID),
		zap.Int64("event_id", eventID),
		zap.Int64("webhook_id", webhookID),
		zap.String("status", string(status)),
		zap.Int("attempt_count", attemptCount),
		zap.Int("response_code", responseCode),
	)
	return log
}

// ByEvent returns every attempt for one event, enriched with the webhook
// target and event type.
func (a *Auditor) ByEvent(eventID int64) []*models.EnrichedDeliveryLog {
	return a.enrich(a.logs.GetByEventID(eventID))
}

// Recent returns a page of attempts in insertion order, enriched.
func (a *Auditor) Recent(limit, offset int) []*models.EnrichedDeliveryLog {
	return a.enrich(a.logs.GetAll(limit, offset))
}

// GetLog returns one raw record or nil.
func (a *Auditor) GetLog(id int64) *models.DeliveryLog {
	return a.logs.GetByID(id)
}

// Requeue flips a failed attempt to pending and bumps its count. Returns
// store.ErrLogNotFound or store.ErrAlreadySucceeded when the edit is rejected.
func (a *Auditor) Requeue(id int64) (*models.DeliveryLog, error) {
	log, err := a.logs.Requeue(id)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Delivery attempt requeued",
		zap.Int64("log_id", log.ID),
		zap.Int("attempt_count", log.AttemptCount),
	)
	return log, nil
}

// Stats aggregates the dashboard snapshot by full scan over the in-memory
// stores; a persistent implementation would keep running counters instead.
func (a *Auditor) Stats() models.Stats {
	var stats models.Stats
	stats.Events.Total = a.events.Count()
	stats.Webhooks.Total, stats.Webhooks.Active = a.webhooks.Count()
	stats.Deliveries.Successful, stats.Deliveries.Failed = a.logs.CountByStatus()
	return stats
}

func (a *Auditor) enrich(logs []*models.DeliveryLog) []*models.EnrichedDeliveryLog {
	out := make([]*models.EnrichedDeliveryLog, 0, len(logs))
	for _, log := range logs {
		e := &models.EnrichedDeliveryLog{DeliveryLog: *log}
		if event := a.events.GetByID(log.EventID); event != nil {
			e.EventType = event.Type
			e.EventExternalID = event.ExternalID
		}
		if webhook := a.webhooks.GetByID(log.WebhookID); webhook != nil {
			e.TargetURL = webhook.TargetURL
		}
		out = append(out, e)
	}
	return out
}
