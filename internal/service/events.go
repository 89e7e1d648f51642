// Package service implements event intake and the read-side event queries.
// Intake is the idempotency boundary: a duplicate external id is a defined
// no-op, and a freshly stored event is handed to the dispatcher so delivery
// runs decoupled from the intake caller.
package service

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/dispatcher"
	"github.com/marminbh/webhook-relay/internal/models"
	"github.com/marminbh/webhook-relay/internal/store"
)

type EventService struct {
	events     *store.EventStore
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
}

func NewEventService(events *store.EventStore, d *dispatcher.Dispatcher, logger *zap.Logger) *EventService {
	return &EventService{
		events:     events,
		dispatcher: d,
		logger:     logger,
	}
}

// Intake stores a new event and enqueues its delivery, returning the created
// event. Returns nil when the external id was already seen; duplicate intake
// mutates nothing and triggers no delivery.
func (s *EventService) Intake(externalID, eventType string, payload json.RawMessage) *models.Event {
	event := s.events.Create(externalID, eventType, payload)
	if event == nil {
		s.logger.Info("Duplicate event ignored",
			zap.String("external_id", externalID),
			zap.String("event_type", eventType),
		)
		return nil
	}

	s.logger.Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.String("external_id", externalID),
		zap.String("event_type", eventType),
	)

	if err := s.dispatcher.Enqueue(event); err != nil {
		// The event is stored; only its delivery was lost. Surfaced through
		// the audit trail by absence of attempts.
		s.logger.Error("Failed to enqueue event for delivery",
			zap.Int64("event_id", event.ID),
			zap.Error(err),
		)
	}
	return event
}

// GetByID returns one event or nil.
func (s *EventService) GetByID(id int64) *models.Event {
	return s.events.GetByID(id)
}

// GetByType returns up to limit events of one type in insertion order.
func (s *EventService) GetByType(eventType string, limit int) []*models.Event {
	return s.events.GetByType(eventType, limit)
}

// GetAll returns a page of events in insertion order.
func (s *EventService) GetAll(limit, offset int) []*models.Event {
	return s.events.GetAll(limit, offset)
}
