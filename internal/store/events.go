// Package store holds the mutex-guarded in-memory repositories backing the
// relay: ingested events, webhook subscriptions and the delivery audit log.
// Each repository is an owned object injected into the components that need
// it; there is no package-level state.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/marminbh/webhook-relay/internal/models"
)

// EventStore owns the set of ingested events and enforces idempotency on the
// producer-supplied external id.
type EventStore struct {
	mu      sync.RWMutex
	events  []*models.Event
	byExtID map[string]*models.Event
	byID    map[int64]*models.Event
	nextID  int64
}

func NewEventStore() *EventStore {
	return &EventStore{
		byExtID: make(map[string]*models.Event),
		byID:    make(map[int64]*models.Event),
		nextID:  1,
	}
}

// Create stores a new event and returns it. Returns nil when an event with the
// same external id already exists; the duplicate intake is a no-op.
func (s *EventStore) Create(externalID, eventType string, payload json.RawMessage) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byExtID[externalID]; exists {
		return nil
	}

	event := &models.Event{
		ID:         s.nextID,
		ExternalID: externalID,
		Type:       eventType,
		Payload:    payload,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextID++
	s.events = append(s.events, event)
	s.byExtID[externalID] = event
	s.byID[event.ID] = event
	return event
}

// GetByID returns the event or nil when unknown.
func (s *EventStore) GetByID(id int64) *models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// GetByType returns up to limit events of the given type in insertion order.
func (s *EventStore) GetByType(eventType string, limit int) []*models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Event, 0)
	for _, e := range s.events {
		if e.Type != eventType {
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// GetAll returns a page of events in insertion order.
func (s *EventStore) GetAll(limit, offset int) []*models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.events) {
		return []*models.Event{}
	}
	end := offset + limit
	if end > len(s.events) {
		end = len(s.events)
	}
	out := make([]*models.Event, end-offset)
	copy(out, s.events[offset:end])
	return out
}

// Count returns the number of stored events.
func (s *EventStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
