package store

import (
	"errors"
	"sync"
	"time"

	"github.com/marminbh/webhook-relay/internal/models"
)

var (
	// ErrLogNotFound addresses a delivery log id that does not exist.
	ErrLogNotFound = errors.New("delivery log not found")
	// ErrAlreadySucceeded rejects requeueing an attempt that already succeeded.
	ErrAlreadySucceeded = errors.New("delivery already successful")
)

// DeliveryLogStore owns the append-only audit trail of delivery attempts.
// Append and read are safe for the concurrent writers produced by fan-out and
// retry chains.
type DeliveryLogStore struct {
	mu     sync.RWMutex
	logs   []*models.DeliveryLog
	nextID int64
}

func NewDeliveryLogStore() *DeliveryLogStore {
	return &DeliveryLogStore{nextID: 1}
}

// Append records one delivery attempt.
func (s *DeliveryLogStore) Append(eventID, webhookID int64, status models.DeliveryStatus, attemptCount, responseCode int, errorMessage string) *models.DeliveryLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	log := &models.DeliveryLog{
		ID:           s.nextID,
		EventID:      eventID,
		WebhookID:    webhookID,
		Status:       status,
		AttemptCount: attemptCount,
		ResponseCode: responseCode,
		ErrorMessage: errorMessage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextID++
	s.logs = append(s.logs, log)
	c := *log
	return &c
}

// GetByID returns a copy of one record.
func (s *DeliveryLogStore) GetByID(id int64) *models.DeliveryLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.logs {
		if l.ID == id {
			c := *l
			return &c
		}
	}
	return nil
}

// GetByEventID returns every attempt recorded for one event, in insertion order.
func (s *DeliveryLogStore) GetByEventID(eventID int64) []*models.DeliveryLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.DeliveryLog, 0)
	for _, l := range s.logs {
		if l.EventID == eventID {
			c := *l
			out = append(out, &c)
		}
	}
	return out
}

// GetAll returns a page of records in insertion order.
func (s *DeliveryLogStore) GetAll(limit, offset int) []*models.DeliveryLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if offset >= len(s.logs) {
		return []*models.DeliveryLog{}
	}
	end := offset + limit
	if end > len(s.logs) {
		end = len(s.logs)
	}
	out := make([]*models.DeliveryLog, 0, end-offset)
	for _, l := range s.logs[offset:end] {
		c := *l
		out = append(out, &c)
	}
	return out
}

// Requeue is the one sanctioned in-place mutation: it flips a non-successful
// record to pending and bumps its attempt count so an operator can trigger
// redelivery outside the automatic backoff window.
func (s *DeliveryLogStore) Requeue(id int64) (*models.DeliveryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.logs {
		if l.ID != id {
			continue
		}
		if l.Status == models.DeliverySuccess {
			return nil, ErrAlreadySucceeded
		}
		l.AttemptCount++
		l.Status = models.DeliveryPending
		l.UpdatedAt = time.Now().UTC()
		c := *l
		return &c, nil
	}
	return nil, ErrLogNotFound
}

// CountByStatus returns how many records carry each terminal status.
func (s *DeliveryLogStore) CountByStatus() (successful, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.logs {
		switch l.Status {
		case models.DeliverySuccess:
			successful++
		case models.DeliveryFailed:
			failed++
		}
	}
	return successful, failed
}
