package store

import (
	"sync"
	"time"

	"github.com/marminbh/webhook-relay/internal/models"
)

// WebhookStore owns the set of webhook subscriptions. It is the source of
// truth behind the lookup cache.
type WebhookStore struct {
	mu       sync.RWMutex
	webhooks []*models.Webhook
	nextID   int64
}

func NewWebhookStore() *WebhookStore {
	return &WebhookStore{nextID: 1}
}

// Create stores a new active subscription. Secret must already be non-empty;
// the registry generates one when the caller supplied none.
func (s *WebhookStore) Create(eventType, targetURL, secret string) *models.Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	webhook := &models.Webhook{
		ID:        s.nextID,
		EventType: eventType,
		TargetURL: targetURL,
		Secret:    secret,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.webhooks = append(s.webhooks, webhook)
	return webhook
}

// GetByID returns a copy of the subscription or nil when unknown.
func (s *WebhookStore) GetByID(id int64) *models.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(id)
}

// GetAll returns all subscriptions in insertion order.
func (s *WebhookStore) GetAll() []*models.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Webhook, len(s.webhooks))
	for i, w := range s.webhooks {
		c := *w
		out[i] = &c
	}
	return out
}

// GetByEventType returns the active subscriptions for one event type.
func (s *WebhookStore) GetByEventType(eventType string) []*models.Webhook {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Webhook, 0)
	for _, w := range s.webhooks {
		if w.EventType == eventType && w.IsActive {
			c := *w
			out = append(out, &c)
		}
	}
	return out
}

// Update applies the non-nil fields of upd and refreshes UpdatedAt. Returns
// nil when the subscription does not exist.
func (s *WebhookStore) Update(id int64, upd models.WebhookUpdate) *models.Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.findMutable(id)
	if w == nil {
		return nil
	}
	if upd.EventType != nil {
		w.EventType = *upd.EventType
	}
	if upd.TargetURL != nil {
		w.TargetURL = *upd.TargetURL
	}
	if upd.Secret != nil {
		w.Secret = *upd.Secret
	}
	if upd.IsActive != nil {
		w.IsActive = *upd.IsActive
	}
	w.UpdatedAt = time.Now().UTC()
	c := *w
	return &c
}

// Delete removes the subscription. Returns false when it does not exist.
func (s *WebhookStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.webhooks {
		if w.ID == id {
			s.webhooks = append(s.webhooks[:i], s.webhooks[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleActive flips the active flag. Returns nil when the subscription does
// not exist.
func (s *WebhookStore) ToggleActive(id int64) *models.Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.findMutable(id)
	if w == nil {
		return nil
	}
	w.IsActive = !w.IsActive
	w.UpdatedAt = time.Now().UTC()
	c := *w
	return &c
}

// Count returns the total and active subscription counts.
func (s *WebhookStore) Count() (total, active int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total = len(s.webhooks)
	for _, w := range s.webhooks {
		if w.IsActive {
			active++
		}
	}
	return total, active
}

func (s *WebhookStore) find(id int64) *models.Webhook {
	w := s.findMutable(id)
	if w == nil {
		return nil
	}
	c := *w
	return &c
}

func (s *WebhookStore) findMutable(id int64) *models.Webhook {
	for _, w := range s.webhooks {
		if w.ID == id {
			return w
		}
	}
	return nil
}
