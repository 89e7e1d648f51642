// Package registry owns webhook subscription management: CRUD plus the
// cache-aware subscriber lookup the delivery engine reads. Every mutation
// invalidates the lookup cache for the affected event types before returning,
// so cached membership is stale for at most the cache TTL.
package registry

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/marminbh/webhook-relay/internal/cache"
	"github.com/marminbh/webhook-relay/internal/models"
	"github.com/marminbh/webhook-relay/internal/store"
)

const secretBytes = 32

type Registry struct {
	webhooks *store.WebhookStore
	cache    *cache.SubscriberCache
	logger   *zap.Logger
}

func New(webhooks *store.WebhookStore, subscriberCache *cache.SubscriberCache, logger *zap.Logger) *Registry {
	return &Registry{
		webhooks: webhooks,
		cache:    subscriberCache,
		logger:   logger,
	}
}

// Create registers a subscription. When secret is empty a cryptographically
// random one is generated; subscriptions never carry an empty secret.
func (r *Registry) Create(eventType, targetURL, secret string) (*models.Webhook, error) {
	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate webhook secret: %w", err)
		}
		secret = generated
	}

	webhook := r.webhooks.Create(eventType, targetURL, secret)
	r.cache.Invalidate(eventType)

	r.logger.Info("Webhook subscription created",
		zap.Int64("webhook_id", webhook.ID),
		zap.String("event_type", eventType),
		zap.String("target_url", targetURL),
	)
	return webhook, nil
}

// Update applies a partial update and invalidates the cache for both the
// previous and the new event type. Returns nil when the id is unknown.
func (r *Registry) Update(id int64, upd models.WebhookUpdate) *models.Webhook {
	before := r.webhooks.GetByID(id)
	if before == nil {
		return nil
	}

	webhook := r.webhooks.Update(id, upd)
	if webhook == nil {
		return nil
	}

	r.cache.Invalidate(before.EventType)
	if webhook.EventType != before.EventType {
		r.cache.Invalidate(webhook.EventType)
	}

	r.logger.Info("Webhook subscription updated",
		zap.Int64("webhook_id", id),
		zap.String("event_type", webhook.EventType),
	)
	return webhook
}

// Delete removes a subscription. Returns false when the id is unknown.
func (r *Registry) Delete(id int64) bool {
	webhook := r.webhooks.GetByID(id)
	if webhook == nil {
		return false
	}
	if !r.webhooks.Delete(id) {
		return false
	}
	r.cache.Invalidate(webhook.EventType)

	r.logger.Info("Webhook subscription deleted",
		zap.Int64("webhook_id", id),
		zap.String("event_type", webhook.EventType),
	)
	return true
}

// ToggleActive flips the active flag. Returns nil when the id is unknown.
func (r *Registry) ToggleActive(id int64) *models.Webhook {
	webhook := r.webhooks.ToggleActive(id)
	if webhook == nil {
		return nil
	}
	r.cache.Invalidate(webhook.EventType)

	r.logger.Info("Webhook subscription toggled",
		zap.Int64("webhook_id", id),
		zap.Bool("is_active", webhook.IsActive),
	)
	return webhook
}

// ActiveSubscribers resolves the active subscriptions for eventType through
// the lookup cache, falling back to the store and repopulating on a miss.
func (r *Registry) ActiveSubscribers(eventType string) []*models.Webhook {
	if cached, ok := r.cache.Get(eventType); ok {
		return cached
	}

	webhooks := r.webhooks.GetByEventType(eventType)
	r.cache.Put(eventType, webhooks)
	return webhooks
}

// GetByID returns one subscription or nil.
func (r *Registry) GetByID(id int64) *models.Webhook {
	return r.webhooks.GetByID(id)
}

// GetAll returns every subscription, active or not.
func (r *Registry) GetAll() []*models.Webhook {
	return r.webhooks.GetAll()
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
