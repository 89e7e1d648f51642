// Package cache provides the time-bounded lookup cache that sits in front of
// the webhook registry. Subscriber lists are cached per event type so high
// event volume does not rescan the registry; any mutation touching an event
// type invalidates its entry, and otherwise staleness is bounded by the TTL.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/marminbh/webhook-relay/internal/models"
)

// SubscriberCache caches active subscriber lists keyed by event type.
type SubscriberCache struct {
	lru *expirable.LRU[string, []*models.Webhook]
}

// New creates a cache holding up to size event types for at most ttl each.
func New(size int, ttl time.Duration) *SubscriberCache {
	return &SubscriberCache{
		lru: expirable.NewLRU[string, []*models.Webhook](size, nil, ttl),
	}
}

// Get returns the cached subscriber list for eventType. The second return is
// false on a miss or after expiry. An empty cached list is a valid hit.
func (c *SubscriberCache) Get(eventType string) ([]*models.Webhook, bool) {
	return c.lru.Get(eventType)
}

// Put stores the subscriber list for eventType.
func (c *SubscriberCache) Put(eventType string, webhooks []*models.Webhook) {
	c.lru.Add(eventType, webhooks)
}

// Invalidate drops the entry for eventType. Mutations call this before they
// are considered complete.
func (c *SubscriberCache) Invalidate(eventType string) {
	c.lru.Remove(eventType)
}

// Len reports how many event types are currently cached.
func (c *SubscriberCache) Len() int {
	return c.lru.Len()
}
