package models

import "time"

// Webhook is a registered interest in events of one type, naming the target
// URL and the symmetric secret used to sign deliveries. Secret is never empty;
// the registry generates one when the caller supplies none.
type Webhook struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	TargetURL string    `json:"target_url"`
	Secret    string    `json:"secret"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WebhookUpdate carries a partial update; nil fields are left unchanged.
type WebhookUpdate struct {
	EventType *string `json:"event_type"`
	TargetURL *string `json:"target_url"`
	Secret    *string `json:"secret"`
	IsActive  *bool   `json:"is_active"`
}
