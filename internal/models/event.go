package models

import (
	"encoding/json"
	"time"
)

// Event is a single producer-reported occurrence. ExternalID is the
// producer-chosen identifier used for idempotent intake; ID is assigned by the
// event store. Events are immutable once created.
type Event struct {
	ID         int64           `json:"id"`
	ExternalID string          `json:"event_id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}
