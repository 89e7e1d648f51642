package models

import "time"

// DeliveryStatus is the outcome recorded for one delivery attempt.
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
	// DeliveryPending marks a failed attempt an operator has requeued for
	// redelivery. It is never written by the automatic pipeline.
	DeliveryPending DeliveryStatus = "pending"
)

// DeliveryLog is one audit record per delivery attempt (initial or retry) of
// one event to one webhook. Records are append-only; the single sanctioned
// in-place mutation is the operator requeue of a failed attempt.
type DeliveryLog struct {
	ID           int64          `json:"id"`
	EventID      int64          `json:"event_id"`
	WebhookID    int64          `json:"webhook_id"`
	Status       DeliveryStatus `json:"status"`
	AttemptCount int            `json:"attempt_count"`
	// ResponseCode is 0 when no HTTP response was received.
	ResponseCode int       `json:"response_code"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EnrichedDeliveryLog is a DeliveryLog joined with the event and webhook it
// references, as served by the audit query surface.
type EnrichedDeliveryLog struct {
	DeliveryLog
	EventType       string `json:"event_type,omitempty"`
	EventExternalID string `json:"external_event_id,omitempty"`
	TargetURL       string `json:"target_url,omitempty"`
}

// Stats is the aggregate snapshot served by the dashboard.
type Stats struct {
	Events struct {
		Total int `json:"total"`
	} `json:"events"`
	Webhooks struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"webhooks"`
	Deliveries struct {
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	} `json:"deliveries"`
}
