package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/marminbh/webhook-relay/internal/models"
	"github.com/marminbh/webhook-relay/internal/signature"
)

// Outbound headers carried alongside the signed body so recipients can verify
// authenticity without altering the bytes the signature covers.
const (
	HeaderSignature  = "X-Relay-Signature"
	HeaderEventType  = "X-Relay-Event-Type"
	HeaderEventID    = "X-Relay-Event-Id"
	HeaderTimestamp  = "X-Relay-Timestamp"
	HeaderDeliveryID = "X-Relay-Delivery"
)

// drainLimit caps how much of a subscriber's response body is read before the
// connection is released for reuse.
const drainLimit = 64 << 10

// Outcome is the result of one outbound POST. StatusCode is 0 when no HTTP
// response was received.
type Outcome struct {
	Success    bool
	StatusCode int
	Err        error
}

// post sends the signed payload to the webhook's target URL. The body is the
// exact stored payload bytes; the signature covers those same bytes.
func (e *Engine) post(ctx context.Context, event *models.Event, webhook *models.Webhook) Outcome {
	body := []byte(event.Payload)
	sig := signature.Sign(body, webhook.Secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.TargetURL, bytes.NewReader(body))
	if err != nil {
		return Outcome{Err: fmt.Errorf("failed to build delivery request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderSignature, sig)
	req.Header.Set(HeaderEventType, event.Type)
	req.Header.Set(HeaderEventID, event.ExternalID)
	req.Header.Set(HeaderTimestamp, time.Now().UTC().Format(time.RFC3339))
	req.Header.Set(HeaderDeliveryID, uuid.NewString())

	resp, err := e.client.Do(req)
	if err != nil {
		return Outcome{Err: fmt.Errorf("delivery request failed: %w", err)}
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Outcome{Success: true, StatusCode: resp.StatusCode}
	}
	return Outcome{StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
}
