// Package signature computes the HMAC-SHA256 signatures carried on outbound
// deliveries. Recipients recompute the MAC over the exact received body bytes
// and compare in constant time.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign returns the base64-encoded HMAC-SHA256 of payload keyed by secret.
// Deterministic; an empty secret is the caller's precondition to reject.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature for payload and compares it against sig in
// constant time.
func Verify(payload []byte, sig string, secret string) bool {
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(sig), []byte(expected))
}
