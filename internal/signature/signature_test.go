package signature

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"job_id":"j1"}`),
		[]byte(`{}`),
		[]byte(``),
		[]byte(`{"nested":{"a":[1,2,3]},"b":null}`),
	}
	secrets := []string{"s3cret", "another-secret", "0123456789abcdef"}

	for _, payload := range payloads {
		for _, secret := range secrets {
			sig := Sign(payload, secret)
			assert.True(t, Verify(payload, sig, secret))
		}
	}
}

func TestSignIsDeterministicBase64(t *testing.T) {
	payload := []byte(`{"a":1}`)
	sig := Sign(payload, "secret")

	assert.Equal(t, sig, Sign(payload, "secret"))

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)
	assert.Len(t, raw, 32) // SHA-256 digest
}

func TestVerifyRejectsTampering(t *testing.T) {
	payload := []byte(`{"job_id":"j1"}`)
	secret := "s3cret"
	sig := Sign(payload, secret)

	assert.False(t, Verify([]byte(`{"job_id":"j2"}`), sig, secret), "payload changed")
	assert.False(t, Verify(payload, sig, "wrong-secret"), "secret changed")
	assert.False(t, Verify(payload, sig+"A", secret), "signature changed")
	assert.False(t, Verify(payload, "", secret), "signature empty")
}
