// Package webhook verifies and parses identity-provider webhook
// deliveries. Verification must happen on the raw body before any
// parsing; parsing yields a typed event after a schema shape check.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Sign computes the base64-encoded HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches HMAC-SHA256(body, secret)
// in base64, using a constant-time comparison.
func Verify(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
