package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifyWebhook verifies a capture webhook signature using the shared secret.
// Signature header is base64(HMAC_SHA256(body)).
func VerifyWebhook(body []byte, sigHeader string, secret string) bool {
	if sigHeader == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sigHeader))
}

// Sign computes the signature a provider would attach to body. Used by the
// dev capture simulator and by handler tests.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
