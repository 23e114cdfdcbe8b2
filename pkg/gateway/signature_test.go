package gateway

import "testing"

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"reference":"bk-1","amount":"120.00"}`)
	secret := "whsec_test"

	sig := Sign(body, secret)
	if !VerifyWebhook(body, sig, secret) {
		t.Fatal("expected signature to verify")
	}
	if VerifyWebhook(body, sig, "other-secret") {
		t.Fatal("expected verification to fail with wrong secret")
	}
	if VerifyWebhook([]byte(`{"reference":"bk-2"}`), sig, secret) {
		t.Fatal("expected verification to fail for tampered body")
	}
	if VerifyWebhook(body, "", secret) {
		t.Fatal("expected verification to fail with empty signature")
	}
	if VerifyWebhook(body, sig, "") {
		t.Fatal("expected verification to fail with empty secret")
	}
}
