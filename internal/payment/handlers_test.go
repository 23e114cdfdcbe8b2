package payment

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/internal/workflow"
	"tourbook/pkg/config"
	"tourbook/pkg/gateway"
)

func webhookRequest(t *testing.T, body []byte, secret string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payments", bytes.NewReader(body))
	if secret != "" {
		req.Header.Set(SignatureHeader, gateway.Sign(body, secret))
	}
	return req
}

func TestWebhook_RejectsMissingSignature(t *testing.T) {
	h := Handlers{Cfg: config.Config{Gateway: config.GatewayConfig{WebhookSecret: "whsec"}}}

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(t, []byte(`{"type":"payment.captured","reference":"b1"}`), ""))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestWebhook_RejectsWrongSecret(t *testing.T) {
	h := Handlers{Cfg: config.Config{Gateway: config.GatewayConfig{WebhookSecret: "whsec"}}}

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(t, []byte(`{"type":"payment.captured","reference":"b1"}`), "other"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestWebhook_RejectsPayloadWithoutReference(t *testing.T) {
	h := Handlers{Cfg: config.Config{Gateway: config.GatewayConfig{WebhookSecret: "whsec"}}}

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(t, []byte(`{"type":"payment.captured"}`), "whsec"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// A capture may be delivered more than once. The first unauthorized capture
// for a session is flagged and refused; every redelivery of the same session
// must be acknowledged without minting another refund marker, so the
// provider's retry loop terminates.
func TestClassifyCapture(t *testing.T) {
	cases := []struct {
		name           string
		status         workflow.Status
		hasPrice       bool
		alreadyFlagged bool
		want           captureDisposition
	}{
		{"payable booking applies", workflow.StatusAwaitingPayment, true, false, captureApply},
		{"awaiting payment without price is flagged", workflow.StatusAwaitingPayment, false, false, captureRefundFlag},
		{"pre-payment status is flagged", workflow.StatusPending, true, false, captureRefundFlag},
		{"cancelled booking is flagged", workflow.StatusCancelled, true, false, captureRefundFlag},
		{"flagged session redelivery is acknowledged", workflow.StatusPending, true, true, captureRefundAcknowledged},
		{"flagged cancelled redelivery is acknowledged", workflow.StatusCancelled, true, true, captureRefundAcknowledged},
		{"paid redelivery is acknowledged", workflow.StatusPaid, true, false, captureAlreadyProcessed},
		{"completed redelivery is acknowledged", workflow.StatusCompleted, true, false, captureAlreadyProcessed},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCapture(tt.status, tt.hasPrice, tt.alreadyFlagged)
			if got != tt.want {
				t.Fatalf("classifyCapture(%s, hasPrice=%t, flagged=%t) = %d, want %d",
					tt.status, tt.hasPrice, tt.alreadyFlagged, got, tt.want)
			}
		})
	}
}

// Unknown event types are acknowledged so the provider stops retrying, and
// nothing downstream runs.
func TestWebhook_AcknowledgesUnknownEventType(t *testing.T) {
	h := Handlers{Cfg: config.Config{Gateway: config.GatewayConfig{WebhookSecret: "whsec"}}}

	w := httptest.NewRecorder()
	h.Webhook(w, webhookRequest(t, []byte(`{"type":"payment.refunded","reference":"b1"}`), "whsec"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
