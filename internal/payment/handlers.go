package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbook/internal/api"
	"tourbook/internal/audit"
	"tourbook/internal/booking"
	"tourbook/internal/events"
	"tourbook/internal/price"
	"tourbook/internal/workflow"
	"tourbook/pkg/config"
	"tourbook/pkg/db"
	"tourbook/pkg/gateway"
)

// SignatureHeader carries the provider's HMAC over the webhook body.
const SignatureHeader = "X-Gateway-Signature"

type Handlers struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Gateway  gateway.Client
	Bookings *booking.Repository
}

// Checkout opens a hosted checkout session for a booking awaiting payment.
// The capture itself arrives later on the webhook; this endpoint only hands
// the customer to the provider, and only when the payment gate already holds.
func (h Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var resp any
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := booking.GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if b.CustomerID != actor.ID {
			return booking.ErrNotFound
		}

		p, err := price.Get(r.Context(), tx, b.ID)
		hasPrice := err == nil
		if err != nil && !errors.Is(err, price.ErrNotFound) {
			return err
		}

		if !workflow.CanAcceptPayment(b.Status, hasPrice) {
			api.WriteError(w, http.StatusConflict, "PAYMENT_NOT_AUTHORIZED", "booking is not payable")
			return pgx.ErrTxCommitRollback
		}

		session, err := h.Gateway.CreateCheckoutSession(r.Context(), b.ID, p.Amount.StringFixed(2), string(p.Currency))
		if err != nil {
			return err
		}

		bid := b.ID
		actorTag := "customer:" + actor.ID
		meta := map[string]any{"sessionId": session.SessionID}
		_ = audit.Insert(r.Context(), tx, &bid, "CHECKOUT_OPENED", actorTag, meta)
		_ = events.Insert(r.Context(), tx, b.ID, "CHECKOUT_OPENED", "Checkout opened", actorTag, time.Now(), meta)

		resp = map[string]any{"sessionId": session.SessionID, "checkoutUrl": session.CheckoutURL}
		return nil
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		if errors.Is(err, booking.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type captureEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// captureDisposition classifies a capture notification against the
// booking's current state.
type captureDisposition int

const (
	// Apply the pay transition and lock the price.
	captureApply captureDisposition = iota
	// Redelivery of a capture already applied: acknowledge, change nothing.
	captureAlreadyProcessed
	// Booking is not payable and this session was not flagged yet: record
	// the refund marker and refuse.
	captureRefundFlag
	// Redelivery of a refused capture: the refund marker is already
	// durable, acknowledge so the provider stops retrying.
	captureRefundAcknowledged
)

func classifyCapture(status workflow.Status, hasPrice, alreadyFlagged bool) captureDisposition {
	if status.IsPostPayment() || status == workflow.StatusCompleted {
		return captureAlreadyProcessed
	}
	if workflow.CanAcceptPayment(status, hasPrice) {
		return captureApply
	}
	if alreadyFlagged {
		return captureRefundAcknowledged
	}
	return captureRefundFlag
}

// refundFlagged reports whether this provider session already produced a
// refund marker for the booking.
func refundFlagged(ctx context.Context, tx pgx.Tx, bookingID, sessionID string) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1 FROM booking_events
    WHERE booking_id = $1 AND event_type = 'REFUND_REQUIRED' AND data->>'sessionId' = $2
)
`
	var exists bool
	if err := tx.QueryRow(ctx, q, bookingID, sessionID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Webhook handles capture notifications from the payment provider. This is
// the authoritative pay transition: the client may have validated whatever it
// liked, the gate and the transition table are re-checked here, under the row
// lock, before any money-flagging write happens.
func (h Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unreadable body")
		return
	}
	if !gateway.VerifyWebhook(body, r.Header.Get(SignatureHeader), h.Cfg.Gateway.WebhookSecret) {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid signature")
		return
	}

	var ev captureEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.Reference == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid payload")
		return
	}
	if ev.Type != "payment.captured" {
		// Not ours; acknowledge so the provider stops retrying.
		w.WriteHeader(http.StatusOK)
		return
	}

	flagged := false
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := booking.GetForUpdate(r.Context(), tx, ev.Reference)
		if err != nil {
			return err
		}

		hasPrice, err := price.Exists(r.Context(), tx, b.ID)
		if err != nil {
			return err
		}
		already, err := refundFlagged(r.Context(), tx, b.ID, ev.SessionID)
		if err != nil {
			return err
		}

		switch classifyCapture(b.Status, hasPrice, already) {
		case captureAlreadyProcessed, captureRefundAcknowledged:
			w.WriteHeader(http.StatusOK)
			return pgx.ErrTxCommitRollback
		case captureRefundFlag:
			// Money moved at the provider but this booking is not payable.
			// Flag loudly for the refund path; never swallow. Keyed to the
			// provider session so a redelivery is acknowledged instead of
			// flagged again.
			bid := b.ID
			meta := map[string]any{
				"sessionId": ev.SessionID,
				"amount":    ev.Amount,
				"currency":  ev.Currency,
				"status":    b.Status,
				"hasPrice":  hasPrice,
			}
			if err := audit.Insert(r.Context(), tx, &bid, "REFUND_REQUIRED", "gateway", meta); err != nil {
				return err
			}
			if err := events.Insert(r.Context(), tx, b.ID, "REFUND_REQUIRED", "Unauthorized capture, refund required", "gateway", time.Now(), meta); err != nil {
				return err
			}
			// Return nil so the transaction commits: a rollback would swallow
			// the refund marker along with the refusal.
			flagged = true
			return nil
		}

		next, err := workflow.Validate(b.Status, workflow.ActionPay)
		if err != nil {
			return err
		}
		if err := booking.UpdateStatusCAS(r.Context(), tx, b.ID, b.Status, next); err != nil {
			return err
		}
		// The admin price freezes the moment money is captured.
		if err := price.Lock(r.Context(), tx, b.ID); err != nil {
			return err
		}

		bid := b.ID
		meta := map[string]any{"sessionId": ev.SessionID, "amount": ev.Amount, "currency": ev.Currency, "from": b.Status, "to": next}
		if err := audit.Insert(r.Context(), tx, &bid, "PAYMENT_CAPTURED", "gateway", meta); err != nil {
			return err
		}
		return events.Insert(r.Context(), tx, b.ID, "PAYMENT_CAPTURED", "Payment captured", "gateway", time.Now(), meta)
	})
	if err != nil {
		switch {
		case err == pgx.ErrTxCommitRollback:
			return
		case errors.Is(err, booking.ErrNotFound):
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown booking reference")
		default:
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		}
		return
	}
	if flagged {
		api.WriteError(w, http.StatusConflict, "PAYMENT_NOT_AUTHORIZED", "capture not authorized, refund flagged")
		return
	}

	w.WriteHeader(http.StatusOK)
}
