package price

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tourbook/internal/api"
	"tourbook/internal/audit"
	"tourbook/internal/booking"
	"tourbook/internal/events"
	"tourbook/internal/workflow"
	"tourbook/pkg/db"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Prices   *Repository
	Bookings *booking.Repository
}

type SetPriceRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// SetPrice writes the authoritative payable amount for a booking. Admin only.
// The price is editable through the whole pre-payment family (including
// awaiting_payment, for a last-moment correction); the first successful write
// also drives the set_price transition when the booking is still pending or
// under review.
func (h Handlers) SetPrice(w http.ResponseWriter, r *http.Request) {
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

	var req SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "amount must be a positive decimal")
		return
	}
	currency, err := ParseCurrency(req.Currency)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid currency")
		return
	}

	var out *Price
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		b, err := booking.GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}

		if !workflow.CanEditPrice(b.Status) {
			api.WriteError(w, http.StatusConflict, "PRICE_LOCKED", "price can no longer be edited")
			return pgx.ErrTxCommitRollback
		}

		// The price record must land before the status moves: the payment
		// gate requires both, in that order.
		p, err := Upsert(r.Context(), tx, b.ID, amount, currency)
		if err != nil {
			return err
		}

		if next, verr := workflow.Validate(b.Status, workflow.ActionSetPrice); verr == nil {
			if err := booking.UpdateStatusCAS(r.Context(), tx, b.ID, b.Status, next); err != nil {
				return err
			}
		}
		// Already price_set or awaiting_payment: amount updated in place,
		// no status change.

		actorTag := "admin:" + actor.ID
		bid := b.ID
		meta := map[string]any{"amount": amount.String(), "currency": currency}
		if err := audit.Insert(r.Context(), tx, &bid, "PRICE_SET", actorTag, meta); err != nil {
			return err
		}
		if err := events.Insert(r.Context(), tx, b.ID, "PRICE_SET", "Price set to "+amount.StringFixed(2)+" "+string(currency), actorTag, time.Now(), meta); err != nil {
			return err
		}

		out = p
		return nil
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		switch {
		case errors.Is(err, booking.ErrNotFound):
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		case errors.Is(err, ErrLocked):
			api.WriteError(w, http.StatusConflict, "PRICE_LOCKED", "price can no longer be edited")
		default:
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, out)
}

// Get returns the current admin price for a booking.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
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

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}
	if actor.Role != api.RoleAdmin && b.CustomerID != actor.ID {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}

	p, err := h.Prices.GetByBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no price set yet")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, p)
}
