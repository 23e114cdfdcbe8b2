package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbook/internal/api"
	"tourbook/internal/audit"
	"tourbook/internal/events"
	"tourbook/internal/workflow"
	"tourbook/pkg/db"
)

// TransitionOpts customizes one Apply call.
type TransitionOpts struct {
	// Actor is recorded on the audit log and event timeline.
	Actor string
	// Guard runs after the row lock with the freshly read record. Returning
	// an error refuses the transition before anything is written.
	Guard func(b *Booking) error
	// OnApplied runs inside the same transaction after the status write, for
	// action-specific side effects (locking the price, storing the resource).
	OnApplied func(tx pgx.Tx, b *Booking, next workflow.Status) error
}

// Apply validates and persists one workflow action against a booking, all
// inside a single transaction: row lock, guard, validation, compare-and-set
// status write, audit log and timeline event. This is the only code path that
// writes the status column — every HTTP handler funnels through it, so the
// server-side rule table is consulted on every mutation no matter what any
// client already checked.
func Apply(ctx context.Context, pool *pgxpool.Pool, id string, action workflow.Action, opts TransitionOpts) (*Booking, error) {
	var out *Booking
	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		b, err := GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if opts.Guard != nil {
			if err := opts.Guard(b); err != nil {
				return err
			}
		}

		next, err := workflow.Validate(b.Status, action)
		if err != nil {
			return err
		}

		// The row lock makes a lost update impossible, but the write is still
		// keyed on the observed status so the invariant holds even for code
		// paths that skip the lock.
		if err := UpdateStatusCAS(ctx, tx, b.ID, b.Status, next); err != nil {
			return err
		}

		from := b.Status
		b.Status = next

		meta := map[string]any{"from": from, "to": next, "action": action}
		bid := b.ID
		if err := audit.Insert(ctx, tx, &bid, "STATUS_CHANGED", opts.Actor, meta); err != nil {
			return err
		}
		if err := events.Insert(ctx, tx, b.ID, "STATUS_CHANGED", "Status changed to "+string(next), opts.Actor, time.Now(), meta); err != nil {
			return err
		}

		if opts.OnApplied != nil {
			if err := opts.OnApplied(tx, b, next); err != nil {
				return err
			}
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WriteTransitionError maps an Apply failure onto the JSON error envelope.
// Every rejection is recoverable at the call site; nothing here is fatal.
func WriteTransitionError(w http.ResponseWriter, err error) {
	var rej *workflow.Rejection
	switch {
	case errors.As(err, &rej):
		switch rej.Reason {
		case workflow.ReasonUnknownAction:
			api.WriteError(w, http.StatusBadRequest, string(rej.Reason), rej.Error())
		default:
			api.WriteError(w, http.StatusConflict, string(rej.Reason), rej.Error())
		}
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, ErrStatusConflict):
		api.WriteError(w, http.StatusConflict, "STATUS_CONFLICT", "booking changed concurrently, re-fetch and retry")
	default:
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
