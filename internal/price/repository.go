package price

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByBooking(ctx context.Context, bookingID string) (*Price, error) {
	const q = `
SELECT booking_id, amount::text, currency, locked, updated_at
FROM booking_prices
WHERE booking_id = $1
`
	return scan(r.db.QueryRow(ctx, q, bookingID))
}

func scan(row pgx.Row) (*Price, error) {
	p := &Price{}
	var amount string
	if err := row.Scan(&p.BookingID, &amount, &p.Currency, &p.Locked, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var err error
	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert writes the admin price. The WHERE clause on the conflict update
// makes a locked row immovable even at the SQL level, independent of the
// status checks above it.
func Upsert(ctx context.Context, tx pgx.Tx, bookingID string, amount decimal.Decimal, currency Currency) (*Price, error) {
	const q = `
INSERT INTO booking_prices (booking_id, amount, currency, locked)
VALUES ($1, $2, $3, FALSE)
ON CONFLICT (booking_id) DO UPDATE SET
  amount = EXCLUDED.amount,
  currency = EXCLUDED.currency,
  updated_at = NOW()
WHERE booking_prices.locked = FALSE
RETURNING booking_id, amount::text, currency, locked, updated_at
`
	p, err := scan(tx.QueryRow(ctx, q, bookingID, amount, string(currency)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Conflict update suppressed by the locked guard.
			return nil, ErrLocked
		}
		return nil, err
	}
	return p, nil
}

// Get reads the price inside the caller's transaction.
func Get(ctx context.Context, tx pgx.Tx, bookingID string) (*Price, error) {
	const q = `
SELECT booking_id, amount::text, currency, locked, updated_at
FROM booking_prices
WHERE booking_id = $1
`
	return scan(tx.QueryRow(ctx, q, bookingID))
}

// Exists reports whether an admin price has durably landed for the booking.
// Runs in the caller's transaction so the payment gate sees the same snapshot
// as the status read.
func Exists(ctx context.Context, tx pgx.Tx, bookingID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM booking_prices WHERE booking_id = $1)`
	var ok bool
	if err := tx.QueryRow(ctx, q, bookingID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Lock freezes the price. One-way in normal flow; there is deliberately no
// Unlock counterpart in this package.
func Lock(ctx context.Context, tx pgx.Tx, bookingID string) error {
	const q = `UPDATE booking_prices SET locked = TRUE, updated_at = NOW() WHERE booking_id = $1`
	_, err := tx.Exec(ctx, q, bookingID)
	return err
}
