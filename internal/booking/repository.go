package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbook/internal/workflow"
)

const bookingColumns = `
id, reference, customer_id, service_type, COALESCE(details,''), COALESCE(resource_id::text,''), status, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	if err := row.Scan(
		&b.ID, &b.Reference, &b.CustomerID, &b.ServiceType, &b.Details, &b.ResourceID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *Repository) Create(ctx context.Context, customerID string, serviceType ServiceType, details string) (*Booking, error) {
	const q = `
INSERT INTO bookings (customer_id, service_type, details, status)
VALUES ($1, $2, $3, $4)
RETURNING ` + bookingColumns
	return scanBooking(r.db.QueryRow(ctx, q, customerID, string(serviceType), details, string(workflow.StatusDraft)))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, q, id))
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID string) ([]Booking, error) {
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE customer_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, customerID)
}

// List returns all bookings, optionally filtered by status. Admin only.
func (r *Repository) List(ctx context.Context, status workflow.Status) ([]Booking, error) {
	if status != "" {
		const q = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE status = $1
ORDER BY created_at DESC
`
		return r.list(ctx, q, string(status))
	}
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
ORDER BY created_at DESC
`
	return r.list(ctx, q)
}

// ListByResource returns bookings assigned to a driver/guide.
func (r *Repository) ListByResource(ctx context.Context, resourceID string) ([]Booking, error) {
	const q = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE resource_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, resourceID)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b := Booking{}
		if err := rows.Scan(
			&b.ID, &b.Reference, &b.CustomerID, &b.ServiceType, &b.Details, &b.ResourceID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return scanBooking(tx.QueryRow(ctx, q, id))
}

// UpdateStatusCAS writes the new status only if the row still holds the
// previously observed one. Zero rows affected means a concurrent writer won;
// the caller must re-fetch and re-validate.
func UpdateStatusCAS(ctx context.Context, tx pgx.Tx, id string, from, to workflow.Status) error {
	const q = `
UPDATE bookings
SET status = $1, updated_at = NOW()
WHERE id = $2 AND status = $3
`
	tag, err := tx.Exec(ctx, q, string(to), id, string(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func SetResource(ctx context.Context, tx pgx.Tx, id, resourceID string) error {
	const q = `UPDATE bookings SET resource_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.Exec(ctx, q, resourceID, id)
	return err
}
