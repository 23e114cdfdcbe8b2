package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Kind distinguishes the two assignable resource types.
type Kind string

const (
	KindDriver Kind = "driver"
	KindGuide  Kind = "guide"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDriver, KindGuide:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown resource kind: %s", s)
	}
}

// Resource is a driver or guide that can be attached to a paid booking.
// Rows share their id with the owning resource-role user account, which is
// what lets the trip-lifecycle guards compare a bearer token's subject
// against bookings.resource_id directly.
type Resource struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrNotFound = errors.New("resource not found")
	// ErrNoResourceUser means the given id does not belong to a
	// resource-role user account.
	ErrNoResourceUser = errors.New("no resource-role user with that id")
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create registers a driver/guide profile for an existing resource-role
// user. The INSERT..SELECT keys the row by that user's id and refuses ids
// that are missing or hold a different role.
func (r *Repository) Create(ctx context.Context, userID string, kind Kind, name string) (*Resource, error) {
	const q = `
INSERT INTO resources (id, kind, name, active)
SELECT u.id, $2, $3, TRUE
FROM users u
WHERE u.id = $1 AND u.role = 'resource'
RETURNING id, kind, name, active, created_at
`
	res := &Resource{}
	if err := r.db.QueryRow(ctx, q, userID, string(kind), name).Scan(
		&res.ID, &res.Kind, &res.Name, &res.Active, &res.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoResourceUser
		}
		return nil, err
	}
	return res, nil
}

func (r *Repository) List(ctx context.Context) ([]Resource, error) {
	const q = `
SELECT id, kind, name, active, created_at
FROM resources
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Kind, &res.Name, &res.Active, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetActive loads a resource inside the caller's transaction, refusing
// inactive ones.
func GetActive(ctx context.Context, tx pgx.Tx, id string) (*Resource, error) {
	const q = `
SELECT id, kind, name, active, created_at
FROM resources
WHERE id = $1 AND active = TRUE
`
	res := &Resource{}
	if err := tx.QueryRow(ctx, q, id).Scan(
		&res.ID, &res.Kind, &res.Name, &res.Active, &res.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}
