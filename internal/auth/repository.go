package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"tourbook/internal/api"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         api.Role  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
SELECT id, email, COALESCE(name,''), role, password_hash, created_at
FROM users
WHERE email = $1
`
	u := &User{}
	if err := r.db.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, email, name, password string, role api.Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO users (email, name, role, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, email, COALESCE(name,''), role, password_hash, created_at
`
	u := &User{}
	if err := r.db.QueryRow(ctx, q, email, name, string(role), string(hash)).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
