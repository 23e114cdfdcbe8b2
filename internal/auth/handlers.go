package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"tourbook/internal/api"
	"tourbook/pkg/config"
)

type Handlers struct {
	Cfg   config.Config
	Users *Repository
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "email and password are required")
		return
	}

	u, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil || !CheckPassword(u, req.Password) {
		// Same answer for unknown email and bad password.
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, err := IssueToken(u.ID, u.Email, u.Role, h.Cfg.JWTSecret, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}

	api.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, User: u})
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser provisions an account. Admin only: customers, further admins
// and driver/guide logins are all minted here (the very first admin comes
// from the seed tool).
func (h Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "password must be at least 8 characters")
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid role")
		return
	}

	u, err := h.Users.Create(r.Context(), req.Email, strings.TrimSpace(req.Name), req.Password, role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.WriteError(w, http.StatusConflict, "EMAIL_TAKEN", "email is already registered")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, u)
}
