package assignment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbook/internal/api"
	"tourbook/internal/booking"
	"tourbook/internal/workflow"
)

type Handlers struct {
	DB        *pgxpool.Pool
	Resources *Repository
}

type CreateResourceRequest struct {
	UserID string `json:"userId"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
}

// CreateResource registers a driver/guide profile on top of an existing
// resource-role user account. The profile reuses that user's id.
func (h Handlers) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.UserID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "userId is required")
		return
	}
	kind, err := ParseKind(req.Kind)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid kind")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "name is required")
		return
	}

	res, err := h.Resources.Create(r.Context(), req.UserID, kind, req.Name)
	if err != nil {
		if errors.Is(err, ErrNoResourceUser) {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "userId must identify a resource-role user")
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.WriteError(w, http.StatusConflict, "RESOURCE_EXISTS", "user already has a resource profile")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, res)
}

func (h Handlers) ListResources(w http.ResponseWriter, r *http.Request) {
	items, err := h.Resources.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Resource{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type AssignRequest struct {
	ResourceID string `json:"resourceId"`
}

// Assign attaches an active driver/guide to a confirmed booking and moves it
// to assigned. Admin only.
func (h Handlers) Assign(w http.ResponseWriter, r *http.Request) {
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

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResourceID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "resourceId is required")
		return
	}

	b, err := booking.Apply(r.Context(), h.DB, id, workflow.ActionAssign, booking.TransitionOpts{
		Actor: "admin:" + actor.ID,
		OnApplied: func(tx pgx.Tx, b *booking.Booking, _ workflow.Status) error {
			if _, err := GetActive(r.Context(), tx, req.ResourceID); err != nil {
				return err
			}
			if err := booking.SetResource(r.Context(), tx, b.ID, req.ResourceID); err != nil {
				return err
			}
			b.ResourceID = req.ResourceID
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown or inactive resource")
			return
		}
		booking.WriteTransitionError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// Accept is the assigned driver/guide taking the job.
func (h Handlers) Accept(w http.ResponseWriter, r *http.Request) {
	h.applyAsResource(w, r, workflow.ActionAccept)
}

// Start marks the trip underway. From here cancellation is no longer
// possible; the booking runs to completion.
func (h Handlers) Start(w http.ResponseWriter, r *http.Request) {
	h.applyAsResource(w, r, workflow.ActionStart)
}

// Complete closes out a finished trip.
func (h Handlers) Complete(w http.ResponseWriter, r *http.Request) {
	h.applyAsResource(w, r, workflow.ActionComplete)
}

func (h Handlers) applyAsResource(w http.ResponseWriter, r *http.Request, action workflow.Action) {
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

	b, err := booking.Apply(r.Context(), h.DB, id, action, booking.TransitionOpts{
		Actor: "resource:" + actor.ID,
		Guard: func(b *booking.Booking) error {
			return resourceGuard(actor, b)
		},
	})
	if err != nil {
		booking.WriteTransitionError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// resourceGuard decides who may drive the trip lifecycle. Resource profiles
// share their id with the owning user account, so the actor's id from the
// bearer token compares directly against the booking's resource. Admins may
// drive the lifecycle too (e.g. phone dispatch); everyone else gets not-found
// rather than a hint that the booking exists.
func resourceGuard(actor *api.Actor, b *booking.Booking) error {
	if actor.Role == api.RoleAdmin {
		return nil
	}
	if b.ResourceID == "" || b.ResourceID != actor.ID {
		return booking.ErrNotFound
	}
	return nil
}
