package booking

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbook/internal/api"
	"tourbook/internal/events"
	"tourbook/internal/workflow"
)

type Handlers struct {
	DB       *pgxpool.Pool
	Bookings *Repository
	Events   *events.Repository
}

type CreateRequest struct {
	ServiceType string `json:"serviceType"`
	Details     string `json:"details"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	st, err := ParseServiceType(req.ServiceType)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid serviceType")
		return
	}

	b, err := h.Bookings.Create(r.Context(), actor.ID, st, req.Details)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusCreated, b)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var (
		items []Booking
		err   error
	)
	switch actor.Role {
	case api.RoleAdmin:
		var status workflow.Status
		if s := r.URL.Query().Get("status"); s != "" {
			status, err = workflow.ParseStatus(s)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status filter")
				return
			}
		}
		items, err = h.Bookings.List(r.Context(), status)
	case api.RoleResource:
		// Resource profiles share the owning user's id.
		items, err = h.Bookings.ListByResource(r.Context(), actor.ID)
	default:
		items, err = h.Bookings.ListByCustomer(r.Context(), actor.ID)
	}
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []Booking{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	b, ok := h.fetchVisible(w, r)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	b, ok := h.fetchVisible(w, r)
	if !ok {
		return
	}
	evs, err := h.Events.ListByBooking(r.Context(), b.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if evs == nil {
		evs = []events.Event{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": evs})
}

// Submit moves a draft to pending. Customer only, on their own booking.
func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, workflow.ActionSubmit, guardOwner)
}

// ConfirmPrice is the customer accepting the admin-set price.
func (h Handlers) ConfirmPrice(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, workflow.ActionConfirmPrice, guardOwner)
}

// Cancel is available to the owning customer and to admins.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, workflow.ActionCancel, guardOwnerOrAdmin)
}

// Review marks a pending request as being looked at by an admin.
func (h Handlers) Review(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, workflow.ActionReview, nil)
}

// Reject is the admin declining a pre-payment request.
func (h Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, workflow.ActionReject, nil)
}

// Confirm acknowledges a paid booking ahead of resource assignment.
func (h Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, workflow.ActionConfirm, nil)
}

type guardFn func(actor *api.Actor, b *Booking) error

func guardOwner(actor *api.Actor, b *Booking) error {
	if b.CustomerID != actor.ID {
		// Indistinguishable from a missing booking on purpose.
		return ErrNotFound
	}
	return nil
}

func guardOwnerOrAdmin(actor *api.Actor, b *Booking) error {
	if actor.Role == api.RoleAdmin {
		return nil
	}
	return guardOwner(actor, b)
}

func (h Handlers) apply(w http.ResponseWriter, r *http.Request, action workflow.Action, guard guardFn) {
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

	opts := TransitionOpts{Actor: string(actor.Role) + ":" + actor.ID}
	if guard != nil {
		opts.Guard = func(b *Booking) error { return guard(actor, b) }
	}

	b, err := Apply(r.Context(), h.DB, id, action, opts)
	if err != nil {
		WriteTransitionError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) fetchVisible(w http.ResponseWriter, r *http.Request) (*Booking, bool) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return nil, false
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return nil, false
	}

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return nil, false
	}

	switch actor.Role {
	case api.RoleAdmin:
	case api.RoleResource:
		// Resource profiles share the owning user's id, so the token
		// subject compares directly against the assignment.
		if b.ResourceID != actor.ID {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
			return nil, false
		}
	default:
		if b.CustomerID != actor.ID {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
			return nil, false
		}
	}
	return b, true
}
