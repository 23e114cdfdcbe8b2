package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tourbook/internal/api"
	"tourbook/internal/assignment"
	"tourbook/internal/auth"
	"tourbook/internal/booking"
	"tourbook/internal/events"
	"tourbook/internal/payment"
	"tourbook/internal/price"
	"tourbook/pkg/config"
	"tourbook/pkg/gateway"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	usersRepo := auth.NewRepository(deps.DB)
	bookingsRepo := booking.NewRepository(deps.DB)
	pricesRepo := price.NewRepository(deps.DB)
	resourcesRepo := assignment.NewRepository(deps.DB)
	eventsRepo := events.NewRepository(deps.DB)

	authHandlers := auth.Handlers{Cfg: deps.Cfg, Users: usersRepo}
	bookingHandlers := booking.Handlers{DB: deps.DB, Bookings: bookingsRepo, Events: eventsRepo}
	priceHandlers := price.Handlers{DB: deps.DB, Prices: pricesRepo, Bookings: bookingsRepo}
	paymentHandlers := payment.Handlers{
		Cfg: deps.Cfg,
		DB:  deps.DB,
		Gateway: gateway.Client{
			BaseURL: deps.Cfg.Gateway.BaseURL,
			APIKey:  deps.Cfg.Gateway.APIKey,
		},
		Bookings: bookingsRepo,
	}
	assignmentHandlers := assignment.Handlers{DB: deps.DB, Resources: resourcesRepo}

	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAgeSeconds:  600,
		}))

		r.Post("/auth/login", authHandlers.Login)

		// Advisory copy of the rules for UIs. Read-only; the server-side
		// checks inside each mutation stay authoritative.
		r.Get("/workflow/transitions", TransitionTable)

		// Any authenticated actor.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(deps.Cfg))

			r.Get("/bookings", bookingHandlers.List)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Get("/bookings/{id}/events", bookingHandlers.ListEvents)
			r.Get("/bookings/{id}/price", priceHandlers.Get)
			r.Post("/bookings/{id}/cancel", bookingHandlers.Cancel)
		})

		// Customer actions.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(deps.Cfg, api.RoleCustomer))

			r.Post("/bookings", bookingHandlers.Create)
			r.Post("/bookings/{id}/submit", bookingHandlers.Submit)
			r.Post("/bookings/{id}/confirm-price", bookingHandlers.ConfirmPrice)
			r.Post("/bookings/{id}/checkout", paymentHandlers.Checkout)
		})

		// Admin actions.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(deps.Cfg, api.RoleAdmin))

			r.Post("/users", authHandlers.CreateUser)

			r.Post("/bookings/{id}/review", bookingHandlers.Review)
			r.Put("/bookings/{id}/price", priceHandlers.SetPrice)
			r.Post("/bookings/{id}/reject", bookingHandlers.Reject)
			r.Post("/bookings/{id}/confirm", bookingHandlers.Confirm)
			r.Post("/bookings/{id}/assign", assignmentHandlers.Assign)

			r.Get("/resources", assignmentHandlers.ListResources)
			r.Post("/resources", assignmentHandlers.CreateResource)
		})

		// Driver/guide trip lifecycle (admins may dispatch by phone).
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(deps.Cfg, api.RoleResource, api.RoleAdmin))

			r.Post("/bookings/{id}/accept", assignmentHandlers.Accept)
			r.Post("/bookings/{id}/start", assignmentHandlers.Start)
			r.Post("/bookings/{id}/complete", assignmentHandlers.Complete)
		})

		// Payment provider callbacks (HMAC-verified, no bearer token).
		r.Post("/webhooks/payments", paymentHandlers.Webhook)
	})

	return r
}
