package auth

import (
	"net/http"
	"strings"
	"time"

	"tourbook/internal/api"
	"tourbook/pkg/config"
)

// RequireAuth validates the Authorization bearer token and attaches the actor
// to the request context. When roles are given, the actor must hold one of
// them; an actor with no recognized role is always refused (fail closed).
func RequireAuth(cfg config.Config, roles ...api.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			actor, err := VerifyToken(strings.TrimSpace(authz[7:]), cfg.JWTSecret, time.Now())
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			if len(roles) > 0 && !hasRole(actor.Role, roles) {
				api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}

			next.ServeHTTP(w, r.WithContext(api.WithActor(r.Context(), actor)))
		})
	}
}

func hasRole(got api.Role, want []api.Role) bool {
	for _, r := range want {
		if got == r {
			return true
		}
	}
	return false
}
