package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourbook/internal/api"
)

// Validation runs before any repository call, so these paths are exercised
// with a nil Users repo: reaching the database would panic the test.
func TestCreateUser_Validation(t *testing.T) {
	h := Handlers{}

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing email", `{"password":"longenough","role":"customer"}`},
		{"not an email", `{"email":"nope","password":"longenough","role":"customer"}`},
		{"short password", `{"email":"a@b.test","password":"short","role":"customer"}`},
		{"unknown role", `{"email":"a@b.test","password":"longenough","role":"superadmin"}`},
		{"missing role", `{"email":"a@b.test","password":"longenough"}`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.CreateUser(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			var env api.ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != "VALIDATION_FAILED" {
				t.Fatalf("code = %s, want VALIDATION_FAILED", env.Error.Code)
			}
		})
	}
}
