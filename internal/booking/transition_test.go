package booking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/internal/api"
	"tourbook/internal/workflow"
)

func TestWriteTransitionError(t *testing.T) {
	illegal := func() error {
		_, err := workflow.Validate(workflow.StatusDraft, workflow.ActionPay)
		return err
	}
	terminal := func() error {
		_, err := workflow.Validate(workflow.StatusCancelled, workflow.ActionCancel)
		return err
	}
	unknown := func() error {
		_, err := workflow.Validate(workflow.StatusDraft, workflow.Action("nope"))
		return err
	}

	cases := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"illegal transition", illegal(), http.StatusConflict, "ILLEGAL_TRANSITION"},
		{"already terminal", terminal(), http.StatusConflict, "ALREADY_TERMINAL"},
		{"unknown action", unknown(), http.StatusBadRequest, "UNKNOWN_ACTION"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"cas conflict", ErrStatusConflict, http.StatusConflict, "STATUS_CONFLICT"},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteTransitionError(w, tt.err)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var env api.ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tt.wantKind {
				t.Fatalf("code = %s, want %s", env.Error.Code, tt.wantKind)
			}
		})
	}
}

func TestParseServiceType(t *testing.T) {
	for _, s := range []string{"transport", "accommodation", "event", "guide"} {
		if _, err := ParseServiceType(s); err != nil {
			t.Fatalf("ParseServiceType(%q): %v", s, err)
		}
	}
	if _, err := ParseServiceType("spa"); err == nil {
		t.Fatal("expected unknown service type to be refused")
	}
}
