package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourbook/internal/workflow"
)

func TestTransitionTable(t *testing.T) {
	w := httptest.NewRecorder()
	TransitionTable(w, httptest.NewRequest(http.MethodGet, "/v1/workflow/transitions", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Statuses []struct {
			Status       workflow.Status   `json:"status"`
			Family       string            `json:"family"`
			Next         []workflow.Status `json:"next"`
			CanEditPrice bool              `json:"canEditPrice"`
			PriceLocked  bool              `json:"priceLocked"`
			Terminal     bool              `json:"terminal"`
		} `json:"statuses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Statuses) != len(workflow.AllStatuses) {
		t.Fatalf("served %d statuses, want %d", len(resp.Statuses), len(workflow.AllStatuses))
	}

	byStatus := make(map[workflow.Status]int)
	for i, s := range resp.Statuses {
		byStatus[s.Status] = i

		// The served table must agree with the package that authorizes
		// writes; it is a projection, not a second copy.
		want := workflow.AllowedNext(s.Status)
		if len(s.Next) != len(want) {
			t.Fatalf("%s: served %d next statuses, want %d", s.Status, len(s.Next), len(want))
		}
		for _, n := range s.Next {
			if !want[n] {
				t.Fatalf("%s: served illegal next status %s", s.Status, n)
			}
		}
		if s.CanEditPrice == s.PriceLocked {
			t.Fatalf("%s: canEditPrice and priceLocked must disagree", s.Status)
		}
		if s.Terminal != s.Status.IsTerminal() {
			t.Fatalf("%s: terminal flag mismatch", s.Status)
		}
	}

	draft := resp.Statuses[byStatus[workflow.StatusDraft]]
	if draft.Family != "pre_payment" {
		t.Fatalf("draft family = %s, want pre_payment", draft.Family)
	}
	paid := resp.Statuses[byStatus[workflow.StatusPaid]]
	if paid.Family != "post_payment" || paid.CanEditPrice {
		t.Fatalf("paid must be post_payment with locked price, got %+v", paid)
	}
	cancelled := resp.Statuses[byStatus[workflow.StatusCancelled]]
	if len(cancelled.Next) != 0 || !cancelled.Terminal {
		t.Fatalf("cancelled must be terminal with no next statuses, got %+v", cancelled)
	}
}
