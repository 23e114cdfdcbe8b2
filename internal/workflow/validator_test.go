package workflow

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		current Status
		action  Action
		want    Status
		reason  RejectReason
	}{
		{"submit draft", StatusDraft, ActionSubmit, StatusPending, ""},
		{"review pending", StatusPending, ActionReview, StatusUnderReview, ""},
		{"price pending directly", StatusPending, ActionSetPrice, StatusPriceSet, ""},
		{"price after review", StatusUnderReview, ActionSetPrice, StatusPriceSet, ""},
		{"confirm price", StatusPriceSet, ActionConfirmPrice, StatusAwaitingPayment, ""},
		{"pay when awaiting", StatusAwaitingPayment, ActionPay, StatusPaid, ""},
		{"confirm paid", StatusPaid, ActionConfirm, StatusConfirmed, ""},
		{"assign confirmed", StatusConfirmed, ActionAssign, StatusAssigned, ""},
		{"accept assignment", StatusAssigned, ActionAccept, StatusAccepted, ""},
		{"start trip", StatusAccepted, ActionStart, StatusOnTrip, ""},
		{"complete trip", StatusOnTrip, ActionComplete, StatusCompleted, ""},

		{"cannot skip straight to payment", StatusDraft, ActionPay, "", ReasonIllegalTransition},
		{"cannot pay twice", StatusPaid, ActionPay, "", ReasonIllegalTransition},
		{"cannot complete before trip", StatusAccepted, ActionComplete, "", ReasonIllegalTransition},
		{"cannot reject paid booking", StatusPaid, ActionReject, "", ReasonIllegalTransition},
		{"cannot cancel a running trip", StatusOnTrip, ActionCancel, "", ReasonIllegalTransition},
		{"submit on cancelled booking", StatusCancelled, ActionSubmit, "", ReasonIllegalTransition},

		{"cancel draft", StatusDraft, ActionCancel, StatusCancelled, ""},
		{"cancel paid", StatusPaid, ActionCancel, StatusCancelled, ""},
		{"reject under review", StatusUnderReview, ActionReject, StatusRejected, ""},
		{"cancel completed", StatusCompleted, ActionCancel, "", ReasonAlreadyTerminal},
		{"cancel cancelled", StatusCancelled, ActionCancel, "", ReasonAlreadyTerminal},
		{"reject rejected", StatusRejected, ActionReject, "", ReasonAlreadyTerminal},

		{"unknown action", StatusDraft, Action("teleport"), "", ReasonUnknownAction},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.current, tt.action)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("Validate(%s, %s) unexpected error: %v", tt.current, tt.action, err)
				}
				if got != tt.want {
					t.Fatalf("Validate(%s, %s) = %s, want %s", tt.current, tt.action, got, tt.want)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate(%s, %s) = %s, want rejection %s", tt.current, tt.action, got, tt.reason)
			}
			var rej *Rejection
			if !errors.As(err, &rej) {
				t.Fatalf("Validate(%s, %s) returned %T, want *Rejection", tt.current, tt.action, err)
			}
			if rej.Reason != tt.reason {
				t.Fatalf("Validate(%s, %s) reason = %s, want %s", tt.current, tt.action, rej.Reason, tt.reason)
			}
		})
	}
}

func TestValidate_RejectionCarriesDiagnostics(t *testing.T) {
	_, err := Validate(StatusDraft, ActionPay)
	var rej *Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected *Rejection, got %v", err)
	}
	if rej.From != StatusDraft || rej.Target != StatusPaid {
		t.Fatalf("rejection diagnostics = from %s target %s, want from draft target paid", rej.From, rej.Target)
	}
}

// Validate is pure: calling it twice with identical arguments must yield
// identical results.
func TestValidate_Idempotent(t *testing.T) {
	for _, s := range AllStatuses {
		for a := range actionTargets {
			got1, err1 := Validate(s, a)
			got2, err2 := Validate(s, a)
			if got1 != got2 || (err1 == nil) != (err2 == nil) {
				t.Fatalf("Validate(%s, %s) not stable: (%v,%v) then (%v,%v)", s, a, got1, err1, got2, err2)
			}
		}
	}
}

// Every action's target status must itself be a known status, and every
// non-terminal status must be reachable by some action so the verb set and
// the enum cannot drift apart.
func TestActionTargets_CoverEnum(t *testing.T) {
	known := make(map[Status]bool, len(AllStatuses))
	for _, s := range AllStatuses {
		known[s] = true
	}
	reachable := make(map[Status]bool)
	for a, target := range actionTargets {
		if !known[target] {
			t.Fatalf("action %s targets unknown status %s", a, target)
		}
		reachable[target] = true
	}
	for _, s := range AllStatuses {
		if s == StatusDraft {
			continue // entry point, created not transitioned into
		}
		if !reachable[s] {
			t.Fatalf("status %s is not the target of any action", s)
		}
	}
}
