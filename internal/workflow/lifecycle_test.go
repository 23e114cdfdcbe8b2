package workflow

import (
	"errors"
	"testing"
)

// Walks the full customer journey through the validator and the price gate,
// exactly as the handlers drive it.
func TestLifecycle_HappyPath(t *testing.T) {
	status := StatusDraft
	hasPrice := false

	step := func(a Action) {
		t.Helper()
		next, err := Validate(status, a)
		if err != nil {
			t.Fatalf("%s from %s: %v", a, status, err)
		}
		status = next
	}

	step(ActionSubmit)
	if status != StatusPending {
		t.Fatalf("after submit status = %s, want pending", status)
	}

	// Admin sets the price (amount 120 USD lands in the price store first).
	if !CanEditPrice(status) {
		t.Fatalf("price must be editable while %s", status)
	}
	hasPrice = true
	step(ActionSetPrice)
	if status != StatusPriceSet {
		t.Fatalf("after set_price status = %s, want price_set", status)
	}

	step(ActionConfirmPrice)
	if status != StatusAwaitingPayment {
		t.Fatalf("after confirm_price status = %s, want awaiting_payment", status)
	}
	if !CanAcceptPayment(status, hasPrice) {
		t.Fatal("capture must be authorized once awaiting_payment with an admin price")
	}

	step(ActionPay)
	if status != StatusPaid {
		t.Fatalf("after pay status = %s, want paid", status)
	}
	if !IsPriceLocked(status) {
		t.Fatal("price must be locked once paid")
	}
	if CanEditPrice(status) {
		t.Fatal("set_price must be refused once paid")
	}

	for _, a := range []Action{ActionConfirm, ActionAssign, ActionAccept, ActionStart, ActionComplete} {
		step(a)
	}
	if status != StatusCompleted {
		t.Fatalf("final status = %s, want completed", status)
	}
}

func TestLifecycle_CancelledIsADeadEnd(t *testing.T) {
	status, err := Validate(StatusDraft, ActionCancel)
	if err != nil {
		t.Fatalf("cancel draft: %v", err)
	}
	if status != StatusCancelled {
		t.Fatalf("after cancel status = %s, want cancelled", status)
	}

	// Pinned: resubmitting a cancelled booking is an IllegalTransition (the
	// AlreadyTerminal reason is reserved for the cancel/reject verbs).
	_, err = Validate(status, ActionSubmit)
	var rej *Rejection
	if !errors.As(err, &rej) || rej.Reason != ReasonIllegalTransition {
		t.Fatalf("submit on cancelled: got %v, want IllegalTransition", err)
	}

	// No action ever leads out of cancelled.
	for a := range actionTargets {
		if next, err := Validate(status, a); err == nil {
			t.Fatalf("action %s escaped cancelled into %s", a, next)
		}
	}
}
