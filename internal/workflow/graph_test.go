package workflow

import "testing"

func TestAllowedNext_TotalOverEnum(t *testing.T) {
	for _, s := range AllStatuses {
		if _, ok := allowedNext[s]; !ok {
			t.Fatalf("no transition entry for status %s", s)
		}
	}
	if len(allowedNext) != len(AllStatuses) {
		t.Fatalf("transition table has %d entries, enum has %d", len(allowedNext), len(AllStatuses))
	}
}

func TestAllowedNext_TerminalStatusesAreEmpty(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusRejected} {
		if got := AllowedNext(s); len(got) != 0 {
			t.Fatalf("terminal status %s has outgoing transitions: %v", s, got)
		}
	}
}

func TestAllowedNext_EveryNonTerminalHasAnExit(t *testing.T) {
	for _, s := range AllStatuses {
		if s.IsTerminal() {
			continue
		}
		if len(AllowedNext(s)) == 0 {
			t.Fatalf("non-terminal status %s has no outgoing transitions", s)
		}
	}
}

// Pinned product decision: every non-terminal status can still be cancelled
// except on_trip — a started trip runs to completion.
func TestAllowedNext_CancellationSideChannel(t *testing.T) {
	for _, s := range AllStatuses {
		if s.IsTerminal() {
			continue
		}
		want := s != StatusOnTrip
		if got := AllowedNext(s)[StatusCancelled]; got != want {
			t.Fatalf("cancelled reachable from %s = %v, want %v", s, got, want)
		}
	}
}

func TestAllowedNext_RejectionOnlyFromPrePayment(t *testing.T) {
	for _, s := range AllStatuses {
		if got := AllowedNext(s)[StatusRejected]; got != s.IsPrePayment() {
			t.Fatalf("rejected reachable from %s = %v, want %v", s, got, s.IsPrePayment())
		}
	}
}

func TestCanTransition_HappyPathIsStrictOrder(t *testing.T) {
	path := []Status{
		StatusDraft, StatusPending, StatusUnderReview, StatusPriceSet, StatusAwaitingPayment,
		StatusPaid, StatusConfirmed, StatusAssigned, StatusAccepted, StatusOnTrip, StatusCompleted,
	}
	for i := 0; i+1 < len(path); i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be legal", path[i], path[i+1])
		}
	}
	// Skipping a step is illegal, no matter how convenient.
	for i := 0; i+2 < len(path); i++ {
		if CanTransition(path[i], path[i+2]) {
			t.Fatalf("expected %s -> %s to be illegal", path[i], path[i+2])
		}
	}
}

func TestCanTransition_SameStatusIsRejected(t *testing.T) {
	for _, s := range AllStatuses {
		if CanTransition(s, s) {
			t.Fatalf("no-op transition %s -> %s must be illegal", s, s)
		}
	}
}

func TestStatusFamilies_Partition(t *testing.T) {
	for _, s := range AllStatuses {
		n := 0
		if s.IsPrePayment() {
			n++
		}
		if s.IsPostPayment() {
			n++
		}
		if s.IsTerminal() {
			n++
		}
		if n != 1 {
			t.Fatalf("status %s belongs to %d families, want exactly 1", s, n)
		}
	}
}
