package workflow

import "fmt"

type Status string

const (
	// Pre-payment family.
	StatusDraft           Status = "draft"
	StatusPending         Status = "pending"
	StatusUnderReview     Status = "under_review"
	StatusPriceSet        Status = "price_set"
	StatusAwaitingPayment Status = "awaiting_payment"

	// Post-payment family.
	StatusPaid      Status = "paid"
	StatusConfirmed Status = "confirmed"
	StatusAssigned  Status = "assigned"
	StatusAccepted  Status = "accepted"
	StatusOnTrip    Status = "on_trip"

	// Terminal family.
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// AllStatuses lists every booking status in lifecycle order. The transition
// table and the price gate are both defined over exactly this set; tests
// enumerate it to prove neither table has gaps.
var AllStatuses = []Status{
	StatusDraft,
	StatusPending,
	StatusUnderReview,
	StatusPriceSet,
	StatusAwaitingPayment,
	StatusPaid,
	StatusConfirmed,
	StatusAssigned,
	StatusAccepted,
	StatusOnTrip,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPending, StatusUnderReview, StatusPriceSet, StatusAwaitingPayment,
		StatusPaid, StatusConfirmed, StatusAssigned, StatusAccepted, StatusOnTrip,
		StatusCompleted, StatusCancelled, StatusRejected:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// IsPrePayment reports whether the status belongs to the pre-payment family,
// i.e. no money has been captured yet and the admin price is still editable.
func (s Status) IsPrePayment() bool {
	switch s {
	case StatusDraft, StatusPending, StatusUnderReview, StatusPriceSet, StatusAwaitingPayment:
		return true
	}
	return false
}

func (s Status) IsPostPayment() bool {
	switch s {
	case StatusPaid, StatusConfirmed, StatusAssigned, StatusAccepted, StatusOnTrip:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}
