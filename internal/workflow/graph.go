package workflow

// allowedNext is the single authoritative transition table. Both the HTTP
// handlers and the read-only table served to advisory clients derive from it;
// there is deliberately no second copy anywhere in the system.
//
// The happy path is a strict total order — skipping a step (e.g. draft
// straight to paid) is always illegal because each intermediate status
// corresponds to a real-world authorization. Cancellation is a side channel:
// reachable from every non-terminal status except on_trip (a trip that has
// started runs to completion), never reversible. Rejection is admin-only and
// limited to the pre-payment family. A transition to the same status is not
// in the table: no-op writes are rejected, not silently absorbed.
var allowedNext = map[Status]map[Status]bool{
	StatusDraft: {
		StatusPending:   true,
		StatusCancelled: true,
		StatusRejected:  true,
	},
	StatusPending: {
		StatusUnderReview: true,
		StatusPriceSet:    true, // admin may price directly, without an explicit review step
		StatusCancelled:   true,
		StatusRejected:    true,
	},
	StatusUnderReview: {
		StatusPriceSet:  true,
		StatusCancelled: true,
		StatusRejected:  true,
	},
	StatusPriceSet: {
		StatusAwaitingPayment: true,
		StatusCancelled:       true,
		StatusRejected:        true,
	},
	StatusAwaitingPayment: {
		StatusPaid:      true,
		StatusCancelled: true,
		StatusRejected:  true,
	},
	StatusPaid: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusAssigned:  true,
		StatusCancelled: true,
	},
	StatusAssigned: {
		StatusAccepted:  true,
		StatusCancelled: true,
	},
	StatusAccepted: {
		StatusOnTrip:    true,
		StatusCancelled: true,
	},
	StatusOnTrip: {
		StatusCompleted: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusRejected:  {},
}

// AllowedNext returns the set of statuses reachable from s in one transition.
// Total over the enum: terminal statuses return an empty set.
func AllowedNext(s Status) map[Status]bool {
	out := make(map[Status]bool, len(allowedNext[s]))
	for k, v := range allowedNext[s] {
		if v {
			out[k] = true
		}
	}
	return out
}

func CanTransition(from, to Status) bool {
	m, ok := allowedNext[from]
	if !ok {
		return false
	}
	return m[to]
}
