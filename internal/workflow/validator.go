package workflow

import "fmt"

// RejectReason classifies why a proposed transition was refused.
type RejectReason string

const (
	// ReasonUnknownAction means the verb is not in the recognized set.
	// A caller bug: fix the call site, do not retry.
	ReasonUnknownAction RejectReason = "UNKNOWN_ACTION"
	// ReasonIllegalTransition means the action's target is not reachable
	// from the current status.
	ReasonIllegalTransition RejectReason = "ILLEGAL_TRANSITION"
	// ReasonAlreadyTerminal means cancel/reject was attempted on a booking
	// already in a terminal status.
	ReasonAlreadyTerminal RejectReason = "ALREADY_TERMINAL"
)

// Rejection is a refused transition, returned as a plain error value.
// From and Target are kept for audit logging at the call site.
type Rejection struct {
	Reason RejectReason
	From   Status
	Target Status
	Action Action
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonUnknownAction:
		return fmt.Sprintf("unknown action %q", r.Action)
	case ReasonAlreadyTerminal:
		return fmt.Sprintf("booking is already %s", r.From)
	default:
		return fmt.Sprintf("cannot %s a booking in status %s (target %s)", r.Action, r.From, r.Target)
	}
}

// Validate decides whether action may be applied to a booking currently in
// status current, and returns the resulting status. Pure: same inputs always
// produce the same result, and a refusal is a *Rejection value, never a panic.
//
// cancel and reject are side channels: legal from any status the transition
// table marks cancellable/rejectable, and refused with AlreadyTerminal once
// the booking is in a terminal status. Every other action on a terminal
// booking is an ordinary IllegalTransition, since terminal statuses have an
// empty outgoing set.
func Validate(current Status, action Action) (Status, error) {
	target, ok := action.Target()
	if !ok {
		return "", &Rejection{Reason: ReasonUnknownAction, From: current, Action: action}
	}

	if action == ActionCancel || action == ActionReject {
		if current.IsTerminal() {
			return "", &Rejection{Reason: ReasonAlreadyTerminal, From: current, Target: target, Action: action}
		}
	}

	if !CanTransition(current, target) {
		return "", &Rejection{Reason: ReasonIllegalTransition, From: current, Target: target, Action: action}
	}
	return target, nil
}
