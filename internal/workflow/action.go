package workflow

import "fmt"

// Action is a business verb proposed against a booking. Each action maps to
// exactly one target status; whether the move is legal from the current
// status is decided by the transition table, not by the verb itself.
type Action string

const (
	ActionSubmit       Action = "submit"
	ActionReview       Action = "review"
	ActionSetPrice     Action = "set_price"
	ActionConfirmPrice Action = "confirm_price"
	ActionPay          Action = "pay"
	ActionConfirm      Action = "confirm"
	ActionAssign       Action = "assign"
	ActionAccept       Action = "accept"
	ActionStart        Action = "start"
	ActionComplete     Action = "complete"
	ActionCancel       Action = "cancel"
	ActionReject       Action = "reject"
)

var actionTargets = map[Action]Status{
	ActionSubmit:       StatusPending,
	ActionReview:       StatusUnderReview,
	ActionSetPrice:     StatusPriceSet,
	ActionConfirmPrice: StatusAwaitingPayment,
	ActionPay:          StatusPaid,
	ActionConfirm:      StatusConfirmed,
	ActionAssign:       StatusAssigned,
	ActionAccept:       StatusAccepted,
	ActionStart:        StatusOnTrip,
	ActionComplete:     StatusCompleted,
	ActionCancel:       StatusCancelled,
	ActionReject:       StatusRejected,
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actionTargets[a]; !ok {
		return "", fmt.Errorf("unknown action: %s", s)
	}
	return a, nil
}

// Target returns the status this action moves a booking to.
func (a Action) Target() (Status, bool) {
	t, ok := actionTargets[a]
	return t, ok
}
