package workflow

// CanAcceptPayment reports whether a payment capture may proceed. Both
// conditions are mandatory: the booking must be awaiting payment AND an
// admin-set price record must exist. A booking can reach awaiting_payment
// through a race before the admin price write has durably landed; requiring
// both closes that window.
func CanAcceptPayment(status Status, hasAdminPrice bool) bool {
	return status == StatusAwaitingPayment && hasAdminPrice
}

// CanEditPrice reports whether the admin price is still correctable. True
// for the whole pre-payment family, including awaiting_payment itself so a
// last-moment correction before capture remains possible.
func CanEditPrice(status Status) bool {
	return status.IsPrePayment()
}

// IsPriceLocked is the exact complement of CanEditPrice over the full status
// set. It drives the persisted locked flag on the price record; once true it
// is never unset by normal flow.
func IsPriceLocked(status Status) bool {
	return !CanEditPrice(status)
}
