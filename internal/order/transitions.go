package order

const (
	StatusPendingPayment      = "pending_payment"
	StatusPaid                = "paid"
	StatusTransferFormPending = "transfer_form_pending"
	StatusUnderReview         = "under_review"
	StatusAmendRequired       = "amend_required"
	StatusPendingTransfer     = "pending_transfer"
	StatusCompleted           = "completed"
	StatusCancelled           = "cancelled"
	StatusRefunded            = "refunded"
	StatusDisputed            = "disputed"
)

const (
	PaymentMethodCard   = "card"
	PaymentMethodWallet = "wallet"
)

// allowedTransitions is the single authority on order status changes. The UI
// may present a narrower list; the server never accepts anything outside it.
var allowedTransitions = map[string]map[string]bool{
	// Checkout captures payment synchronously, so orders are persisted
	// already in paid. The pending_payment edges exist for asynchronous
	// capture (for example a redirect-based gateway), where an order can
	// still be cancelled before the payment lands.
	StatusPendingPayment: {
		StatusPaid:      true,
		StatusCancelled: true,
	},
	StatusPaid: {
		StatusTransferFormPending: true,
		StatusRefunded:            true,
		StatusDisputed:            true,
	},
	StatusTransferFormPending: {
		StatusUnderReview: true,
		StatusRefunded:    true,
		StatusDisputed:    true,
	},
	StatusUnderReview: {
		StatusAmendRequired:   true,
		StatusPendingTransfer: true,
		StatusRefunded:        true,
		StatusDisputed:        true,
	},
	StatusAmendRequired: {
		StatusUnderReview: true,
		StatusRefunded:    true,
		StatusDisputed:    true,
	},
	StatusPendingTransfer: {
		StatusCompleted: true,
		StatusRefunded:  true,
		StatusDisputed:  true,
	},
	StatusCompleted: {
		StatusRefunded: true,
		StatusDisputed: true,
	},
	StatusDisputed: {
		StatusRefunded: true,
	},
	// cancelled and refunded are terminal
}

// IsAllowedTransition reports whether an order may move from one status to
// another. Same-status "transitions" are never allowed.
func IsAllowedTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// NextStatuses returns the legal targets for a status, for the admin UI.
func NextStatuses(from string) []string {
	targets := allowedTransitions[from]
	out := make([]string, 0, len(targets))
	for _, s := range []string{
		StatusPaid, StatusTransferFormPending, StatusUnderReview,
		StatusAmendRequired, StatusPendingTransfer, StatusCompleted,
		StatusCancelled, StatusRefunded, StatusDisputed,
	} {
		if targets[s] {
			out = append(out, s)
		}
	}
	return out
}
