package transferform

// allowedTransitions guards the review pipeline. Completed and canceled
// forms never move again.
var allowedTransitions = map[string]map[string]bool{
	StatusUnderReview: {
		StatusAmendRequired:      true,
		StatusConfirmApplication: true,
		StatusCanceled:           true,
	},
	StatusAmendRequired: {
		StatusUnderReview: true,
		StatusCanceled:    true,
	},
	StatusConfirmApplication: {
		StatusTransferring: true,
		StatusCanceled:     true,
	},
	StatusTransferring: {
		StatusCompleteTransfer: true,
		StatusCanceled:         true,
	},
}

func IsAllowedTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

func NextStatuses(from string) []string {
	targets := allowedTransitions[from]
	out := make([]string, 0, len(targets))
	for _, s := range []string{
		StatusUnderReview, StatusAmendRequired, StatusConfirmApplication,
		StatusTransferring, StatusCompleteTransfer, StatusCanceled,
	} {
		if targets[s] {
			out = append(out, s)
		}
	}
	return out
}
