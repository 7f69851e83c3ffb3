package invoice

import "time"

// NormalizeLineItems recomputes each line's total from quantity and unit
// price so client-supplied totals can never drift from the math.
func NormalizeLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		it.Total = float64(it.Quantity) * it.UnitPrice
		out[i] = it
	}
	return out
}

// LineItemsTotal sums the line totals.
func LineItemsTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Total
	}
	return sum
}

// ComputeTotal is the single authority on what an invoice is worth:
// line items plus tax plus custom fee minus discount.
func ComputeTotal(items []LineItem, taxAmount, customFee, discountAmount float64) float64 {
	return LineItemsTotal(items) + taxAmount + customFee - discountAmount
}

// DisplayStatus derives the status shown to callers. A pending or partial
// invoice past its due date reads as overdue; the stored status is untouched.
func DisplayStatus(storedStatus string, dueDate, now time.Time) string {
	if storedStatus != StatusPending && storedStatus != StatusPartial {
		return storedStatus
	}
	if now.After(dueDate) {
		return StatusOverdue
	}
	return storedStatus
}

// allowedTransitions guards stored-status changes. Derived statuses
// (overdue) are not transition targets.
var allowedTransitions = map[string]map[string]bool{
	StatusPending: {
		StatusPartial:  true,
		StatusPaid:     true,
		StatusRefunded: true,
	},
	StatusPartial: {
		StatusPaid:     true,
		StatusRefunded: true,
	},
	StatusPaid: {
		StatusRefunded: true,
	},
	// refunded is terminal
}

func IsAllowedTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}
