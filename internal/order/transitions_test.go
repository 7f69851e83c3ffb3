package order_test

import (
	"testing"

	"shelfmarket/internal/order"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedTransition(t *testing.T) {
	t.Run("happy path pipeline", func(t *testing.T) {
		assert.True(t, order.IsAllowedTransition(order.StatusPendingPayment, order.StatusPaid))
		assert.True(t, order.IsAllowedTransition(order.StatusPaid, order.StatusTransferFormPending))
		assert.True(t, order.IsAllowedTransition(order.StatusTransferFormPending, order.StatusUnderReview))
		assert.True(t, order.IsAllowedTransition(order.StatusUnderReview, order.StatusPendingTransfer))
		assert.True(t, order.IsAllowedTransition(order.StatusPendingTransfer, order.StatusCompleted))
	})

	t.Run("amend loop", func(t *testing.T) {
		assert.True(t, order.IsAllowedTransition(order.StatusUnderReview, order.StatusAmendRequired))
		assert.True(t, order.IsAllowedTransition(order.StatusAmendRequired, order.StatusUnderReview))
	})

	t.Run("terminal statuses", func(t *testing.T) {
		assert.False(t, order.IsAllowedTransition(order.StatusCancelled, order.StatusPaid))
		assert.False(t, order.IsAllowedTransition(order.StatusRefunded, order.StatusPaid))
		assert.False(t, order.IsAllowedTransition(order.StatusRefunded, order.StatusDisputed))
	})

	t.Run("no skipping ahead", func(t *testing.T) {
		assert.False(t, order.IsAllowedTransition(order.StatusPendingPayment, order.StatusCompleted))
		assert.False(t, order.IsAllowedTransition(order.StatusPaid, order.StatusCompleted))
	})

	t.Run("same status is not a transition", func(t *testing.T) {
		assert.False(t, order.IsAllowedTransition(order.StatusPaid, order.StatusPaid))
	})

	t.Run("disputed can only resolve to refunded", func(t *testing.T) {
		assert.True(t, order.IsAllowedTransition(order.StatusDisputed, order.StatusRefunded))
		assert.False(t, order.IsAllowedTransition(order.StatusDisputed, order.StatusCompleted))
	})
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{order.StatusPaid, order.StatusCancelled},
		order.NextStatuses(order.StatusPendingPayment),
	)
	assert.ElementsMatch(t,
		[]string{order.StatusTransferFormPending, order.StatusRefunded, order.StatusDisputed},
		order.NextStatuses(order.StatusPaid),
	)
	assert.Empty(t, order.NextStatuses(order.StatusCancelled))
	assert.Empty(t, order.NextStatuses(order.StatusRefunded))
}
