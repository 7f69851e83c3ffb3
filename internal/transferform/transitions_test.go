package transferform_test

import (
	"testing"

	"shelfmarket/internal/transferform"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedTransition(t *testing.T) {
	t.Run("review pipeline happy path", func(t *testing.T) {
		path := []string{
			transferform.StatusUnderReview,
			transferform.StatusConfirmApplication,
			transferform.StatusTransferring,
			transferform.StatusCompleteTransfer,
		}
		for i := 0; i < len(path)-1; i++ {
			assert.True(t, transferform.IsAllowedTransition(path[i], path[i+1]),
				"%s -> %s should be allowed", path[i], path[i+1])
		}
	})

	t.Run("amend loop", func(t *testing.T) {
		assert.True(t, transferform.IsAllowedTransition(transferform.StatusUnderReview, transferform.StatusAmendRequired))
		assert.True(t, transferform.IsAllowedTransition(transferform.StatusAmendRequired, transferform.StatusUnderReview))
	})

	t.Run("no skipping review", func(t *testing.T) {
		assert.False(t, transferform.IsAllowedTransition(transferform.StatusUnderReview, transferform.StatusTransferring))
		assert.False(t, transferform.IsAllowedTransition(transferform.StatusUnderReview, transferform.StatusCompleteTransfer))
		assert.False(t, transferform.IsAllowedTransition(transferform.StatusAmendRequired, transferform.StatusConfirmApplication))
	})

	t.Run("completed and canceled are terminal", func(t *testing.T) {
		for _, to := range []string{
			transferform.StatusUnderReview,
			transferform.StatusAmendRequired,
			transferform.StatusConfirmApplication,
			transferform.StatusTransferring,
			transferform.StatusCanceled,
		} {
			assert.False(t, transferform.IsAllowedTransition(transferform.StatusCompleteTransfer, to))
			assert.False(t, transferform.IsAllowedTransition(transferform.StatusCanceled, to))
		}
	})

	t.Run("cancelable from every live status", func(t *testing.T) {
		for _, from := range []string{
			transferform.StatusUnderReview,
			transferform.StatusAmendRequired,
			transferform.StatusConfirmApplication,
			transferform.StatusTransferring,
		} {
			assert.True(t, transferform.IsAllowedTransition(from, transferform.StatusCanceled), from)
		}
	})

	t.Run("same status never allowed", func(t *testing.T) {
		assert.False(t, transferform.IsAllowedTransition(transferform.StatusUnderReview, transferform.StatusUnderReview))
	})
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{
			transferform.StatusAmendRequired,
			transferform.StatusConfirmApplication,
			transferform.StatusCanceled,
		},
		transferform.NextStatuses(transferform.StatusUnderReview),
	)
	assert.Empty(t, transferform.NextStatuses(transferform.StatusCompleteTransfer))
	assert.Empty(t, transferform.NextStatuses(transferform.StatusCanceled))
}
