package invoice_test

import (
	"testing"
	"time"

	"shelfmarket/internal/invoice"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	items := []invoice.LineItem{
		{Description: "Shelf company purchase", Quantity: 1, UnitPrice: 150},
		{Description: "Registered office, 1y", Quantity: 2, UnitPrice: 25},
	}

	t.Run("line items plus tax plus fee minus discount", func(t *testing.T) {
		total := invoice.ComputeTotal(items, 20, 10, 30)
		assert.Equal(t, 200.0, total)
	})

	t.Run("no adjustments", func(t *testing.T) {
		assert.Equal(t, 200.0, invoice.ComputeTotal(items, 0, 0, 0))
	})

	t.Run("discount can exceed items", func(t *testing.T) {
		assert.Equal(t, -50.0, invoice.ComputeTotal(items, 0, 0, 250))
	})
}

func TestNormalizeLineItems(t *testing.T) {
	items := invoice.NormalizeLineItems([]invoice.LineItem{
		{Description: "filing", Quantity: 3, UnitPrice: 40, Total: 999},
	})

	// client-supplied totals are ignored
	assert.Equal(t, 120.0, items[0].Total)
	assert.Equal(t, 120.0, invoice.LineItemsTotal(items))
}

func TestDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	pastDue := now.AddDate(0, 0, -1)
	futureDue := now.AddDate(0, 0, 7)

	t.Run("pending past due reads overdue", func(t *testing.T) {
		assert.Equal(t, invoice.StatusOverdue, invoice.DisplayStatus(invoice.StatusPending, pastDue, now))
	})

	t.Run("partial past due reads overdue", func(t *testing.T) {
		assert.Equal(t, invoice.StatusOverdue, invoice.DisplayStatus(invoice.StatusPartial, pastDue, now))
	})

	t.Run("pending before due keeps its status", func(t *testing.T) {
		assert.Equal(t, invoice.StatusPending, invoice.DisplayStatus(invoice.StatusPending, futureDue, now))
	})

	t.Run("paid and refunded never read overdue", func(t *testing.T) {
		assert.Equal(t, invoice.StatusPaid, invoice.DisplayStatus(invoice.StatusPaid, pastDue, now))
		assert.Equal(t, invoice.StatusRefunded, invoice.DisplayStatus(invoice.StatusRefunded, pastDue, now))
	})
}

func TestInvoiceTransitions(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		assert.True(t, invoice.IsAllowedTransition(invoice.StatusPending, invoice.StatusPartial))
		assert.True(t, invoice.IsAllowedTransition(invoice.StatusPending, invoice.StatusPaid))
		assert.True(t, invoice.IsAllowedTransition(invoice.StatusPartial, invoice.StatusPaid))
		assert.True(t, invoice.IsAllowedTransition(invoice.StatusPaid, invoice.StatusRefunded))
	})

	t.Run("rejected", func(t *testing.T) {
		assert.False(t, invoice.IsAllowedTransition(invoice.StatusPaid, invoice.StatusPending))
		assert.False(t, invoice.IsAllowedTransition(invoice.StatusRefunded, invoice.StatusPending))
		assert.False(t, invoice.IsAllowedTransition(invoice.StatusRefunded, invoice.StatusPaid))
		assert.False(t, invoice.IsAllowedTransition(invoice.StatusPartial, invoice.StatusPartial))
	})

	t.Run("overdue is never a transition target", func(t *testing.T) {
		assert.False(t, invoice.IsAllowedTransition(invoice.StatusPending, invoice.StatusOverdue))
		assert.False(t, invoice.IsAllowedTransition(invoice.StatusPartial, invoice.StatusOverdue))
	})
}
