package fee_test

import (
	"testing"

	"shelfmarket/internal/fee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeFees(t *testing.T) {
	flat := fee.Fee{ID: uuid.New(), Name: "Processing", Type: fee.TypeFlat, Amount: 50, Enabled: true}
	pct := fee.Fee{ID: uuid.New(), Name: "Service", Type: fee.TypePercentage, Amount: 10, Enabled: true}
	disabled := fee.Fee{ID: uuid.New(), Name: "Old charge", Type: fee.TypeFlat, Amount: 999, Enabled: false}

	t.Run("flat plus percentage", func(t *testing.T) {
		b := fee.ComputeFees(1000, []fee.Fee{flat, pct})

		assert.Equal(t, 1000.0, b.Subtotal)
		assert.Len(t, b.Fees, 2)
		assert.Equal(t, 50.0, b.Fees[0].Amount)
		assert.Equal(t, 100.0, b.Fees[1].Amount)
		assert.Equal(t, 150.0, b.TotalFees)
		assert.Equal(t, 1150.0, b.FinalTotal)
	})

	t.Run("disabled fees are skipped", func(t *testing.T) {
		b := fee.ComputeFees(1000, []fee.Fee{flat, disabled})

		assert.Len(t, b.Fees, 1)
		assert.Equal(t, 50.0, b.TotalFees)
		assert.Equal(t, 1050.0, b.FinalTotal)
	})

	t.Run("no fees", func(t *testing.T) {
		b := fee.ComputeFees(500, nil)

		assert.Empty(t, b.Fees)
		assert.Equal(t, 0.0, b.TotalFees)
		assert.Equal(t, 500.0, b.FinalTotal)
	})

	t.Run("percentage scales with subtotal", func(t *testing.T) {
		b := fee.ComputeFees(250, []fee.Fee{pct})

		assert.Equal(t, 25.0, b.TotalFees)
		assert.Equal(t, 275.0, b.FinalTotal)
	})

	t.Run("zero subtotal only charges flat fees", func(t *testing.T) {
		b := fee.ComputeFees(0, []fee.Fee{flat, pct})

		assert.Equal(t, 50.0, b.TotalFees)
		assert.Equal(t, 50.0, b.FinalTotal)
	})

	t.Run("rate snapshot is preserved on applied fees", func(t *testing.T) {
		b := fee.ComputeFees(1000, []fee.Fee{pct})

		assert.Equal(t, fee.TypePercentage, b.Fees[0].Type)
		assert.Equal(t, 10.0, b.Fees[0].Rate)
	})
}
