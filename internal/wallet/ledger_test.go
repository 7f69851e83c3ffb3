package wallet_test

import (
	"testing"

	"shelfmarket/internal/wallet"
	walleterrors "shelfmarket/internal/wallet/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWallet(balance float64, status string) *wallet.Wallet {
	return &wallet.Wallet{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Balance:  balance,
		Currency: "USD",
		Status:   status,
	}
}

func TestApplyDebit(t *testing.T) {
	t.Run("debits and records balance after", func(t *testing.T) {
		w := newWallet(500, wallet.StatusActive)

		entry, err := wallet.ApplyDebit(w, 120, "ORD-000007", "payment for order ORD-000007")
		require.NoError(t, err)

		assert.Equal(t, 380.0, w.Balance)
		assert.Equal(t, wallet.TxTypePayment, entry.Type)
		assert.Equal(t, 120.0, entry.Amount)
		assert.Equal(t, 380.0, entry.BalanceAfter)
		assert.Equal(t, "ORD-000007", entry.Reference)
		assert.Equal(t, w.ID, entry.WalletID)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		w := newWallet(100, wallet.StatusActive)

		_, err := wallet.ApplyDebit(w, 100.01, "ORD-000008", "payment")
		assert.ErrorIs(t, err, walleterrors.ErrInsufficientFunds)
		assert.Equal(t, 100.0, w.Balance)
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		w := newWallet(100, wallet.StatusActive)

		entry, err := wallet.ApplyDebit(w, 100, "ORD-000009", "payment")
		require.NoError(t, err)
		assert.Equal(t, 0.0, w.Balance)
		assert.Equal(t, 0.0, entry.BalanceAfter)
	})

	t.Run("frozen wallet cannot pay", func(t *testing.T) {
		w := newWallet(500, wallet.StatusFrozen)

		_, err := wallet.ApplyDebit(w, 10, "ORD-000010", "payment")
		assert.ErrorIs(t, err, walleterrors.ErrWalletFrozen)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		w := newWallet(500, wallet.StatusActive)

		_, err := wallet.ApplyDebit(w, 0, "ORD-000011", "payment")
		assert.ErrorIs(t, err, walleterrors.ErrInvalidAmount)

		_, err = wallet.ApplyDebit(w, -5, "ORD-000011", "payment")
		assert.ErrorIs(t, err, walleterrors.ErrInvalidAmount)
	})
}

func TestApplyCredit(t *testing.T) {
	t.Run("credits the wallet", func(t *testing.T) {
		w := newWallet(50, wallet.StatusActive)

		entry, err := wallet.ApplyCredit(w, wallet.TxTypeDeposit, 200, "TOPUP", "manual deposit")
		require.NoError(t, err)

		assert.Equal(t, 250.0, w.Balance)
		assert.Equal(t, wallet.TxTypeDeposit, entry.Type)
		assert.Equal(t, 250.0, entry.BalanceAfter)
	})

	t.Run("refunds land on a frozen wallet", func(t *testing.T) {
		w := newWallet(0, wallet.StatusFrozen)

		entry, err := wallet.ApplyCredit(w, wallet.TxTypeRefund, 1150, "ORD-000042", "refund for order ORD-000042")
		require.NoError(t, err)
		assert.Equal(t, 1150.0, w.Balance)
		assert.Equal(t, wallet.TxTypeRefund, entry.Type)
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		w := newWallet(50, wallet.StatusActive)

		_, err := wallet.ApplyCredit(w, wallet.TxTypeDeposit, 0, "TOPUP", "noop")
		assert.ErrorIs(t, err, walleterrors.ErrInvalidAmount)
		assert.Equal(t, 50.0, w.Balance)
	})
}
