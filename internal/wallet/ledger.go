package wallet

import (
	"github.com/google/uuid"

	walleterrors "shelfmarket/internal/wallet/errors"
)

// ApplyDebit mutates the wallet in place and returns the matching ledger
// entry. Guards (frozen wallet, insufficient balance) live here so every
// caller, including the checkout flow debiting inside its own transaction,
// enforces the same rules.
func ApplyDebit(w *Wallet, amount float64, reference, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, walleterrors.ErrInvalidAmount
	}
	if w.Status == StatusFrozen {
		return nil, walleterrors.ErrWalletFrozen
	}
	if w.Balance < amount {
		return nil, walleterrors.ErrInsufficientFunds
	}

	w.Balance -= amount
	return &Transaction{
		ID:           uuid.New(),
		WalletID:     w.ID,
		Type:         TxTypePayment,
		Amount:       amount,
		BalanceAfter: w.Balance,
		Reference:    reference,
		Description:  description,
	}, nil
}

// ApplyCredit mutates the wallet in place and returns the ledger entry.
// Credits are allowed on frozen wallets so refunds always land.
func ApplyCredit(w *Wallet, txType string, amount float64, reference, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, walleterrors.ErrInvalidAmount
	}

	w.Balance += amount
	return &Transaction{
		ID:           uuid.New(),
		WalletID:     w.ID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: w.Balance,
		Reference:    reference,
		Description:  description,
	}, nil
}
