package wallet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive = "active"
	StatusFrozen = "frozen"
)

const (
	TxTypeDeposit = "deposit"
	TxTypePayment = "payment"
	TxTypeRefund  = "refund"
)

type Wallet struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Balance  float64   `gorm:"type:numeric(12,2);not null;default:0"`
	Currency string    `gorm:"type:varchar(3);not null;default:'USD'"`
	Status   string    `gorm:"type:varchar(20);not null;default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Transaction is one row of a wallet's append-only ledger.
type Transaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WalletID     uuid.UUID `gorm:"type:uuid;not null;index:idx_wallet_transactions_wallet"`
	Type         string    `gorm:"type:varchar(20);not null"`
	Amount       float64   `gorm:"type:numeric(12,2);not null"`
	BalanceAfter float64   `gorm:"type:numeric(12,2);not null"`
	Reference    string    `gorm:"type:varchar(100)"`
	Description  string    `gorm:"type:text"`

	CreatedAt time.Time
}
