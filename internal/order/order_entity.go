package order

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"shelfmarket/internal/fee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusChange is one row of an order's append-only status history.
type StatusChange struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	Reason     string    `json:"reason,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

type StatusHistory []StatusChange

func (h StatusHistory) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *StatusHistory) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, h)
}

// FeeSnapshot freezes the fee breakdown computed at checkout time so later
// fee-definition changes never alter a placed order.
type FeeSnapshot fee.Breakdown

func (s FeeSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *FeeSnapshot) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// CouponSnapshot freezes the coupon applied at checkout, if any.
type CouponSnapshot struct {
	CouponID string  `json:"coupon_id"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

func (s CouponSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *CouponSnapshot) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, s)
}

// Refund is the refund sub-record embedded in an order.
type Refund struct {
	Amount     float64   `json:"amount"`
	Reason     string    `json:"reason"`
	RefundedBy string    `json:"refunded_by"`
	RefundedAt time.Time `json:"refunded_at"`
	Method     string    `json:"method"`
}

func (r Refund) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *Refund) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, r)
}

type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`

	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName  string    `gorm:"type:varchar(255);not null"`
	CustomerEmail string    `gorm:"type:varchar(255);not null"`
	CustomerPhone string    `gorm:"type:varchar(50)"`

	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	Subtotal float64 `gorm:"type:numeric(12,2);not null"`
	Amount   float64 `gorm:"type:numeric(12,2);not null"`
	Currency string  `gorm:"type:varchar(3);not null;default:'USD'"`

	PaymentMethod string `gorm:"type:varchar(20);not null"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid'"`

	Status        string        `gorm:"type:varchar(30);not null;default:'pending_payment';index"`
	StatusHistory StatusHistory `gorm:"type:jsonb;default:'[]'"`

	AppliedFees   FeeSnapshot     `gorm:"type:jsonb"`
	AppliedCoupon *CouponSnapshot `gorm:"type:jsonb"`
	RefundRecord  *Refund         `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
