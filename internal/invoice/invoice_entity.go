package invoice

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stored statuses. "overdue" is never stored; it is derived from the due
// date at read time, see DisplayStatus.
const (
	StatusPending  = "pending"
	StatusPartial  = "partial"
	StatusPaid     = "paid"
	StatusRefunded = "refunded"

	StatusOverdue = "overdue"
)

// LineItem is one billed row; Total is always Quantity * UnitPrice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LineItems) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

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

type Attachments []string

func (a Attachments) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Attachments) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, a)
}

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`

	OrderID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName  string    `gorm:"type:varchar(255);not null"`
	CustomerEmail string    `gorm:"type:varchar(255);not null"`
	CompanyName   string    `gorm:"type:varchar(255)"`

	LineItems LineItems `gorm:"type:jsonb;not null;default:'[]'"`

	TaxAmount      float64 `gorm:"type:numeric(12,2);not null;default:0"`
	CustomFee      float64 `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountAmount float64 `gorm:"type:numeric(12,2);not null;default:0"`
	Total          float64 `gorm:"type:numeric(12,2);not null"`
	AmountPaid     float64 `gorm:"type:numeric(12,2);not null;default:0"`
	Currency       string  `gorm:"type:varchar(3);not null;default:'USD'"`

	PaymentMethod string `gorm:"type:varchar(20)"`

	Status        string        `gorm:"type:varchar(20);not null;default:'pending';index"`
	StatusHistory StatusHistory `gorm:"type:jsonb;default:'[]'"`

	IssuedAt time.Time `gorm:"type:date;not null"`
	DueDate  time.Time `gorm:"type:date;not null;index"`

	Attachments Attachments `gorm:"type:jsonb;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
