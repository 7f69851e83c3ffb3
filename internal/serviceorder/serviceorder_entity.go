package serviceorder

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PaymentMethodCard   = "card"
	PaymentMethodWallet = "wallet"
)

// ApplicationData holds the customer's answers to the service's dynamic
// form, keyed by field name.
type ApplicationData map[string]interface{}

func (d ApplicationData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ApplicationData) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, d)
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

type ServiceOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`

	ServiceID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceName string    `gorm:"type:varchar(255);not null"`

	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerEmail string    `gorm:"type:varchar(255);not null"`

	Amount   float64 `gorm:"type:numeric(12,2);not null"`
	Currency string  `gorm:"type:varchar(3);not null;default:'USD'"`

	PaymentMethod string `gorm:"type:varchar(20);not null"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid'"`

	ApplicationData ApplicationData `gorm:"type:jsonb;not null;default:'{}'"`

	Status        string        `gorm:"type:varchar(20);not null;default:'pending';index"`
	StatusHistory StatusHistory `gorm:"type:jsonb;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
