package company

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityEntry is one row of a company's append-only activity log.
type ActivityEntry struct {
	Action      string    `json:"action"`
	Description string    `json:"description"`
	ActorID     string    `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ActivityLog is stored as a JSONB array.
type ActivityLog []ActivityEntry

func (l ActivityLog) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *ActivityLog) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, l)
}

// OwnershipEntry records one ownership change.
type OwnershipEntry struct {
	FromOwnerID   string    `json:"from_owner_id,omitempty"`
	ToOwnerID     string    `json:"to_owner_id"`
	OrderID       string    `json:"order_id,omitempty"`
	TransferredAt time.Time `json:"transferred_at"`
}

type OwnershipHistory []OwnershipEntry

func (h OwnershipHistory) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *OwnershipHistory) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, h)
}

type Tags []string

func (t Tags) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Tags) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, t)
}

type Company struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Number string    `gorm:"type:varchar(100);not null;uniqueIndex"`

	Country   string `gorm:"type:varchar(2);not null"`
	LegalType string `gorm:"type:varchar(30);not null"`

	IncorporationDate time.Time `gorm:"type:date;not null"`

	PurchasePrice float64 `gorm:"type:numeric(12,2);not null"`
	RenewalFee    float64 `gorm:"type:numeric(12,2);not null"`
	Currency      string  `gorm:"type:varchar(3);not null;default:'USD'"`

	RenewalDate time.Time `gorm:"type:date;not null;index:idx_companies_status_renewal"`

	Status        string `gorm:"type:varchar(20);not null;default:'available';index:idx_companies_status_renewal"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid'"`
	RefundStatus  string `gorm:"type:varchar(20)"`

	OwnerID *uuid.UUID `gorm:"type:uuid;index"`

	Tags             Tags             `gorm:"type:jsonb;default:'[]'"`
	ActivityLog      ActivityLog      `gorm:"type:jsonb;default:'[]'"`
	OwnershipHistory OwnershipHistory `gorm:"type:jsonb;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_companies_deleted_at"`
}
