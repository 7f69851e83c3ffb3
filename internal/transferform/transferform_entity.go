package transferform

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusUnderReview        = "under_review"
	StatusAmendRequired      = "amend_required"
	StatusConfirmApplication = "confirm_application"
	StatusTransferring       = "transferring"
	StatusCompleteTransfer   = "complete_transfer"
	StatusCanceled           = "canceled"
)

// Comment is one reviewer or applicant note on a form.
type Comment struct {
	AuthorID string    `json:"author_id"`
	Body     string    `json:"body"`
	PostedAt time.Time `json:"posted_at"`
}

type Comments []Comment

func (c Comments) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *Comments) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, c)
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

type TransferForm struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`

	BuyerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerName    string    `gorm:"type:varchar(255);not null"`
	BuyerEmail   string    `gorm:"type:varchar(255);not null"`
	BuyerPhone   string    `gorm:"type:varchar(50)"`
	BuyerAddress string    `gorm:"type:text;not null"`

	SellerName    string `gorm:"type:varchar(255);not null"`
	SellerEmail   string `gorm:"type:varchar(255)"`
	SellerAddress string `gorm:"type:text"`

	Status        string        `gorm:"type:varchar(30);not null;default:'under_review';index"`
	StatusHistory StatusHistory `gorm:"type:jsonb;default:'[]'"`

	Comments    Comments    `gorm:"type:jsonb;default:'[]'"`
	Attachments Attachments `gorm:"type:jsonb;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
