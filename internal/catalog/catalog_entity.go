package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field types accepted in a service's application form.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeFile     = "file"
	FieldTypeCheckbox = "checkbox"
)

// FormField defines one input of the dynamic application form a customer
// fills when ordering the service.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type FormFields []FormField

func (f FormFields) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FormFields) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, f)
}

// CatalogService is a purchasable administrative service such as apostille
// certification or registered-agent representation.
type CatalogService struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(100);index"`

	Price    float64 `gorm:"type:numeric(12,2);not null"`
	Currency string  `gorm:"type:varchar(3);not null;default:'USD'"`

	Active     bool       `gorm:"not null;default:true"`
	FormFields FormFields `gorm:"type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CatalogService) TableName() string {
	return "catalog_services"
}
