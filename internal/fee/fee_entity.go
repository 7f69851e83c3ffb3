package fee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Fee struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"type:varchar(100);not null"`
	Type    string    `gorm:"type:varchar(20);not null"`
	Amount  float64   `gorm:"type:numeric(12,2);not null"`
	Enabled bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
