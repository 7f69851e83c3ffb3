package coupon

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DiscountFlat       = "flat"
	DiscountPercentage = "percentage"
)

type Coupon struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code         string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountType string    `gorm:"type:varchar(20);not null"`
	Amount       float64   `gorm:"type:numeric(12,2);not null"`
	Active       bool      `gorm:"not null;default:true"`

	ExpiresAt  *time.Time
	UsageLimit int `gorm:"not null;default:0"` // 0 means unlimited
	UsedCount  int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
