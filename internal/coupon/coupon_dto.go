package coupon

type CreateCouponRequest struct {
	Code         string  `json:"code" binding:"required,min=3,max=50"`
	DiscountType string  `json:"discount_type" binding:"required,oneof=flat percentage"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	ExpiresAt    string  `json:"expires_at"`
	UsageLimit   int     `json:"usage_limit" binding:"gte=0"`
}

type UpdateCouponRequest struct {
	DiscountType string   `json:"discount_type" binding:"omitempty,oneof=flat percentage"`
	Amount       *float64 `json:"amount" binding:"omitempty,gt=0"`
	Active       *bool    `json:"active"`
	ExpiresAt    string   `json:"expires_at"`
	UsageLimit   *int     `json:"usage_limit" binding:"omitempty,gte=0"`
}

type ValidateCouponRequest struct {
	Code         string  `json:"code" binding:"required"`
	CurrentTotal float64 `json:"current_total" binding:"required,gt=0"`
}

type CouponResponse struct {
	ID           string  `json:"id"`
	Code         string  `json:"code"`
	DiscountType string  `json:"discount_type"`
	Amount       float64 `json:"amount"`
	Active       bool    `json:"active"`
	ExpiresAt    *string `json:"expires_at,omitempty"`
	UsageLimit   int     `json:"usage_limit"`
	UsedCount    int     `json:"used_count"`
}

// ValidationResult is what the checkout flow consumes.
type ValidationResult struct {
	Valid           bool           `json:"valid"`
	Discount        float64        `json:"discount"`
	DiscountedTotal float64        `json:"discounted_total"`
	Coupon          CouponResponse `json:"coupon"`
}
