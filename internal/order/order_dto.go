package order

import "shelfmarket/internal/fee"

type CheckoutRequest struct {
	CompanyID     string `json:"company_id" binding:"required,uuid"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card wallet"`
	CouponCode    string `json:"coupon_code"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=paid transfer_form_pending under_review amend_required pending_transfer completed cancelled refunded disputed"`
	Reason string `json:"reason"`
}

type RefundOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
	Method string `json:"method" binding:"required,oneof=wallet original"`
}

type ListOrdersFilterRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending_payment paid transfer_form_pending under_review amend_required pending_transfer completed cancelled refunded disputed"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

type OrderResponse struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	CompanyID     string          `json:"company_id"`
	Subtotal      float64         `json:"subtotal"`
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Status        string          `json:"status"`
	NextStatuses  []string        `json:"next_statuses"`
	StatusHistory []StatusChange  `json:"status_history"`
	AppliedFees   fee.Breakdown   `json:"applied_fees"`
	AppliedCoupon *CouponSnapshot `json:"applied_coupon,omitempty"`
	RefundRecord  *Refund         `json:"refund,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
