package serviceorder

type PlaceServiceOrderRequest struct {
	ServiceID       string                 `json:"service_id" binding:"required,uuid"`
	CustomerEmail   string                 `json:"customer_email" binding:"required,email"`
	PaymentMethod   string                 `json:"payment_method" binding:"required,oneof=card wallet"`
	ApplicationData map[string]interface{} `json:"application_data" binding:"required"`
}

type TransitionServiceOrderRequest struct {
	Status string `json:"status" binding:"required,oneof=processing completed cancelled"`
	Reason string `json:"reason"`
}

type ListServiceOrdersFilterRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending processing completed cancelled"`
	ServiceID string `form:"service_id" binding:"omitempty,uuid"`
}

type ServiceOrderResponse struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"order_number"`
	ServiceID     string `json:"service_id"`
	ServiceName   string `json:"service_name"`
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`

	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`

	ApplicationData ApplicationData `json:"application_data"`

	Status        string         `json:"status"`
	StatusHistory []StatusChange `json:"status_history"`
	CreatedAt     string         `json:"created_at"`
}
