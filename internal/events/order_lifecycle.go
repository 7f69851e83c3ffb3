package events

import "time"

const OrderLifecycleTopic = "market.order.lifecycle.v1"

const (
	OrderEventCreated  = "order_created"
	OrderEventPaid     = "order_paid"
	OrderEventRefunded = "order_refunded"
)

type OrderLifecycleEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	CompanyID   string    `json:"company_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
