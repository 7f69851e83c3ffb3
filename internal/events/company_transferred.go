package events

import "time"

const CompanyTransferredTopic = "market.company.transferred.v1"

type CompanyTransferredEvent struct {
	EventType   string    `json:"event_type"`
	CompanyID   string    `json:"company_id"`
	FromOwnerID string    `json:"from_owner_id,omitempty"`
	ToOwnerID   string    `json:"to_owner_id"`
	OrderID     string    `json:"order_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
