package invoice

type LineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64 `json:"unit_price" binding:"required,min=0"`
}

type CreateInvoiceRequest struct {
	OrderID        string            `json:"order_id" binding:"omitempty,uuid"`
	CustomerID     string            `json:"customer_id" binding:"required,uuid"`
	CustomerName   string            `json:"customer_name" binding:"required"`
	CustomerEmail  string            `json:"customer_email" binding:"required,email"`
	CompanyName    string            `json:"company_name"`
	LineItems      []LineItemRequest `json:"line_items" binding:"required,dive"`
	TaxAmount      float64           `json:"tax_amount" binding:"min=0"`
	CustomFee      float64           `json:"custom_fee" binding:"min=0"`
	DiscountAmount float64           `json:"discount_amount" binding:"min=0"`
	Currency       string            `json:"currency" binding:"omitempty,len=3"`
	PaymentMethod  string            `json:"payment_method"`
	DueDate        string            `json:"due_date" binding:"required"`
}

type UpdateInvoiceRequest struct {
	CustomerName   *string           `json:"customer_name"`
	CustomerEmail  *string           `json:"customer_email" binding:"omitempty,email"`
	CompanyName    *string           `json:"company_name"`
	LineItems      []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
	TaxAmount      *float64          `json:"tax_amount" binding:"omitempty,min=0"`
	CustomFee      *float64          `json:"custom_fee" binding:"omitempty,min=0"`
	DiscountAmount *float64          `json:"discount_amount" binding:"omitempty,min=0"`
	PaymentMethod  *string           `json:"payment_method"`
	DueDate        *string           `json:"due_date"`
	Attachments    []string          `json:"attachments"`
}

type TransitionInvoiceRequest struct {
	Status     string  `json:"status" binding:"required,oneof=partial paid refunded"`
	AmountPaid float64 `json:"amount_paid" binding:"omitempty,min=0"`
	Reason     string  `json:"reason"`
}

type ListInvoicesFilterRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending partial paid refunded"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

type InvoiceResponse struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
	OrderID       string `json:"order_id,omitempty"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CompanyName   string `json:"company_name,omitempty"`

	LineItems      []LineItem `json:"line_items"`
	TaxAmount      float64    `json:"tax_amount"`
	CustomFee      float64    `json:"custom_fee"`
	DiscountAmount float64    `json:"discount_amount"`
	Total          float64    `json:"total"`
	AmountPaid     float64    `json:"amount_paid"`
	Currency       string     `json:"currency"`
	PaymentMethod  string     `json:"payment_method,omitempty"`

	// Status is the derived display status; StoredStatus is what the
	// transition table operates on.
	Status        string         `json:"status"`
	StoredStatus  string         `json:"stored_status"`
	StatusHistory []StatusChange `json:"status_history"`

	IssuedAt    string   `json:"issued_at"`
	DueDate     string   `json:"due_date"`
	Attachments []string `json:"attachments,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// AnalyticsSummary aggregates the invoice book for the admin dashboard.
type AnalyticsSummary struct {
	TotalInvoices    int64   `json:"total_invoices"`
	TotalBilled      float64 `json:"total_billed"`
	TotalCollected   float64 `json:"total_collected"`
	TotalOutstanding float64 `json:"total_outstanding"`
	CountPending     int64   `json:"count_pending"`
	CountPartial     int64   `json:"count_partial"`
	CountPaid        int64   `json:"count_paid"`
	CountRefunded    int64   `json:"count_refunded"`
	CountOverdue     int64   `json:"count_overdue"`
}
