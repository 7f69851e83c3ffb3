package transferform

type CreateTransferFormRequest struct {
	OrderID       string `json:"order_id" binding:"required,uuid"`
	BuyerName     string `json:"buyer_name" binding:"required"`
	BuyerEmail    string `json:"buyer_email" binding:"required,email"`
	BuyerPhone    string `json:"buyer_phone"`
	BuyerAddress  string `json:"buyer_address" binding:"required"`
	SellerName    string `json:"seller_name" binding:"required"`
	SellerEmail   string `json:"seller_email" binding:"omitempty,email"`
	SellerAddress string `json:"seller_address"`
}

type AmendTransferFormRequest struct {
	BuyerName     *string  `json:"buyer_name"`
	BuyerEmail    *string  `json:"buyer_email" binding:"omitempty,email"`
	BuyerPhone    *string  `json:"buyer_phone"`
	BuyerAddress  *string  `json:"buyer_address"`
	SellerName    *string  `json:"seller_name"`
	SellerEmail   *string  `json:"seller_email" binding:"omitempty,email"`
	SellerAddress *string  `json:"seller_address"`
	Attachments   []string `json:"attachments"`
}

type TransitionTransferFormRequest struct {
	Status string `json:"status" binding:"required,oneof=under_review amend_required confirm_application transferring complete_transfer canceled"`
	Reason string `json:"reason"`
}

type AddCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type ListTransferFormsFilterRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=under_review amend_required confirm_application transferring complete_transfer canceled"`
}

type TransferFormResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	CompanyID string `json:"company_id"`

	BuyerID      string `json:"buyer_id"`
	BuyerName    string `json:"buyer_name"`
	BuyerEmail   string `json:"buyer_email"`
	BuyerPhone   string `json:"buyer_phone,omitempty"`
	BuyerAddress string `json:"buyer_address"`

	SellerName    string `json:"seller_name"`
	SellerEmail   string `json:"seller_email,omitempty"`
	SellerAddress string `json:"seller_address,omitempty"`

	Status        string         `json:"status"`
	NextStatuses  []string       `json:"next_statuses"`
	StatusHistory []StatusChange `json:"status_history"`

	Comments    []Comment `json:"comments"`
	Attachments []string  `json:"attachments,omitempty"`
	CreatedAt   string    `json:"created_at"`
}
