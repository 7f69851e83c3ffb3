package company

type CreateCompanyRequest struct {
	Name              string   `json:"name" binding:"required"`
	Number            string   `json:"number" binding:"required"`
	Country           string   `json:"country" binding:"required,len=2"`
	LegalType         string   `json:"legal_type" binding:"required,oneof=LLC LTD GMBH SARL INC PLC"`
	IncorporationDate string   `json:"incorporation_date" binding:"required"`
	PurchasePrice     float64  `json:"purchase_price" binding:"required,gt=0"`
	RenewalFee        float64  `json:"renewal_fee" binding:"required,gte=0"`
	Currency          string   `json:"currency" binding:"required,len=3"`
	RenewalDate       string   `json:"renewal_date"`
	Tags              []string `json:"tags"`
}

type UpdateCompanyRequest struct {
	Name          string   `json:"name"`
	Country       string   `json:"country" binding:"omitempty,len=2"`
	LegalType     string   `json:"legal_type" binding:"omitempty,oneof=LLC LTD GMBH SARL INC PLC"`
	PurchasePrice *float64 `json:"purchase_price" binding:"omitempty,gt=0"`
	RenewalFee    *float64 `json:"renewal_fee" binding:"omitempty,gte=0"`
	RenewalDate   string   `json:"renewal_date"`
	Tags          []string `json:"tags"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required,uuid"`
	OrderID    string `json:"order_id" binding:"omitempty,uuid"`
}

type ListCompaniesFilterRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=available pending active expired cancelled refunded sold"`
	Country   string `form:"country" binding:"omitempty,len=2"`
	LegalType string `form:"legal_type"`
	OwnerID   string `form:"owner_id" binding:"omitempty,uuid"`
}

type CompanyResponse struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Number            string           `json:"number"`
	Country           string           `json:"country"`
	LegalType         string           `json:"legal_type"`
	IncorporationDate string           `json:"incorporation_date"`
	PurchasePrice     float64          `json:"purchase_price"`
	RenewalFee        float64          `json:"renewal_fee"`
	Currency          string           `json:"currency"`
	RenewalDate       string           `json:"renewal_date"`
	RenewalDaysLeft   int              `json:"renewal_days_left"`
	Status            string           `json:"status"`
	PaymentStatus     string           `json:"payment_status"`
	RefundStatus      string           `json:"refund_status,omitempty"`
	OwnerID           *string          `json:"owner_id,omitempty"`
	Tags              []string         `json:"tags"`
	ActivityLog       []ActivityEntry  `json:"activity_log,omitempty"`
	OwnershipHistory  []OwnershipEntry `json:"ownership_history,omitempty"`
}
