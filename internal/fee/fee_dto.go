package fee

type CreateFeeRequest struct {
	Name    string  `json:"name" binding:"required"`
	Type    string  `json:"type" binding:"required,oneof=flat percentage"`
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Enabled *bool   `json:"enabled"`
}

type UpdateFeeRequest struct {
	Name    string   `json:"name"`
	Type    string   `json:"type" binding:"omitempty,oneof=flat percentage"`
	Amount  *float64 `json:"amount" binding:"omitempty,gt=0"`
	Enabled *bool    `json:"enabled"`
}

type FeeResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Amount  float64 `json:"amount"`
	Enabled bool    `json:"enabled"`
}

type QuoteRequest struct {
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}
