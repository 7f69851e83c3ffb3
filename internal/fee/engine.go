package fee

const (
	TypeFlat       = "flat"
	TypePercentage = "percentage"
)

// AppliedFee is one fee definition resolved against a subtotal.
type AppliedFee struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Breakdown is the result of applying all enabled fees to a subtotal.
type Breakdown struct {
	Subtotal   float64      `json:"subtotal"`
	Fees       []AppliedFee `json:"fees"`
	TotalFees  float64      `json:"total_fees"`
	FinalTotal float64      `json:"final_total"`
}

// ComputeFees applies every enabled fee definition to the subtotal. Flat fees
// contribute their amount directly, percentage fees contribute
// subtotal * amount / 100.
func ComputeFees(subtotal float64, defs []Fee) Breakdown {
	b := Breakdown{
		Subtotal: subtotal,
		Fees:     make([]AppliedFee, 0, len(defs)),
	}

	for _, def := range defs {
		if !def.Enabled {
			continue
		}

		amount := def.Amount
		if def.Type == TypePercentage {
			amount = subtotal * def.Amount / 100
		}

		b.Fees = append(b.Fees, AppliedFee{
			ID:     def.ID.String(),
			Name:   def.Name,
			Type:   def.Type,
			Rate:   def.Amount,
			Amount: amount,
		})
		b.TotalFees += amount
	}

	b.FinalTotal = subtotal + b.TotalFees
	return b
}
