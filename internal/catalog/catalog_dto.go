package catalog

type FormFieldRequest struct {
	Name     string   `json:"name" binding:"required"`
	Label    string   `json:"label" binding:"required"`
	Type     string   `json:"type" binding:"required"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
}

type CreateServiceRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Price       float64            `json:"price" binding:"required,min=0"`
	Currency    string             `json:"currency" binding:"omitempty,len=3"`
	FormFields  []FormFieldRequest `json:"form_fields" binding:"dive"`
}

type UpdateServiceRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Category    *string            `json:"category"`
	Price       *float64           `json:"price" binding:"omitempty,min=0"`
	Active      *bool              `json:"active"`
	FormFields  []FormFieldRequest `json:"form_fields" binding:"omitempty,dive"`
}

type ListServicesFilterRequest struct {
	Category string `form:"category"`
	Active   *bool  `form:"active"`
}

type ServiceResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
	Active      bool        `json:"active"`
	FormFields  []FormField `json:"form_fields"`
	CreatedAt   string      `json:"created_at"`
}
