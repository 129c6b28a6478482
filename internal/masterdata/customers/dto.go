package customers

type CreateCustomerRequest struct {
	CompanyID int64   `json:"company_id" validate:"required,gt=0"`
	Name      string  `json:"name" validate:"required,max=120"`
	TaxID     *string `json:"tax_id,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	DueDays   int     `json:"due_days" validate:"gte=0,lte=365"`
	Language  string  `json:"language" validate:"omitempty,len=2"`
}

type ListCustomersRequest struct {
	IsActive *bool `json:"is_active,omitempty"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	TaxID    *string `json:"tax_id,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	DueDays  *int    `json:"due_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	Language *string `json:"language,omitempty" validate:"omitempty,len=2"`
	IsActive *bool   `json:"is_active,omitempty"`
}
