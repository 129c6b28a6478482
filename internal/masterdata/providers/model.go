package providers

import "time"

// Provider links the owner company to a counter-party company it receives
// purchase orders and provider invoices from.
type Provider struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     *string   `json:"tax_id,omitempty"`
	Email     *string   `json:"email,omitempty"`
	DueDays   int       `json:"due_days"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProviderRequest struct {
	CompanyID int64   `json:"company_id" validate:"required,gt=0"`
	Name      string  `json:"name" validate:"required,max=120"`
	TaxID     *string `json:"tax_id,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	DueDays   int     `json:"due_days" validate:"gte=0,lte=365"`
}

type UpdateProviderRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	TaxID    *string `json:"tax_id,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	DueDays  *int    `json:"due_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	IsActive *bool   `json:"is_active,omitempty"`
}
