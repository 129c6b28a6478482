package customers

import "time"

// Customer links the owner company to a counter-party company it issues
// quotes and customer invoices to, with the billing configuration for that
// relationship.
type Customer struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     *string   `json:"tax_id,omitempty"`
	Email     *string   `json:"email,omitempty"`
	// DueDays is the payment deadline offset applied to document dates.
	DueDays   int       `json:"due_days"`
	Language  string    `json:"language"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
