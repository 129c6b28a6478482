package companies

import "time"

// Company represents a company record. A company is either the tenant itself
// (owner of documents and orders) or the counter-party a document is issued
// to or received from.
type Company struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
