package orders

import "time"

// Order is a unit of billable work recorded by the owner company against a
// target counter-party company. Its total is always the sum of its item
// totals and is recomputed whenever items change.
type Order struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	CompanyID    int64     `json:"company_id"`
	Description  string    `json:"description"`
	OrderDate    time.Time `json:"order_date"`
	PricePerUnit float64   `json:"price_per_unit"`
	UnitLabel    string    `json:"unit_label"`
	Total        float64   `json:"total"`
	// Billed marks the order as claimed by an active (non-MODIFIED)
	// invoice-type document.
	Billed    bool      `json:"billed"`
	Items     []Item    `json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a billable line owned exclusively by one Order.
type Item struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	Description     string  `json:"description"`
	Quantity        float64 `json:"quantity"`
	DiscountPercent float64 `json:"discount_percent"`
	Total           float64 `json:"total"`
	LineOrder       int     `json:"line_order"`
}
