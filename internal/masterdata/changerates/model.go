package changerates

import "time"

// ChangeRate is a currency-pair conversion record scoped to the owner
// company. Rates are reference data: the billing core looks them up by id
// and never creates or mutates them.
type ChangeRate struct {
	ID                int64     `json:"id"`
	OwnerID           int64     `json:"owner_id"`
	CurrencyPrimary   string    `json:"currency_primary"`
	CurrencySecondary string    `json:"currency_secondary"`
	Rate              float64   `json:"rate"`
	RateDate          time.Time `json:"rate_date"`
}

// IsIdentity reports whether the rate converts a currency to itself.
func (c ChangeRate) IsIdentity() bool {
	return c.CurrencyPrimary == c.CurrencySecondary || c.Rate == 1
}
