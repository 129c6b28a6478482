package bankaccounts

// BankAccount is reference data scoped to the owner company, attached to
// customer-facing documents so the payment note can name the account.
type BankAccount struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Bank    string `json:"bank"`
	IBAN    string `json:"iban"`
	Notes   string `json:"notes,omitempty"`
}
