package documents

import "errors"

// Business-rule violations. All are terminal: none are retried and none
// leave partial writes behind, since documents are persisted only after
// every check has passed.
var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrChangeRateNotFound  = errors.New("change rate not found")
	ErrBankAccountNotFound = errors.New("bank account not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrProviderNotFound    = errors.New("provider not found")

	// ErrNoOrders rejects creation when the resolved order set is empty.
	ErrNoOrders = errors.New("cannot create a document without orders")

	// Rates below 1 percentage point are rejected. The floor deliberately
	// mirrors the historical behaviour: a 0% rate is indistinguishable from
	// an absent one and is treated as invalid.
	ErrInvalidVatRate     = errors.New("vat rate must be at least 1")
	ErrInvalidWithholding = errors.New("withholding must be at least 1")

	ErrOrderAlreadyBilled = errors.New("order is already billed by another document")
	ErrOrderWrongCompany  = errors.New("order does not belong to the requested company")

	ErrAlreadyModified = errors.New("document has already been modified")
	ErrNotPending      = errors.New("document is not pending")
)

// ErrorCode returns the localizable code surfaced to API clients for a
// business error, or an empty string for unexpected failures.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDocumentNotFound):
		return "document.not_found"
	case errors.Is(err, ErrChangeRateNotFound):
		return "change_rate.not_found"
	case errors.Is(err, ErrBankAccountNotFound):
		return "bank_account.not_found"
	case errors.Is(err, ErrCustomerNotFound):
		return "customer.not_found"
	case errors.Is(err, ErrProviderNotFound):
		return "provider.not_found"
	case errors.Is(err, ErrNoOrders):
		return "document.no_orders"
	case errors.Is(err, ErrInvalidVatRate):
		return "document.invalid_vat_rate"
	case errors.Is(err, ErrInvalidWithholding):
		return "document.invalid_withholding"
	case errors.Is(err, ErrOrderAlreadyBilled):
		return "order.already_billed"
	case errors.Is(err, ErrOrderWrongCompany):
		return "order.wrong_company"
	case errors.Is(err, ErrAlreadyModified):
		return "document.already_modified"
	case errors.Is(err, ErrNotPending):
		return "document.not_pending"
	}
	return ""
}
