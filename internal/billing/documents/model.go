package documents

import (
	"fmt"
	"time"
)

// DocType enumerates the financial document families.
type DocType string

const (
	DocTypeQuote           DocType = "QUOTE"
	DocTypePurchaseOrder   DocType = "PURCHASE_ORDER"
	DocTypeCustomerInvoice DocType = "CUSTOMER_INVOICE"
	DocTypeProviderInvoice DocType = "PROVIDER_INVOICE"
)

// ParseDocType converts the URL/path token into a DocType.
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case DocTypeQuote, DocTypePurchaseOrder, DocTypeCustomerInvoice, DocTypeProviderInvoice:
		return DocType(s), nil
	}
	switch s {
	case "quotes":
		return DocTypeQuote, nil
	case "purchase-orders":
		return DocTypePurchaseOrder, nil
	case "customer-invoices":
		return DocTypeCustomerInvoice, nil
	case "provider-invoices":
		return DocTypeProviderInvoice, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// DocStatus enumerates document statuses.
type DocStatus string

const (
	StatusPending  DocStatus = "PENDING"
	StatusPaid     DocStatus = "PAID"
	StatusModified DocStatus = "MODIFIED"
	StatusDeleted  DocStatus = "DELETED"
)

// Document is an immutable financial document issued by the owner company
// to a counter-party company, aggregating a set of billed orders. Monetary
// totals are derived; callers never set them directly.
type Document struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	CompanyID int64     `json:"company_id"`
	DocNumber string    `json:"doc_number"`
	DocDate   time.Time `json:"doc_date"`
	DocType   DocType   `json:"doc_type"`
	Status    DocStatus `json:"status"`
	Language  string    `json:"language"`

	// VatRate and Withholding are percentage points, not fractions.
	VatRate     float64 `json:"vat_rate"`
	Withholding float64 `json:"withholding"`

	TotalNet         float64 `json:"total_net"`
	TotalVat         float64 `json:"total_vat"`
	TotalWithholding float64 `json:"total_withholding"`
	TotalGross       float64 `json:"total_gross"`
	TotalToPay       float64 `json:"total_to_pay"`
	Currency         string  `json:"currency"`

	// Secondary-currency projections, present only when the change rate is
	// not an identity rate. Read-only additions, never replacements.
	SecondaryCurrency   string  `json:"secondary_currency,omitempty"`
	TotalGrossSecondary float64 `json:"total_gross_secondary,omitempty"`
	TotalToPaySecondary float64 `json:"total_to_pay_secondary,omitempty"`

	NoteDelivery string    `json:"note_delivery,omitempty"`
	NotePayment  string    `json:"note_payment,omitempty"`
	Deadline     time.Time `json:"deadline"`

	ChangeRateID  *int64 `json:"id_change_rate,omitempty"`
	BankAccountID *int64 `json:"id_bank_account,omitempty"`
	// ParentID references the document this one supersedes.
	ParentID *int64 `json:"id_document_parent,omitempty"`

	OrderIDs  []int64   `json:"order_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BillableOrder is the projection of an order used during billing
// validation: enough to check ownership, counter-party and billed state and
// to sum totals. Relationships stay id-based; there are no live
// back-pointers between documents and orders.
type BillableOrder struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Description string    `json:"description"`
	OrderDate   time.Time `json:"order_date"`
	Total       float64   `json:"total"`
	Billed      bool      `json:"billed"`
}
