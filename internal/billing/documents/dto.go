package documents

import (
	"time"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"
)

// Creation defaults applied when the request leaves the field unset.
// Explicit zeroes are not defaults; they fail the >= 1 floor instead.
const (
	DefaultVatRate     = 21.0
	DefaultWithholding = 15.0
	DefaultLanguage    = "es"
)

// CreateDocumentRequest carries caller input for both document creation and
// amendment. Derived fields (totals, currency, deadline, payment note) are
// computed server-side and any supplied values for them are ignored.
type CreateDocumentRequest struct {
	// CompanyID names the counter-party company the document is issued to
	// or received from.
	CompanyID int64     `json:"company_id" validate:"required"`
	DocNumber string    `json:"doc_number" validate:"required"`
	DocDate   time.Time `json:"doc_date" validate:"required"`

	// Pointer fields distinguish "absent, use the default" from an explicit
	// zero, which is rejected by the rate floor.
	VatRate     *float64 `json:"vat_rate,omitempty"`
	Withholding *float64 `json:"withholding,omitempty"`
	Language    *string  `json:"language,omitempty" validate:"omitempty,len=2"`

	NoteDelivery string `json:"note_delivery,omitempty"`

	ChangeRateID  *int64 `json:"id_change_rate,omitempty"`
	BankAccountID *int64 `json:"id_bank_account,omitempty"`
	ParentID      *int64 `json:"id_document_parent,omitempty"`

	OrderIDs []int64 `json:"order_ids" validate:"required,min=1,dive,gt=0"`
}

// ListDocumentsRequest filters a document listing.
type ListDocumentsRequest struct {
	DocType   DocType
	CompanyID *int64
	Status    *DocStatus
	Limit     int
	Offset    int
}

// DocumentView is the API representation of a document with its resolved
// relations embedded.
type DocumentView struct {
	Document
	ChangeRate  *changerates.ChangeRate   `json:"change_rate,omitempty"`
	BankAccount *bankaccounts.BankAccount `json:"bank_account,omitempty"`
	Parent      *ParentSummary            `json:"parent,omitempty"`
	Orders      []BillableOrder           `json:"orders,omitempty"`
}

// ParentSummary identifies the superseded predecessor of an amended invoice.
type ParentSummary struct {
	ID        int64     `json:"id"`
	DocNumber string    `json:"doc_number"`
	DocDate   time.Time `json:"doc_date"`
	Status    DocStatus `json:"status"`
}
