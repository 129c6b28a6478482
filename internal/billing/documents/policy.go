package documents

import "fmt"

// CounterpartyKind selects which masterdata repository resolves the
// counter-party of a document.
type CounterpartyKind string

const (
	KindCustomer CounterpartyKind = "customer"
	KindProvider CounterpartyKind = "provider"
)

// AmendMode selects the amendment strategy of a docType family. Invoices
// are replaced (retire the predecessor, issue a successor) because they may
// already be in a counter-party's hands; quotes and purchase orders are
// patched in place because they stay mutable until accepted.
type AmendMode string

const (
	AmendReplace AmendMode = "replace"
	AmendPatch   AmendMode = "patch"
)

// Policy captures everything that differs between the four docType
// variants, so one orchestrator serves them all.
type Policy struct {
	DocType      DocType
	Counterparty CounterpartyKind
	// FlipsBilled marks the associated orders as billed at creation time.
	// Only invoice-type documents claim orders.
	FlipsBilled bool
	AmendMode   AmendMode
	// NumberPrefix leads the year-prefixed docNumber scheme, e.g. Q2026-0012.
	NumberPrefix string
	// RateFallback and AccountFallback let quote creation fall back to the
	// owner's first configured change rate / bank account when none is given.
	RateFallback    bool
	AccountFallback bool
	// RequirePending restricts amendment to PENDING documents. Provider
	// invoices enforce it; a paid provider invoice can no longer be amended.
	RequirePending bool
	// PaymentNote enables the localized payment note computed for
	// customer-facing documents.
	PaymentNote bool
}

var policies = map[DocType]Policy{
	DocTypeQuote: {
		DocType:         DocTypeQuote,
		Counterparty:    KindCustomer,
		FlipsBilled:     false,
		AmendMode:       AmendPatch,
		NumberPrefix:    "Q",
		RateFallback:    true,
		AccountFallback: true,
		PaymentNote:     true,
	},
	DocTypePurchaseOrder: {
		DocType:      DocTypePurchaseOrder,
		Counterparty: KindCustomer,
		FlipsBilled:  false,
		AmendMode:    AmendPatch,
		NumberPrefix: "PO",
		PaymentNote:  true,
	},
	DocTypeCustomerInvoice: {
		DocType:      DocTypeCustomerInvoice,
		Counterparty: KindCustomer,
		FlipsBilled:  true,
		AmendMode:    AmendReplace,
		NumberPrefix: "INV",
		PaymentNote:  true,
	},
	DocTypeProviderInvoice: {
		DocType:        DocTypeProviderInvoice,
		Counterparty:   KindProvider,
		FlipsBilled:    true,
		AmendMode:      AmendReplace,
		NumberPrefix:   "PINV",
		RequirePending: true,
	},
}

// PolicyFor returns the policy of the given docType.
func PolicyFor(t DocType) (Policy, error) {
	p, ok := policies[t]
	if !ok {
		return Policy{}, fmt.Errorf("no policy for document type %q", t)
	}
	return p, nil
}
