package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/customers"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/providers"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Service orchestrates document creation, amendment and lifecycle for all
// four docType families. The per-type differences live entirely in Policy.
type Service struct {
	repo       Repository
	rates      changerates.Repository
	accounts   bankaccounts.Repository
	customers  customers.Repository
	providers  providers.Repository
	now        func() time.Time
	afterWrite func(context.Context)
}

// NewService builds a Service instance.
func NewService(
	repo Repository,
	rates changerates.Repository,
	accounts bankaccounts.Repository,
	cust customers.Repository,
	prov providers.Repository,
) *Service {
	return &Service{
		repo:      repo,
		rates:     rates,
		accounts:  accounts,
		customers: cust,
		providers: prov,
		now:       time.Now,
	}
}

// OnWrite registers a callback invoked after every successful document
// write. The router uses it to invalidate report caches.
func (s *Service) OnWrite(fn func(context.Context)) {
	s.afterWrite = fn
}

func (s *Service) notifyWrite(ctx context.Context) {
	if s.afterWrite != nil {
		s.afterWrite(ctx)
	}
}

// counterparty is the resolved customer or provider a document is issued
// against: the display name, the payment-term offset in days and, for
// customers, the preferred document language.
type counterparty struct {
	name     string
	dueDays  int
	language string
}

// Create issues a new document of the given type. All validation happens
// before any write; the document insert and the billed-flag flips share one
// transaction so no partial state is ever visible.
func (s *Service) Create(ctx context.Context, ownerID int64, docType DocType, req CreateDocumentRequest) (*DocumentView, error) {
	policy, err := PolicyFor(docType)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, ownerID, policy, req, nil)
}

// Amend applies the docType's amendment strategy. Invoices retire the
// existing document (status MODIFIED) and issue a successor linked through
// parentID; quotes and purchase orders are rewritten in place. A document
// can only be amended once.
func (s *Service) Amend(ctx context.Context, ownerID, id int64, docType DocType, req CreateDocumentRequest) (*DocumentView, error) {
	policy, err := PolicyFor(docType)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, ownerID, id, docType)
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusModified {
		return nil, ErrAlreadyModified
	}
	if policy.RequirePending && existing.Status != StatusPending {
		return nil, ErrNotPending
	}

	// The successor inherits the predecessor's counter-party regardless of
	// what the request claims.
	req.CompanyID = existing.CompanyID

	if policy.AmendMode == AmendReplace {
		return s.create(ctx, ownerID, policy, req, existing)
	}
	return s.patchInPlace(ctx, ownerID, policy, existing, req)
}

func (s *Service) create(ctx context.Context, ownerID int64, policy Policy, req CreateDocumentRequest, predecessor *Document) (*DocumentView, error) {
	rate, err := s.resolveRate(ctx, policy, ownerID, req.ChangeRateID)
	if err != nil {
		return nil, err
	}
	account, err := s.resolveAccount(ctx, policy, ownerID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	vatRate, withholding, err := effectiveRates(req)
	if err != nil {
		return nil, err
	}
	cp, err := s.resolveCounterparty(ctx, policy, ownerID, req.CompanyID)
	if err != nil {
		return nil, err
	}
	lang := effectiveLanguage(req.Language, cp)

	var created int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		parent := predecessor
		if parent == nil && req.ParentID != nil {
			p, err := repo.Get(ctx, ownerID, *req.ParentID, policy.DocType)
			if err != nil {
				return err
			}
			parent = p
		}

		orders, err := repo.OrdersForBilling(ctx, ownerID, req.OrderIDs)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		if len(orders) == 0 {
			return ErrNoOrders
		}
		if err := validateOrdersForBilling(req.CompanyID, orders, parent); err != nil {
			return err
		}

		doc := Document{
			OwnerID:      ownerID,
			CompanyID:    req.CompanyID,
			DocNumber:    req.DocNumber,
			DocDate:      req.DocDate,
			DocType:      policy.DocType,
			Status:       StatusPending,
			Language:     lang,
			VatRate:      vatRate,
			Withholding:  withholding,
			Currency:     rate.CurrencyPrimary,
			NoteDelivery: req.NoteDelivery,
			Deadline:     req.DocDate.AddDate(0, 0, cp.dueDays),
			ChangeRateID: &rate.ID,
			OrderIDs:     orderIDs(orders),
		}
		if account != nil {
			doc.BankAccountID = &account.ID
		}
		if parent != nil {
			doc.ParentID = &parent.ID
		}
		ComputeTotals(orders, vatRate, withholding, rate).apply(&doc)
		if policy.PaymentNote {
			doc.NotePayment = paymentNote(lang, cp.name, doc.Deadline, account)
		}

		if predecessor != nil {
			if err := repo.UpdateStatus(ctx, ownerID, predecessor.ID, StatusModified); err != nil {
				return fmt.Errorf("retire predecessor: %w", err)
			}
		}
		id, err := repo.Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		created = id

		if policy.FlipsBilled {
			if err := repo.MarkOrdersBilled(ctx, doc.OrderIDs, true); err != nil {
				return fmt.Errorf("mark orders billed: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyWrite(ctx)
	return s.view(ctx, ownerID, created, policy.DocType)
}

// patchInPlace rewrites a mutable document. The docNumber never changes;
// dates, rates, accounts and the order set do, and every derived field is
// recomputed from the new inputs.
func (s *Service) patchInPlace(ctx context.Context, ownerID int64, policy Policy, existing *Document, req CreateDocumentRequest) (*DocumentView, error) {
	rate, err := s.resolveRate(ctx, policy, ownerID, req.ChangeRateID)
	if err != nil {
		return nil, err
	}
	account, err := s.resolveAccount(ctx, policy, ownerID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	vatRate, withholding, err := effectiveRates(req)
	if err != nil {
		return nil, err
	}
	cp, err := s.resolveCounterparty(ctx, policy, ownerID, existing.CompanyID)
	if err != nil {
		return nil, err
	}
	lang := effectiveLanguage(req.Language, cp)

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		orders, err := repo.OrdersForBilling(ctx, ownerID, req.OrderIDs)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		if len(orders) == 0 {
			return ErrNoOrders
		}
		// The document's own orders pass the billed check, so a patch can
		// keep or drop any of them freely.
		if err := validateOrdersForBilling(existing.CompanyID, orders, existing); err != nil {
			return err
		}

		totals := ComputeTotals(orders, vatRate, withholding, rate)
		deadline := req.DocDate.AddDate(0, 0, cp.dueDays)
		var accountID *int64
		if account != nil {
			accountID = &account.ID
		}

		updates := map[string]interface{}{
			"doc_date":                req.DocDate,
			"vat_rate":                vatRate,
			"withholding":             withholding,
			"total_net":               totals.Net,
			"total_vat":               totals.Vat,
			"total_withholding":       totals.Withholding,
			"total_gross":             totals.Gross,
			"total_to_pay":            totals.ToPay,
			"currency":                rate.CurrencyPrimary,
			"secondary_currency":      textOrNull(totals.SecondaryCurrency),
			"total_gross_secondary":   totals.GrossSecondary,
			"total_to_pay_secondary":  totals.ToPaySecondary,
			"note_delivery":           req.NoteDelivery,
			"deadline":                deadline,
			"change_rate_id":          rate.ID,
			"bank_account_id":         accountID,
		}
		if policy.PaymentNote {
			updates["note_payment"] = paymentNote(lang, cp.name, deadline, account)
		}

		if err := repo.Patch(ctx, ownerID, existing.ID, updates); err != nil {
			return err
		}
		return repo.ReplaceOrders(ctx, existing.ID, orderIDs(orders))
	})
	if err != nil {
		return nil, err
	}
	s.notifyWrite(ctx)
	return s.view(ctx, ownerID, existing.ID, policy.DocType)
}

// SetPaid transitions a pending document to PAID.
func (s *Service) SetPaid(ctx context.Context, ownerID, id int64, docType DocType) (*DocumentView, error) {
	d, err := s.repo.Get(ctx, ownerID, id, docType)
	if err != nil {
		return nil, err
	}
	if d.Status != StatusPending {
		return nil, ErrNotPending
	}
	if err := s.repo.UpdateStatus(ctx, ownerID, id, StatusPaid); err != nil {
		return nil, err
	}
	s.notifyWrite(ctx)
	return s.view(ctx, ownerID, id, docType)
}

// SoftDelete marks a pending document DELETED. The row and its order links
// survive for audit, and billed flags on the orders are left untouched.
func (s *Service) SoftDelete(ctx context.Context, ownerID, id int64) error {
	d, err := s.repo.GetAny(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if d.Status != StatusPending {
		return ErrNotPending
	}
	if err := s.repo.UpdateStatus(ctx, ownerID, id, StatusDeleted); err != nil {
		return err
	}
	s.notifyWrite(ctx)
	return nil
}

// Get returns a document with its relations resolved.
func (s *Service) Get(ctx context.Context, ownerID, id int64, docType DocType) (*DocumentView, error) {
	return s.view(ctx, ownerID, id, docType)
}

// List returns documents of a type, newest first.
func (s *Service) List(ctx context.Context, ownerID int64, req ListDocumentsRequest) ([]Document, int, error) {
	if _, err := PolicyFor(req.DocType); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, ownerID, req)
}

// LastNumber returns the highest docNumber issued this year for the type,
// falling back to the previous year.
func (s *Service) LastNumber(ctx context.Context, ownerID int64, docType DocType) (string, error) {
	policy, err := PolicyFor(docType)
	if err != nil {
		return "", err
	}
	return lastDocNumber(ctx, s.repo, ownerID, policy, s.now())
}

func (s *Service) view(ctx context.Context, ownerID, id int64, docType DocType) (*DocumentView, error) {
	d, err := s.repo.Get(ctx, ownerID, id, docType)
	if err != nil {
		return nil, err
	}
	v := &DocumentView{Document: *d}

	if d.ChangeRateID != nil {
		cr, err := s.rates.Get(ctx, ownerID, *d.ChangeRateID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		v.ChangeRate = cr
	}
	if d.BankAccountID != nil {
		a, err := s.accounts.Get(ctx, ownerID, *d.BankAccountID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		v.BankAccount = a
	}
	if d.ParentID != nil {
		p, err := s.repo.GetAny(ctx, ownerID, *d.ParentID)
		if err != nil {
			return nil, err
		}
		v.Parent = &ParentSummary{ID: p.ID, DocNumber: p.DocNumber, DocDate: p.DocDate, Status: p.Status}
	}
	if len(d.OrderIDs) > 0 {
		orders, err := s.repo.OrdersForBilling(ctx, ownerID, d.OrderIDs)
		if err != nil {
			return nil, err
		}
		v.Orders = orders
	}
	return v, nil
}

func (s *Service) resolveRate(ctx context.Context, policy Policy, ownerID int64, id *int64) (*changerates.ChangeRate, error) {
	if id != nil {
		cr, err := s.rates.Get(ctx, ownerID, *id)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrChangeRateNotFound
		}
		return cr, err
	}
	if !policy.RateFallback {
		return nil, ErrChangeRateNotFound
	}
	cr, err := s.rates.First(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrChangeRateNotFound
	}
	return cr, err
}

func (s *Service) resolveAccount(ctx context.Context, policy Policy, ownerID int64, id *int64) (*bankaccounts.BankAccount, error) {
	if id != nil {
		a, err := s.accounts.Get(ctx, ownerID, *id)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrBankAccountNotFound
		}
		return a, err
	}
	if !policy.AccountFallback {
		return nil, nil
	}
	a, err := s.accounts.First(ctx, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		// An owner without configured accounts still gets quotes, just
		// without payment coordinates.
		return nil, nil
	}
	return a, err
}

func (s *Service) resolveCounterparty(ctx context.Context, policy Policy, ownerID, companyID int64) (counterparty, error) {
	switch policy.Counterparty {
	case KindProvider:
		p, err := s.providers.GetByCompany(ctx, ownerID, companyID)
		if errors.Is(err, shared.ErrNotFound) {
			return counterparty{}, ErrProviderNotFound
		}
		if err != nil {
			return counterparty{}, err
		}
		return counterparty{name: p.Name, dueDays: p.DueDays}, nil
	default:
		c, err := s.customers.GetByCompany(ctx, ownerID, companyID)
		if errors.Is(err, shared.ErrNotFound) {
			return counterparty{}, ErrCustomerNotFound
		}
		if err != nil {
			return counterparty{}, err
		}
		return counterparty{name: c.Name, dueDays: c.DueDays, language: c.Language}, nil
	}
}

func effectiveRates(req CreateDocumentRequest) (vatRate, withholding float64, err error) {
	vatRate = DefaultVatRate
	if req.VatRate != nil {
		vatRate = *req.VatRate
	}
	withholding = DefaultWithholding
	if req.Withholding != nil {
		withholding = *req.Withholding
	}
	if vatRate < 1 {
		return 0, 0, ErrInvalidVatRate
	}
	if withholding < 1 {
		return 0, 0, ErrInvalidWithholding
	}
	return vatRate, withholding, nil
}

func effectiveLanguage(requested *string, cp counterparty) string {
	if requested != nil && *requested != "" {
		return *requested
	}
	if cp.language != "" {
		return cp.language
	}
	return DefaultLanguage
}

func orderIDs(orders []BillableOrder) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
