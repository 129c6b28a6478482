package documents

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/customers"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/providers"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// fakeRepo is an in-memory Repository used by the service tests.
type fakeRepo struct {
	docs   map[int64]*Document
	orders map[int64]*BillableOrder
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:   make(map[int64]*Document),
		orders: make(map[int64]*BillableOrder),
		nextID: 100,
	}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) Get(ctx context.Context, ownerID, id int64, docType DocType) (*Document, error) {
	d, ok := f.docs[id]
	if !ok || d.OwnerID != ownerID || d.DocType != docType {
		return nil, ErrDocumentNotFound
	}
	cp := *d
	cp.OrderIDs = append([]int64(nil), d.OrderIDs...)
	return &cp, nil
}

func (f *fakeRepo) GetAny(ctx context.Context, ownerID, id int64) (*Document, error) {
	d, ok := f.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, ErrDocumentNotFound
	}
	cp := *d
	cp.OrderIDs = append([]int64(nil), d.OrderIDs...)
	return &cp, nil
}

func (f *fakeRepo) List(ctx context.Context, ownerID int64, req ListDocumentsRequest) ([]Document, int, error) {
	var out []Document
	for _, d := range f.docs {
		if d.OwnerID != ownerID || d.DocType != req.DocType {
			continue
		}
		if req.Status != nil && d.Status != *req.Status {
			continue
		}
		if req.CompanyID != nil && d.CompanyID != *req.CompanyID {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (f *fakeRepo) Create(ctx context.Context, d Document) (int64, error) {
	f.nextID++
	d.ID = f.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.docs[d.ID] = &d
	return d.ID, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, ownerID, id int64, status DocStatus) error {
	d, ok := f.docs[id]
	if !ok || d.OwnerID != ownerID {
		return ErrDocumentNotFound
	}
	d.Status = status
	return nil
}

func (f *fakeRepo) Patch(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	d, ok := f.docs[id]
	if !ok || d.OwnerID != ownerID {
		return ErrDocumentNotFound
	}
	for col, v := range updates {
		switch col {
		case "doc_date":
			d.DocDate = v.(time.Time)
		case "vat_rate":
			d.VatRate = v.(float64)
		case "withholding":
			d.Withholding = v.(float64)
		case "total_net":
			d.TotalNet = v.(float64)
		case "total_vat":
			d.TotalVat = v.(float64)
		case "total_withholding":
			d.TotalWithholding = v.(float64)
		case "total_gross":
			d.TotalGross = v.(float64)
		case "total_to_pay":
			d.TotalToPay = v.(float64)
		case "currency":
			d.Currency = v.(string)
		case "secondary_currency":
			d.SecondaryCurrency = v.(pgtype.Text).String
		case "total_gross_secondary":
			d.TotalGrossSecondary = v.(float64)
		case "total_to_pay_secondary":
			d.TotalToPaySecondary = v.(float64)
		case "note_delivery":
			d.NoteDelivery = v.(string)
		case "note_payment":
			d.NotePayment = v.(string)
		case "deadline":
			d.Deadline = v.(time.Time)
		case "change_rate_id":
			rateID := v.(int64)
			d.ChangeRateID = &rateID
		case "bank_account_id":
			d.BankAccountID = v.(*int64)
		}
	}
	return nil
}

func (f *fakeRepo) ReplaceOrders(ctx context.Context, docID int64, orderIDs []int64) error {
	d, ok := f.docs[docID]
	if !ok {
		return ErrDocumentNotFound
	}
	d.OrderIDs = append([]int64(nil), orderIDs...)
	return nil
}

func (f *fakeRepo) OrdersForBilling(ctx context.Context, ownerID int64, ids []int64) ([]BillableOrder, error) {
	var out []BillableOrder
	for _, id := range ids {
		if o, ok := f.orders[id]; ok {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) MarkOrdersBilled(ctx context.Context, ids []int64, billed bool) error {
	for _, id := range ids {
		if o, ok := f.orders[id]; ok {
			o.Billed = billed
		}
	}
	return nil
}

func (f *fakeRepo) LastDocNumber(ctx context.Context, ownerID int64, docType DocType, prefix string) (string, error) {
	var best string
	for _, d := range f.docs {
		if d.OwnerID != ownerID || d.DocType != docType {
			continue
		}
		if !strings.HasPrefix(d.DocNumber, prefix) {
			continue
		}
		if d.DocNumber > best {
			best = d.DocNumber
		}
	}
	if best == "" {
		return "", ErrNoDocumentNumber
	}
	return best, nil
}

type fakeRates struct {
	rates []changerates.ChangeRate
}

func (f *fakeRates) Get(ctx context.Context, ownerID, id int64) (*changerates.ChangeRate, error) {
	for i := range f.rates {
		if f.rates[i].OwnerID == ownerID && f.rates[i].ID == id {
			cp := f.rates[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRates) First(ctx context.Context, ownerID int64) (*changerates.ChangeRate, error) {
	for i := range f.rates {
		if f.rates[i].OwnerID == ownerID {
			cp := f.rates[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRates) List(ctx context.Context, ownerID int64) ([]changerates.ChangeRate, error) {
	return f.rates, nil
}

type fakeAccounts struct {
	accounts []bankaccounts.BankAccount
}

func (f *fakeAccounts) Get(ctx context.Context, ownerID, id int64) (*bankaccounts.BankAccount, error) {
	for i := range f.accounts {
		if f.accounts[i].OwnerID == ownerID && f.accounts[i].ID == id {
			cp := f.accounts[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeAccounts) First(ctx context.Context, ownerID int64) (*bankaccounts.BankAccount, error) {
	for i := range f.accounts {
		if f.accounts[i].OwnerID == ownerID {
			cp := f.accounts[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeAccounts) List(ctx context.Context, ownerID int64) ([]bankaccounts.BankAccount, error) {
	return f.accounts, nil
}

type fakeCustomers struct {
	customers []customers.Customer
}

func (f *fakeCustomers) Get(ctx context.Context, ownerID, id int64) (*customers.Customer, error) {
	for i := range f.customers {
		if f.customers[i].OwnerID == ownerID && f.customers[i].ID == id {
			cp := f.customers[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCustomers) GetByCompany(ctx context.Context, ownerID, companyID int64) (*customers.Customer, error) {
	for i := range f.customers {
		if f.customers[i].OwnerID == ownerID && f.customers[i].CompanyID == companyID {
			cp := f.customers[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCustomers) List(ctx context.Context, ownerID int64, req customers.ListCustomersRequest) ([]customers.Customer, error) {
	return f.customers, nil
}

func (f *fakeCustomers) Create(ctx context.Context, c customers.Customer) (int64, error) {
	f.customers = append(f.customers, c)
	return c.ID, nil
}

func (f *fakeCustomers) Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	return nil
}

type fakeProviders struct {
	providers []providers.Provider
}

func (f *fakeProviders) Get(ctx context.Context, ownerID, id int64) (*providers.Provider, error) {
	for i := range f.providers {
		if f.providers[i].OwnerID == ownerID && f.providers[i].ID == id {
			cp := f.providers[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProviders) GetByCompany(ctx context.Context, ownerID, companyID int64) (*providers.Provider, error) {
	for i := range f.providers {
		if f.providers[i].OwnerID == ownerID && f.providers[i].CompanyID == companyID {
			cp := f.providers[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProviders) List(ctx context.Context, ownerID int64) ([]providers.Provider, error) {
	return f.providers, nil
}

func (f *fakeProviders) Create(ctx context.Context, p providers.Provider) (int64, error) {
	f.providers = append(f.providers, p)
	return p.ID, nil
}

func (f *fakeProviders) Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	return nil
}
