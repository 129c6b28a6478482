package documents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/customers"
	"github.com/ledgerline-erp/ledgerline/internal/masterdata/providers"
)

const (
	testOwner   = int64(1)
	testCompany = int64(2)
)

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	repo.orders[10] = &BillableOrder{ID: 10, CompanyID: testCompany, Description: "march retainer", Total: 37.50}
	repo.orders[11] = &BillableOrder{ID: 11, CompanyID: testCompany, Description: "support hours", Total: 25.00}
	repo.orders[12] = &BillableOrder{ID: 12, CompanyID: testCompany, Description: "migration", Total: 62.50}
	repo.orders[20] = &BillableOrder{ID: 20, CompanyID: 3, Description: "other customer work", Total: 10}

	rates := &fakeRates{rates: []changerates.ChangeRate{
		{ID: 1, OwnerID: testOwner, CurrencyPrimary: "EUR", CurrencySecondary: "EUR", Rate: 1},
		{ID: 2, OwnerID: testOwner, CurrencyPrimary: "EUR", CurrencySecondary: "USD", Rate: 1.1},
	}}
	accounts := &fakeAccounts{accounts: []bankaccounts.BankAccount{
		{ID: 1, OwnerID: testOwner, Bank: "Banco Uno", IBAN: "ES9121000418450200051332"},
	}}
	cust := &fakeCustomers{customers: []customers.Customer{
		{ID: 1, OwnerID: testOwner, CompanyID: testCompany, Name: "Acme SL", DueDays: 30, Language: "es", IsActive: true},
	}}
	prov := &fakeProviders{providers: []providers.Provider{
		{ID: 1, OwnerID: testOwner, CompanyID: testCompany, Name: "Proveedor SA", DueDays: 15, IsActive: true},
	}}

	svc := NewService(repo, rates, accounts, cust, prov)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func invoiceRequest() CreateDocumentRequest {
	rateID := int64(1)
	accountID := int64(1)
	return CreateDocumentRequest{
		CompanyID:     testCompany,
		DocNumber:     "INV2026-0001",
		DocDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ChangeRateID:  &rateID,
		BankAccountID: &accountID,
		OrderIDs:      []int64{10, 11, 12},
	}
}

func TestCreateCustomerInvoiceTotals(t *testing.T) {
	svc, repo := newTestService()

	doc, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, invoiceRequest())
	require.NoError(t, err)

	require.InDelta(t, 125.00, doc.TotalNet, 0.001)
	require.InDelta(t, 26.25, doc.TotalVat, 0.001)
	require.InDelta(t, 18.75, doc.TotalWithholding, 0.001)
	require.InDelta(t, 151.25, doc.TotalGross, 0.001)
	require.InDelta(t, 132.50, doc.TotalToPay, 0.001)

	require.Equal(t, StatusPending, doc.Status)
	require.Equal(t, "EUR", doc.Currency)
	require.Empty(t, doc.SecondaryCurrency)
	require.Equal(t, time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), doc.Deadline)
	require.Contains(t, doc.NotePayment, "Acme SL")
	require.Contains(t, doc.NotePayment, "ES9121000418450200051332")

	// Invoice creation claims the orders.
	for _, id := range []int64{10, 11, 12} {
		require.True(t, repo.orders[id].Billed)
	}
}

func TestCreateQuoteDoesNotClaimOrders(t *testing.T) {
	svc, repo := newTestService()

	doc, err := svc.Create(context.Background(), testOwner, DocTypeQuote, CreateDocumentRequest{
		CompanyID: testCompany,
		DocNumber: "Q2026-0001",
		DocDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OrderIDs:  []int64{10, 11},
	})
	require.NoError(t, err)

	// Quotes fall back to the owner's first change rate and bank account.
	require.NotNil(t, doc.ChangeRateID)
	require.Equal(t, int64(1), *doc.ChangeRateID)
	require.NotNil(t, doc.BankAccountID)

	for _, id := range []int64{10, 11} {
		require.False(t, repo.orders[id].Billed)
	}
}

func TestCreateSecondaryCurrencyProjection(t *testing.T) {
	svc, _ := newTestService()

	req := invoiceRequest()
	usdRate := int64(2)
	req.ChangeRateID = &usdRate

	doc, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, req)
	require.NoError(t, err)

	require.Equal(t, "EUR", doc.Currency)
	require.Equal(t, "USD", doc.SecondaryCurrency)
	require.InDelta(t, 151.25*1.1, doc.TotalGrossSecondary, 0.001)
	require.InDelta(t, 132.50*1.1, doc.TotalToPaySecondary, 0.001)
}

func TestCreateRejectsBilledOrder(t *testing.T) {
	svc, repo := newTestService()
	repo.orders[11].Billed = true

	_, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, invoiceRequest())
	require.ErrorIs(t, err, ErrOrderAlreadyBilled)

	// Nothing was written and the other orders stayed unbilled.
	require.Empty(t, repo.docs)
	require.False(t, repo.orders[10].Billed)
	require.False(t, repo.orders[12].Billed)
}

func TestCreateRejectsForeignOrder(t *testing.T) {
	svc, _ := newTestService()

	req := invoiceRequest()
	req.OrderIDs = []int64{10, 20}
	_, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, req)
	require.ErrorIs(t, err, ErrOrderWrongCompany)
}

func TestCreateRejectsEmptyOrderSet(t *testing.T) {
	svc, _ := newTestService()

	req := invoiceRequest()
	req.OrderIDs = []int64{999}
	_, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, req)
	require.ErrorIs(t, err, ErrNoOrders)
}

func TestCreateRateDefaultsAndFloors(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, invoiceRequest())
	require.NoError(t, err)
	require.InDelta(t, 21.0, doc.VatRate, 0.001)
	require.InDelta(t, 15.0, doc.Withholding, 0.001)

	zero := 0.0
	req := invoiceRequest()
	req.DocNumber = "INV2026-0002"
	req.OrderIDs = []int64{12}
	req.VatRate = &zero
	_, err = svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, req)
	require.ErrorIs(t, err, ErrInvalidVatRate)

	req.VatRate = nil
	req.Withholding = &zero
	_, err = svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, req)
	require.ErrorIs(t, err, ErrInvalidWithholding)
}

func TestCreateUnknownCounterparty(t *testing.T) {
	svc, repo := newTestService()
	repo.orders[30] = &BillableOrder{ID: 30, CompanyID: 9, Total: 5}

	req := invoiceRequest()
	req.CompanyID = 9
	req.OrderIDs = []int64{30}
	_, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, req)
	require.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = svc.Create(context.Background(), testOwner, DocTypeProviderInvoice, req)
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestAmendInvoiceIssuesSuccessor(t *testing.T) {
	svc, repo := newTestService()

	original, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, invoiceRequest())
	require.NoError(t, err)

	// The amendment drops one order and keeps the rest; the kept orders are
	// billed by the predecessor and must still be accepted.
	req := invoiceRequest()
	req.DocNumber = "INV2026-0002"
	req.OrderIDs = []int64{10, 11}
	successor, err := svc.Amend(context.Background(), testOwner, original.ID, DocTypeCustomerInvoice, req)
	require.NoError(t, err)

	require.NotEqual(t, original.ID, successor.ID)
	require.Equal(t, StatusPending, successor.Status)
	require.NotNil(t, successor.ParentID)
	require.Equal(t, original.ID, *successor.ParentID)
	require.Equal(t, original.ID, successor.Parent.ID)
	require.InDelta(t, 62.50, successor.TotalNet, 0.001)

	retired, err := svc.Get(context.Background(), testOwner, original.ID, DocTypeCustomerInvoice)
	require.NoError(t, err)
	require.Equal(t, StatusModified, retired.Status)

	require.True(t, repo.orders[10].Billed)
	require.True(t, repo.orders[11].Billed)

	// A retired document cannot be amended twice.
	_, err = svc.Amend(context.Background(), testOwner, original.ID, DocTypeCustomerInvoice, req)
	require.ErrorIs(t, err, ErrAlreadyModified)
}

func TestAmendPaidProviderInvoiceRejected(t *testing.T) {
	svc, _ := newTestService()

	req := invoiceRequest()
	req.DocNumber = "PINV2026-0001"
	original, err := svc.Create(context.Background(), testOwner, DocTypeProviderInvoice, req)
	require.NoError(t, err)

	_, err = svc.SetPaid(context.Background(), testOwner, original.ID, DocTypeProviderInvoice)
	require.NoError(t, err)

	_, err = svc.Amend(context.Background(), testOwner, original.ID, DocTypeProviderInvoice, req)
	require.ErrorIs(t, err, ErrNotPending)
}

func TestAmendQuoteRewritesInPlace(t *testing.T) {
	svc, _ := newTestService()

	original, err := svc.Create(context.Background(), testOwner, DocTypeQuote, CreateDocumentRequest{
		CompanyID: testCompany,
		DocNumber: "Q2026-0001",
		DocDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		OrderIDs:  []int64{10},
	})
	require.NoError(t, err)

	req := CreateDocumentRequest{
		CompanyID: testCompany,
		DocNumber: "Q2026-0001",
		DocDate:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		OrderIDs:  []int64{11, 12},
	}
	amended, err := svc.Amend(context.Background(), testOwner, original.ID, DocTypeQuote, req)
	require.NoError(t, err)

	require.Equal(t, original.ID, amended.ID)
	require.Equal(t, original.DocNumber, amended.DocNumber)
	require.Nil(t, amended.ParentID)
	require.Equal(t, StatusPending, amended.Status)
	require.Equal(t, []int64{11, 12}, amended.OrderIDs)
	require.InDelta(t, 87.50, amended.TotalNet, 0.001)
	require.Equal(t, time.Date(2026, 4, 19, 0, 0, 0, 0, time.UTC), amended.Deadline)
}

func TestSoftDeleteKeepsBilledFlags(t *testing.T) {
	svc, repo := newTestService()

	doc, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, invoiceRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), testOwner, doc.ID))

	deleted, err := svc.Get(context.Background(), testOwner, doc.ID, DocTypeCustomerInvoice)
	require.NoError(t, err)
	require.Equal(t, StatusDeleted, deleted.Status)
	require.True(t, repo.orders[10].Billed)

	require.ErrorIs(t, svc.SoftDelete(context.Background(), testOwner, doc.ID), ErrNotPending)
}

func TestLastNumberYearFallback(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.LastNumber(ctx, testOwner, DocTypeQuote)
	require.ErrorIs(t, err, ErrNoDocumentNumber)

	repo.docs[1] = &Document{ID: 1, OwnerID: testOwner, DocType: DocTypeQuote, DocNumber: "Q2025-0031"}
	num, err := svc.LastNumber(ctx, testOwner, DocTypeQuote)
	require.NoError(t, err)
	require.Equal(t, "Q2025-0031", num)

	repo.docs[2] = &Document{ID: 2, OwnerID: testOwner, DocType: DocTypeQuote, DocNumber: "Q2026-0001"}
	repo.docs[3] = &Document{ID: 3, OwnerID: testOwner, DocType: DocTypeQuote, DocNumber: "Q2026-0007"}
	num, err = svc.LastNumber(ctx, testOwner, DocTypeQuote)
	require.NoError(t, err)
	require.Equal(t, "Q2026-0007", num)
}

func TestOwnerScoping(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), testOwner, DocTypeCustomerInvoice, invoiceRequest())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 99, doc.ID, DocTypeCustomerInvoice)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}
