package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/ledgerline-erp/ledgerline/internal/billing/documents"
)

// CashflowRow aggregates invoiced amounts for one month: what the owner
// billed to customers and what providers billed to the owner.
type CashflowRow struct {
	Month    string  `json:"month"`
	Incoming float64 `json:"incoming"`
	Outgoing float64 `json:"outgoing"`
	Net      float64 `json:"net"`
}

// CashflowReport is a calendar year of monthly totals.
type CashflowReport struct {
	Year   int           `json:"year"`
	Rows   []CashflowRow `json:"rows"`
	AsOf   time.Time     `json:"as_of"`
	Cached bool          `json:"-"`
}

// PendingPayment is an unpaid, active invoice with its deadline.
type PendingPayment struct {
	DocumentID int64             `json:"document_id"`
	DocNumber  string            `json:"doc_number"`
	DocType    documents.DocType `json:"doc_type"`
	CompanyID  int64             `json:"company_id"`
	TotalToPay float64           `json:"total_to_pay"`
	Currency   string            `json:"currency"`
	Deadline   time.Time         `json:"deadline"`
	Overdue    bool              `json:"overdue"`
}

// PendingPaymentsReport lists every PENDING invoice, oldest deadline first.
type PendingPaymentsReport struct {
	Payments []PendingPayment `json:"payments"`
	AsOf     time.Time        `json:"as_of"`
}

// Service computes billing reports. Results are cached in Redis and
// concurrent cold-cache requests for the same key collapse into one query.
type Service struct {
	pool  *pgxpool.Pool
	cache *Cache
	group singleflight.Group
	now   func() time.Time
}

// NewService builds a Service instance.
func NewService(pool *pgxpool.Pool, cache *Cache) *Service {
	return &Service{pool: pool, cache: cache, now: time.Now}
}

// Cashflow returns the monthly invoice totals for a year.
func (s *Service) Cashflow(ctx context.Context, ownerID int64, year int) (*CashflowReport, error) {
	key, err := s.cache.BuildKey(ctx, keyCashflow(ownerID, year))
	if err != nil {
		return nil, err
	}

	var report CashflowReport
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var out CashflowReport
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
			return s.loadCashflow(ctx, ownerID, year)
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	report = result.(CashflowReport)
	return &report, nil
}

// PendingPayments returns the open invoices of both directions.
func (s *Service) PendingPayments(ctx context.Context, ownerID int64) (*PendingPaymentsReport, error) {
	key, err := s.cache.BuildKey(ctx, keyPendingPayments(ownerID))
	if err != nil {
		return nil, err
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var out PendingPaymentsReport
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
			return s.loadPendingPayments(ctx, ownerID)
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	report := result.(PendingPaymentsReport)
	return &report, nil
}

// Invalidate bumps the report cache after billing writes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) loadCashflow(ctx context.Context, ownerID int64, year int) (*CashflowReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(doc_date, 'YYYY-MM') AS month,
			SUM(CASE WHEN doc_type = $1 THEN total_to_pay ELSE 0 END) AS incoming,
			SUM(CASE WHEN doc_type = $2 THEN total_to_pay ELSE 0 END) AS outgoing
		FROM documents
		WHERE owner_id = $3
			AND status IN ($4, $5)
			AND doc_type IN ($1, $2)
			AND EXTRACT(YEAR FROM doc_date) = $6
		GROUP BY 1 ORDER BY 1
	`, documents.DocTypeCustomerInvoice, documents.DocTypeProviderInvoice,
		ownerID, documents.StatusPending, documents.StatusPaid, year)
	if err != nil {
		return nil, fmt.Errorf("reports: cashflow query: %w", err)
	}
	defer rows.Close()

	report := &CashflowReport{Year: year, AsOf: s.now()}
	for rows.Next() {
		var (
			row     CashflowRow
			in, out pgtype.Numeric
		)
		if err := rows.Scan(&row.Month, &in, &out); err != nil {
			return nil, err
		}
		row.Incoming = numericToFloat(in)
		row.Outgoing = numericToFloat(out)
		row.Net = row.Incoming - row.Outgoing
		report.Rows = append(report.Rows, row)
	}
	return report, rows.Err()
}

func (s *Service) loadPendingPayments(ctx context.Context, ownerID int64) (*PendingPaymentsReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, doc_number, doc_type, company_id, total_to_pay, currency, deadline
		FROM documents
		WHERE owner_id = $1
			AND status = $2
			AND doc_type IN ($3, $4)
		ORDER BY deadline, id
	`, ownerID, documents.StatusPending,
		documents.DocTypeCustomerInvoice, documents.DocTypeProviderInvoice)
	if err != nil {
		return nil, fmt.Errorf("reports: pending payments query: %w", err)
	}
	defer rows.Close()

	report := &PendingPaymentsReport{AsOf: s.now()}
	for rows.Next() {
		var (
			p        PendingPayment
			toPay    pgtype.Numeric
			deadline pgtype.Date
		)
		if err := rows.Scan(&p.DocumentID, &p.DocNumber, &p.DocType, &p.CompanyID, &toPay, &p.Currency, &deadline); err != nil {
			return nil, err
		}
		p.TotalToPay = numericToFloat(toPay)
		if deadline.Valid {
			p.Deadline = deadline.Time
		}
		p.Overdue = p.Deadline.Before(report.AsOf)
		report.Payments = append(report.Payments, p)
	}
	return report, rows.Err()
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
