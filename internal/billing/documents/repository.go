package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/platform/db"
)

// Repository defines owner-scoped data access for documents. It also exposes
// the order projections billing needs, so the whole creation flow runs in a
// single transaction without reaching across packages mid-tx.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, ownerID, id int64, docType DocType) (*Document, error)
	GetAny(ctx context.Context, ownerID, id int64) (*Document, error)
	List(ctx context.Context, ownerID int64, req ListDocumentsRequest) ([]Document, int, error)
	Create(ctx context.Context, d Document) (int64, error)
	UpdateStatus(ctx context.Context, ownerID, id int64, status DocStatus) error
	Patch(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error
	ReplaceOrders(ctx context.Context, docID int64, orderIDs []int64) error
	OrdersForBilling(ctx context.Context, ownerID int64, ids []int64) ([]BillableOrder, error)
	MarkOrdersBilled(ctx context.Context, ids []int64, billed bool) error
	LastDocNumber(ctx context.Context, ownerID int64, docType DocType, prefix string) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const documentColumns = `id, owner_id, company_id, doc_number, doc_date, doc_type, status, language,
	vat_rate, withholding, total_net, total_vat, total_withholding, total_gross, total_to_pay,
	currency, secondary_currency, total_gross_secondary, total_to_pay_secondary,
	note_delivery, note_payment, deadline, change_rate_id, bank_account_id, parent_id,
	created_at, updated_at`

func (r *repository) Get(ctx context.Context, ownerID, id int64, docType DocType) (*Document, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE owner_id = $1 AND id = $2 AND doc_type = $3",
		ownerID, id, docType)
	return r.hydrate(ctx, row)
}

func (r *repository) GetAny(ctx context.Context, ownerID, id int64) (*Document, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE owner_id = $1 AND id = $2", ownerID, id)
	return r.hydrate(ctx, row)
}

func (r *repository) hydrate(ctx context.Context, row pgx.Row) (*Document, error) {
	d, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	ids, err := r.orderIDs(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.OrderIDs = ids
	return d, nil
}

func (r *repository) List(ctx context.Context, ownerID int64, req ListDocumentsRequest) ([]Document, int, error) {
	conditions := "WHERE owner_id = $1 AND doc_type = $2"
	args := []interface{}{ownerID, req.DocType}
	if req.CompanyID != nil {
		args = append(args, *req.CompanyID)
		conditions += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if req.Status != nil {
		args = append(args, *req.Status)
		conditions += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM documents "+conditions, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, req.Offset)
	query := fmt.Sprintf("SELECT %s FROM documents %s ORDER BY doc_date DESC, id DESC LIMIT $%d OFFSET $%d",
		documentColumns, conditions, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		ids, err := r.orderIDs(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].OrderIDs = ids
	}
	return out, total, nil
}

func (r *repository) Create(ctx context.Context, d Document) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO documents (
			owner_id, company_id, doc_number, doc_date, doc_type, status, language,
			vat_rate, withholding, total_net, total_vat, total_withholding, total_gross, total_to_pay,
			currency, secondary_currency, total_gross_secondary, total_to_pay_secondary,
			note_delivery, note_payment, deadline, change_rate_id, bank_account_id, parent_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24
		)
		RETURNING id
	`, d.OwnerID, d.CompanyID, d.DocNumber,
		pgtype.Date{Time: d.DocDate, Valid: !d.DocDate.IsZero()},
		d.DocType, d.Status, d.Language,
		numeric(d.VatRate), numeric(d.Withholding),
		numeric(d.TotalNet), numeric(d.TotalVat), numeric(d.TotalWithholding),
		numeric(d.TotalGross), numeric(d.TotalToPay),
		d.Currency, textOrNull(d.SecondaryCurrency),
		numeric(d.TotalGrossSecondary), numeric(d.TotalToPaySecondary),
		d.NoteDelivery, d.NotePayment,
		pgtype.Date{Time: d.Deadline, Valid: !d.Deadline.IsZero()},
		d.ChangeRateID, d.BankAccountID, d.ParentID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, orderID := range d.OrderIDs {
		if _, err := r.db.Exec(ctx,
			"INSERT INTO document_orders (document_id, order_id) VALUES ($1, $2)", id, orderID); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *repository) UpdateStatus(ctx context.Context, ownerID, id int64, status DocStatus) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE documents SET status = $1, updated_at = NOW() WHERE owner_id = $2 AND id = $3",
		status, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *repository) Patch(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	query := "UPDATE documents SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{
		"doc_date", "vat_rate", "withholding",
		"total_net", "total_vat", "total_withholding", "total_gross", "total_to_pay",
		"currency", "secondary_currency", "total_gross_secondary", "total_to_pay_secondary",
		"note_delivery", "note_payment", "deadline", "change_rate_id", "bank_account_id",
	} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, ownerID, id)
	query += fmt.Sprintf(" WHERE owner_id = $%d AND id = $%d", len(args)-1, len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *repository) ReplaceOrders(ctx context.Context, docID int64, orderIDs []int64) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM document_orders WHERE document_id = $1", docID); err != nil {
		return err
	}
	for _, orderID := range orderIDs {
		if _, err := r.db.Exec(ctx,
			"INSERT INTO document_orders (document_id, order_id) VALUES ($1, $2)", docID, orderID); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) OrdersForBilling(ctx context.Context, ownerID int64, ids []int64) ([]BillableOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, description, order_date, total, billed
		FROM orders WHERE owner_id = $1 AND id = ANY($2)
		ORDER BY order_date, id
	`, ownerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BillableOrder
	for rows.Next() {
		var (
			o     BillableOrder
			date  pgtype.Date
			total pgtype.Numeric
		)
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Description, &date, &total, &o.Billed); err != nil {
			return nil, err
		}
		if date.Valid {
			o.OrderDate = date.Time
		}
		o.Total = numericToFloat(total)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repository) MarkOrdersBilled(ctx context.Context, ids []int64, billed bool) error {
	_, err := r.db.Exec(ctx,
		"UPDATE orders SET billed = $1, updated_at = NOW() WHERE id = ANY($2)", billed, ids)
	return err
}

func (r *repository) LastDocNumber(ctx context.Context, ownerID int64, docType DocType, prefix string) (string, error) {
	var num string
	err := r.db.QueryRow(ctx, `
		SELECT doc_number FROM documents
		WHERE owner_id = $1 AND doc_type = $2 AND doc_number LIKE $3 || '%'
		ORDER BY doc_number DESC LIMIT 1
	`, ownerID, docType, prefix).Scan(&num)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoDocumentNumber
	}
	if err != nil {
		return "", err
	}
	return num, nil
}

func (r *repository) orderIDs(ctx context.Context, docID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT order_id FROM document_orders WHERE document_id = $1 ORDER BY order_id", docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanDocument(row pgx.Row) (*Document, error) {
	var (
		d                            Document
		docDate, deadline            pgtype.Date
		vat, wh                      pgtype.Numeric
		net, tvat, twh, gross, toPay pgtype.Numeric
		grossSec, toPaySec           pgtype.Numeric
		secondaryCurrency            pgtype.Text
		noteDelivery, notePayment    pgtype.Text
	)
	err := row.Scan(&d.ID, &d.OwnerID, &d.CompanyID, &d.DocNumber, &docDate, &d.DocType, &d.Status, &d.Language,
		&vat, &wh, &net, &tvat, &twh, &gross, &toPay,
		&d.Currency, &secondaryCurrency, &grossSec, &toPaySec,
		&noteDelivery, &notePayment, &deadline, &d.ChangeRateID, &d.BankAccountID, &d.ParentID,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if docDate.Valid {
		d.DocDate = docDate.Time
	}
	if deadline.Valid {
		d.Deadline = deadline.Time
	}
	d.VatRate = numericToFloat(vat)
	d.Withholding = numericToFloat(wh)
	d.TotalNet = numericToFloat(net)
	d.TotalVat = numericToFloat(tvat)
	d.TotalWithholding = numericToFloat(twh)
	d.TotalGross = numericToFloat(gross)
	d.TotalToPay = numericToFloat(toPay)
	d.TotalGrossSecondary = numericToFloat(grossSec)
	d.TotalToPaySecondary = numericToFloat(toPaySec)
	if secondaryCurrency.Valid {
		d.SecondaryCurrency = secondaryCurrency.String
	}
	if noteDelivery.Valid {
		d.NoteDelivery = noteDelivery.String
	}
	if notePayment.Valid {
		d.NotePayment = notePayment.String
	}
	return &d, nil
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func numeric(f float64) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(fmt.Sprintf("%f", f))
	return n
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
