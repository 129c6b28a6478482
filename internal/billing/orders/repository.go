package orders

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

// ErrNotFound indicates the requested order does not exist under the owner.
var ErrNotFound = errors.New("order not found")

// Repository defines owner-scoped data access for orders and their items.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, ownerID, id int64) (*Order, error)
	List(ctx context.Context, ownerID int64, req ListOrdersRequest) ([]Order, int, error)
	Create(ctx context.Context, o Order) (int64, error)
	Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, ownerID, id int64) error
	InsertItem(ctx context.Context, item Item) (int64, error)
	DeleteItems(ctx context.Context, orderID int64) error
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

const orderColumns = "id, owner_id, company_id, description, order_date, price_per_unit, unit_label, total, billed, created_at, updated_at"

func (r *repository) Get(ctx context.Context, ownerID, id int64) (*Order, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE owner_id = $1 AND id = $2", ownerID, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) List(ctx context.Context, ownerID int64, req ListOrdersRequest) ([]Order, int, error) {
	conditions := "WHERE owner_id = $1"
	args := []interface{}{ownerID}
	if req.CompanyID != nil {
		args = append(args, *req.CompanyID)
		conditions += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if req.Billed != nil {
		args = append(args, *req.Billed)
		conditions += fmt.Sprintf(" AND billed = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+conditions, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, req.Offset)
	query := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY order_date DESC, id DESC LIMIT $%d OFFSET $%d",
		orderColumns, conditions, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrderRows(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (owner_id, company_id, description, order_date, price_per_unit, unit_label, total, billed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false)
		RETURNING id
	`, o.OwnerID, o.CompanyID, o.Description,
		pgtype.Date{Time: o.OrderDate, Valid: !o.OrderDate.IsZero()},
		numeric(o.PricePerUnit), o.UnitLabel, numeric(o.Total),
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	query := "UPDATE orders SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"description", "order_date", "price_per_unit", "unit_label", "total", "billed"} {
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
		return ErrNotFound
	}
	return nil
}

// Delete removes the order; items cascade at the schema level.
func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM orders WHERE owner_id = $1 AND id = $2", ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, description, quantity, discount_percent, total, line_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, item.OrderID, item.Description, numeric(item.Quantity),
		numeric(item.DiscountPercent), numeric(item.Total), item.LineOrder,
	).Scan(&id)
	return id, err
}

func (r *repository) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID)
	return err
}

func (r *repository) listItems(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, description, quantity, discount_percent, total, line_order
		FROM order_items WHERE order_id = $1 ORDER BY line_order, id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it                   Item
			qty, discount, total pgtype.Numeric
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Description, &qty, &discount, &total, &it.LineOrder); err != nil {
			return nil, err
		}
		it.Quantity = numericToFloat(qty)
		it.DiscountPercent = numericToFloat(discount)
		it.Total = numericToFloat(total)
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o            Order
		date         pgtype.Date
		price, total pgtype.Numeric
	)
	err := row.Scan(&o.ID, &o.OwnerID, &o.CompanyID, &o.Description, &date,
		&price, &o.UnitLabel, &total, &o.Billed, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if date.Valid {
		o.OrderDate = date.Time
	}
	o.PricePerUnit = numericToFloat(price)
	o.Total = numericToFloat(total)
	return &o, nil
}

func scanOrderRows(rows pgx.Rows) (*Order, error) {
	var (
		o            Order
		date         pgtype.Date
		price, total pgtype.Numeric
	)
	if err := rows.Scan(&o.ID, &o.OwnerID, &o.CompanyID, &o.Description, &date,
		&price, &o.UnitLabel, &total, &o.Billed, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if date.Valid {
		o.OrderDate = date.Time
	}
	o.PricePerUnit = numericToFloat(price)
	o.Total = numericToFloat(total)
	return &o, nil
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
