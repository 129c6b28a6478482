package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Repository defines owner-scoped data access for customers.
type Repository interface {
	Get(ctx context.Context, ownerID, id int64) (*Customer, error)
	GetByCompany(ctx context.Context, ownerID, companyID int64) (*Customer, error)
	List(ctx context.Context, ownerID int64, req ListCustomersRequest) ([]Customer, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const customerColumns = "id, owner_id, company_id, name, tax_id, email, due_days, language, is_active, created_at, updated_at"

func (r *repository) Get(ctx context.Context, ownerID, id int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE owner_id = $1 AND id = $2", ownerID, id)
	return scanCustomer(row)
}

func (r *repository) GetByCompany(ctx context.Context, ownerID, companyID int64) (*Customer, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE owner_id = $1 AND company_id = $2", ownerID, companyID)
	return scanCustomer(row)
}

func (r *repository) List(ctx context.Context, ownerID int64, req ListCustomersRequest) ([]Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers WHERE owner_id = $1"
	args := []interface{}{ownerID}
	if req.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *req.IsActive)
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomerRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (owner_id, company_id, name, tax_id, email, due_days, language, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, c.OwnerID, c.CompanyID, c.Name,
		pgtype.Text{String: deref(c.TaxID), Valid: c.TaxID != nil},
		pgtype.Text{String: deref(c.Email), Valid: c.Email != nil},
		c.DueDays, c.Language, c.IsActive,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	query := "UPDATE customers SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"name", "tax_id", "email", "due_days", "language", "is_active"} {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			query += fmt.Sprintf(", %s = $%d", col, len(args))
		}
	}
	args = append(args, ownerID, id)
	query += fmt.Sprintf(" WHERE owner_id = $%d AND id = $%d", len(args)-1, len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var (
		c            Customer
		taxID, email pgtype.Text
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.CompanyID, &c.Name, &taxID, &email,
		&c.DueDays, &c.Language, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if taxID.Valid {
		c.TaxID = &taxID.String
	}
	if email.Valid {
		c.Email = &email.String
	}
	return &c, nil
}

func scanCustomerRows(rows pgx.Rows) (*Customer, error) {
	var (
		c            Customer
		taxID, email pgtype.Text
	)
	if err := rows.Scan(&c.ID, &c.OwnerID, &c.CompanyID, &c.Name, &taxID, &email,
		&c.DueDays, &c.Language, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if taxID.Valid {
		c.TaxID = &taxID.String
	}
	if email.Valid {
		c.Email = &email.String
	}
	return &c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
