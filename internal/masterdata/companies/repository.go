package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Repository defines data access for companies.
type Repository interface {
	Get(ctx context.Context, id int64) (*Company, error)
	GetByCode(ctx context.Context, code string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const companyColumns = "id, code, name, tax_id, address, created_at, updated_at"

func (r *repository) Get(ctx context.Context, id int64) (*Company, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = $1", id)
	return scanCompany(row)
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Company, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE code = $1", code)
	return scanCompany(row)
}

func (r *repository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+companyColumns+" FROM companies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.TaxID, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.TaxID, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
