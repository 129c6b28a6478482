package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Repository defines owner-scoped data access for providers.
type Repository interface {
	Get(ctx context.Context, ownerID, id int64) (*Provider, error)
	GetByCompany(ctx context.Context, ownerID, companyID int64) (*Provider, error)
	List(ctx context.Context, ownerID int64) ([]Provider, error)
	Create(ctx context.Context, p Provider) (int64, error)
	Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const providerColumns = "id, owner_id, company_id, name, tax_id, email, due_days, is_active, created_at, updated_at"

func (r *repository) Get(ctx context.Context, ownerID, id int64) (*Provider, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+providerColumns+" FROM providers WHERE owner_id = $1 AND id = $2", ownerID, id)
	return scanProvider(row)
}

func (r *repository) GetByCompany(ctx context.Context, ownerID, companyID int64) (*Provider, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+providerColumns+" FROM providers WHERE owner_id = $1 AND company_id = $2", ownerID, companyID)
	return scanProvider(row)
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]Provider, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+providerColumns+" FROM providers WHERE owner_id = $1 ORDER BY name", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Provider
	for rows.Next() {
		var (
			p            Provider
			taxID, email pgtype.Text
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.CompanyID, &p.Name, &taxID, &email,
			&p.DueDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if taxID.Valid {
			p.TaxID = &taxID.String
		}
		if email.Valid {
			p.Email = &email.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Provider) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO providers (owner_id, company_id, name, tax_id, email, due_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.OwnerID, p.CompanyID, p.Name,
		pgtype.Text{String: strOrEmpty(p.TaxID), Valid: p.TaxID != nil},
		pgtype.Text{String: strOrEmpty(p.Email), Valid: p.Email != nil},
		p.DueDays, p.IsActive,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, updates map[string]interface{}) error {
	query := "UPDATE providers SET updated_at = NOW()"
	var args []interface{}
	for _, col := range []string{"name", "tax_id", "email", "due_days", "is_active"} {
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

func scanProvider(row pgx.Row) (*Provider, error) {
	var (
		p            Provider
		taxID, email pgtype.Text
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.CompanyID, &p.Name, &taxID, &email,
		&p.DueDays, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if taxID.Valid {
		p.TaxID = &taxID.String
	}
	if email.Valid {
		p.Email = &email.String
	}
	return &p, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
