package changerates

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Repository defines owner-scoped change-rate lookups.
type Repository interface {
	Get(ctx context.Context, ownerID, id int64) (*ChangeRate, error)
	First(ctx context.Context, ownerID int64) (*ChangeRate, error)
	List(ctx context.Context, ownerID int64) ([]ChangeRate, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const rateColumns = "id, owner_id, currency_primary, currency_secondary, rate, rate_date"

func (r *repository) Get(ctx context.Context, ownerID, id int64) (*ChangeRate, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+rateColumns+" FROM change_rates WHERE owner_id = $1 AND id = $2", ownerID, id)
	return scanRate(row)
}

func (r *repository) First(ctx context.Context, ownerID int64) (*ChangeRate, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+rateColumns+" FROM change_rates WHERE owner_id = $1 ORDER BY id LIMIT 1", ownerID)
	return scanRate(row)
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]ChangeRate, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+rateColumns+" FROM change_rates WHERE owner_id = $1 ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChangeRate
	for rows.Next() {
		cr, err := scanRateRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *cr)
	}
	return out, rows.Err()
}

func scanRate(row pgx.Row) (*ChangeRate, error) {
	var (
		cr   ChangeRate
		rate pgtype.Numeric
		date pgtype.Date
	)
	err := row.Scan(&cr.ID, &cr.OwnerID, &cr.CurrencyPrimary, &cr.CurrencySecondary, &rate, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if rate.Valid {
		f, _ := rate.Float64Value()
		cr.Rate = f.Float64
	}
	if date.Valid {
		cr.RateDate = date.Time
	}
	return &cr, nil
}

func scanRateRows(rows pgx.Rows) (*ChangeRate, error) {
	var (
		cr   ChangeRate
		rate pgtype.Numeric
		date pgtype.Date
	)
	if err := rows.Scan(&cr.ID, &cr.OwnerID, &cr.CurrencyPrimary, &cr.CurrencySecondary, &rate, &date); err != nil {
		return nil, err
	}
	if rate.Valid {
		f, _ := rate.Float64Value()
		cr.Rate = f.Float64
	}
	if date.Valid {
		cr.RateDate = date.Time
	}
	return &cr, nil
}
