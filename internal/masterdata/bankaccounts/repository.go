package bankaccounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/shared"
)

// Repository defines owner-scoped bank-account lookups.
type Repository interface {
	Get(ctx context.Context, ownerID, id int64) (*BankAccount, error)
	First(ctx context.Context, ownerID int64) (*BankAccount, error)
	List(ctx context.Context, ownerID int64) ([]BankAccount, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const accountColumns = "id, owner_id, bank, iban, notes"

func (r *repository) Get(ctx context.Context, ownerID, id int64) (*BankAccount, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM bank_accounts WHERE owner_id = $1 AND id = $2", ownerID, id)
	return scanAccount(row)
}

func (r *repository) First(ctx context.Context, ownerID int64) (*BankAccount, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM bank_accounts WHERE owner_id = $1 ORDER BY id LIMIT 1", ownerID)
	return scanAccount(row)
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]BankAccount, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+accountColumns+" FROM bank_accounts WHERE owner_id = $1 ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BankAccount
	for rows.Next() {
		var (
			a     BankAccount
			notes pgtype.Text
		)
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Bank, &a.IBAN, &notes); err != nil {
			return nil, err
		}
		if notes.Valid {
			a.Notes = notes.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAccount(row pgx.Row) (*BankAccount, error) {
	var (
		a     BankAccount
		notes pgtype.Text
	)
	err := row.Scan(&a.ID, &a.OwnerID, &a.Bank, &a.IBAN, &notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if notes.Valid {
		a.Notes = notes.String
	}
	return &a, nil
}
