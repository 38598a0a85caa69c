package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soerenkp/ecosync/internal/apperrors"
	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/models"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts rows.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// BatchUpsertAccounts upserts accounts in bounded chunks by
// (agreement_number, account_number).
func (r *PgxAccountRepository) BatchUpsertAccounts(ctx context.Context, accounts []models.Account) (portsrepo.UpsertResult, error) {
	query := `
		INSERT INTO accounts (agreement_number, account_number, name, account_type, debit_credit, balance, block_direct_entries, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (agreement_number, account_number) DO UPDATE SET
			name = EXCLUDED.name,
			account_type = EXCLUDED.account_type,
			debit_credit = EXCLUDED.debit_credit,
			balance = EXCLUDED.balance,
			block_direct_entries = EXCLUDED.block_direct_entries,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0);
	`
	return batchUpsert(ctx, &r.BaseRepository, accounts, func(ctx context.Context, tx pgx.Tx, a models.Account) (bool, error) {
		var inserted bool
		err := tx.QueryRow(ctx, query,
			a.AgreementNumber, a.AccountNumber, a.Name, a.AccountType, a.DebitCredit, a.Balance, a.BlockDirectEntries,
			a.CreatedAt, a.LastUpdatedAt,
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("failed to upsert account %d: %w", a.AccountNumber, err)
		}
		return inserted, nil
	})
}

// FindAccount retrieves one account, or apperrors.ErrNotFound.
func (r *PgxAccountRepository) FindAccount(ctx context.Context, agreementNumber, accountNumber int) (*models.Account, error) {
	query := `
		SELECT agreement_number, account_number, name, account_type, debit_credit, balance, block_direct_entries, created_at, last_updated_at
		FROM accounts
		WHERE agreement_number = $1 AND account_number = $2;
	`
	var a models.Account
	err := r.Pool.QueryRow(ctx, query, agreementNumber, accountNumber).Scan(
		&a.AgreementNumber, &a.AccountNumber, &a.Name, &a.AccountType, &a.DebitCredit, &a.Balance, &a.BlockDirectEntries,
		&a.CreatedAt, &a.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %d/%d: %w", agreementNumber, accountNumber, err)
	}
	return &a, nil
}

// ListAccounts returns a page of the agreement's accounts in account order.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Account, error) {
	query := `
		SELECT agreement_number, account_number, name, account_type, debit_credit, balance, block_direct_entries, created_at, last_updated_at
		FROM accounts
		WHERE agreement_number = $1
		ORDER BY account_number
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		var a models.Account
		err := row.Scan(&a.AgreementNumber, &a.AccountNumber, &a.Name, &a.AccountType, &a.DebitCredit, &a.Balance,
			&a.BlockDirectEntries, &a.CreatedAt, &a.LastUpdatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	return accounts, nil
}
