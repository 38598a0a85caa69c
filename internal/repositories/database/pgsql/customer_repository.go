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

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer rows.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepository {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CustomerRepository = (*PgxCustomerRepository)(nil)

// BatchUpsertCustomers upserts customers in bounded chunks by
// (agreement_number, customer_number).
func (r *PgxCustomerRepository) BatchUpsertCustomers(ctx context.Context, customers []models.Customer) (portsrepo.UpsertResult, error) {
	query := `
		INSERT INTO customers (agreement_number, customer_number, name, email, currency_code, balance, barred, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (agreement_number, customer_number) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			currency_code = EXCLUDED.currency_code,
			balance = EXCLUDED.balance,
			barred = EXCLUDED.barred,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0);
	`
	return batchUpsert(ctx, &r.BaseRepository, customers, func(ctx context.Context, tx pgx.Tx, c models.Customer) (bool, error) {
		var inserted bool
		err := tx.QueryRow(ctx, query,
			c.AgreementNumber, c.CustomerNumber, c.Name, c.Email, c.CurrencyCode, c.Balance, c.Barred,
			c.CreatedAt, c.LastUpdatedAt,
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("failed to upsert customer %d: %w", c.CustomerNumber, err)
		}
		return inserted, nil
	})
}

// FindCustomer retrieves one customer, or apperrors.ErrNotFound.
func (r *PgxCustomerRepository) FindCustomer(ctx context.Context, agreementNumber, customerNumber int) (*models.Customer, error) {
	query := `
		SELECT agreement_number, customer_number, name, email, currency_code, balance, barred, created_at, last_updated_at
		FROM customers
		WHERE agreement_number = $1 AND customer_number = $2;
	`
	var c models.Customer
	err := r.Pool.QueryRow(ctx, query, agreementNumber, customerNumber).Scan(
		&c.AgreementNumber, &c.CustomerNumber, &c.Name, &c.Email, &c.CurrencyCode, &c.Balance, &c.Barred,
		&c.CreatedAt, &c.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %d/%d: %w", agreementNumber, customerNumber, err)
	}
	return &c, nil
}

// ListCustomers returns a page of the agreement's customers in number order.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Customer, error) {
	query := `
		SELECT agreement_number, customer_number, name, email, currency_code, balance, barred, created_at, last_updated_at
		FROM customers
		WHERE agreement_number = $1
		ORDER BY customer_number
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Customer, error) {
		var c models.Customer
		err := row.Scan(&c.AgreementNumber, &c.CustomerNumber, &c.Name, &c.Email, &c.CurrencyCode, &c.Balance,
			&c.Barred, &c.CreatedAt, &c.LastUpdatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan customers: %w", err)
	}
	return customers, nil
}
