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

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for product rows.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepository {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProductRepository = (*PgxProductRepository)(nil)

// BatchUpsertProducts upserts products in bounded chunks by
// (agreement_number, product_number). Product numbers are free-form strings.
func (r *PgxProductRepository) BatchUpsertProducts(ctx context.Context, products []models.Product) (portsrepo.UpsertResult, error) {
	query := `
		INSERT INTO products (agreement_number, product_number, name, description, sales_price, cost_price, product_group_number, barred, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (agreement_number, product_number) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			sales_price = EXCLUDED.sales_price,
			cost_price = EXCLUDED.cost_price,
			product_group_number = EXCLUDED.product_group_number,
			barred = EXCLUDED.barred,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0);
	`
	return batchUpsert(ctx, &r.BaseRepository, products, func(ctx context.Context, tx pgx.Tx, p models.Product) (bool, error) {
		var inserted bool
		err := tx.QueryRow(ctx, query,
			p.AgreementNumber, p.ProductNumber, p.Name, p.Description, p.SalesPrice, p.CostPrice,
			p.ProductGroupNumber, p.Barred, p.CreatedAt, p.LastUpdatedAt,
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("failed to upsert product %s: %w", p.ProductNumber, err)
		}
		return inserted, nil
	})
}

// FindProduct retrieves one product, or apperrors.ErrNotFound.
func (r *PgxProductRepository) FindProduct(ctx context.Context, agreementNumber int, productNumber string) (*models.Product, error) {
	query := `
		SELECT agreement_number, product_number, name, description, sales_price, cost_price, product_group_number, barred, created_at, last_updated_at
		FROM products
		WHERE agreement_number = $1 AND product_number = $2;
	`
	var p models.Product
	err := r.Pool.QueryRow(ctx, query, agreementNumber, productNumber).Scan(
		&p.AgreementNumber, &p.ProductNumber, &p.Name, &p.Description, &p.SalesPrice, &p.CostPrice,
		&p.ProductGroupNumber, &p.Barred, &p.CreatedAt, &p.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product %d/%s: %w", agreementNumber, productNumber, err)
	}
	return &p, nil
}

// ListProducts returns a page of the agreement's products in number order.
func (r *PgxProductRepository) ListProducts(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Product, error) {
	query := `
		SELECT agreement_number, product_number, name, description, sales_price, cost_price, product_group_number, barred, created_at, last_updated_at
		FROM products
		WHERE agreement_number = $1
		ORDER BY product_number
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Product, error) {
		var p models.Product
		err := row.Scan(&p.AgreementNumber, &p.ProductNumber, &p.Name, &p.Description, &p.SalesPrice, &p.CostPrice,
			&p.ProductGroupNumber, &p.Barred, &p.CreatedAt, &p.LastUpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}
