package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/models"
)

type PgxSupplierRepository struct {
	BaseRepository
}

// newPgxSupplierRepository creates a new repository for supplier rows.
func newPgxSupplierRepository(pool *pgxpool.Pool) portsrepo.SupplierRepository {
	return &PgxSupplierRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SupplierRepository = (*PgxSupplierRepository)(nil)

// BatchUpsertSuppliers upserts suppliers in bounded chunks by
// (agreement_number, supplier_number).
func (r *PgxSupplierRepository) BatchUpsertSuppliers(ctx context.Context, suppliers []models.Supplier) (portsrepo.UpsertResult, error) {
	query := `
		INSERT INTO suppliers (agreement_number, supplier_number, name, email, phone, currency_code, supplier_group, barred, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (agreement_number, supplier_number) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			currency_code = EXCLUDED.currency_code,
			supplier_group = EXCLUDED.supplier_group,
			barred = EXCLUDED.barred,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0);
	`
	return batchUpsert(ctx, &r.BaseRepository, suppliers, func(ctx context.Context, tx pgx.Tx, s models.Supplier) (bool, error) {
		var inserted bool
		err := tx.QueryRow(ctx, query,
			s.AgreementNumber, s.SupplierNumber, s.Name, s.Email, s.Phone, s.CurrencyCode,
			s.SupplierGroup, s.Barred, s.CreatedAt, s.LastUpdatedAt,
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("failed to upsert supplier %d: %w", s.SupplierNumber, err)
		}
		return inserted, nil
	})
}

// ListSuppliers returns a page of the agreement's suppliers in number order.
func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Supplier, error) {
	query := `
		SELECT agreement_number, supplier_number, name, email, phone, currency_code, supplier_group, barred, created_at, last_updated_at
		FROM suppliers
		WHERE agreement_number = $1
		ORDER BY supplier_number
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Supplier, error) {
		var s models.Supplier
		err := row.Scan(&s.AgreementNumber, &s.SupplierNumber, &s.Name, &s.Email, &s.Phone, &s.CurrencyCode,
			&s.SupplierGroup, &s.Barred, &s.CreatedAt, &s.LastUpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan suppliers: %w", err)
	}
	return suppliers, nil
}
