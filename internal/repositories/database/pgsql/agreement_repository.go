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

type PgxAgreementRepository struct {
	BaseRepository
}

// newPgxAgreementRepository creates a new repository for agreement records.
func newPgxAgreementRepository(pool *pgxpool.Pool) portsrepo.AgreementRepository {
	return &PgxAgreementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AgreementRepository = (*PgxAgreementRepository)(nil)

const agreementColumns = `agreement_id, name, agreement_number, grant_token, company_name, is_active, created_at, last_updated_at`

func scanAgreement(row pgx.Row) (models.Agreement, error) {
	var a models.Agreement
	err := row.Scan(
		&a.AgreementID,
		&a.Name,
		&a.AgreementNumber,
		&a.GrantToken,
		&a.CompanyName,
		&a.IsActive,
		&a.CreatedAt,
		&a.LastUpdatedAt,
	)
	return a, err
}

// SaveAgreement inserts a new agreement record.
func (r *PgxAgreementRepository) SaveAgreement(ctx context.Context, agreement models.Agreement) error {
	query := `
		INSERT INTO agreements (agreement_id, name, agreement_number, grant_token, company_name, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		agreement.AgreementID,
		agreement.Name,
		agreement.AgreementNumber,
		agreement.GrantToken,
		agreement.CompanyName,
		agreement.IsActive,
		agreement.CreatedAt,
		agreement.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save agreement %s: %w", agreement.AgreementID, err)
	}
	return nil
}

// FindAgreementByID retrieves an agreement by its surrogate id.
func (r *PgxAgreementRepository) FindAgreementByID(ctx context.Context, agreementID string) (*models.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE agreement_id = $1;`
	agreement, err := scanAgreement(r.Pool.QueryRow(ctx, query, agreementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find agreement by id %s: %w", agreementID, err)
	}
	return &agreement, nil
}

// FindAgreementByNumber retrieves an agreement by its confirmed remote number.
func (r *PgxAgreementRepository) FindAgreementByNumber(ctx context.Context, agreementNumber int) (*models.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE agreement_number = $1;`
	agreement, err := scanAgreement(r.Pool.QueryRow(ctx, query, agreementNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find agreement by number %d: %w", agreementNumber, err)
	}
	return &agreement, nil
}

// ListAgreements retrieves all agreements, optionally only active ones.
func (r *PgxAgreementRepository) ListAgreements(ctx context.Context, activeOnly bool) ([]models.Agreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM agreements`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreements: %w", err)
	}
	defer rows.Close()

	agreements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Agreement, error) {
		return scanAgreement(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan agreements: %w", err)
	}
	return agreements, nil
}

// UpdateAgreement overwrites the mutable fields of an existing agreement.
func (r *PgxAgreementRepository) UpdateAgreement(ctx context.Context, agreement models.Agreement) error {
	query := `
		UPDATE agreements
		SET name = $2, agreement_number = $3, grant_token = $4, company_name = $5, is_active = $6, last_updated_at = $7
		WHERE agreement_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		agreement.AgreementID,
		agreement.Name,
		agreement.AgreementNumber,
		agreement.GrantToken,
		agreement.CompanyName,
		agreement.IsActive,
		agreement.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update agreement %s: %w", agreement.AgreementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
