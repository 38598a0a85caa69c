package repositories

import (
	"context"

	"github.com/soerenkp/ecosync/internal/models"
)

// AgreementRepository persists tenant credential records.
type AgreementRepository interface {
	// SaveAgreement inserts a new agreement.
	SaveAgreement(ctx context.Context, agreement models.Agreement) error

	// FindAgreementByID returns the agreement with the given surrogate id,
	// or apperrors.ErrNotFound.
	FindAgreementByID(ctx context.Context, agreementID string) (*models.Agreement, error)

	// FindAgreementByNumber returns the agreement with the given confirmed
	// remote number, or apperrors.ErrNotFound.
	FindAgreementByNumber(ctx context.Context, agreementNumber int) (*models.Agreement, error)

	// ListAgreements returns all agreements, optionally restricted to active ones.
	ListAgreements(ctx context.Context, activeOnly bool) ([]models.Agreement, error)

	// UpdateAgreement overwrites the mutable fields of an existing agreement.
	UpdateAgreement(ctx context.Context, agreement models.Agreement) error
}
