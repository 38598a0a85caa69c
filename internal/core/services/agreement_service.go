package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/soerenkp/ecosync/internal/apperrors"
	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// AgreementService is the tenant credential registry. The remote system is
// the source of truth for an agreement's identity; the local record is a
// cache of it, validated at creation and self-healed on every sync pass.
type AgreementService struct {
	agreements ports.AgreementRepository
	newClient  portssvc.RemoteClientFactory
}

// NewAgreementService creates the agreement registry service.
func NewAgreementService(agreements ports.AgreementRepository, newClient portssvc.RemoteClientFactory) *AgreementService {
	return &AgreementService{agreements: agreements, newClient: newClient}
}

// CreateAgreement validates the grant token against the remote API and
// stores the confirmed identity. A token whose agreement number is already
// registered is rejected as a duplicate.
func (s *AgreementService) CreateAgreement(ctx context.Context, req dto.CreateAgreementRequest) (*models.Agreement, error) {
	client := s.newClient(req.GrantToken)
	info, err := client.SelfInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("grant token validation failed: %w", err)
	}

	existing, err := s.agreements.FindAgreementByNumber(ctx, info.AgreementNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing agreement: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("agreement %d is already registered: %w", info.AgreementNumber, apperrors.ErrDuplicate)
	}

	name := req.Name
	if name == "" {
		name = info.Company.Name
	}

	agreement := models.Agreement{
		AgreementID:     uuid.NewString(),
		Name:            name,
		AgreementNumber: info.AgreementNumber,
		GrantToken:      req.GrantToken,
		CompanyName:     info.Company.Name,
		IsActive:        true,
	}
	agreement.Touch(time.Now())

	if err := s.agreements.SaveAgreement(ctx, agreement); err != nil {
		return nil, fmt.Errorf("failed to save agreement: %w", err)
	}
	return &agreement, nil
}

// GetAgreement returns one agreement by surrogate id.
func (s *AgreementService) GetAgreement(ctx context.Context, agreementID string) (*models.Agreement, error) {
	return s.agreements.FindAgreementByID(ctx, agreementID)
}

// ListAgreements returns all agreements, optionally only active ones.
func (s *AgreementService) ListAgreements(ctx context.Context, activeOnly bool) ([]models.Agreement, error) {
	agreements, err := s.agreements.ListAgreements(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	if agreements == nil {
		agreements = []models.Agreement{}
	}
	return agreements, nil
}

// UpdateAgreement applies the provided fields. Deactivation is the only way
// an agreement leaves the sync rotation; records are never deleted.
func (s *AgreementService) UpdateAgreement(ctx context.Context, agreementID string, req dto.UpdateAgreementRequest) (*models.Agreement, error) {
	agreement, err := s.agreements.FindAgreementByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		agreement.Name = *req.Name
	}
	if req.GrantToken != nil {
		agreement.GrantToken = *req.GrantToken
	}
	if req.IsActive != nil {
		agreement.IsActive = *req.IsActive
	}
	agreement.Touch(time.Now())

	if err := s.agreements.UpdateAgreement(ctx, *agreement); err != nil {
		return nil, fmt.Errorf("failed to update agreement: %w", err)
	}
	return agreement, nil
}

// Resolve confirms the agreement's identity with a single /self round-trip
// and self-heals the stored record when the remote-reported number or
// company name diverges. Callers must not resolve more than once per sync
// pass; the call is a full network round-trip.
func (s *AgreementService) Resolve(ctx context.Context, agreement *models.Agreement) (int, error) {
	client := s.newClient(agreement.GrantToken)
	info, err := client.SelfInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch self info: %w", err)
	}

	if info.AgreementNumber != agreement.AgreementNumber || info.Company.Name != agreement.CompanyName {
		middleware.GetLoggerFromCtx(ctx).Info("Self-healing agreement record",
			slog.String("agreement_id", agreement.AgreementID),
			slog.Int("stored_number", agreement.AgreementNumber),
			slog.Int("remote_number", info.AgreementNumber),
		)
		agreement.AgreementNumber = info.AgreementNumber
		agreement.CompanyName = info.Company.Name
		agreement.Touch(time.Now())
		if err := s.agreements.UpdateAgreement(ctx, *agreement); err != nil {
			return 0, fmt.Errorf("failed to self-heal agreement record: %w", err)
		}
	}
	return info.AgreementNumber, nil
}
