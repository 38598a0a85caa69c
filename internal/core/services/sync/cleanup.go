package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// CleanupService is the corrective reconciliation pass over upsert history.
// Duplicate rows for one natural key are a defect state that correct upserts
// never produce, but the invoice natural key changed across schema revisions
// (draft numbers colliding with booked numbers), so the defect is defended
// against rather than assumed away.
type CleanupService struct {
	agreements ports.AgreementRepository
	invoices   ports.InvoiceRepository
	recorder   *Recorder
}

// NewCleanupService wires the cleanup pass.
func NewCleanupService(agreements ports.AgreementRepository, invoices ports.InvoiceRepository, recorder *Recorder) *CleanupService {
	return &CleanupService{agreements: agreements, invoices: invoices, recorder: recorder}
}

// CleanupDuplicates collapses every group of invoice rows sharing one
// natural key down to the most-recently-updated row. The operation is
// idempotent and order-independent: a second run with no intervening sync
// removes nothing.
func (s *CleanupService) CleanupDuplicates(ctx context.Context) (int, error) {
	startedAt := time.Now()
	logger := middleware.GetLoggerFromCtx(ctx)

	agreements, err := s.agreements.ListAgreements(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("failed to list agreements: %w", err)
	}

	removed := 0
	for _, agreement := range agreements {
		if agreement.AgreementNumber == 0 {
			// Never confirmed against the remote API; no rows can exist yet.
			continue
		}
		groups, err := s.invoices.FindDuplicateInvoices(ctx, agreement.AgreementNumber)
		if err != nil {
			s.recorder.Record(ctx, "invoices", "cleanup", agreement.AgreementNumber, models.SyncStatusError, removed, err.Error(), startedAt)
			return removed, fmt.Errorf("failed to enumerate duplicates for agreement %d: %w", agreement.AgreementNumber, err)
		}

		for _, group := range groups {
			if len(group) < 2 {
				continue
			}
			// Groups arrive most-recently-updated first; everything after
			// the head is stale.
			staleIDs := make([]string, 0, len(group)-1)
			for _, stale := range group[1:] {
				staleIDs = append(staleIDs, stale.InvoiceID)
			}
			deleted, err := s.invoices.DeleteInvoicesByID(ctx, staleIDs)
			removed += deleted
			if err != nil {
				s.recorder.Record(ctx, "invoices", "cleanup", agreement.AgreementNumber, models.SyncStatusError, removed, err.Error(), startedAt)
				return removed, fmt.Errorf("failed to delete duplicate invoices: %w", err)
			}
			logger.Info("Removed duplicate invoice rows",
				slog.Int("agreement_number", agreement.AgreementNumber),
				slog.Int("document_number", group[0].DocumentNumber),
				slog.Int("removed", deleted),
			)
		}
	}

	s.recorder.Record(ctx, "invoices", "cleanup", 0, models.SyncStatusSuccess, removed, "", startedAt)
	return removed, nil
}
