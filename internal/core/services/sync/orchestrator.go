package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soerenkp/ecosync/internal/apperrors"
	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// Summary statuses returned by the orchestrator.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
	StatusWarning = "warning"
)

// Orchestrator fans one sync request out across agreements. Agreements are
// processed strictly sequentially; one agreement's failure is recorded as a
// per-agreement error result and never aborts the others.
type Orchestrator struct {
	agreements ports.AgreementRepository
	engine     *Engine
	recorder   *Recorder
}

// NewOrchestrator wires the cross-agreement orchestrator.
func NewOrchestrator(agreements ports.AgreementRepository, engine *Engine, recorder *Recorder) *Orchestrator {
	return &Orchestrator{agreements: agreements, engine: engine, recorder: recorder}
}

// Families lists the entity families the engine knows about.
func (o *Orchestrator) Families() []string {
	return o.engine.Families()
}

// SyncFamily runs one entity family across every active agreement.
// Zero active agreements is a defined warning outcome, not an error.
func (o *Orchestrator) SyncFamily(ctx context.Context, family string) (dto.SyncSummary, error) {
	if !o.engine.KnowsFamily(family) {
		return dto.SyncSummary{}, fmt.Errorf("unknown entity family %q: %w", family, apperrors.ErrValidation)
	}

	startedAt := time.Now()
	agreements, err := o.agreements.ListAgreements(ctx, true)
	if err != nil {
		return dto.SyncSummary{}, fmt.Errorf("failed to list active agreements: %w", err)
	}
	if len(agreements) == 0 {
		o.recorder.Record(ctx, family, "sync_all", 0, models.SyncStatusWarning, 0, "no active agreements", startedAt)
		return dto.SyncSummary{Status: StatusWarning, Entity: family, TotalCount: 0, Results: []dto.AgreementSyncResult{}}, nil
	}

	summary := dto.SyncSummary{Entity: family, Results: make([]dto.AgreementSyncResult, 0, len(agreements))}
	failures := 0
	for _, agreement := range agreements {
		count, err := o.engine.SyncFamilyForAgreement(ctx, agreement, family)
		summary.TotalCount += count
		summary.Results = append(summary.Results, agreementResult(agreement, count, err))
		if err != nil {
			failures++
			middleware.GetLoggerFromCtx(ctx).Warn("Agreement sync failed",
				slog.String("family", family),
				slog.String("agreement_id", agreement.AgreementID),
				slog.String("error", err.Error()),
			)
		}
	}

	summary.Status = overallStatus(failures, len(agreements))
	o.recorder.Record(ctx, family, "sync_all", 0, summaryLogStatus(summary.Status), summary.TotalCount, "", startedAt)
	return summary, nil
}

// SyncEverything runs all families for every active agreement. Family
// failures are isolated per agreement the same way agreement failures are.
func (o *Orchestrator) SyncEverything(ctx context.Context) (dto.SyncSummary, error) {
	startedAt := time.Now()
	agreements, err := o.agreements.ListAgreements(ctx, true)
	if err != nil {
		return dto.SyncSummary{}, fmt.Errorf("failed to list active agreements: %w", err)
	}
	if len(agreements) == 0 {
		o.recorder.Record(ctx, "all", "sync_all", 0, models.SyncStatusWarning, 0, "no active agreements", startedAt)
		return dto.SyncSummary{Status: StatusWarning, Entity: "all", TotalCount: 0, Results: []dto.AgreementSyncResult{}}, nil
	}

	summary := dto.SyncSummary{Entity: "all", Results: make([]dto.AgreementSyncResult, 0, len(agreements))}
	failures := 0
	for _, agreement := range agreements {
		count, err := o.syncAllFamilies(ctx, agreement)
		summary.TotalCount += count
		summary.Results = append(summary.Results, agreementResult(agreement, count, err))
		if err != nil {
			failures++
		}
	}

	summary.Status = overallStatus(failures, len(agreements))
	o.recorder.Record(ctx, "all", "sync_all", 0, summaryLogStatus(summary.Status), summary.TotalCount, "", startedAt)
	return summary, nil
}

// SyncAgreement runs all families for one agreement, active or not —
// an explicit per-agreement trigger is taken as operator intent.
func (o *Orchestrator) SyncAgreement(ctx context.Context, agreementID string) (dto.SyncSummary, error) {
	agreement, err := o.agreements.FindAgreementByID(ctx, agreementID)
	if err != nil {
		return dto.SyncSummary{}, err
	}

	count, err := o.syncAllFamilies(ctx, *agreement)
	result := agreementResult(*agreement, count, err)
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	return dto.SyncSummary{
		Status:     status,
		Entity:     "all",
		TotalCount: count,
		Results:    []dto.AgreementSyncResult{result},
	}, nil
}

// syncAllFamilies runs every family for one agreement, isolating family
// failures from each other. The returned error is the first failure, kept
// for the per-agreement result; later families still run.
func (o *Orchestrator) syncAllFamilies(ctx context.Context, agreement models.Agreement) (int, error) {
	total := 0
	var firstErr error
	for _, family := range o.engine.Families() {
		count, err := o.engine.SyncFamilyForAgreement(ctx, agreement, family)
		total += count
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("family %s: %w", family, err)
		}
	}
	return total, firstErr
}

func agreementResult(agreement models.Agreement, count int, err error) dto.AgreementSyncResult {
	result := dto.AgreementSyncResult{
		AgreementID:     agreement.AgreementID,
		AgreementNumber: agreement.AgreementNumber,
		Name:            agreement.Name,
		Status:          StatusSuccess,
		RecordCount:     count,
	}
	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
	}
	return result
}

func overallStatus(failures, total int) string {
	switch {
	case failures == 0:
		return StatusSuccess
	case failures == total:
		return StatusError
	default:
		return StatusPartial
	}
}

func summaryLogStatus(status string) models.SyncStatus {
	switch status {
	case StatusSuccess:
		return models.SyncStatusSuccess
	case StatusPartial:
		return models.SyncStatusPartial
	case StatusWarning:
		return models.SyncStatusWarning
	default:
		return models.SyncStatusError
	}
}
