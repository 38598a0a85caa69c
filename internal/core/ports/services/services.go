package services

import (
	"context"

	"github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/models"
)

// AgreementSvcFacade is the tenant credential registry.
type AgreementSvcFacade interface {
	CreateAgreement(ctx context.Context, req dto.CreateAgreementRequest) (*models.Agreement, error)
	GetAgreement(ctx context.Context, agreementID string) (*models.Agreement, error)
	ListAgreements(ctx context.Context, activeOnly bool) ([]models.Agreement, error)
	UpdateAgreement(ctx context.Context, agreementID string, req dto.UpdateAgreementRequest) (*models.Agreement, error)

	// Resolve confirms the agreement's identity against the remote API
	// (one /self call), self-healing the stored record on divergence, and
	// returns the confirmed agreement number.
	Resolve(ctx context.Context, agreement *models.Agreement) (int, error)
}

// SyncSvcFacade is the cross-agreement sync orchestrator.
type SyncSvcFacade interface {
	// SyncFamily runs one entity family across every active agreement.
	SyncFamily(ctx context.Context, family string) (dto.SyncSummary, error)

	// SyncEverything runs all families across every active agreement.
	SyncEverything(ctx context.Context) (dto.SyncSummary, error)

	// SyncAgreement runs all families for one agreement.
	SyncAgreement(ctx context.Context, agreementID string) (dto.SyncSummary, error)

	// Families lists the entity families the engine knows about.
	Families() []string
}

// CleanupSvcFacade is the post-hoc duplicate reconciliation pass.
type CleanupSvcFacade interface {
	// CleanupDuplicates collapses invoice rows sharing one natural key down
	// to the most-recently-updated row and reports how many were removed.
	CleanupDuplicates(ctx context.Context) (int, error)
}

// InvoiceQuerySvcFacade serves the local invoice read surface.
type InvoiceQuerySvcFacade interface {
	ListInvoices(ctx context.Context, filter repositories.InvoiceFilter) ([]models.Invoice, int, error)
	GetInvoiceLines(ctx context.Context, invoiceID string) ([]models.InvoiceLine, error)
}

// AccountingQuerySvcFacade serves the local accounting read surface.
// Totals reads are lazy: a miss triggers an on-demand sync for that year.
type AccountingQuerySvcFacade interface {
	ListYears(ctx context.Context, agreementNumber int) ([]models.AccountingYear, error)
	ListPeriods(ctx context.Context, agreementNumber, year int) ([]models.AccountingPeriod, error)
	ListEntries(ctx context.Context, agreementNumber, year, periodNumber, limit, offset int) ([]models.AccountingEntry, error)
	ListTotals(ctx context.Context, agreementNumber, year int, yearTotalsOnly bool) ([]models.AccountingTotal, error)
}

// SyncLogSvcFacade reads the sync history.
type SyncLogSvcFacade interface {
	ListSyncLogs(ctx context.Context, filter repositories.SyncLogFilter) ([]models.SyncLog, string, error)
}

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Agreement       AgreementSvcFacade
	Sync            SyncSvcFacade
	Cleanup         CleanupSvcFacade
	InvoiceQuery    InvoiceQuerySvcFacade
	AccountingQuery AccountingQuerySvcFacade
	SyncLog         SyncLogSvcFacade
}
