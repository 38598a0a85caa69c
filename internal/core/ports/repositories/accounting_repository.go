package repositories

import (
	"context"

	"github.com/soerenkp/ecosync/internal/models"
)

// AccountingRepository persists the year → period → entries/totals hierarchy.
// Parent rows must be upserted before their children; the schema's foreign
// keys reject orphans as a safety net.
type AccountingRepository interface {
	UpsertAccountingYear(ctx context.Context, year models.AccountingYear) error
	FindAccountingYear(ctx context.Context, agreementNumber, year int) (*models.AccountingYear, error)
	ListAccountingYears(ctx context.Context, agreementNumber int) ([]models.AccountingYear, error)

	UpsertAccountingPeriod(ctx context.Context, period models.AccountingPeriod) error
	ListAccountingPeriods(ctx context.Context, agreementNumber, year int) ([]models.AccountingPeriod, error)

	BatchUpsertAccountingEntries(ctx context.Context, entries []models.AccountingEntry) (UpsertResult, error)
	ListAccountingEntries(ctx context.Context, agreementNumber, year, periodNumber int, limit, offset int) ([]models.AccountingEntry, error)

	BatchUpsertAccountingTotals(ctx context.Context, totals []models.AccountingTotal) (UpsertResult, error)
	// ListAccountingTotals returns period totals for the year, or only the
	// year-level totals when yearTotalsOnly is set.
	ListAccountingTotals(ctx context.Context, agreementNumber, year int, yearTotalsOnly bool) ([]models.AccountingTotal, error)
}
