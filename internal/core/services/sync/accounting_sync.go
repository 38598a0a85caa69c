package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// AccountingSyncService syncs the year → period → entries/totals hierarchy
// for one agreement in a single recursive top-down pass. Parent rows are
// always upserted before their children; the schema's foreign keys back this
// up. Failures below the year level are caught and logged so one broken
// branch never aborts its siblings.
type AccountingSyncService struct {
	accounting ports.AccountingRepository
}

// NewAccountingSyncService creates the accounting sync service.
func NewAccountingSyncService(accounting ports.AccountingRepository) *AccountingSyncService {
	return &AccountingSyncService{accounting: accounting}
}

// Sync fetches every accounting year and fans out into its children.
func (s *AccountingSyncService) Sync(ctx context.Context, client portssvc.RemoteClient, agreementNumber int) (int, error) {
	records, err := client.FetchAllPages(ctx, "/accounting-years", url.Values{})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch accounting years: %w", err)
	}

	now := time.Now()
	total := 0
	for _, raw := range records {
		year, err := transformAccountingYear(raw, agreementNumber)
		if err != nil {
			return total, err
		}
		year.Touch(now)
		if err := s.accounting.UpsertAccountingYear(ctx, year); err != nil {
			return total, fmt.Errorf("failed to upsert accounting year %d: %w", year.Year, err)
		}
		total++
		total += s.syncYearChildren(ctx, client, agreementNumber, year.Year)
	}
	return total, nil
}

// SyncYear syncs one year and its children on demand (the lazy read-through
// trigger used when a totals read finds no cached rows).
func (s *AccountingSyncService) SyncYear(ctx context.Context, client portssvc.RemoteClient, agreementNumber, yearNumber int) (int, error) {
	raw, err := client.Get(ctx, fmt.Sprintf("/accounting-years/%d", yearNumber), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch accounting year %d: %w", yearNumber, err)
	}
	year, err := transformAccountingYear(json.RawMessage(raw), agreementNumber)
	if err != nil {
		return 0, err
	}
	year.Touch(time.Now())
	if err := s.accounting.UpsertAccountingYear(ctx, year); err != nil {
		return 0, fmt.Errorf("failed to upsert accounting year %d: %w", year.Year, err)
	}
	return 1 + s.syncYearChildren(ctx, client, agreementNumber, year.Year), nil
}

// syncYearChildren syncs the year's totals and each period's entries and
// totals. Every branch is isolated: a failure is logged and its siblings
// continue.
func (s *AccountingSyncService) syncYearChildren(ctx context.Context, client portssvc.RemoteClient, agreementNumber, year int) int {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()
	count := 0

	if c, err := s.syncTotals(ctx, client, agreementNumber, year, 0, true); err != nil {
		logger.Warn("Year totals sync failed",
			slog.Int("agreement_number", agreementNumber),
			slog.Int("year", year),
			slog.String("error", err.Error()),
		)
	} else {
		count += c
	}

	periods, err := client.FetchAllPages(ctx, fmt.Sprintf("/accounting-years/%d/periods", year), url.Values{})
	if err != nil {
		logger.Warn("Periods fetch failed",
			slog.Int("agreement_number", agreementNumber),
			slog.Int("year", year),
			slog.String("error", err.Error()),
		)
		return count
	}

	for _, raw := range periods {
		period, err := transformAccountingPeriod(raw, agreementNumber, year)
		if err != nil {
			logger.Warn("Skipping malformed period record",
				slog.Int("year", year),
				slog.String("error", err.Error()),
			)
			continue
		}
		period.Touch(now)
		if err := s.accounting.UpsertAccountingPeriod(ctx, period); err != nil {
			logger.Warn("Period upsert failed",
				slog.Int("year", year),
				slog.Int("period_number", period.PeriodNumber),
				slog.String("error", err.Error()),
			)
			continue
		}
		count++

		if c, err := s.syncEntries(ctx, client, agreementNumber, year, period.PeriodNumber); err != nil {
			logger.Warn("Entries sync failed",
				slog.Int("year", year),
				slog.Int("period_number", period.PeriodNumber),
				slog.String("error", err.Error()),
			)
		} else {
			count += c
		}

		if c, err := s.syncTotals(ctx, client, agreementNumber, year, period.PeriodNumber, false); err != nil {
			logger.Warn("Period totals sync failed",
				slog.Int("year", year),
				slog.Int("period_number", period.PeriodNumber),
				slog.String("error", err.Error()),
			)
		} else {
			count += c
		}
	}
	return count
}

func (s *AccountingSyncService) syncEntries(ctx context.Context, client portssvc.RemoteClient, agreementNumber, year, periodNumber int) (int, error) {
	path := fmt.Sprintf("/accounting-years/%d/periods/%d/entries", year, periodNumber)
	return syncCollection(ctx, client, path, agreementNumber,
		func(raw json.RawMessage, n int) (models.AccountingEntry, error) {
			return transformAccountingEntry(raw, n, year, periodNumber)
		},
		s.accounting.BatchUpsertAccountingEntries,
	)
}

func (s *AccountingSyncService) syncTotals(ctx context.Context, client portssvc.RemoteClient, agreementNumber, year, periodNumber int, isYearTotal bool) (int, error) {
	path := fmt.Sprintf("/accounting-years/%d/totals", year)
	if !isYearTotal {
		path = fmt.Sprintf("/accounting-years/%d/periods/%d/totals", year, periodNumber)
	}
	return syncCollection(ctx, client, path, agreementNumber,
		func(raw json.RawMessage, n int) (models.AccountingTotal, error) {
			return transformAccountingTotal(raw, n, year, periodNumber, isYearTotal)
		},
		s.accounting.BatchUpsertAccountingTotals,
	)
}
