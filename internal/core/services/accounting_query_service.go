package services

import (
	"context"
	"fmt"
	"time"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	syncsvc "github.com/soerenkp/ecosync/internal/core/services/sync"
	"github.com/soerenkp/ecosync/internal/models"
	"github.com/soerenkp/ecosync/internal/utils/cache"
)

// DefaultTotalsCacheTTL bounds how stale a cached totals response may be.
const DefaultTotalsCacheTTL = 5 * time.Minute

// AccountingQueryService serves the local accounting read surface. Years,
// periods and entries read straight from storage. Totals are read-through:
// a miss triggers an on-demand sync of the requested year, and hits are
// cached with a TTL because totals reads dominate the dashboard workload.
type AccountingQueryService struct {
	accounting ports.AccountingRepository
	agreements ports.AgreementRepository
	newClient  portssvc.RemoteClientFactory
	syncer     *syncsvc.AccountingSyncService

	totalsCache *cache.Cache[string, []models.AccountingTotal]
	totalsTTL   time.Duration
}

// NewAccountingQueryService creates the accounting read service. A ttl of
// zero falls back to DefaultTotalsCacheTTL.
func NewAccountingQueryService(
	accounting ports.AccountingRepository,
	agreements ports.AgreementRepository,
	newClient portssvc.RemoteClientFactory,
	syncer *syncsvc.AccountingSyncService,
	ttl time.Duration,
) *AccountingQueryService {
	if ttl <= 0 {
		ttl = DefaultTotalsCacheTTL
	}
	return &AccountingQueryService{
		accounting:  accounting,
		agreements:  agreements,
		newClient:   newClient,
		syncer:      syncer,
		totalsCache: cache.New[string, []models.AccountingTotal](),
		totalsTTL:   ttl,
	}
}

// ListYears returns the agreement's accounting years, newest first.
func (s *AccountingQueryService) ListYears(ctx context.Context, agreementNumber int) ([]models.AccountingYear, error) {
	years, err := s.accounting.ListAccountingYears(ctx, agreementNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounting years: %w", err)
	}
	if years == nil {
		years = []models.AccountingYear{}
	}
	return years, nil
}

// ListPeriods returns one year's periods in period order. The year must
// exist locally; an unknown year is a not-found error, distinct from a
// known year with no periods.
func (s *AccountingQueryService) ListPeriods(ctx context.Context, agreementNumber, year int) ([]models.AccountingPeriod, error) {
	if _, err := s.accounting.FindAccountingYear(ctx, agreementNumber, year); err != nil {
		return nil, err
	}
	periods, err := s.accounting.ListAccountingPeriods(ctx, agreementNumber, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounting periods: %w", err)
	}
	if periods == nil {
		periods = []models.AccountingPeriod{}
	}
	return periods, nil
}

// ListEntries returns a page of one period's entries in entry-number order.
func (s *AccountingQueryService) ListEntries(ctx context.Context, agreementNumber, year, periodNumber, limit, offset int) ([]models.AccountingEntry, error) {
	if _, err := s.accounting.FindAccountingYear(ctx, agreementNumber, year); err != nil {
		return nil, err
	}
	entries, err := s.accounting.ListAccountingEntries(ctx, agreementNumber, year, periodNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounting entries: %w", err)
	}
	if entries == nil {
		entries = []models.AccountingEntry{}
	}
	return entries, nil
}

// ListTotals returns a year's totals, syncing the year on demand when the
// local store has none. The result is cached per
// (agreement, year, scope) for the configured TTL.
func (s *AccountingQueryService) ListTotals(ctx context.Context, agreementNumber, year int, yearTotalsOnly bool) ([]models.AccountingTotal, error) {
	key := fmt.Sprintf("%d/%d/%t", agreementNumber, year, yearTotalsOnly)
	return s.totalsCache.GetOrCompute(key, s.totalsTTL, func() ([]models.AccountingTotal, error) {
		totals, err := s.accounting.ListAccountingTotals(ctx, agreementNumber, year, yearTotalsOnly)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounting totals: %w", err)
		}
		if len(totals) > 0 {
			return totals, nil
		}

		// Cache miss on storage too: pull the year from the remote API
		// before giving up.
		agreement, err := s.agreements.FindAgreementByNumber(ctx, agreementNumber)
		if err != nil {
			return nil, err
		}
		client := s.newClient(agreement.GrantToken)
		if _, err := s.syncer.SyncYear(ctx, client, agreementNumber, year); err != nil {
			return nil, fmt.Errorf("on-demand totals sync failed: %w", err)
		}

		totals, err = s.accounting.ListAccountingTotals(ctx, agreementNumber, year, yearTotalsOnly)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounting totals: %w", err)
		}
		if totals == nil {
			totals = []models.AccountingTotal{}
		}
		return totals, nil
	})
}
