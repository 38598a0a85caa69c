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

type PgxAccountingRepository struct {
	BaseRepository
}

// newPgxAccountingRepository creates a new repository for the accounting
// year → period → entries/totals hierarchy.
func newPgxAccountingRepository(pool *pgxpool.Pool) portsrepo.AccountingRepository {
	return &PgxAccountingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AccountingRepository = (*PgxAccountingRepository)(nil)

// UpsertAccountingYear inserts or updates one year by (agreement, year).
func (r *PgxAccountingRepository) UpsertAccountingYear(ctx context.Context, year models.AccountingYear) error {
	query := `
		INSERT INTO accounting_years (agreement_number, year, from_date, to_date, closed, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (agreement_number, year) DO UPDATE SET
			from_date = EXCLUDED.from_date,
			to_date = EXCLUDED.to_date,
			closed = EXCLUDED.closed,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		year.AgreementNumber, year.Year, year.FromDate, year.ToDate, year.Closed, year.CreatedAt, year.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert accounting year %d/%d: %w", year.AgreementNumber, year.Year, err)
	}
	return nil
}

// FindAccountingYear retrieves one year, or apperrors.ErrNotFound.
func (r *PgxAccountingRepository) FindAccountingYear(ctx context.Context, agreementNumber, year int) (*models.AccountingYear, error) {
	query := `
		SELECT agreement_number, year, from_date, to_date, closed, created_at, last_updated_at
		FROM accounting_years
		WHERE agreement_number = $1 AND year = $2;
	`
	var y models.AccountingYear
	err := r.Pool.QueryRow(ctx, query, agreementNumber, year).Scan(
		&y.AgreementNumber, &y.Year, &y.FromDate, &y.ToDate, &y.Closed, &y.CreatedAt, &y.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find accounting year %d/%d: %w", agreementNumber, year, err)
	}
	return &y, nil
}

// ListAccountingYears retrieves the agreement's years, newest first.
func (r *PgxAccountingRepository) ListAccountingYears(ctx context.Context, agreementNumber int) ([]models.AccountingYear, error) {
	query := `
		SELECT agreement_number, year, from_date, to_date, closed, created_at, last_updated_at
		FROM accounting_years
		WHERE agreement_number = $1
		ORDER BY year DESC;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounting years: %w", err)
	}
	defer rows.Close()

	years, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountingYear, error) {
		var y models.AccountingYear
		err := row.Scan(&y.AgreementNumber, &y.Year, &y.FromDate, &y.ToDate, &y.Closed, &y.CreatedAt, &y.LastUpdatedAt)
		return y, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounting years: %w", err)
	}
	return years, nil
}

// UpsertAccountingPeriod inserts or updates one period.
func (r *PgxAccountingRepository) UpsertAccountingPeriod(ctx context.Context, period models.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (agreement_number, year, period_number, from_date, to_date, barred, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (agreement_number, year, period_number) DO UPDATE SET
			from_date = EXCLUDED.from_date,
			to_date = EXCLUDED.to_date,
			barred = EXCLUDED.barred,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		period.AgreementNumber, period.Year, period.PeriodNumber, period.FromDate, period.ToDate, period.Barred,
		period.CreatedAt, period.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert accounting period %d/%d/%d: %w", period.AgreementNumber, period.Year, period.PeriodNumber, err)
	}
	return nil
}

// ListAccountingPeriods retrieves one year's periods in period order.
func (r *PgxAccountingRepository) ListAccountingPeriods(ctx context.Context, agreementNumber, year int) ([]models.AccountingPeriod, error) {
	query := `
		SELECT agreement_number, year, period_number, from_date, to_date, barred, created_at, last_updated_at
		FROM accounting_periods
		WHERE agreement_number = $1 AND year = $2
		ORDER BY period_number;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounting periods: %w", err)
	}
	defer rows.Close()

	periods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountingPeriod, error) {
		var p models.AccountingPeriod
		err := row.Scan(&p.AgreementNumber, &p.Year, &p.PeriodNumber, &p.FromDate, &p.ToDate, &p.Barred, &p.CreatedAt, &p.LastUpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounting periods: %w", err)
	}
	return periods, nil
}

// BatchUpsertAccountingEntries upserts entries in bounded chunks, one
// transaction per chunk.
func (r *PgxAccountingRepository) BatchUpsertAccountingEntries(ctx context.Context, entries []models.AccountingEntry) (portsrepo.UpsertResult, error) {
	query := `
		INSERT INTO accounting_entries (agreement_number, year, period_number, entry_number, account_number, amount, currency_code, entry_date, text, entry_type, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (agreement_number, year, period_number, entry_number) DO UPDATE SET
			account_number = EXCLUDED.account_number,
			amount = EXCLUDED.amount,
			currency_code = EXCLUDED.currency_code,
			entry_date = EXCLUDED.entry_date,
			text = EXCLUDED.text,
			entry_type = EXCLUDED.entry_type,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0);
	`
	var result portsrepo.UpsertResult
	for _, bounds := range chunkRange(len(entries)) {
		tx, err := r.Begin(ctx)
		if err != nil {
			return result, err
		}
		var chunk portsrepo.UpsertResult
		for _, e := range entries[bounds[0]:bounds[1]] {
			var inserted bool
			err := tx.QueryRow(ctx, query,
				e.AgreementNumber, e.Year, e.PeriodNumber, e.EntryNumber, e.AccountNumber, e.Amount,
				e.CurrencyCode, e.EntryDate, e.Text, e.EntryType, e.CreatedAt, e.LastUpdatedAt,
			).Scan(&inserted)
			if err != nil {
				r.Rollback(ctx, tx)
				return result, fmt.Errorf("failed to upsert accounting entry %d: %w", e.EntryNumber, err)
			}
			if inserted {
				chunk.Inserted++
			} else {
				chunk.Updated++
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return result, fmt.Errorf("failed to commit entry batch: %w", err)
		}
		result.Add(chunk)
	}
	return result, nil
}

// ListAccountingEntries returns a page of one period's entries in entry order.
func (r *PgxAccountingRepository) ListAccountingEntries(ctx context.Context, agreementNumber, year, periodNumber, limit, offset int) ([]models.AccountingEntry, error) {
	query := `
		SELECT agreement_number, year, period_number, entry_number, account_number, amount, currency_code, entry_date, text, entry_type, created_at, last_updated_at
		FROM accounting_entries
		WHERE agreement_number = $1 AND year = $2 AND period_number = $3
		ORDER BY entry_number
		LIMIT $4 OFFSET $5;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber, year, periodNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounting entries: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountingEntry, error) {
		var e models.AccountingEntry
		err := row.Scan(&e.AgreementNumber, &e.Year, &e.PeriodNumber, &e.EntryNumber, &e.AccountNumber, &e.Amount,
			&e.CurrencyCode, &e.EntryDate, &e.Text, &e.EntryType, &e.CreatedAt, &e.LastUpdatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounting entries: %w", err)
	}
	return entries, nil
}

// BatchUpsertAccountingTotals upserts totals in bounded chunks. Year totals
// live in the same table as period totals, distinguished by is_year_total.
func (r *PgxAccountingRepository) BatchUpsertAccountingTotals(ctx context.Context, totals []models.AccountingTotal) (portsrepo.UpsertResult, error) {
	query := `
		INSERT INTO accounting_totals (agreement_number, year, period_number, is_year_total, account_number, total_in_base_currency, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (agreement_number, year, period_number, is_year_total, account_number) DO UPDATE SET
			total_in_base_currency = EXCLUDED.total_in_base_currency,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0);
	`
	var result portsrepo.UpsertResult
	for _, bounds := range chunkRange(len(totals)) {
		tx, err := r.Begin(ctx)
		if err != nil {
			return result, err
		}
		var chunk portsrepo.UpsertResult
		for _, t := range totals[bounds[0]:bounds[1]] {
			var inserted bool
			err := tx.QueryRow(ctx, query,
				t.AgreementNumber, t.Year, t.PeriodNumber, t.IsYearTotal, t.AccountNumber, t.TotalInBaseCurrency,
				t.CreatedAt, t.LastUpdatedAt,
			).Scan(&inserted)
			if err != nil {
				r.Rollback(ctx, tx)
				return result, fmt.Errorf("failed to upsert accounting total for account %d: %w", t.AccountNumber, err)
			}
			if inserted {
				chunk.Inserted++
			} else {
				chunk.Updated++
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return result, fmt.Errorf("failed to commit totals batch: %w", err)
		}
		result.Add(chunk)
	}
	return result, nil
}

// ListAccountingTotals returns a year's totals in account order; either the
// per-period rows or, with yearTotalsOnly, only the year-level rows.
func (r *PgxAccountingRepository) ListAccountingTotals(ctx context.Context, agreementNumber, year int, yearTotalsOnly bool) ([]models.AccountingTotal, error) {
	query := `
		SELECT agreement_number, year, period_number, is_year_total, account_number, total_in_base_currency, created_at, last_updated_at
		FROM accounting_totals
		WHERE agreement_number = $1 AND year = $2
	`
	if yearTotalsOnly {
		query += ` AND is_year_total = TRUE`
	} else {
		query += ` AND is_year_total = FALSE`
	}
	query += ` ORDER BY period_number, account_number;`

	rows, err := r.Pool.Query(ctx, query, agreementNumber, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounting totals: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AccountingTotal, error) {
		var t models.AccountingTotal
		err := row.Scan(&t.AgreementNumber, &t.Year, &t.PeriodNumber, &t.IsYearTotal, &t.AccountNumber, &t.TotalInBaseCurrency, &t.CreatedAt, &t.LastUpdatedAt)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounting totals: %w", err)
	}
	return totals, nil
}
