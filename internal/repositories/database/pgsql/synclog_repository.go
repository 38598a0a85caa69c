package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/models"
	"github.com/soerenkp/ecosync/internal/utils/pagination"
)

const defaultSyncLogPageSize = 50

type PgxSyncLogRepository struct {
	BaseRepository
}

// newPgxSyncLogRepository creates a new repository for the sync history.
func newPgxSyncLogRepository(pool *pgxpool.Pool) portsrepo.SyncLogRepository {
	return &PgxSyncLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SyncLogRepository = (*PgxSyncLogRepository)(nil)

// SaveSyncLog appends one sync log row. Rows are never updated or deleted.
func (r *PgxSyncLogRepository) SaveSyncLog(ctx context.Context, log models.SyncLog) error {
	query := `
		INSERT INTO sync_logs (sync_log_id, entity, operation, agreement_number, status, record_count, error_message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		log.SyncLogID, log.Entity, log.Operation, log.AgreementNumber, log.Status,
		log.RecordCount, log.ErrorMessage, log.StartedAt, log.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save sync log %s: %w", log.SyncLogID, err)
	}
	return nil
}

// ListSyncLogs returns a page of logs newest-first, keyed by a
// (started_at, sync_log_id) cursor so pages stay stable while new rows are
// appended.
func (r *PgxSyncLogRepository) ListSyncLogs(ctx context.Context, filter portsrepo.SyncLogFilter) ([]models.SyncLog, string, error) {
	where := ` WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Entity != "" {
		where += ` AND entity = ` + arg(filter.Entity)
	}
	if filter.AgreementNumber != 0 {
		where += ` AND agreement_number = ` + arg(filter.AgreementNumber)
	}
	if filter.Status != "" {
		where += ` AND status = ` + arg(filter.Status)
	}
	if filter.NextToken != "" {
		startedAt, rowID, err := pagination.DecodeToken(filter.NextToken)
		if err != nil {
			return nil, "", err
		}
		where += fmt.Sprintf(` AND (started_at, sync_log_id) < (%s, %s)`, arg(startedAt), arg(rowID))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSyncLogPageSize
	}

	// Fetch one extra row to learn whether another page exists.
	query := `
		SELECT sync_log_id, entity, operation, agreement_number, status, record_count, error_message, started_at, finished_at
		FROM sync_logs` + where + `
		ORDER BY started_at DESC, sync_log_id DESC
		LIMIT ` + arg(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer rows.Close()

	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SyncLog, error) {
		var l models.SyncLog
		err := row.Scan(&l.SyncLogID, &l.Entity, &l.Operation, &l.AgreementNumber, &l.Status, &l.RecordCount,
			&l.ErrorMessage, &l.StartedAt, &l.FinishedAt)
		return l, err
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to scan sync logs: %w", err)
	}

	nextToken := ""
	if len(logs) > limit {
		logs = logs[:limit]
		last := logs[len(logs)-1]
		nextToken = pagination.EncodeToken(last.StartedAt, last.SyncLogID)
	}
	return logs, nextToken, nil
}
