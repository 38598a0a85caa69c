package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
)

// batchChunkSize bounds the rows written per transaction in batch upserts.
// A mid-batch storage failure rolls back only the chunk it hit.
const batchChunkSize = 100

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Rollback rolls back a transaction, ignoring the already-done case.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		// Nothing actionable for the caller; the transaction is gone either way.
		_ = err
	}
}

// batchUpsert runs upsertRow for every row in bounded chunks, one transaction
// per chunk. upsertRow reports whether it inserted (true) or updated (false).
func batchUpsert[T any](ctx context.Context, r *BaseRepository, rows []T, upsertRow func(ctx context.Context, tx pgx.Tx, row T) (bool, error)) (portsrepo.UpsertResult, error) {
	var result portsrepo.UpsertResult
	for _, bounds := range chunkRange(len(rows)) {
		tx, err := r.Begin(ctx)
		if err != nil {
			return result, err
		}
		var chunk portsrepo.UpsertResult
		for _, row := range rows[bounds[0]:bounds[1]] {
			inserted, err := upsertRow(ctx, tx, row)
			if err != nil {
				r.Rollback(ctx, tx)
				return result, err
			}
			if inserted {
				chunk.Inserted++
			} else {
				chunk.Updated++
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return result, fmt.Errorf("failed to commit batch: %w", err)
		}
		result.Add(chunk)
	}
	return result, nil
}

// chunkRange yields [start, end) bounds over n items in batchChunkSize steps.
func chunkRange(n int) [][2]int {
	bounds := make([][2]int, 0, n/batchChunkSize+1)
	for start := 0; start < n; start += batchChunkSize {
		end := start + batchChunkSize
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
