package repositories

import (
	"context"

	"github.com/soerenkp/ecosync/internal/models"
)

// SyncLogFilter narrows sync-log listings. NextToken is an opaque cursor
// from a previous page.
type SyncLogFilter struct {
	Entity          string
	AgreementNumber int
	Status          models.SyncStatus
	Limit           int
	NextToken       string
}

// SyncLogRepository appends and reads the immutable sync history.
// Writes here are plain; best-effort swallowing of log failures happens in
// the service-layer recorder, never below it.
type SyncLogRepository interface {
	SaveSyncLog(ctx context.Context, log models.SyncLog) error

	// ListSyncLogs returns a page of logs newest-first plus the cursor for
	// the next page ("" when exhausted).
	ListSyncLogs(ctx context.Context, filter SyncLogFilter) ([]models.SyncLog, string, error)
}
