package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// Recorder appends sync-log rows best-effort: a failure to write the log is
// logged and swallowed here, and only here, so a logging outage can never
// mask or duplicate a real sync failure.
type Recorder struct {
	syncLogs ports.SyncLogRepository
}

// NewRecorder creates a Recorder over the sync-log repository.
func NewRecorder(syncLogs ports.SyncLogRepository) *Recorder {
	return &Recorder{syncLogs: syncLogs}
}

// Record writes one immutable sync-log row.
func (r *Recorder) Record(ctx context.Context, entity, operation string, agreementNumber int, status models.SyncStatus, recordCount int, errMessage string, startedAt time.Time) {
	log := models.SyncLog{
		SyncLogID:       uuid.NewString(),
		Entity:          entity,
		Operation:       operation,
		AgreementNumber: agreementNumber,
		Status:          status,
		RecordCount:     recordCount,
		ErrorMessage:    errMessage,
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
	}
	if err := r.syncLogs.SaveSyncLog(ctx, log); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record sync log",
			slog.String("entity", entity),
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}
}
