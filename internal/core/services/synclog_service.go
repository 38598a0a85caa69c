package services

import (
	"context"
	"fmt"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/models"
)

// SyncLogService reads the append-only sync history.
type SyncLogService struct {
	syncLogs ports.SyncLogRepository
}

// NewSyncLogService creates the sync log read service.
func NewSyncLogService(syncLogs ports.SyncLogRepository) *SyncLogService {
	return &SyncLogService{syncLogs: syncLogs}
}

// ListSyncLogs returns a filtered page of sync logs, newest first, plus the
// opaque token for the next page (empty when exhausted).
func (s *SyncLogService) ListSyncLogs(ctx context.Context, filter ports.SyncLogFilter) ([]models.SyncLog, string, error) {
	logs, nextToken, err := s.syncLogs.ListSyncLogs(ctx, filter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list sync logs: %w", err)
	}
	if logs == nil {
		logs = []models.SyncLog{}
	}
	return logs, nextToken, nil
}
