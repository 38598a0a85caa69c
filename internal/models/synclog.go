package models

import "time"

// SyncStatus is the outcome of one orchestrated operation.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusError   SyncStatus = "ERROR"
	// SyncStatusWarning is reported when there was nothing to do, e.g. an
	// orchestrated run with zero active agreements.
	SyncStatusWarning SyncStatus = "WARNING"
	// SyncStatusPartial is reported when some agreements or branches
	// succeeded and others failed.
	SyncStatusPartial SyncStatus = "PARTIAL"
)

// SyncLog is an immutable record of one sync or cleanup operation.
// Rows are append-only; they are never updated or deleted.
type SyncLog struct {
	SyncLogID       string     `db:"sync_log_id"` // surrogate UUID
	Entity          string     `db:"entity"`
	Operation       string     `db:"operation"`
	AgreementNumber int        `db:"agreement_number"` // 0 for cross-agreement operations
	Status          SyncStatus `db:"status"`
	RecordCount     int        `db:"record_count"`
	ErrorMessage    string     `db:"error_message"`
	StartedAt       time.Time  `db:"started_at"`
	FinishedAt      time.Time  `db:"finished_at"`
}
