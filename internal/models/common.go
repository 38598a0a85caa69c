package models

import "time"

// AuditFields holds the common timestamp columns embedded in every synced row.
// LastUpdatedAt is the tie-breaker used by the duplicate-cleanup pass.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Touch refreshes the audit timestamps for an upsert at time now.
func (a *AuditFields) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.LastUpdatedAt = now
}
