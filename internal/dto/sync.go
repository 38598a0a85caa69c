package dto

// AgreementSyncResult is one agreement's outcome within an orchestrated run.
type AgreementSyncResult struct {
	AgreementID     string `json:"agreementID"`
	AgreementNumber int    `json:"agreementNumber,omitempty"`
	Name            string `json:"name"`
	Status          string `json:"status"` // success | error
	RecordCount     int    `json:"recordCount"`
	Error           string `json:"error,omitempty"`
}

// SyncSummary is the body returned by every orchestrated sync endpoint.
// Per-agreement failures appear in Results; the HTTP status stays 200.
type SyncSummary struct {
	Status     string                `json:"status"` // success | partial | error | warning
	Entity     string                `json:"entity,omitempty"`
	TotalCount int                   `json:"totalCount"`
	Results    []AgreementSyncResult `json:"results"`
}

// CleanupSummary is the body returned by the duplicate-cleanup endpoint.
type CleanupSummary struct {
	Status       string `json:"status"`
	RemovedCount int    `json:"removedCount"`
}
