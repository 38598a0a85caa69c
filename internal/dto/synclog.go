package dto

import (
	"time"

	"github.com/soerenkp/ecosync/internal/models"
)

// ListSyncLogsParams defines the query parameters of the sync-log listing.
type ListSyncLogsParams struct {
	Entity          string `form:"entity"`
	AgreementNumber int    `form:"agreement_number"`
	Status          string `form:"status" binding:"omitempty,oneof=SUCCESS ERROR WARNING PARTIAL"`
	Limit           int    `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	NextToken       string `form:"next_token"`
}

// SyncLogResponse is the public view of one sync-log row.
type SyncLogResponse struct {
	SyncLogID       string    `json:"syncLogID"`
	Entity          string    `json:"entity"`
	Operation       string    `json:"operation"`
	AgreementNumber int       `json:"agreementNumber,omitempty"`
	Status          string    `json:"status"`
	RecordCount     int       `json:"recordCount"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
}

// ListSyncLogsResponse wraps a page of sync logs with its continuation token.
type ListSyncLogsResponse struct {
	Logs      []SyncLogResponse `json:"logs"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToSyncLogResponse converts one sync-log row.
func ToSyncLogResponse(l models.SyncLog) SyncLogResponse {
	return SyncLogResponse{
		SyncLogID:       l.SyncLogID,
		Entity:          l.Entity,
		Operation:       l.Operation,
		AgreementNumber: l.AgreementNumber,
		Status:          string(l.Status),
		RecordCount:     l.RecordCount,
		ErrorMessage:    l.ErrorMessage,
		StartedAt:       l.StartedAt,
		FinishedAt:      l.FinishedAt,
	}
}
