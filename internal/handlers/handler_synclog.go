package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// syncLogHandler handles the sync history read endpoint.
type syncLogHandler struct {
	syncLogService portssvc.SyncLogSvcFacade
}

// newSyncLogHandler creates a new syncLogHandler.
func newSyncLogHandler(ss portssvc.SyncLogSvcFacade) *syncLogHandler {
	return &syncLogHandler{
		syncLogService: ss,
	}
}

// registerSyncLogRoutes registers the sync history route.
func registerSyncLogRoutes(rg *gin.RouterGroup, syncLogService portssvc.SyncLogSvcFacade) {
	h := newSyncLogHandler(syncLogService)
	rg.GET("/sync-logs", h.listSyncLogs)
}

// listSyncLogs godoc
// @Summary List sync logs
// @Description Lists the sync history newest first, with cursor paging
// @Tags sync
// @Produce  json
// @Param   entity query string false "Entity family"
// @Param   agreement_number query int false "Agreement number"
// @Param   status query string false "Outcome" Enums(SUCCESS, ERROR, WARNING, PARTIAL)
// @Param   limit query int false "Page size (max 500)"
// @Param   next_token query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListSyncLogsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list sync logs"
// @Security BearerAuth
// @Router /sync-logs [get]
func (h *syncLogHandler) listSyncLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListSyncLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListSyncLogs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.SyncLogFilter{
		Entity:          params.Entity,
		AgreementNumber: params.AgreementNumber,
		Status:          models.SyncStatus(params.Status),
		Limit:           params.Limit,
		NextToken:       params.NextToken,
	}

	logs, nextToken, err := h.syncLogService.ListSyncLogs(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list sync logs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sync logs"})
		return
	}

	resp := dto.ListSyncLogsResponse{
		Logs:      make([]dto.SyncLogResponse, len(logs)),
		NextToken: nextToken,
	}
	for i, l := range logs {
		resp.Logs[i] = dto.ToSyncLogResponse(l)
	}
	c.JSON(http.StatusOK, resp)
}
