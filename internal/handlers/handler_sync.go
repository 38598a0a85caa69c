package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soerenkp/ecosync/internal/apperrors"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/middleware"
)

// syncHandler handles the sync trigger and cleanup endpoints.
type syncHandler struct {
	syncService    portssvc.SyncSvcFacade
	cleanupService portssvc.CleanupSvcFacade
}

// newSyncHandler creates a new syncHandler.
func newSyncHandler(ss portssvc.SyncSvcFacade, cs portssvc.CleanupSvcFacade) *syncHandler {
	return &syncHandler{
		syncService:    ss,
		cleanupService: cs,
	}
}

// registerSyncRoutes registers the sync trigger and cleanup routes. The rate
// limit middleware is applied by the caller; a sync pass is a full crawl of
// the remote API per agreement.
func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade, cleanupService portssvc.CleanupSvcFacade) {
	h := newSyncHandler(syncService, cleanupService)

	rg.POST("/sync", h.syncEverything)
	rg.POST("/sync/:family", h.syncFamily)
	rg.POST("/agreements/:agreementID/sync", h.syncAgreement)
	rg.POST("/cleanup", h.cleanupDuplicates)
}

// syncEverything godoc
// @Summary Sync all entity families for all active agreements
// @Description Runs every entity family across every active agreement. Per-agreement failures appear in the results; the HTTP status stays 200.
// @Tags sync
// @Produce  json
// @Success 200 {object} dto.SyncSummary
// @Failure 500 {object} map[string]string "Failed to run sync"
// @Security BearerAuth
// @Router /sync [post]
func (h *syncHandler) syncEverything(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.syncService.SyncEverything(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run full sync", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run sync"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// syncFamily godoc
// @Summary Sync one entity family for all active agreements
// @Description Runs one entity family (accounts, customers, products, suppliers, invoices or accounting) across every active agreement
// @Tags sync
// @Produce  json
// @Param   family path string true "Entity family"
// @Success 200 {object} dto.SyncSummary
// @Failure 400 {object} map[string]string "Unknown entity family"
// @Failure 500 {object} map[string]string "Failed to run sync"
// @Security BearerAuth
// @Router /sync/{family} [post]
func (h *syncHandler) syncFamily(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	family := c.Param("family")

	summary, err := h.syncService.SyncFamily(c.Request.Context(), family)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to run family sync", slog.String("family", family), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run sync"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// syncAgreement godoc
// @Summary Sync all entity families for one agreement
// @Description Runs every entity family for one agreement, whether or not it is active
// @Tags sync
// @Produce  json
// @Param   agreementID path string true "Agreement ID"
// @Success 200 {object} dto.SyncSummary
// @Failure 404 {object} map[string]string "Agreement not found"
// @Failure 500 {object} map[string]string "Failed to run sync"
// @Security BearerAuth
// @Router /agreements/{agreementID}/sync [post]
func (h *syncHandler) syncAgreement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementID := c.Param("agreementID")

	summary, err := h.syncService.SyncAgreement(c.Request.Context(), agreementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
			return
		}
		logger.Error("Failed to sync agreement", slog.String("agreement_id", agreementID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run sync"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// cleanupDuplicates godoc
// @Summary Remove duplicate invoice rows
// @Description Collapses every group of invoice rows sharing one natural key down to the most recently updated row
// @Tags sync
// @Produce  json
// @Success 200 {object} dto.CleanupSummary
// @Failure 500 {object} map[string]string "Failed to run cleanup"
// @Security BearerAuth
// @Router /cleanup [post]
func (h *syncHandler) cleanupDuplicates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	removed, err := h.cleanupService.CleanupDuplicates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to run duplicate cleanup", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run cleanup"})
		return
	}

	logger.Info("Duplicate cleanup finished", slog.Int("removed", removed))
	c.JSON(http.StatusOK, dto.CleanupSummary{Status: "success", RemovedCount: removed})
}
