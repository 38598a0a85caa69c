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

// agreementHandler handles HTTP requests related to agreements.
type agreementHandler struct {
	agreementService portssvc.AgreementSvcFacade
}

// newAgreementHandler creates a new agreementHandler.
func newAgreementHandler(as portssvc.AgreementSvcFacade) *agreementHandler {
	return &agreementHandler{
		agreementService: as,
	}
}

// registerAgreementRoutes registers routes related to agreements.
func registerAgreementRoutes(rg *gin.RouterGroup, agreementService portssvc.AgreementSvcFacade) {
	h := newAgreementHandler(agreementService)

	agreements := rg.Group("/agreements")
	{
		agreements.POST("", h.createAgreement)
		agreements.GET("", h.listAgreements)
		agreements.GET("/:agreementID", h.getAgreement)
		agreements.PUT("/:agreementID", h.updateAgreement)
	}
}

// createAgreement godoc
// @Summary Register a new agreement
// @Description Validates the grant token against the remote accounting API and stores the confirmed identity
// @Tags agreements
// @Accept  json
// @Produce  json
// @Param   agreement body dto.CreateAgreementRequest true "Agreement details"
// @Success 201 {object} dto.AgreementResponse
// @Failure 400 {object} map[string]string "Invalid input or rejected grant token"
// @Failure 409 {object} map[string]string "Agreement already registered"
// @Failure 500 {object} map[string]string "Failed to create agreement"
// @Security BearerAuth
// @Router /agreements [post]
func (h *agreementHandler) createAgreement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAgreement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	agreement, err := h.agreementService.CreateAgreement(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to register duplicate agreement")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if apperrors.IsRemoteAPIError(err) {
			logger.Warn("Grant token rejected by remote API", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Grant token was rejected by the accounting API"})
		} else {
			logger.Error("Failed to create agreement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agreement"})
		}
		return
	}

	logger.Info("Agreement registered", slog.String("agreement_id", agreement.AgreementID), slog.Int("agreement_number", agreement.AgreementNumber))
	c.JSON(http.StatusCreated, dto.ToAgreementResponse(agreement))
}

// listAgreements godoc
// @Summary List agreements
// @Description Lists all registered agreements; grant tokens are never echoed
// @Tags agreements
// @Produce  json
// @Param   active_only query bool false "Only active agreements"
// @Success 200 {array} dto.AgreementResponse
// @Failure 500 {object} map[string]string "Failed to list agreements"
// @Security BearerAuth
// @Router /agreements [get]
func (h *agreementHandler) listAgreements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("active_only") == "true"

	agreements, err := h.agreementService.ListAgreements(c.Request.Context(), activeOnly)
	if err != nil {
		logger.Error("Failed to list agreements", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list agreements"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListAgreementResponse(agreements))
}

// getAgreement godoc
// @Summary Get an agreement
// @Description Retrieves one agreement by its id
// @Tags agreements
// @Produce  json
// @Param   agreementID path string true "Agreement ID"
// @Success 200 {object} dto.AgreementResponse
// @Failure 404 {object} map[string]string "Agreement not found"
// @Failure 500 {object} map[string]string "Failed to retrieve agreement"
// @Security BearerAuth
// @Router /agreements/{agreementID} [get]
func (h *agreementHandler) getAgreement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementID := c.Param("agreementID")

	agreement, err := h.agreementService.GetAgreement(c.Request.Context(), agreementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
			return
		}
		logger.Error("Failed to get agreement", slog.String("agreement_id", agreementID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve agreement"})
		return
	}
	c.JSON(http.StatusOK, dto.ToAgreementResponse(agreement))
}

// updateAgreement godoc
// @Summary Update an agreement
// @Description Updates the name, grant token or active flag of an agreement
// @Tags agreements
// @Accept  json
// @Produce  json
// @Param   agreementID path string true "Agreement ID"
// @Param   agreement body dto.UpdateAgreementRequest true "Fields to update"
// @Success 200 {object} dto.AgreementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Agreement not found"
// @Failure 500 {object} map[string]string "Failed to update agreement"
// @Security BearerAuth
// @Router /agreements/{agreementID} [put]
func (h *agreementHandler) updateAgreement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementID := c.Param("agreementID")

	var req dto.UpdateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAgreement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	agreement, err := h.agreementService.UpdateAgreement(c.Request.Context(), agreementID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
			return
		}
		logger.Error("Failed to update agreement", slog.String("agreement_id", agreementID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agreement"})
		return
	}

	logger.Info("Agreement updated", slog.String("agreement_id", agreementID))
	c.JSON(http.StatusOK, dto.ToAgreementResponse(agreement))
}
