package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soerenkp/ecosync/internal/apperrors"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/middleware"
)

const (
	defaultEntryPageSize = 100
	maxEntryPageSize     = 1000
)

// accountingHandler handles the accounting hierarchy read endpoints.
type accountingHandler struct {
	accountingService portssvc.AccountingQuerySvcFacade
}

// newAccountingHandler creates a new accountingHandler.
func newAccountingHandler(as portssvc.AccountingQuerySvcFacade) *accountingHandler {
	return &accountingHandler{
		accountingService: as,
	}
}

// registerAccountingRoutes registers the accounting read routes, all scoped
// by the remote agreement number.
func registerAccountingRoutes(rg *gin.RouterGroup, accountingService portssvc.AccountingQuerySvcFacade) {
	h := newAccountingHandler(accountingService)

	accounting := rg.Group("/accounting/:agreementNumber")
	{
		accounting.GET("/years", h.listYears)
		accounting.GET("/years/:year/periods", h.listPeriods)
		accounting.GET("/years/:year/periods/:periodNumber/entries", h.listEntries)
		accounting.GET("/years/:year/totals", h.listTotals)
	}
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}

// listYears godoc
// @Summary List accounting years
// @Description Lists the synced accounting years of one agreement, newest first
// @Tags accounting
// @Produce  json
// @Param   agreementNumber path int true "Agreement number"
// @Success 200 {array} dto.AccountingYearResponse
// @Failure 500 {object} map[string]string "Failed to list years"
// @Security BearerAuth
// @Router /accounting/{agreementNumber}/years [get]
func (h *accountingHandler) listYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementNumber, ok := intParam(c, "agreementNumber")
	if !ok {
		return
	}

	years, err := h.accountingService.ListYears(c.Request.Context(), agreementNumber)
	if err != nil {
		logger.Error("Failed to list accounting years", slog.Int("agreement_number", agreementNumber), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list years"})
		return
	}

	resp := make([]dto.AccountingYearResponse, len(years))
	for i, y := range years {
		resp[i] = dto.ToAccountingYearResponse(y)
	}
	c.JSON(http.StatusOK, resp)
}

// listPeriods godoc
// @Summary List accounting periods
// @Description Lists one year's periods in period order. An unknown year is 404, distinct from a known year with no periods.
// @Tags accounting
// @Produce  json
// @Param   agreementNumber path int true "Agreement number"
// @Param   year path int true "Accounting year"
// @Success 200 {array} dto.AccountingPeriodResponse
// @Failure 404 {object} map[string]string "Year not found"
// @Failure 500 {object} map[string]string "Failed to list periods"
// @Security BearerAuth
// @Router /accounting/{agreementNumber}/years/{year}/periods [get]
func (h *accountingHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementNumber, ok := intParam(c, "agreementNumber")
	if !ok {
		return
	}
	year, ok := intParam(c, "year")
	if !ok {
		return
	}

	periods, err := h.accountingService.ListPeriods(c.Request.Context(), agreementNumber, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Accounting year not found"})
			return
		}
		logger.Error("Failed to list accounting periods", slog.Int("year", year), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list periods"})
		return
	}

	resp := make([]dto.AccountingPeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = dto.ToAccountingPeriodResponse(p)
	}
	c.JSON(http.StatusOK, resp)
}

// listEntries godoc
// @Summary List accounting entries
// @Description Lists a page of one period's entries in entry-number order
// @Tags accounting
// @Produce  json
// @Param   agreementNumber path int true "Agreement number"
// @Param   year path int true "Accounting year"
// @Param   periodNumber path int true "Period number"
// @Param   limit query int false "Page size (max 1000)"
// @Param   offset query int false "Row offset"
// @Success 200 {array} dto.AccountingEntryResponse
// @Failure 404 {object} map[string]string "Year not found"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /accounting/{agreementNumber}/years/{year}/periods/{periodNumber}/entries [get]
func (h *accountingHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementNumber, ok := intParam(c, "agreementNumber")
	if !ok {
		return
	}
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	periodNumber, ok := intParam(c, "periodNumber")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEntryPageSize)))
	if limit <= 0 || limit > maxEntryPageSize {
		limit = defaultEntryPageSize
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	entries, err := h.accountingService.ListEntries(c.Request.Context(), agreementNumber, year, periodNumber, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Accounting year not found"})
			return
		}
		logger.Error("Failed to list accounting entries", slog.Int("year", year), slog.Int("period_number", periodNumber), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	resp := make([]dto.AccountingEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = dto.ToAccountingEntryResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

// listTotals godoc
// @Summary List accounting totals
// @Description Lists a year's per-account totals. When the local store has none, the year is synced on demand from the remote API. Responses are cached briefly.
// @Tags accounting
// @Produce  json
// @Param   agreementNumber path int true "Agreement number"
// @Param   year path int true "Accounting year"
// @Param   scope query string false "year for year-level totals, periods for per-period totals" Enums(year, periods)
// @Success 200 {array} dto.AccountingTotalResponse
// @Failure 404 {object} map[string]string "Agreement or year not found"
// @Failure 500 {object} map[string]string "Failed to list totals"
// @Security BearerAuth
// @Router /accounting/{agreementNumber}/years/{year}/totals [get]
func (h *accountingHandler) listTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agreementNumber, ok := intParam(c, "agreementNumber")
	if !ok {
		return
	}
	year, ok := intParam(c, "year")
	if !ok {
		return
	}
	yearTotalsOnly := c.DefaultQuery("scope", "year") == "year"

	totals, err := h.accountingService.ListTotals(c.Request.Context(), agreementNumber, year, yearTotalsOnly)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agreement or year not found"})
			return
		}
		logger.Error("Failed to list accounting totals", slog.Int("year", year), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list totals"})
		return
	}

	resp := make([]dto.AccountingTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = dto.ToAccountingTotalResponse(t)
	}
	c.JSON(http.StatusOK, resp)
}
