package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/dto"
	"github.com/soerenkp/ecosync/internal/middleware"
	"github.com/soerenkp/ecosync/internal/models"
)

// invoiceHandler handles the invoice read endpoints.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceQuerySvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(is portssvc.InvoiceQuerySvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
	}
}

// registerInvoiceRoutes registers the invoice read routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceQuerySvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID/lines", h.getInvoiceLines)
	}
}

// listInvoices godoc
// @Summary List synced invoices
// @Description Lists invoices from the local store with filtering, sorting and paging. Never touches the remote API.
// @Tags invoices
// @Produce  json
// @Param   agreement_number query int false "Agreement number"
// @Param   customer_number query int false "Customer number"
// @Param   status query string false "Payment status" Enums(PENDING, PARTIAL, PAID, OVERDUE)
// @Param   date_from query string false "Issue date lower bound (YYYY-MM-DD)"
// @Param   date_to query string false "Issue date upper bound (YYYY-MM-DD)"
// @Param   sort_by query string false "Sort column" Enums(issue_date, due_date, gross_amount, document_number)
// @Param   sort_order query string false "Sort direction" Enums(asc, desc)
// @Param   page query int false "Page (1-based)"
// @Param   limit query int false "Page size (max 200)"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := portsrepo.InvoiceFilter{
		AgreementNumber: params.AgreementNumber,
		CustomerNumber:  params.CustomerNumber,
		PaymentStatus:   models.PaymentStatus(params.Status),
		SortBy:          params.SortBy,
		SortOrder:       params.SortOrder,
		Limit:           params.Limit,
		Offset:          (params.Page - 1) * params.Limit,
	}
	if params.DateFrom != "" {
		from, err := time.Parse("2006-01-02", params.DateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from, expected YYYY-MM-DD"})
			return
		}
		filter.DateFrom = from
	}
	if params.DateTo != "" {
		to, err := time.Parse("2006-01-02", params.DateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to, expected YYYY-MM-DD"})
			return
		}
		filter.DateTo = to
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	resp := dto.ListInvoicesResponse{
		Invoices:   make([]dto.InvoiceResponse, len(invoices)),
		TotalCount: total,
		Page:       params.Page,
		Limit:      params.Limit,
	}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoiceLines godoc
// @Summary Get the lines of one invoice
// @Description Returns the stored line set of an invoice in line order
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {array} dto.InvoiceLineResponse
// @Failure 500 {object} map[string]string "Failed to list invoice lines"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/lines [get]
func (h *invoiceHandler) getInvoiceLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	lines, err := h.invoiceService.GetInvoiceLines(c.Request.Context(), invoiceID)
	if err != nil {
		logger.Error("Failed to list invoice lines", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoice lines"})
		return
	}

	resp := make([]dto.InvoiceLineResponse, len(lines))
	for i, line := range lines {
		resp[i] = dto.ToInvoiceLineResponse(line)
	}
	c.JSON(http.StatusOK, resp)
}
