package services

import (
	"context"
	"fmt"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/models"
)

// InvoiceQueryService serves the local invoice read surface. Reads never
// touch the remote API; they see whatever the last sync pass left behind.
type InvoiceQueryService struct {
	invoices ports.InvoiceRepository
}

// NewInvoiceQueryService creates the invoice read service.
func NewInvoiceQueryService(invoices ports.InvoiceRepository) *InvoiceQueryService {
	return &InvoiceQueryService{invoices: invoices}
}

// ListInvoices returns a filtered, sorted page of invoices plus the total
// number of matches before paging.
func (s *InvoiceQueryService) ListInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]models.Invoice, int, error) {
	invoices, total, err := s.invoices.ListInvoices(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, total, nil
}

// GetInvoiceLines returns an invoice's lines ordered by line number.
// An invoice with no lines yields an empty slice, not an error.
func (s *InvoiceQueryService) GetInvoiceLines(ctx context.Context, invoiceID string) ([]models.InvoiceLine, error) {
	lines, err := s.invoices.ListInvoiceLines(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice lines: %w", err)
	}
	if lines == nil {
		lines = []models.InvoiceLine{}
	}
	return lines, nil
}
