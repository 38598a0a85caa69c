package repositories

import (
	"context"
	"time"

	"github.com/soerenkp/ecosync/internal/models"
)

// InvoiceFilter narrows and orders invoice listings.
type InvoiceFilter struct {
	AgreementNumber int // 0 means all agreements
	CustomerNumber  int // 0 means all customers
	PaymentStatus   models.PaymentStatus
	DateFrom        time.Time
	DateTo          time.Time
	SortBy          string // issue_date | due_date | gross_amount | document_number
	SortOrder       string // asc | desc
	Limit           int
	Offset          int
}

// InvoiceRepository persists invoices and their line sets.
//
// Upserts are safe to call concurrently for different document keys; the
// same key is only ever written by one sync pass at a time (sync runs are
// agreement-serial).
type InvoiceRepository interface {
	// FindInvoiceByDocumentKey returns the invoice with the given natural
	// key, or apperrors.ErrNotFound.
	FindInvoiceByDocumentKey(ctx context.Context, kind models.DocumentKind, documentNumber, customerNumber, agreementNumber int) (*models.Invoice, error)

	// UpsertInvoice inserts or updates by natural key, preserving the
	// existing surrogate id and never downgrading payment status. Returns
	// the stored row.
	UpsertInvoice(ctx context.Context, invoice models.Invoice) (*models.Invoice, error)

	// BatchUpsertInvoices upserts in bounded chunks, one transaction per
	// chunk, so a mid-batch failure rolls back only its own chunk.
	BatchUpsertInvoices(ctx context.Context, invoices []models.Invoice) (UpsertResult, error)

	// ReplaceInvoiceLines deletes the stored line set for the invoice and
	// inserts the fresh one inside a single transaction.
	ReplaceInvoiceLines(ctx context.Context, invoiceID string, lines []models.InvoiceLine) error

	// ListInvoiceLines returns the stored lines of an invoice in line order.
	ListInvoiceLines(ctx context.Context, invoiceID string) ([]models.InvoiceLine, error)

	// PromoteDraftInvoice transitions a stored draft to its booked identity.
	// Returns apperrors.ErrNotFound when no such draft exists.
	PromoteDraftInvoice(ctx context.Context, draftNumber, bookedNumber, customerNumber, agreementNumber int) error

	// ListInvoices returns a filtered page of invoices plus the total match count.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]models.Invoice, int, error)

	// FindDuplicateInvoices returns, per natural key with more than one
	// stored row, the group's rows ordered most-recently-updated first.
	FindDuplicateInvoices(ctx context.Context, agreementNumber int) ([][]models.Invoice, error)

	// DeleteInvoicesByID removes rows by surrogate id (cleanup pass only)
	// and returns the number deleted.
	DeleteInvoicesByID(ctx context.Context, invoiceIDs []string) (int, error)
}
