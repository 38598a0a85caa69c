package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/soerenkp/ecosync/internal/apperrors"
	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/models"
)

// invoiceListing binds one remote listing endpoint to the document kind and
// the payment status that listing implies.
type invoiceListing struct {
	path   string
	kind   models.DocumentKind
	status models.PaymentStatus
}

// The overdue listing comes last so its higher-priority status lands after
// the pending-flavored listings within one pass; the store-level precedence
// rule makes the order immaterial for correctness across passes.
var invoiceListings = []invoiceListing{
	{path: "/invoices/drafts", kind: models.DocumentDraft, status: models.PaymentPending},
	{path: "/invoices/booked", kind: models.DocumentBooked, status: models.PaymentPending},
	{path: "/invoices/unpaid", kind: models.DocumentBooked, status: models.PaymentPending},
	{path: "/invoices/not-due", kind: models.DocumentBooked, status: models.PaymentPending},
	{path: "/invoices/paid", kind: models.DocumentBooked, status: models.PaymentPaid},
	{path: "/invoices/overdue", kind: models.DocumentBooked, status: models.PaymentOverdue},
}

// InvoiceSyncService syncs every invoice listing endpoint for one agreement.
type InvoiceSyncService struct {
	invoices ports.InvoiceRepository
}

// NewInvoiceSyncService creates the invoice sync service.
func NewInvoiceSyncService(invoices ports.InvoiceRepository) *InvoiceSyncService {
	return &InvoiceSyncService{invoices: invoices}
}

// Sync runs all invoice listings in order. A listing failure aborts the
// remaining listings for this agreement; the count processed so far is
// returned alongside the error for the caller's sync log.
func (s *InvoiceSyncService) Sync(ctx context.Context, client portssvc.RemoteClient, agreementNumber int) (int, error) {
	total := 0
	for _, listing := range invoiceListings {
		count, err := s.syncListing(ctx, client, agreementNumber, listing)
		total += count
		if err != nil {
			return total, fmt.Errorf("failed to sync %s: %w", listing.path, err)
		}
	}
	return total, nil
}

func (s *InvoiceSyncService) syncListing(ctx context.Context, client portssvc.RemoteClient, agreementNumber int, listing invoiceListing) (int, error) {
	records, err := client.FetchAllPages(ctx, listing.path, url.Values{})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, raw := range records {
		invoice, lines, err := transformInvoice(raw, agreementNumber, listing.kind, listing.status)
		if err != nil {
			return count, err
		}

		if listing.kind == models.DocumentBooked {
			if err := s.promoteDraftIfReferenced(ctx, raw, invoice); err != nil {
				return count, err
			}
		}

		stored, err := s.invoices.UpsertInvoice(ctx, invoice)
		if err != nil {
			return count, err
		}
		if len(lines) > 0 {
			for i := range lines {
				lines[i].InvoiceID = stored.InvoiceID
			}
			if err := s.invoices.ReplaceInvoiceLines(ctx, stored.InvoiceID, lines); err != nil {
				return count, err
			}
		}
		count++
	}
	return count, nil
}

// promoteDraftIfReferenced transitions a stored draft to its booked identity
// when the booked record still carries the draft number it originated from.
// A missing draft is not an error: it was either never synced or promoted by
// an earlier pass.
func (s *InvoiceSyncService) promoteDraftIfReferenced(ctx context.Context, raw json.RawMessage, booked models.Invoice) error {
	var ref struct {
		DraftInvoiceNumber int `json:"draftInvoiceNumber"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || ref.DraftInvoiceNumber == 0 {
		return nil
	}

	err := s.invoices.PromoteDraftInvoice(ctx, ref.DraftInvoiceNumber, booked.DocumentNumber, booked.CustomerNumber, booked.AgreementNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to promote draft %d: %w", ref.DraftInvoiceNumber, err)
	}
	return nil
}
