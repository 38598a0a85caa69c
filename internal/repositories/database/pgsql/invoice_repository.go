package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soerenkp/ecosync/internal/apperrors"
	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/models"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoices and lines.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepository {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.InvoiceRepository = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, agreement_number, customer_number, document_kind, document_number,
	customer_name, currency_code, exchange_rate, net_amount, gross_amount, vat_amount, remainder_amount,
	issue_date, due_date, payment_status, notes, reference, created_at, last_updated_at`

// sortColumns whitelists the sortable invoice listing columns. Anything not
// in here falls back to issue_date.
var sortColumns = map[string]string{
	"issue_date":      "issue_date",
	"due_date":        "due_date",
	"gross_amount":    "gross_amount",
	"document_number": "document_number",
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.AgreementNumber,
		&inv.CustomerNumber,
		&inv.DocumentKind,
		&inv.DocumentNumber,
		&inv.CustomerName,
		&inv.CurrencyCode,
		&inv.ExchangeRate,
		&inv.NetAmount,
		&inv.GrossAmount,
		&inv.VatAmount,
		&inv.RemainderAmount,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.PaymentStatus,
		&inv.Notes,
		&inv.Reference,
		&inv.CreatedAt,
		&inv.LastUpdatedAt,
	)
	return inv, err
}

// FindInvoiceByDocumentKey retrieves an invoice by its natural key.
func (r *PgxInvoiceRepository) FindInvoiceByDocumentKey(ctx context.Context, kind models.DocumentKind, documentNumber, customerNumber, agreementNumber int) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE document_kind = $1 AND document_number = $2 AND customer_number = $3 AND agreement_number = $4
		ORDER BY last_updated_at DESC, created_at DESC
		LIMIT 1;
	`
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, kind, documentNumber, customerNumber, agreementNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s/%d: %w", kind, documentNumber, err)
	}
	return &invoice, nil
}

// UpsertInvoice inserts or updates by natural key inside one transaction.
// The existing surrogate id and created_at survive an update, and payment
// status never moves to a lower-priority value than the stored one.
func (r *PgxInvoiceRepository) UpsertInvoice(ctx context.Context, invoice models.Invoice) (*models.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	stored, _, err := r.upsertInvoiceTx(ctx, tx, invoice)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice upsert: %w", err)
	}
	return stored, nil
}

// upsertInvoiceTx is the find-then-write core shared by the single and batch
// upserts. It locks the existing row for the duration of the transaction and
// reports whether it inserted a new row.
func (r *PgxInvoiceRepository) upsertInvoiceTx(ctx context.Context, tx pgx.Tx, invoice models.Invoice) (*models.Invoice, bool, error) {
	findQuery := `
		SELECT invoice_id, payment_status, created_at
		FROM invoices
		WHERE document_kind = $1 AND document_number = $2 AND customer_number = $3 AND agreement_number = $4
		ORDER BY last_updated_at DESC, created_at DESC
		LIMIT 1
		FOR UPDATE;
	`
	var existingID string
	var existingStatus models.PaymentStatus
	var existingCreatedAt time.Time
	err := tx.QueryRow(ctx, findQuery, invoice.DocumentKind, invoice.DocumentNumber, invoice.CustomerNumber, invoice.AgreementNumber).
		Scan(&existingID, &existingStatus, &existingCreatedAt)

	now := time.Now()
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if invoice.InvoiceID == "" {
			invoice.InvoiceID = uuid.NewString()
		}
		invoice.CreatedAt = now
		invoice.LastUpdatedAt = now
		insertQuery := `
			INSERT INTO invoices (` + invoiceColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
		`
		if _, err := tx.Exec(ctx, insertQuery,
			invoice.InvoiceID, invoice.AgreementNumber, invoice.CustomerNumber, invoice.DocumentKind, invoice.DocumentNumber,
			invoice.CustomerName, invoice.CurrencyCode, invoice.ExchangeRate, invoice.NetAmount, invoice.GrossAmount,
			invoice.VatAmount, invoice.RemainderAmount, invoice.IssueDate, invoice.DueDate, invoice.PaymentStatus,
			invoice.Notes, invoice.Reference, invoice.CreatedAt, invoice.LastUpdatedAt,
		); err != nil {
			return nil, false, fmt.Errorf("failed to insert invoice %s/%d: %w", invoice.DocumentKind, invoice.DocumentNumber, err)
		}
		return &invoice, true, nil

	case err != nil:
		return nil, false, fmt.Errorf("failed to find invoice for upsert: %w", err)

	default:
		invoice.InvoiceID = existingID
		invoice.CreatedAt = existingCreatedAt
		invoice.LastUpdatedAt = now
		invoice.PaymentStatus = models.ResolvePaymentStatus(existingStatus, invoice.PaymentStatus)
		updateQuery := `
			UPDATE invoices
			SET customer_name = $2, currency_code = $3, exchange_rate = $4, net_amount = $5, gross_amount = $6,
				vat_amount = $7, remainder_amount = $8, issue_date = $9, due_date = $10, payment_status = $11,
				notes = $12, reference = $13, last_updated_at = $14
			WHERE invoice_id = $1;
		`
		if _, err := tx.Exec(ctx, updateQuery,
			invoice.InvoiceID, invoice.CustomerName, invoice.CurrencyCode, invoice.ExchangeRate, invoice.NetAmount,
			invoice.GrossAmount, invoice.VatAmount, invoice.RemainderAmount, invoice.IssueDate, invoice.DueDate,
			invoice.PaymentStatus, invoice.Notes, invoice.Reference, invoice.LastUpdatedAt,
		); err != nil {
			return nil, false, fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
		}
		return &invoice, false, nil
	}
}

// BatchUpsertInvoices upserts in bounded chunks, one transaction per chunk.
func (r *PgxInvoiceRepository) BatchUpsertInvoices(ctx context.Context, invoices []models.Invoice) (portsrepo.UpsertResult, error) {
	var result portsrepo.UpsertResult
	for _, bounds := range chunkRange(len(invoices)) {
		tx, err := r.Begin(ctx)
		if err != nil {
			return result, err
		}
		var chunk portsrepo.UpsertResult
		for _, invoice := range invoices[bounds[0]:bounds[1]] {
			_, inserted, err := r.upsertInvoiceTx(ctx, tx, invoice)
			if err != nil {
				r.Rollback(ctx, tx)
				return result, err
			}
			if inserted {
				chunk.Inserted++
			} else {
				chunk.Updated++
			}
		}
		if err := tx.Commit(ctx); err != nil {
			r.Rollback(ctx, tx)
			return result, fmt.Errorf("failed to commit invoice batch: %w", err)
		}
		result.Add(chunk)
	}
	return result, nil
}

// ReplaceInvoiceLines swaps the invoice's full line set in one transaction.
func (r *PgxInvoiceRepository) ReplaceInvoiceLines(ctx context.Context, invoiceID string, lines []models.InvoiceLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete lines for invoice %s: %w", invoiceID, err)
	}

	insertQuery := `
		INSERT INTO invoice_lines (invoice_id, line_number, product_number, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, line := range lines {
		if _, err := tx.Exec(ctx, insertQuery,
			invoiceID, line.LineNumber, line.ProductNumber, line.Description, line.Quantity, line.UnitPrice, line.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert line %d for invoice %s: %w", line.LineNumber, invoiceID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit line replacement for invoice %s: %w", invoiceID, err)
	}
	return nil
}

// ListInvoiceLines returns an invoice's lines in line order.
func (r *PgxInvoiceRepository) ListInvoiceLines(ctx context.Context, invoiceID string) ([]models.InvoiceLine, error) {
	query := `
		SELECT invoice_id, line_number, product_number, description, quantity, unit_price, amount
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.InvoiceLine, error) {
		var line models.InvoiceLine
		err := row.Scan(&line.InvoiceID, &line.LineNumber, &line.ProductNumber, &line.Description, &line.Quantity, &line.UnitPrice, &line.Amount)
		return line, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines for invoice %s: %w", invoiceID, err)
	}
	return lines, nil
}

// PromoteDraftInvoice transitions a stored draft to its booked identity,
// keeping the surrogate id so the line set survives the promotion. When the
// booked row already exists the stale draft is dropped instead, so the
// promotion never manufactures a duplicate.
func (r *PgxInvoiceRepository) PromoteDraftInvoice(ctx context.Context, draftNumber, bookedNumber, customerNumber, agreementNumber int) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var bookedExists bool
	existsQuery := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE document_kind = $1 AND document_number = $2 AND customer_number = $3 AND agreement_number = $4
		);
	`
	if err := tx.QueryRow(ctx, existsQuery, models.DocumentBooked, bookedNumber, customerNumber, agreementNumber).Scan(&bookedExists); err != nil {
		return fmt.Errorf("failed to check booked invoice %d: %w", bookedNumber, err)
	}

	var tag pgconn.CommandTag
	if bookedExists {
		deleteQuery := `
			DELETE FROM invoices
			WHERE document_kind = $1 AND document_number = $2 AND customer_number = $3 AND agreement_number = $4;
		`
		t, err := tx.Exec(ctx, deleteQuery, models.DocumentDraft, draftNumber, customerNumber, agreementNumber)
		if err != nil {
			return fmt.Errorf("failed to drop superseded draft %d: %w", draftNumber, err)
		}
		tag = t
	} else {
		updateQuery := `
			UPDATE invoices
			SET document_kind = $5, document_number = $6, last_updated_at = $7
			WHERE document_kind = $1 AND document_number = $2 AND customer_number = $3 AND agreement_number = $4;
		`
		t, err := tx.Exec(ctx, updateQuery,
			models.DocumentDraft, draftNumber, customerNumber, agreementNumber,
			models.DocumentBooked, bookedNumber, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to promote draft %d to booked %d: %w", draftNumber, bookedNumber, err)
		}
		tag = t
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit draft promotion: %w", err)
	}
	return nil
}

// ListInvoices returns a filtered, sorted page plus the total match count.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]models.Invoice, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AgreementNumber != 0 {
		where += ` AND agreement_number = ` + arg(filter.AgreementNumber)
	}
	if filter.CustomerNumber != 0 {
		where += ` AND customer_number = ` + arg(filter.CustomerNumber)
	}
	if filter.PaymentStatus != "" {
		where += ` AND payment_status = ` + arg(filter.PaymentStatus)
	}
	if !filter.DateFrom.IsZero() {
		where += ` AND issue_date >= ` + arg(filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		where += ` AND issue_date <= ` + arg(filter.DateTo)
	}

	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "issue_date"
	}
	direction := "ASC"
	if filter.SortOrder == "desc" {
		direction = "DESC"
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		fmt.Sprintf(` ORDER BY %s %s, invoice_id LIMIT %s OFFSET %s;`, sortColumn, direction, arg(filter.Limit), arg(filter.Offset))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Invoice, error) {
		return scanInvoice(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan invoices: %w", err)
	}
	return invoices, total, nil
}

// FindDuplicateInvoices returns the rows of every natural key holding more
// than one row, grouped per key with the most-recently-updated row first.
func (r *PgxInvoiceRepository) FindDuplicateInvoices(ctx context.Context, agreementNumber int) ([][]models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE agreement_number = $1
		  AND (document_kind, document_number, customer_number) IN (
			SELECT document_kind, document_number, customer_number
			FROM invoices
			WHERE agreement_number = $1
			GROUP BY document_kind, document_number, customer_number
			HAVING COUNT(*) > 1
		  )
		ORDER BY document_kind, document_number, customer_number, last_updated_at DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, agreementNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate invoices: %w", err)
	}
	defer rows.Close()

	flat, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Invoice, error) {
		return scanInvoice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan duplicate invoices: %w", err)
	}

	var groups [][]models.Invoice
	for _, invoice := range flat {
		n := len(groups)
		if n > 0 && sameDocumentKey(groups[n-1][0], invoice) {
			groups[n-1] = append(groups[n-1], invoice)
			continue
		}
		groups = append(groups, []models.Invoice{invoice})
	}
	return groups, nil
}

func sameDocumentKey(a, b models.Invoice) bool {
	return a.DocumentKind == b.DocumentKind &&
		a.DocumentNumber == b.DocumentNumber &&
		a.CustomerNumber == b.CustomerNumber &&
		a.AgreementNumber == b.AgreementNumber
}

// DeleteInvoicesByID removes rows by surrogate id; lines go with them via
// the FK cascade. Returns the number of invoice rows deleted.
func (r *PgxInvoiceRepository) DeleteInvoicesByID(ctx context.Context, invoiceIDs []string) (int, error) {
	if len(invoiceIDs) == 0 {
		return 0, nil
	}
	tag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = ANY($1);`, invoiceIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to delete invoices: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
