package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind tags the identity of an invoice document. The remote system
// issues a draft number before booking and a different booked number after,
// so the two number spaces are kept apart instead of falling back between
// invoice_number and draft_invoice_number at query time.
type DocumentKind string

const (
	DocumentDraft  DocumentKind = "DRAFT"
	DocumentBooked DocumentKind = "BOOKED"
)

// PaymentStatus is the derived payment state of an invoice.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// Priority returns the precedence rank of the status:
// overdue(3) > paid(2) > partial(1) > pending(0). Unknown values rank lowest.
func (s PaymentStatus) Priority() int {
	switch s {
	case PaymentOverdue:
		return 3
	case PaymentPaid:
		return 2
	case PaymentPartial:
		return 1
	default:
		return 0
	}
}

// ResolvePaymentStatus returns the status an upsert must store given the
// existing and the incoming value. An invoice once flagged with a
// higher-priority status must never revert to a lower one, regardless of
// which listing endpoint returned its snapshot last.
func ResolvePaymentStatus(existing, incoming PaymentStatus) PaymentStatus {
	if existing.Priority() > incoming.Priority() {
		return existing
	}
	return incoming
}

// Invoice is one remote invoice or draft, identified by
// (document_kind, document_number, customer_number, agreement_number).
// Numbers are unique only within one agreement.
type Invoice struct {
	InvoiceID       string          `db:"invoice_id"` // surrogate UUID
	AgreementNumber int             `db:"agreement_number"`
	CustomerNumber  int             `db:"customer_number"`
	DocumentKind    DocumentKind    `db:"document_kind"`
	DocumentNumber  int             `db:"document_number"`
	CustomerName    string          `db:"customer_name"`
	CurrencyCode    string          `db:"currency_code"`
	ExchangeRate    decimal.Decimal `db:"exchange_rate"`
	NetAmount       decimal.Decimal `db:"net_amount"`
	GrossAmount     decimal.Decimal `db:"gross_amount"`
	VatAmount       decimal.Decimal `db:"vat_amount"`
	RemainderAmount decimal.Decimal `db:"remainder_amount"`
	IssueDate       time.Time       `db:"issue_date"`
	DueDate         time.Time       `db:"due_date"`
	PaymentStatus   PaymentStatus   `db:"payment_status"`
	Notes           string          `db:"notes"`
	Reference       string          `db:"reference"`
	AuditFields
}

// InvoiceLine is a child row of Invoice. Lines have no identity across sync
// passes, so the full set is replaced on every re-sync of the parent.
type InvoiceLine struct {
	InvoiceID     string          `db:"invoice_id"`
	LineNumber    int             `db:"line_number"`
	ProductNumber string          `db:"product_number"`
	Description   string          `db:"description"`
	Quantity      decimal.Decimal `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Amount        decimal.Decimal `db:"amount"`
}
