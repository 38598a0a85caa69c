package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/soerenkp/ecosync/internal/models"
)

// ListInvoicesParams defines the query parameters of the invoice listing.
type ListInvoicesParams struct {
	AgreementNumber int    `form:"agreement_number"`
	CustomerNumber  int    `form:"customer_number"`
	Status          string `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID OVERDUE"`
	DateFrom        string `form:"date_from"` // YYYY-MM-DD
	DateTo          string `form:"date_to"`   // YYYY-MM-DD
	SortBy          string `form:"sort_by,default=issue_date" binding:"omitempty,oneof=issue_date due_date gross_amount document_number"`
	SortOrder       string `form:"sort_order,default=desc" binding:"omitempty,oneof=asc desc"`
	Page            int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit           int    `form:"limit,default=20" binding:"omitempty,min=1,max=200"`
}

// InvoiceResponse is the public view of a synced invoice.
type InvoiceResponse struct {
	InvoiceID       string          `json:"invoiceID"`
	AgreementNumber int             `json:"agreementNumber"`
	CustomerNumber  int             `json:"customerNumber"`
	DocumentKind    string          `json:"documentKind"`
	DocumentNumber  int             `json:"documentNumber"`
	CustomerName    string          `json:"customerName"`
	CurrencyCode    string          `json:"currencyCode"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	GrossAmount     decimal.Decimal `json:"grossAmount"`
	VatAmount       decimal.Decimal `json:"vatAmount"`
	RemainderAmount decimal.Decimal `json:"remainderAmount"`
	IssueDate       time.Time       `json:"issueDate"`
	DueDate         time.Time       `json:"dueDate"`
	PaymentStatus   string          `json:"paymentStatus"`
	Notes           string          `json:"notes,omitempty"`
	Reference       string          `json:"reference,omitempty"`
}

// ListInvoicesResponse wraps a page of invoices with paging metadata.
type ListInvoicesResponse struct {
	Invoices   []InvoiceResponse `json:"invoices"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// InvoiceLineResponse is the public view of one invoice line.
type InvoiceLineResponse struct {
	LineNumber    int             `json:"lineNumber"`
	ProductNumber string          `json:"productNumber,omitempty"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToInvoiceResponse converts a models.Invoice to its response DTO.
func ToInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:       inv.InvoiceID,
		AgreementNumber: inv.AgreementNumber,
		CustomerNumber:  inv.CustomerNumber,
		DocumentKind:    string(inv.DocumentKind),
		DocumentNumber:  inv.DocumentNumber,
		CustomerName:    inv.CustomerName,
		CurrencyCode:    inv.CurrencyCode,
		ExchangeRate:    inv.ExchangeRate,
		NetAmount:       inv.NetAmount,
		GrossAmount:     inv.GrossAmount,
		VatAmount:       inv.VatAmount,
		RemainderAmount: inv.RemainderAmount,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		PaymentStatus:   string(inv.PaymentStatus),
		Notes:           inv.Notes,
		Reference:       inv.Reference,
	}
}

// ToInvoiceLineResponse converts one line.
func ToInvoiceLineResponse(line models.InvoiceLine) InvoiceLineResponse {
	return InvoiceLineResponse{
		LineNumber:    line.LineNumber,
		ProductNumber: line.ProductNumber,
		Description:   line.Description,
		Quantity:      line.Quantity,
		UnitPrice:     line.UnitPrice,
		Amount:        line.Amount,
	}
}
