package sync

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soerenkp/ecosync/internal/apperrors"
	"github.com/soerenkp/ecosync/internal/models"
)

// Transformers are the pure seam between remote record shapes and local rows:
// no I/O, deterministic, tolerant of missing optional sub-objects. Missing
// natural-key fields fail with apperrors.ErrValidation before any write —
// a guessed key would corrupt the natural-key invariant.

const unknownCustomerName = "Unknown Customer"

type remoteCustomerRef struct {
	CustomerNumber int    `json:"customerNumber"`
	Name           string `json:"name"`
}

type remoteAccountRef struct {
	AccountNumber int `json:"accountNumber"`
}

type remoteInvoice struct {
	BookedInvoiceNumber int               `json:"bookedInvoiceNumber"`
	DraftInvoiceNumber  int               `json:"draftInvoiceNumber"`
	Date                string            `json:"date"`
	DueDate             string            `json:"dueDate"`
	Currency            string            `json:"currency"`
	ExchangeRate        json.Number       `json:"exchangeRate"`
	NetAmount           json.Number       `json:"netAmount"`
	GrossAmount         json.Number       `json:"grossAmount"`
	VatAmount           json.Number       `json:"vatAmount"`
	Remainder           json.Number       `json:"remainder"`
	Customer            *remoteCustomerRef `json:"customer"`
	Recipient           *struct {
		Name string `json:"name"`
	} `json:"recipient"`
	Notes *struct {
		Heading  string `json:"heading"`
		TextLine string `json:"textLine1"`
	} `json:"notes"`
	References *struct {
		Other string `json:"other"`
	} `json:"references"`
	Lines []remoteInvoiceLine `json:"lines"`
}

type remoteInvoiceLine struct {
	LineNumber     int         `json:"lineNumber"`
	Description    string      `json:"description"`
	Quantity       json.Number `json:"quantity"`
	UnitNetPrice   json.Number `json:"unitNetPrice"`
	TotalNetAmount json.Number `json:"totalNetAmount"`
	Product        *struct {
		ProductNumber string `json:"productNumber"`
	} `json:"product"`
}

// transformInvoice maps one remote invoice record (draft or booked listing)
// to a local row plus its line set. listingStatus is the payment status the
// listing endpoint implies; a non-zero remainder below the gross amount
// refines a pending status to partial.
func transformInvoice(raw json.RawMessage, agreementNumber int, kind models.DocumentKind, listingStatus models.PaymentStatus) (models.Invoice, []models.InvoiceLine, error) {
	var rec remoteInvoice
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Invoice{}, nil, fmt.Errorf("failed to decode invoice record: %w", err)
	}

	if agreementNumber == 0 {
		return models.Invoice{}, nil, fmt.Errorf("invoice missing agreement number: %w", apperrors.ErrValidation)
	}

	number := rec.BookedInvoiceNumber
	if kind == models.DocumentDraft {
		number = rec.DraftInvoiceNumber
	}
	if number == 0 {
		return models.Invoice{}, nil, fmt.Errorf("invoice missing %s document number: %w", strings.ToLower(string(kind)), apperrors.ErrValidation)
	}
	if rec.Customer == nil || rec.Customer.CustomerNumber == 0 {
		return models.Invoice{}, nil, fmt.Errorf("invoice %d missing customer number: %w", number, apperrors.ErrValidation)
	}

	customerName := strings.TrimSpace(rec.Customer.Name)
	if customerName == "" && rec.Recipient != nil {
		customerName = strings.TrimSpace(rec.Recipient.Name)
	}
	if customerName == "" {
		customerName = unknownCustomerName
	}

	gross := decimalFromNumber(rec.GrossAmount)
	remainder := decimalFromNumber(rec.Remainder)
	status := listingStatus
	if status == models.PaymentPending && remainder.IsPositive() && remainder.LessThan(gross) {
		status = models.PaymentPartial
	}

	notes := ""
	if rec.Notes != nil {
		notes = strings.TrimSpace(strings.TrimSpace(rec.Notes.Heading) + " " + strings.TrimSpace(rec.Notes.TextLine))
	}
	reference := ""
	if rec.References != nil {
		reference = strings.TrimSpace(rec.References.Other)
	}

	invoice := models.Invoice{
		AgreementNumber: agreementNumber,
		CustomerNumber:  rec.Customer.CustomerNumber,
		DocumentKind:    kind,
		DocumentNumber:  number,
		CustomerName:    customerName,
		CurrencyCode:    strings.TrimSpace(rec.Currency),
		ExchangeRate:    decimalFromNumber(rec.ExchangeRate),
		NetAmount:       decimalFromNumber(rec.NetAmount),
		GrossAmount:     gross,
		VatAmount:       decimalFromNumber(rec.VatAmount),
		RemainderAmount: remainder,
		IssueDate:       parseRemoteDate(rec.Date),
		DueDate:         parseRemoteDate(rec.DueDate),
		PaymentStatus:   status,
		Notes:           notes,
		Reference:       reference,
	}

	lines := make([]models.InvoiceLine, 0, len(rec.Lines))
	for i, rl := range rec.Lines {
		lineNumber := rl.LineNumber
		if lineNumber == 0 {
			lineNumber = i + 1
		}
		productNumber := ""
		if rl.Product != nil {
			productNumber = rl.Product.ProductNumber
		}
		lines = append(lines, models.InvoiceLine{
			LineNumber:    lineNumber,
			ProductNumber: productNumber,
			Description:   rl.Description,
			Quantity:      decimalFromNumber(rl.Quantity),
			UnitPrice:     decimalFromNumber(rl.UnitNetPrice),
			Amount:        decimalFromNumber(rl.TotalNetAmount),
		})
	}
	return invoice, lines, nil
}

type remoteAccountingYear struct {
	Year     int    `json:"year"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	Closed   bool   `json:"closed"`
}

func transformAccountingYear(raw json.RawMessage, agreementNumber int) (models.AccountingYear, error) {
	var rec remoteAccountingYear
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.AccountingYear{}, fmt.Errorf("failed to decode accounting year: %w", err)
	}
	if rec.Year == 0 {
		return models.AccountingYear{}, fmt.Errorf("accounting year missing year: %w", apperrors.ErrValidation)
	}
	return models.AccountingYear{
		AgreementNumber: agreementNumber,
		Year:            rec.Year,
		FromDate:        parseRemoteDate(rec.FromDate),
		ToDate:          parseRemoteDate(rec.ToDate),
		Closed:          rec.Closed,
	}, nil
}

type remoteAccountingPeriod struct {
	PeriodNumber int    `json:"periodNumber"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
	Barred       bool   `json:"barred"`
}

func transformAccountingPeriod(raw json.RawMessage, agreementNumber, year int) (models.AccountingPeriod, error) {
	var rec remoteAccountingPeriod
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.AccountingPeriod{}, fmt.Errorf("failed to decode accounting period: %w", err)
	}
	if rec.PeriodNumber == 0 {
		return models.AccountingPeriod{}, fmt.Errorf("accounting period missing period number: %w", apperrors.ErrValidation)
	}
	return models.AccountingPeriod{
		AgreementNumber: agreementNumber,
		Year:            year,
		PeriodNumber:    rec.PeriodNumber,
		FromDate:        parseRemoteDate(rec.FromDate),
		ToDate:          parseRemoteDate(rec.ToDate),
		Barred:          rec.Barred,
	}, nil
}

type remoteAccountingEntry struct {
	EntryNumber int               `json:"entryNumber"`
	Account     *remoteAccountRef `json:"account"`
	Amount      json.Number       `json:"amount"`
	Currency    string            `json:"currency"`
	Date        string            `json:"date"`
	Text        string            `json:"text"`
	EntryType   string            `json:"entryType"`
}

func transformAccountingEntry(raw json.RawMessage, agreementNumber, year, periodNumber int) (models.AccountingEntry, error) {
	var rec remoteAccountingEntry
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.AccountingEntry{}, fmt.Errorf("failed to decode accounting entry: %w", err)
	}
	if rec.EntryNumber == 0 {
		return models.AccountingEntry{}, fmt.Errorf("accounting entry missing entry number: %w", apperrors.ErrValidation)
	}
	accountNumber := 0
	if rec.Account != nil {
		accountNumber = rec.Account.AccountNumber
	}
	return models.AccountingEntry{
		AgreementNumber: agreementNumber,
		Year:            year,
		PeriodNumber:    periodNumber,
		EntryNumber:     rec.EntryNumber,
		AccountNumber:   accountNumber,
		Amount:          decimalFromNumber(rec.Amount),
		CurrencyCode:    rec.Currency,
		EntryDate:       parseRemoteDate(rec.Date),
		Text:            rec.Text,
		EntryType:       rec.EntryType,
	}, nil
}

type remoteAccountingTotal struct {
	Account             *remoteAccountRef `json:"account"`
	TotalInBaseCurrency json.Number       `json:"totalInBaseCurrency"`
}

func transformAccountingTotal(raw json.RawMessage, agreementNumber, year, periodNumber int, isYearTotal bool) (models.AccountingTotal, error) {
	var rec remoteAccountingTotal
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.AccountingTotal{}, fmt.Errorf("failed to decode accounting total: %w", err)
	}
	if rec.Account == nil || rec.Account.AccountNumber == 0 {
		return models.AccountingTotal{}, fmt.Errorf("accounting total missing account number: %w", apperrors.ErrValidation)
	}
	return models.AccountingTotal{
		AgreementNumber:     agreementNumber,
		Year:                year,
		PeriodNumber:        periodNumber,
		IsYearTotal:         isYearTotal,
		AccountNumber:       rec.Account.AccountNumber,
		TotalInBaseCurrency: decimalFromNumber(rec.TotalInBaseCurrency),
	}, nil
}

type remoteAccount struct {
	AccountNumber      int         `json:"accountNumber"`
	Name               string      `json:"name"`
	AccountType        string      `json:"accountType"`
	DebitCredit        string      `json:"debitCredit"`
	Balance            json.Number `json:"balance"`
	BlockDirectEntries bool        `json:"blockDirectEntries"`
}

func transformAccount(raw json.RawMessage, agreementNumber int) (models.Account, error) {
	var rec remoteAccount
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Account{}, fmt.Errorf("failed to decode account: %w", err)
	}
	if rec.AccountNumber == 0 {
		return models.Account{}, fmt.Errorf("account missing account number: %w", apperrors.ErrValidation)
	}
	return models.Account{
		AgreementNumber:    agreementNumber,
		AccountNumber:      rec.AccountNumber,
		Name:               rec.Name,
		AccountType:        rec.AccountType,
		DebitCredit:        rec.DebitCredit,
		Balance:            decimalFromNumber(rec.Balance),
		BlockDirectEntries: rec.BlockDirectEntries,
	}, nil
}

type remoteProduct struct {
	ProductNumber string      `json:"productNumber"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	SalesPrice    json.Number `json:"salesPrice"`
	CostPrice     json.Number `json:"costPrice"`
	Barred        bool        `json:"barred"`
	ProductGroup  *struct {
		ProductGroupNumber int `json:"productGroupNumber"`
	} `json:"productGroup"`
}

func transformProduct(raw json.RawMessage, agreementNumber int) (models.Product, error) {
	var rec remoteProduct
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Product{}, fmt.Errorf("failed to decode product: %w", err)
	}
	if strings.TrimSpace(rec.ProductNumber) == "" {
		return models.Product{}, fmt.Errorf("product missing product number: %w", apperrors.ErrValidation)
	}
	groupNumber := 0
	if rec.ProductGroup != nil {
		groupNumber = rec.ProductGroup.ProductGroupNumber
	}
	return models.Product{
		AgreementNumber:    agreementNumber,
		ProductNumber:      strings.TrimSpace(rec.ProductNumber),
		Name:               rec.Name,
		Description:        rec.Description,
		SalesPrice:         decimalFromNumber(rec.SalesPrice),
		CostPrice:          decimalFromNumber(rec.CostPrice),
		ProductGroupNumber: groupNumber,
		Barred:             rec.Barred,
	}, nil
}

type remoteSupplier struct {
	SupplierNumber int    `json:"supplierNumber"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Currency       string `json:"currency"`
	Barred         bool   `json:"barred"`
	SupplierGroup  *struct {
		SupplierGroupNumber int `json:"supplierGroupNumber"`
	} `json:"supplierGroup"`
}

func transformSupplier(raw json.RawMessage, agreementNumber int) (models.Supplier, error) {
	var rec remoteSupplier
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Supplier{}, fmt.Errorf("failed to decode supplier: %w", err)
	}
	if rec.SupplierNumber == 0 {
		return models.Supplier{}, fmt.Errorf("supplier missing supplier number: %w", apperrors.ErrValidation)
	}
	group := 0
	if rec.SupplierGroup != nil {
		group = rec.SupplierGroup.SupplierGroupNumber
	}
	return models.Supplier{
		AgreementNumber: agreementNumber,
		SupplierNumber:  rec.SupplierNumber,
		Name:            rec.Name,
		Email:           rec.Email,
		Phone:           rec.Phone,
		CurrencyCode:    rec.Currency,
		SupplierGroup:   group,
		Barred:          rec.Barred,
	}, nil
}

type remoteCustomer struct {
	CustomerNumber int         `json:"customerNumber"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Currency       string      `json:"currency"`
	Balance        json.Number `json:"balance"`
	Barred         bool        `json:"barred"`
}

func transformCustomer(raw json.RawMessage, agreementNumber int) (models.Customer, error) {
	var rec remoteCustomer
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Customer{}, fmt.Errorf("failed to decode customer: %w", err)
	}
	if rec.CustomerNumber == 0 {
		return models.Customer{}, fmt.Errorf("customer missing customer number: %w", apperrors.ErrValidation)
	}
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = unknownCustomerName
	}
	return models.Customer{
		AgreementNumber: agreementNumber,
		CustomerNumber:  rec.CustomerNumber,
		Name:            name,
		Email:           rec.Email,
		CurrencyCode:    rec.Currency,
		Balance:         decimalFromNumber(rec.Balance),
		Barred:          rec.Barred,
	}, nil
}

func decimalFromNumber(num json.Number) decimal.Decimal {
	if num.String() == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(num.String()); err == nil {
		return d
	}
	return decimal.Zero
}

func parseRemoteDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return time.Time{}
}
