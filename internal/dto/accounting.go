package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/soerenkp/ecosync/internal/models"
)

// AccountingYearResponse is the public view of one accounting year.
type AccountingYearResponse struct {
	Year     int       `json:"year"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`
	Closed   bool      `json:"closed"`
}

// AccountingPeriodResponse is the public view of one period.
type AccountingPeriodResponse struct {
	PeriodNumber int       `json:"periodNumber"`
	FromDate     time.Time `json:"fromDate"`
	ToDate       time.Time `json:"toDate"`
	Barred       bool      `json:"barred"`
}

// AccountingEntryResponse is the public view of one entry.
type AccountingEntryResponse struct {
	EntryNumber   int             `json:"entryNumber"`
	AccountNumber int             `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	EntryDate     time.Time       `json:"entryDate"`
	Text          string          `json:"text"`
	EntryType     string          `json:"entryType"`
}

// AccountingTotalResponse is the public view of one total row.
type AccountingTotalResponse struct {
	PeriodNumber  int             `json:"periodNumber"`
	IsYearTotal   bool            `json:"isYearTotal"`
	AccountNumber int             `json:"accountNumber"`
	Total         decimal.Decimal `json:"total"`
}

// ToAccountingYearResponse converts one year row.
func ToAccountingYearResponse(y models.AccountingYear) AccountingYearResponse {
	return AccountingYearResponse{Year: y.Year, FromDate: y.FromDate, ToDate: y.ToDate, Closed: y.Closed}
}

// ToAccountingPeriodResponse converts one period row.
func ToAccountingPeriodResponse(p models.AccountingPeriod) AccountingPeriodResponse {
	return AccountingPeriodResponse{PeriodNumber: p.PeriodNumber, FromDate: p.FromDate, ToDate: p.ToDate, Barred: p.Barred}
}

// ToAccountingEntryResponse converts one entry row.
func ToAccountingEntryResponse(e models.AccountingEntry) AccountingEntryResponse {
	return AccountingEntryResponse{
		EntryNumber:   e.EntryNumber,
		AccountNumber: e.AccountNumber,
		Amount:        e.Amount,
		CurrencyCode:  e.CurrencyCode,
		EntryDate:     e.EntryDate,
		Text:          e.Text,
		EntryType:     e.EntryType,
	}
}

// ToAccountingTotalResponse converts one total row.
func ToAccountingTotalResponse(t models.AccountingTotal) AccountingTotalResponse {
	return AccountingTotalResponse{
		PeriodNumber:  t.PeriodNumber,
		IsYearTotal:   t.IsYearTotal,
		AccountNumber: t.AccountNumber,
		Total:         t.TotalInBaseCurrency,
	}
}
