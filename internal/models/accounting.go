package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingYear is the top of the accounting containment hierarchy,
// keyed by (agreement_number, year).
type AccountingYear struct {
	AgreementNumber int       `db:"agreement_number"`
	Year            int       `db:"year"`
	FromDate        time.Time `db:"from_date"`
	ToDate          time.Time `db:"to_date"`
	Closed          bool      `db:"closed"`
	AuditFields
}

// AccountingPeriod is a child of AccountingYear. Remote period numbers are
// 1-based; a period cannot exist without its year (FK-enforced).
type AccountingPeriod struct {
	AgreementNumber int       `db:"agreement_number"`
	Year            int       `db:"year"`
	PeriodNumber    int       `db:"period_number"`
	FromDate        time.Time `db:"from_date"`
	ToDate          time.Time `db:"to_date"`
	Barred          bool      `db:"barred"`
	AuditFields
}

// AccountingEntry is a booked entry within one period.
type AccountingEntry struct {
	AgreementNumber int             `db:"agreement_number"`
	Year            int             `db:"year"`
	PeriodNumber    int             `db:"period_number"`
	EntryNumber     int             `db:"entry_number"`
	AccountNumber   int             `db:"account_number"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	EntryDate       time.Time       `db:"entry_date"`
	Text            string          `db:"text"`
	EntryType       string          `db:"entry_type"`
	AuditFields
}

// AccountingTotal is a per-account total for one period, or for the whole
// year when IsYearTotal is set. Year totals store PeriodNumber 0, which is
// never a legitimate remote period number (periods are 1-based); IsYearTotal
// carries the distinction explicitly so readers never interpret the zero.
type AccountingTotal struct {
	AgreementNumber     int             `db:"agreement_number"`
	Year                int             `db:"year"`
	PeriodNumber        int             `db:"period_number"`
	IsYearTotal         bool            `db:"is_year_total"`
	AccountNumber       int             `db:"account_number"`
	TotalInBaseCurrency decimal.Decimal `db:"total_in_base_currency"`
	AuditFields
}
