package models

import "github.com/shopspring/decimal"

// Account is one remote chart-of-accounts row, keyed by
// (agreement_number, account_number).
type Account struct {
	AgreementNumber int             `db:"agreement_number"`
	AccountNumber   int             `db:"account_number"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	DebitCredit     string          `db:"debit_credit"`
	Balance         decimal.Decimal `db:"balance"`
	BlockDirectEntries bool         `db:"block_direct_entries"`
	AuditFields
}

// Product is one remote product row, keyed by (agreement_number, product_number).
// Product numbers are free-form strings in the remote system.
type Product struct {
	AgreementNumber    int             `db:"agreement_number"`
	ProductNumber      string          `db:"product_number"`
	Name               string          `db:"name"`
	Description        string          `db:"description"`
	SalesPrice         decimal.Decimal `db:"sales_price"`
	CostPrice          decimal.Decimal `db:"cost_price"`
	ProductGroupNumber int             `db:"product_group_number"`
	Barred             bool            `db:"barred"`
	AuditFields
}

// Supplier is one remote supplier row, keyed by (agreement_number, supplier_number).
type Supplier struct {
	AgreementNumber int    `db:"agreement_number"`
	SupplierNumber  int    `db:"supplier_number"`
	Name            string `db:"name"`
	Email           string `db:"email"`
	Phone           string `db:"phone"`
	CurrencyCode    string `db:"currency_code"`
	SupplierGroup   int    `db:"supplier_group"`
	Barred          bool   `db:"barred"`
	AuditFields
}

// Customer is one remote customer row, keyed by (agreement_number, customer_number).
type Customer struct {
	AgreementNumber int             `db:"agreement_number"`
	CustomerNumber  int             `db:"customer_number"`
	Name            string          `db:"name"`
	Email           string          `db:"email"`
	CurrencyCode    string          `db:"currency_code"`
	Balance         decimal.Decimal `db:"balance"`
	Barred          bool            `db:"barred"`
	AuditFields
}
