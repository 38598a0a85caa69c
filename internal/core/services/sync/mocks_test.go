package sync

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/stretchr/testify/mock"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	"github.com/soerenkp/ecosync/internal/economic"
	"github.com/soerenkp/ecosync/internal/models"
)

type MockRemoteClient struct {
	mock.Mock
}

func (m *MockRemoteClient) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	args := m.Called(ctx, path, query)
	var body json.RawMessage
	if args.Get(0) != nil {
		body = args.Get(0).(json.RawMessage)
	}
	return body, args.Error(1)
}

func (m *MockRemoteClient) FetchAllPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	args := m.Called(ctx, path, query)
	var records []json.RawMessage
	if args.Get(0) != nil {
		records = args.Get(0).([]json.RawMessage)
	}
	return records, args.Error(1)
}

func (m *MockRemoteClient) SelfInfo(ctx context.Context) (economic.SelfInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(economic.SelfInfo), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, agreement *models.Agreement) (int, error) {
	args := m.Called(ctx, agreement)
	return args.Int(0), args.Error(1)
}

type MockAgreementRepository struct {
	mock.Mock
}

func (m *MockAgreementRepository) SaveAgreement(ctx context.Context, agreement models.Agreement) error {
	return m.Called(ctx, agreement).Error(0)
}

func (m *MockAgreementRepository) FindAgreementByID(ctx context.Context, agreementID string) (*models.Agreement, error) {
	args := m.Called(ctx, agreementID)
	var agreement *models.Agreement
	if args.Get(0) != nil {
		agreement = args.Get(0).(*models.Agreement)
	}
	return agreement, args.Error(1)
}

func (m *MockAgreementRepository) FindAgreementByNumber(ctx context.Context, agreementNumber int) (*models.Agreement, error) {
	args := m.Called(ctx, agreementNumber)
	var agreement *models.Agreement
	if args.Get(0) != nil {
		agreement = args.Get(0).(*models.Agreement)
	}
	return agreement, args.Error(1)
}

func (m *MockAgreementRepository) ListAgreements(ctx context.Context, activeOnly bool) ([]models.Agreement, error) {
	args := m.Called(ctx, activeOnly)
	var agreements []models.Agreement
	if args.Get(0) != nil {
		agreements = args.Get(0).([]models.Agreement)
	}
	return agreements, args.Error(1)
}

func (m *MockAgreementRepository) UpdateAgreement(ctx context.Context, agreement models.Agreement) error {
	return m.Called(ctx, agreement).Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByDocumentKey(ctx context.Context, kind models.DocumentKind, documentNumber, customerNumber, agreementNumber int) (*models.Invoice, error) {
	args := m.Called(ctx, kind, documentNumber, customerNumber, agreementNumber)
	var invoice *models.Invoice
	if args.Get(0) != nil {
		invoice = args.Get(0).(*models.Invoice)
	}
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepository) UpsertInvoice(ctx context.Context, invoice models.Invoice) (*models.Invoice, error) {
	args := m.Called(ctx, invoice)
	var stored *models.Invoice
	if args.Get(0) != nil {
		stored = args.Get(0).(*models.Invoice)
	}
	return stored, args.Error(1)
}

func (m *MockInvoiceRepository) BatchUpsertInvoices(ctx context.Context, invoices []models.Invoice) (ports.UpsertResult, error) {
	args := m.Called(ctx, invoices)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockInvoiceRepository) ReplaceInvoiceLines(ctx context.Context, invoiceID string, lines []models.InvoiceLine) error {
	return m.Called(ctx, invoiceID, lines).Error(0)
}

func (m *MockInvoiceRepository) ListInvoiceLines(ctx context.Context, invoiceID string) ([]models.InvoiceLine, error) {
	args := m.Called(ctx, invoiceID)
	var lines []models.InvoiceLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]models.InvoiceLine)
	}
	return lines, args.Error(1)
}

func (m *MockInvoiceRepository) PromoteDraftInvoice(ctx context.Context, draftNumber, bookedNumber, customerNumber, agreementNumber int) error {
	return m.Called(ctx, draftNumber, bookedNumber, customerNumber, agreementNumber).Error(0)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]models.Invoice, int, error) {
	args := m.Called(ctx, filter)
	var invoices []models.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]models.Invoice)
	}
	return invoices, args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepository) FindDuplicateInvoices(ctx context.Context, agreementNumber int) ([][]models.Invoice, error) {
	args := m.Called(ctx, agreementNumber)
	var groups [][]models.Invoice
	if args.Get(0) != nil {
		groups = args.Get(0).([][]models.Invoice)
	}
	return groups, args.Error(1)
}

func (m *MockInvoiceRepository) DeleteInvoicesByID(ctx context.Context, invoiceIDs []string) (int, error) {
	args := m.Called(ctx, invoiceIDs)
	return args.Int(0), args.Error(1)
}

type MockAccountingRepository struct {
	mock.Mock
}

func (m *MockAccountingRepository) UpsertAccountingYear(ctx context.Context, year models.AccountingYear) error {
	return m.Called(ctx, year).Error(0)
}

func (m *MockAccountingRepository) FindAccountingYear(ctx context.Context, agreementNumber, year int) (*models.AccountingYear, error) {
	args := m.Called(ctx, agreementNumber, year)
	var row *models.AccountingYear
	if args.Get(0) != nil {
		row = args.Get(0).(*models.AccountingYear)
	}
	return row, args.Error(1)
}

func (m *MockAccountingRepository) ListAccountingYears(ctx context.Context, agreementNumber int) ([]models.AccountingYear, error) {
	args := m.Called(ctx, agreementNumber)
	var rows []models.AccountingYear
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.AccountingYear)
	}
	return rows, args.Error(1)
}

func (m *MockAccountingRepository) UpsertAccountingPeriod(ctx context.Context, period models.AccountingPeriod) error {
	return m.Called(ctx, period).Error(0)
}

func (m *MockAccountingRepository) ListAccountingPeriods(ctx context.Context, agreementNumber, year int) ([]models.AccountingPeriod, error) {
	args := m.Called(ctx, agreementNumber, year)
	var rows []models.AccountingPeriod
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.AccountingPeriod)
	}
	return rows, args.Error(1)
}

func (m *MockAccountingRepository) BatchUpsertAccountingEntries(ctx context.Context, entries []models.AccountingEntry) (ports.UpsertResult, error) {
	args := m.Called(ctx, entries)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockAccountingRepository) ListAccountingEntries(ctx context.Context, agreementNumber, year, periodNumber int, limit, offset int) ([]models.AccountingEntry, error) {
	args := m.Called(ctx, agreementNumber, year, periodNumber, limit, offset)
	var rows []models.AccountingEntry
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.AccountingEntry)
	}
	return rows, args.Error(1)
}

func (m *MockAccountingRepository) BatchUpsertAccountingTotals(ctx context.Context, totals []models.AccountingTotal) (ports.UpsertResult, error) {
	args := m.Called(ctx, totals)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockAccountingRepository) ListAccountingTotals(ctx context.Context, agreementNumber, year int, yearTotalsOnly bool) ([]models.AccountingTotal, error) {
	args := m.Called(ctx, agreementNumber, year, yearTotalsOnly)
	var rows []models.AccountingTotal
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.AccountingTotal)
	}
	return rows, args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) BatchUpsertAccounts(ctx context.Context, accounts []models.Account) (ports.UpsertResult, error) {
	args := m.Called(ctx, accounts)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockAccountRepository) FindAccount(ctx context.Context, agreementNumber, accountNumber int) (*models.Account, error) {
	args := m.Called(ctx, agreementNumber, accountNumber)
	var row *models.Account
	if args.Get(0) != nil {
		row = args.Get(0).(*models.Account)
	}
	return row, args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Account, error) {
	args := m.Called(ctx, agreementNumber, limit, offset)
	var rows []models.Account
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.Account)
	}
	return rows, args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) BatchUpsertProducts(ctx context.Context, products []models.Product) (ports.UpsertResult, error) {
	args := m.Called(ctx, products)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockProductRepository) FindProduct(ctx context.Context, agreementNumber int, productNumber string) (*models.Product, error) {
	args := m.Called(ctx, agreementNumber, productNumber)
	var row *models.Product
	if args.Get(0) != nil {
		row = args.Get(0).(*models.Product)
	}
	return row, args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Product, error) {
	args := m.Called(ctx, agreementNumber, limit, offset)
	var rows []models.Product
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.Product)
	}
	return rows, args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) BatchUpsertSuppliers(ctx context.Context, suppliers []models.Supplier) (ports.UpsertResult, error) {
	args := m.Called(ctx, suppliers)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockSupplierRepository) ListSuppliers(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Supplier, error) {
	args := m.Called(ctx, agreementNumber, limit, offset)
	var rows []models.Supplier
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.Supplier)
	}
	return rows, args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) BatchUpsertCustomers(ctx context.Context, customers []models.Customer) (ports.UpsertResult, error) {
	args := m.Called(ctx, customers)
	return args.Get(0).(ports.UpsertResult), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomer(ctx context.Context, agreementNumber, customerNumber int) (*models.Customer, error) {
	args := m.Called(ctx, agreementNumber, customerNumber)
	var row *models.Customer
	if args.Get(0) != nil {
		row = args.Get(0).(*models.Customer)
	}
	return row, args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Customer, error) {
	args := m.Called(ctx, agreementNumber, limit, offset)
	var rows []models.Customer
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.Customer)
	}
	return rows, args.Error(1)
}

type MockSyncLogRepository struct {
	mock.Mock
}

func (m *MockSyncLogRepository) SaveSyncLog(ctx context.Context, log models.SyncLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockSyncLogRepository) ListSyncLogs(ctx context.Context, filter ports.SyncLogFilter) ([]models.SyncLog, string, error) {
	args := m.Called(ctx, filter)
	var logs []models.SyncLog
	if args.Get(0) != nil {
		logs = args.Get(0).([]models.SyncLog)
	}
	return logs, args.String(1), args.Error(2)
}
