package services

import (
	"time"

	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	syncsvc "github.com/soerenkp/ecosync/internal/core/services/sync"
)

// Facade conformance checks.
var (
	_ portssvc.AgreementSvcFacade       = (*AgreementService)(nil)
	_ portssvc.SyncSvcFacade            = (*syncsvc.Orchestrator)(nil)
	_ portssvc.CleanupSvcFacade         = (*syncsvc.CleanupService)(nil)
	_ portssvc.InvoiceQuerySvcFacade    = (*InvoiceQueryService)(nil)
	_ portssvc.AccountingQuerySvcFacade = (*AccountingQueryService)(nil)
	_ portssvc.SyncLogSvcFacade         = (*SyncLogService)(nil)
)

// NewContainer wires every service behind its facade. totalsTTL bounds the
// staleness of cached totals reads; zero selects the default.
func NewContainer(repos *ports.RepositoryProvider, newClient portssvc.RemoteClientFactory, totalsTTL time.Duration) *portssvc.ServiceContainer {
	agreementSvc := NewAgreementService(repos.Agreement, newClient)
	recorder := syncsvc.NewRecorder(repos.SyncLog)

	invoiceSync := syncsvc.NewInvoiceSyncService(repos.Invoice)
	accountingSync := syncsvc.NewAccountingSyncService(repos.Accounting)
	engine := syncsvc.NewEngine(
		agreementSvc,
		newClient,
		invoiceSync,
		accountingSync,
		repos.Account,
		repos.Product,
		repos.Supplier,
		repos.Customer,
		recorder,
	)

	return &portssvc.ServiceContainer{
		Agreement:       agreementSvc,
		Sync:            syncsvc.NewOrchestrator(repos.Agreement, engine, recorder),
		Cleanup:         syncsvc.NewCleanupService(repos.Agreement, repos.Invoice, recorder),
		InvoiceQuery:    NewInvoiceQueryService(repos.Invoice),
		AccountingQuery: NewAccountingQueryService(repos.Accounting, repos.Agreement, newClient, accountingSync, totalsTTL),
		SyncLog:         NewSyncLogService(repos.SyncLog),
	}
}
