package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/soerenkp/ecosync/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Agreement:  newPgxAgreementRepository(dbPool),
		Invoice:    newPgxInvoiceRepository(dbPool),
		Accounting: newPgxAccountingRepository(dbPool),
		Account:    newPgxAccountRepository(dbPool),
		Product:    newPgxProductRepository(dbPool),
		Supplier:   newPgxSupplierRepository(dbPool),
		Customer:   newPgxCustomerRepository(dbPool),
		SyncLog:    newPgxSyncLogRepository(dbPool),
	}
}
