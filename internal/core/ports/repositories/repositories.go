package repositories

// UpsertResult reports how a batch upsert split between inserts and updates.
type UpsertResult struct {
	Inserted int
	Updated  int
}

// Total returns the number of rows the batch touched.
func (r UpsertResult) Total() int {
	return r.Inserted + r.Updated
}

// Add accumulates another chunk's result.
func (r *UpsertResult) Add(other UpsertResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
}

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	Agreement  AgreementRepository
	Invoice    InvoiceRepository
	Accounting AccountingRepository
	Account    AccountRepository
	Product    ProductRepository
	Supplier   SupplierRepository
	Customer   CustomerRepository
	SyncLog    SyncLogRepository
}
