package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/soerenkp/ecosync/internal/apperrors"
	ports "github.com/soerenkp/ecosync/internal/core/ports/repositories"
	portssvc "github.com/soerenkp/ecosync/internal/core/ports/services"
	"github.com/soerenkp/ecosync/internal/models"
)

// Entity family names accepted by the engine and the sync endpoints.
const (
	FamilyAccounts   = "accounts"
	FamilyCustomers  = "customers"
	FamilyProducts   = "products"
	FamilySuppliers  = "suppliers"
	FamilyInvoices   = "invoices"
	FamilyAccounting = "accounting"
)

// agreementResolver confirms an agreement's identity against the remote API
// before any family work starts. The agreement registry implements it.
type agreementResolver interface {
	Resolve(ctx context.Context, agreement *models.Agreement) (int, error)
}

// Engine runs one entity family's sync pass for one agreement: resolve
// identity, fetch the remote collection, transform, upsert, record a sync
// log. Simple families share the generic collection path; invoices and
// accounting carry their own services for the parts that do not generalize
// (status precedence, line replacement, hierarchical fan-out).
type Engine struct {
	resolver   agreementResolver
	newClient  portssvc.RemoteClientFactory
	invoices   *InvoiceSyncService
	accounting *AccountingSyncService
	accounts   ports.AccountRepository
	products   ports.ProductRepository
	suppliers  ports.SupplierRepository
	customers  ports.CustomerRepository
	recorder   *Recorder
}

// NewEngine wires the sync engine.
func NewEngine(
	resolver agreementResolver,
	newClient portssvc.RemoteClientFactory,
	invoices *InvoiceSyncService,
	accounting *AccountingSyncService,
	accounts ports.AccountRepository,
	products ports.ProductRepository,
	suppliers ports.SupplierRepository,
	customers ports.CustomerRepository,
	recorder *Recorder,
) *Engine {
	return &Engine{
		resolver:   resolver,
		newClient:  newClient,
		invoices:   invoices,
		accounting: accounting,
		accounts:   accounts,
		products:   products,
		suppliers:  suppliers,
		customers:  customers,
		recorder:   recorder,
	}
}

// Families returns the entity families the engine knows, in sync order.
func (e *Engine) Families() []string {
	return []string{FamilyAccounts, FamilyCustomers, FamilyProducts, FamilySuppliers, FamilyInvoices, FamilyAccounting}
}

// KnowsFamily reports whether family names a syncable entity family.
func (e *Engine) KnowsFamily(family string) bool {
	for _, f := range e.Families() {
		if f == family {
			return true
		}
	}
	return false
}

// SyncFamilyForAgreement runs one family's full sync pass for one agreement
// and records the outcome. On failure the recorded log carries the partial
// record count accumulated before the failing step.
func (e *Engine) SyncFamilyForAgreement(ctx context.Context, agreement models.Agreement, family string) (int, error) {
	startedAt := time.Now()

	agreementNumber, err := e.resolver.Resolve(ctx, &agreement)
	if err != nil {
		e.recorder.Record(ctx, family, "sync", agreement.AgreementNumber, models.SyncStatusError, 0, err.Error(), startedAt)
		return 0, fmt.Errorf("failed to resolve agreement %s: %w", agreement.AgreementID, err)
	}

	client := e.newClient(agreement.GrantToken)
	count, err := e.runFamily(ctx, client, agreementNumber, family)
	if err != nil {
		e.recorder.Record(ctx, family, "sync", agreementNumber, models.SyncStatusError, count, err.Error(), startedAt)
		return count, err
	}
	e.recorder.Record(ctx, family, "sync", agreementNumber, models.SyncStatusSuccess, count, "", startedAt)
	return count, nil
}

func (e *Engine) runFamily(ctx context.Context, client portssvc.RemoteClient, agreementNumber int, family string) (int, error) {
	switch family {
	case FamilyAccounts:
		return syncCollection(ctx, client, "/accounts", agreementNumber, transformAccount, e.accounts.BatchUpsertAccounts)
	case FamilyCustomers:
		return syncCollection(ctx, client, "/customers", agreementNumber, transformCustomer, e.customers.BatchUpsertCustomers)
	case FamilyProducts:
		return syncCollection(ctx, client, "/products", agreementNumber, transformProduct, e.products.BatchUpsertProducts)
	case FamilySuppliers:
		return syncCollection(ctx, client, "/suppliers", agreementNumber, transformSupplier, e.suppliers.BatchUpsertSuppliers)
	case FamilyInvoices:
		return e.invoices.Sync(ctx, client, agreementNumber)
	case FamilyAccounting:
		return e.accounting.Sync(ctx, client, agreementNumber)
	default:
		return 0, fmt.Errorf("unknown entity family %q: %w", family, apperrors.ErrValidation)
	}
}

// syncCollection is the generic fetch → transform → batch-upsert pass shared
// by the flat entity families. A transform failure aborts the family before
// any write; the batch upsert's chunked transactions bound the blast radius
// of a mid-batch storage failure. Each transformed row is audit-stamped here;
// the upserts preserve created_at from the first insert.
func syncCollection[T any, PT interface {
	*T
	Touch(time.Time)
}](
	ctx context.Context,
	client portssvc.RemoteClient,
	path string,
	agreementNumber int,
	transform func(json.RawMessage, int) (T, error),
	batchUpsert func(context.Context, []T) (ports.UpsertResult, error),
) (int, error) {
	records, err := client.FetchAllPages(ctx, path, url.Values{})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	now := time.Now()
	rows := make([]T, 0, len(records))
	for _, raw := range records {
		row, err := transform(raw, agreementNumber)
		if err != nil {
			return 0, err
		}
		PT(&row).Touch(now)
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	result, err := batchUpsert(ctx, rows)
	if err != nil {
		return result.Total(), fmt.Errorf("failed to upsert %s: %w", path, err)
	}
	return result.Total(), nil
}
