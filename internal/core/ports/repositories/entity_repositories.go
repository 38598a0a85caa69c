package repositories

import (
	"context"

	"github.com/soerenkp/ecosync/internal/models"
)

// AccountRepository persists chart-of-accounts rows per agreement.
type AccountRepository interface {
	BatchUpsertAccounts(ctx context.Context, accounts []models.Account) (UpsertResult, error)
	FindAccount(ctx context.Context, agreementNumber, accountNumber int) (*models.Account, error)
	ListAccounts(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Account, error)
}

// ProductRepository persists product rows per agreement.
type ProductRepository interface {
	BatchUpsertProducts(ctx context.Context, products []models.Product) (UpsertResult, error)
	FindProduct(ctx context.Context, agreementNumber int, productNumber string) (*models.Product, error)
	ListProducts(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Product, error)
}

// SupplierRepository persists supplier rows per agreement.
type SupplierRepository interface {
	BatchUpsertSuppliers(ctx context.Context, suppliers []models.Supplier) (UpsertResult, error)
	ListSuppliers(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Supplier, error)
}

// CustomerRepository persists customer rows per agreement.
type CustomerRepository interface {
	BatchUpsertCustomers(ctx context.Context, customers []models.Customer) (UpsertResult, error)
	FindCustomer(ctx context.Context, agreementNumber, customerNumber int) (*models.Customer, error)
	ListCustomers(ctx context.Context, agreementNumber int, limit, offset int) ([]models.Customer, error)
}
