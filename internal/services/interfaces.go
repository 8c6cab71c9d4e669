package services

import (
	"context"

	"merchant-bi-api/internal/models"
)

// RevenueCalculator computes successful revenue. Unknown merchants have zero revenue.
type RevenueCalculator interface {
	RevenueFor(ctx context.Context, merchantID int64, date *models.Date) (models.Money, error)
	TotalRevenueForDate(ctx context.Context, date models.Date) (models.Money, error)
}

// MerchantRanker orders merchants by all-time successful revenue or units sold. Ties go to the
// lower merchant ID.
type MerchantRanker interface {
	TopMerchantsByRevenue(ctx context.Context, n int) ([]models.MerchantRanking, error)
	TopMerchantsByQuantity(ctx context.Context, n int) ([]models.MerchantRanking, error)
}

// CustomerRelationshipAnalyzer answers questions about a merchant's customers
type CustomerRelationshipAnalyzer interface {
	// FavoriteCustomer returns nil when no customer has a successful transaction with the merchant
	FavoriteCustomer(ctx context.Context, merchantID int64) (*models.Customer, error)
	CustomersWithPendingInvoices(ctx context.Context, merchantID int64) ([]*models.Customer, error)
}

// BusinessIntelligenceService is the query facade used by the HTTP and serverless surfaces.
// Per-merchant queries fail with ErrNotFound when the merchant does not exist.
type BusinessIntelligenceService interface {
	MerchantRevenue(ctx context.Context, merchantID int64, date *models.Date) (models.Money, error)
	TotalRevenueForDate(ctx context.Context, date models.Date) (models.Money, error)
	MostRevenue(ctx context.Context, n int) ([]models.MerchantRanking, error)
	MostItems(ctx context.Context, n int) ([]models.MerchantRanking, error)
	FavoriteCustomer(ctx context.Context, merchantID int64) (*models.Customer, error)
	CustomersWithPendingInvoices(ctx context.Context, merchantID int64) ([]*models.Customer, error)
}

// MerchantService defines merchant lookups
type MerchantService interface {
	GetMerchant(ctx context.Context, id int64) (*models.Merchant, error)
	ListMerchants(ctx context.Context) ([]*models.Merchant, error)

	// FindMerchant returns the lowest-ID match, or nil when nothing matches
	FindMerchant(ctx context.Context, filters models.MerchantFilters) (*models.Merchant, error)
	FindAllMerchants(ctx context.Context, filters models.MerchantFilters) ([]*models.Merchant, error)
}

// InvoiceItemService defines invoice item lookups
type InvoiceItemService interface {
	// FindInvoiceItem returns the lowest-ID match, or nil when nothing matches
	FindInvoiceItem(ctx context.Context, filters models.InvoiceItemFilters) (*models.InvoiceItem, error)
	FindAllInvoiceItems(ctx context.Context, filters models.InvoiceItemFilters) ([]*models.InvoiceItem, error)
}
