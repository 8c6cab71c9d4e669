package repositories

import (
	"context"

	"merchant-bi-api/internal/models"
)

// BaseRepository defines the read and create operations shared by all ledger repositories.
// Updates and deletes belong to the systems that own the ledger and are not offered here.
type BaseRepository[T any] interface {
	// Create inserts a new entity and sets its ID
	Create(ctx context.Context, entity *T) error

	// GetByID retrieves an entity by its ID
	GetByID(ctx context.Context, id int64) (*T, error)

	// List retrieves all entities ordered by ID
	List(ctx context.Context) ([]*T, error)

	// Count returns the total number of entities
	Count(ctx context.Context) (int64, error)

	// Exists checks if an entity with the given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}

// MerchantRepository defines operations specific to merchants
type MerchantRepository interface {
	BaseRepository[models.Merchant]

	// Find retrieves merchants matching every supplied filter, ordered by ID.
	// Name filters match case-insensitively.
	Find(ctx context.Context, filters models.MerchantFilters) ([]*models.Merchant, error)
}

// CustomerRepository defines operations specific to customers
type CustomerRepository interface {
	BaseRepository[models.Customer]
}

// ItemRepository defines operations specific to items
type ItemRepository interface {
	BaseRepository[models.Item]

	// GetByMerchantID retrieves the items a merchant sells
	GetByMerchantID(ctx context.Context, merchantID int64) ([]*models.Item, error)
}

// InvoiceRepository defines operations specific to invoices
type InvoiceRepository interface {
	BaseRepository[models.Invoice]

	// GetByMerchantID retrieves a merchant's invoices ordered by ID
	GetByMerchantID(ctx context.Context, merchantID int64) ([]*models.Invoice, error)
}

// InvoiceItemRepository defines operations specific to invoice items
type InvoiceItemRepository interface {
	BaseRepository[models.InvoiceItem]

	// Find retrieves invoice items matching every supplied filter, ordered by ID
	Find(ctx context.Context, filters models.InvoiceItemFilters) ([]*models.InvoiceItem, error)

	// GetByInvoiceID retrieves the lines of an invoice
	GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*models.InvoiceItem, error)
}

// TransactionRepository defines operations specific to transactions
type TransactionRepository interface {
	BaseRepository[models.Transaction]

	// GetByInvoiceID retrieves the payment attempts of an invoice
	GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*models.Transaction, error)
}

// LedgerReader answers the aggregate questions the business intelligence services ask.
//
// Every aggregate applies the same eligibility rule: an invoice contributes only when at
// least one of its transactions succeeded, and it contributes its lines exactly once no
// matter how many of its transactions succeeded.
type LedgerReader interface {
	// SuccessfulRevenue sums unit_price * quantity over eligible invoices matching the filter
	SuccessfulRevenue(ctx context.Context, filter RevenueFilter) (models.Money, error)

	// MerchantTotals returns revenue and units sold from eligible invoices for every merchant,
	// including merchants with nothing sold
	MerchantTotals(ctx context.Context) ([]MerchantTotal, error)

	// CustomerSuccessCounts returns, for each customer with at least one successful
	// transaction with the merchant, how many successful transactions they have
	CustomerSuccessCounts(ctx context.Context, merchantID int64) ([]CustomerActivity, error)

	// CustomersWithPendingInvoices returns the distinct customers holding at least one invoice
	// with the merchant that has no successful transaction, ordered by ID
	CustomersWithPendingInvoices(ctx context.Context, merchantID int64) ([]*models.Customer, error)
}

// RevenueFilter narrows a revenue aggregate. Nil fields do not filter.
type RevenueFilter struct {
	MerchantID *int64
	Date       *models.Date
}

// MerchantTotal is a merchant's all-time successful sales
type MerchantTotal struct {
	Merchant models.Merchant
	Revenue  models.Money
	Quantity int64
}

// CustomerActivity is a customer's successful transaction count with one merchant
type CustomerActivity struct {
	Customer               models.Customer
	SuccessfulTransactions int64
}

// RepositoryContainer holds every ledger repository of one store
type RepositoryContainer struct {
	MerchantRepo    MerchantRepository
	CustomerRepo    CustomerRepository
	ItemRepo        ItemRepository
	InvoiceRepo     InvoiceRepository
	InvoiceItemRepo InvoiceItemRepository
	TransactionRepo TransactionRepository
	LedgerRepo      LedgerReader
}

// Transactor runs a unit of work against repositories that commit or roll back together
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *RepositoryContainer) error) error
}
