// Package repotest seeds ledger stores with known datasets and checks LedgerReader
// implementations against them.
package repotest

import (
	"context"
	"testing"
	"time"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/stretchr/testify/require"
)

// Day returns noon UTC on the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// Line is one invoice item to seed
type Line struct {
	UnitPrice models.Money
	Quantity  int64
}

// Builder creates ledger rows through a RepositoryContainer and fails the test on error
type Builder struct {
	t     *testing.T
	ctx   context.Context
	repos *repositories.RepositoryContainer
	items map[int64]*models.Item
}

// NewBuilder creates a builder over the given store
func NewBuilder(t *testing.T, repos *repositories.RepositoryContainer) *Builder {
	return &Builder{
		t:     t,
		ctx:   context.Background(),
		repos: repos,
		items: make(map[int64]*models.Item),
	}
}

// Merchant creates a merchant
func (b *Builder) Merchant(name string) *models.Merchant {
	merchant := models.NewMerchant(name)
	merchant.CreatedAt = Day(2012, time.March, 27)
	merchant.UpdatedAt = Day(2012, time.March, 27)
	require.NoError(b.t, b.repos.MerchantRepo.Create(b.ctx, merchant))
	return merchant
}

// Customer creates a customer
func (b *Builder) Customer(firstName, lastName string) *models.Customer {
	customer := models.NewCustomer(firstName, lastName)
	require.NoError(b.t, b.repos.CustomerRepo.Create(b.ctx, customer))
	return customer
}

// Invoice creates an invoice dated at createdAt with the given lines and one transaction per
// result. An invoice without results has never been charged.
func (b *Builder) Invoice(merchant *models.Merchant, customer *models.Customer, createdAt time.Time, lines []Line, results ...models.TransactionResult) *models.Invoice {
	invoice := models.NewInvoice(merchant.ID, customer.ID, models.InvoiceStatusShipped)
	invoice.CreatedAt = createdAt
	invoice.UpdatedAt = createdAt
	require.NoError(b.t, b.repos.InvoiceRepo.Create(b.ctx, invoice))

	item := b.item(merchant)
	for _, line := range lines {
		invoiceItem := models.NewInvoiceItem(invoice.ID, item.ID, line.UnitPrice, line.Quantity)
		invoiceItem.CreatedAt = createdAt
		invoiceItem.UpdatedAt = createdAt
		require.NoError(b.t, b.repos.InvoiceItemRepo.Create(b.ctx, invoiceItem))
	}

	for _, result := range results {
		transaction := models.NewTransaction(invoice.ID, result)
		transaction.CreditCardNumber = "4654405418249632"
		transaction.CreatedAt = createdAt
		transaction.UpdatedAt = createdAt
		require.NoError(b.t, b.repos.TransactionRepo.Create(b.ctx, transaction))
	}

	return invoice
}

func (b *Builder) item(merchant *models.Merchant) *models.Item {
	if item, ok := b.items[merchant.ID]; ok {
		return item
	}
	item := models.NewItem(merchant.ID, "Item Qui Esse", 75107)
	require.NoError(b.t, b.repos.ItemRepo.Create(b.ctx, item))
	b.items[merchant.ID] = item
	return item
}

const (
	success = models.TransactionResultSuccess
	failed  = models.TransactionResultFailed
)

// Dataset is the scenario ledger shared by store and service tests.
//
// Merchant sells to three customers:
//   - CustomerA holds one invoice with only failed transactions.
//   - CustomerB holds two paid invoices. The first has two successful transactions. Across both
//     invoices B has four successful and three failed transactions.
//   - CustomerC holds one paid invoice without lines and one invoice with a failed transaction.
//
// OtherMerchant sells once to CustomerA. IdleMerchant has no invoices.
type Dataset struct {
	Merchant      *models.Merchant
	OtherMerchant *models.Merchant
	IdleMerchant  *models.Merchant

	CustomerA *models.Customer
	CustomerB *models.Customer
	CustomerC *models.Customer
}

// Scenario dates and expected amounts for Dataset
var (
	ScenarioDate = models.Date{Year: 2017, Month: time.June, Day: 30}

	MerchantRevenue         = models.Money(2000000)
	MerchantRevenueOnDate   = models.Money(1000000)
	MerchantQuantity        = int64(200)
	OtherMerchantRevenue    = models.Money(10000)
	OtherMerchantQuantity   = int64(4)
	TotalRevenueOnScenario  = models.Money(1010000)
	TotalRevenueOnEmptyDate = models.Money(0)
)

// SeedDataset builds Dataset in the given store
func SeedDataset(t *testing.T, repos *repositories.RepositoryContainer) *Dataset {
	b := NewBuilder(t, repos)

	ds := &Dataset{
		Merchant:      b.Merchant("Schroeder-Jerde"),
		OtherMerchant: b.Merchant("Klein, Rempel and Jones"),
		IdleMerchant:  b.Merchant("Willms and Sons"),
		CustomerA:     b.Customer("Joey", "Ondricka"),
		CustomerB:     b.Customer("Cecelia", "Osinski"),
		CustomerC:     b.Customer("Mariah", "Toy"),
	}

	hundredDollars := []Line{{UnitPrice: 10000, Quantity: 100}}

	b.Invoice(ds.Merchant, ds.CustomerB, Day(2017, time.June, 29), hundredDollars, success, success, failed)
	b.Invoice(ds.Merchant, ds.CustomerB, Day(2017, time.June, 30), hundredDollars, failed, success, success, failed)
	b.Invoice(ds.Merchant, ds.CustomerA, Day(2017, time.June, 30), []Line{{UnitPrice: 1234, Quantity: 1345}}, failed, failed, failed)

	b.Invoice(ds.Merchant, ds.CustomerC, Day(2017, time.July, 2), nil, success)
	b.Invoice(ds.Merchant, ds.CustomerC, Day(2017, time.July, 3), []Line{{UnitPrice: 500, Quantity: 2}}, failed)

	b.Invoice(ds.OtherMerchant, ds.CustomerA, Day(2017, time.June, 30), []Line{{UnitPrice: 2500, Quantity: 4}}, success)

	return ds
}

// RankingDataset holds three merchants whose successful revenue is 100.0, 1100.0 and 1100.0
// and whose units sold are 50, 10 and 10
type RankingDataset struct {
	Low      *models.Merchant
	HighA    *models.Merchant
	HighB    *models.Merchant
	Customer *models.Customer
}

// SeedRankingDataset builds RankingDataset in the given store. Each merchant also has a large
// failed invoice that must not move the ranking.
func SeedRankingDataset(t *testing.T, repos *repositories.RepositoryContainer) *RankingDataset {
	b := NewBuilder(t, repos)

	ds := &RankingDataset{
		Low:      b.Merchant("Low Volume"),
		HighA:    b.Merchant("High Volume A"),
		HighB:    b.Merchant("High Volume B"),
		Customer: b.Customer("Sylvester", "Nader"),
	}

	when := Day(2018, time.March, 1)
	b.Invoice(ds.Low, ds.Customer, when, []Line{{UnitPrice: 200, Quantity: 50}}, success)
	b.Invoice(ds.HighA, ds.Customer, when, []Line{{UnitPrice: 11000, Quantity: 10}}, success, success)
	b.Invoice(ds.HighB, ds.Customer, when, []Line{{UnitPrice: 10000, Quantity: 5}, {UnitPrice: 12000, Quantity: 5}}, failed, success)

	for _, merchant := range []*models.Merchant{ds.Low, ds.HighA, ds.HighB} {
		b.Invoice(merchant, ds.Customer, when, []Line{{UnitPrice: 99999, Quantity: 999}}, failed)
	}

	return ds
}
