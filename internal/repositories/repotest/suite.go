package repotest

import (
	"context"
	"testing"
	"time"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreFactory returns an empty store for one test
type StoreFactory func(t *testing.T) *repositories.RepositoryContainer

// RunLedgerReaderSuite checks a LedgerReader implementation against the seeded datasets
func RunLedgerReaderSuite(t *testing.T, newStore StoreFactory) {
	ctx := context.Background()

	t.Run("revenue counts only invoices with a successful transaction", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &ds.Merchant.ID})
		require.NoError(t, err)
		assert.Equal(t, MerchantRevenue, revenue)
		assert.Equal(t, "20000.0", revenue.String())
	})

	t.Run("revenue restricted to a calendar date", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		date := ScenarioDate
		revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &ds.Merchant.ID, Date: &date})
		require.NoError(t, err)
		assert.Equal(t, "10000.0", revenue.String())

		empty := models.Date{Year: 2001, Month: time.January, Day: 1}
		revenue, err = repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &ds.Merchant.ID, Date: &empty})
		require.NoError(t, err)
		assert.Equal(t, models.Money(0), revenue)
	})

	t.Run("revenue across all merchants for a date", func(t *testing.T) {
		repos := newStore(t)
		SeedDataset(t, repos)

		date := ScenarioDate
		revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{Date: &date})
		require.NoError(t, err)
		assert.Equal(t, TotalRevenueOnScenario, revenue)
	})

	t.Run("revenue of unknown merchant is zero", func(t *testing.T) {
		repos := newStore(t)
		SeedDataset(t, repos)

		missing := int64(9999)
		revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &missing})
		require.NoError(t, err)
		assert.Equal(t, models.Money(0), revenue)
	})

	t.Run("invoice with several successful transactions counts once", func(t *testing.T) {
		repos := newStore(t)
		b := NewBuilder(t, repos)
		merchant := b.Merchant("Dedup")
		customer := b.Customer("Ada", "Lovelace")
		b.Invoice(merchant, customer, Day(2017, time.June, 1), []Line{{UnitPrice: 350, Quantity: 3}}, success, success, success)

		revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &merchant.ID})
		require.NoError(t, err)
		assert.Equal(t, models.Money(1050), revenue)

		totals, err := repos.LedgerRepo.MerchantTotals(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.Equal(t, models.Money(1050), totals[0].Revenue)
		assert.Equal(t, int64(3), totals[0].Quantity)
	})

	t.Run("revenue is additive over invoice dates", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		for _, merchant := range []*models.Merchant{ds.Merchant, ds.OtherMerchant, ds.IdleMerchant} {
			total, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &merchant.ID})
			require.NoError(t, err)

			invoices, err := repos.InvoiceRepo.GetByMerchantID(ctx, merchant.ID)
			require.NoError(t, err)

			dates := make(map[models.Date]bool)
			for _, invoice := range invoices {
				dates[models.NewDate(invoice.CreatedAt)] = true
			}

			var sum models.Money
			for date := range dates {
				date := date
				revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &merchant.ID, Date: &date})
				require.NoError(t, err)
				sum += revenue
			}

			assert.Equal(t, total, sum, "merchant %d", merchant.ID)
		}
	})

	t.Run("merchant totals include every merchant", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		totals, err := repos.LedgerRepo.MerchantTotals(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 3)

		byID := make(map[int64]repositories.MerchantTotal)
		for _, total := range totals {
			byID[total.Merchant.ID] = total
		}

		assert.Equal(t, MerchantRevenue, byID[ds.Merchant.ID].Revenue)
		assert.Equal(t, MerchantQuantity, byID[ds.Merchant.ID].Quantity)
		assert.Equal(t, "Schroeder-Jerde", byID[ds.Merchant.ID].Merchant.Name)
		assert.Equal(t, OtherMerchantRevenue, byID[ds.OtherMerchant.ID].Revenue)
		assert.Equal(t, OtherMerchantQuantity, byID[ds.OtherMerchant.ID].Quantity)
		assert.Equal(t, models.Money(0), byID[ds.IdleMerchant.ID].Revenue)
		assert.Equal(t, int64(0), byID[ds.IdleMerchant.ID].Quantity)
	})

	t.Run("merchant totals ignore failed invoices", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedRankingDataset(t, repos)

		totals, err := repos.LedgerRepo.MerchantTotals(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 3)

		expected := map[int64]models.Money{
			ds.Low.ID:   10000,
			ds.HighA.ID: 110000,
			ds.HighB.ID: 110000,
		}
		for _, total := range totals {
			assert.Equal(t, expected[total.Merchant.ID], total.Revenue, "merchant %d", total.Merchant.ID)
		}
	})

	t.Run("customer success counts", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		activity, err := repos.LedgerRepo.CustomerSuccessCounts(ctx, ds.Merchant.ID)
		require.NoError(t, err)

		counts := make(map[int64]int64)
		for _, entry := range activity {
			counts[entry.Customer.ID] = entry.SuccessfulTransactions
		}

		assert.Equal(t, map[int64]int64{
			ds.CustomerB.ID: 4,
			ds.CustomerC.ID: 1,
		}, counts)

		activity, err = repos.LedgerRepo.CustomerSuccessCounts(ctx, ds.IdleMerchant.ID)
		require.NoError(t, err)
		assert.Empty(t, activity)
	})

	t.Run("pending invoices are detected per invoice", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		customers, err := repos.LedgerRepo.CustomersWithPendingInvoices(ctx, ds.Merchant.ID)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, ds.CustomerA.ID, customers[0].ID)
		assert.Equal(t, ds.CustomerC.ID, customers[1].ID)
		assert.Equal(t, "Mariah", customers[1].FirstName)

		customers, err = repos.LedgerRepo.CustomersWithPendingInvoices(ctx, ds.OtherMerchant.ID)
		require.NoError(t, err)
		assert.Empty(t, customers)
	})

	t.Run("invoice without transactions is pending", func(t *testing.T) {
		repos := newStore(t)
		b := NewBuilder(t, repos)
		merchant := b.Merchant("Uncharged")
		customer := b.Customer("Grace", "Hopper")
		b.Invoice(merchant, customer, Day(2017, time.June, 1), []Line{{UnitPrice: 100, Quantity: 1}})
		b.Invoice(merchant, customer, Day(2017, time.June, 2), []Line{{UnitPrice: 100, Quantity: 1}})

		customers, err := repos.LedgerRepo.CustomersWithPendingInvoices(ctx, merchant.ID)
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, customer.ID, customers[0].ID)
	})
}

// RunEntitySuite checks the entity repositories of a store
func RunEntitySuite(t *testing.T, newStore StoreFactory) {
	ctx := context.Background()

	t.Run("create assigns ids and get returns the row", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		merchant, err := repos.MerchantRepo.GetByID(ctx, ds.Merchant.ID)
		require.NoError(t, err)
		assert.Equal(t, "Schroeder-Jerde", merchant.Name)
		assert.True(t, merchant.CreatedAt.Equal(Day(2012, time.March, 27)))

		count, err := repos.MerchantRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		merchants, err := repos.MerchantRepo.List(ctx)
		require.NoError(t, err)
		require.Len(t, merchants, 3)
		assert.Less(t, merchants[0].ID, merchants[1].ID)
	})

	t.Run("missing rows are not found", func(t *testing.T) {
		repos := newStore(t)

		_, err := repos.MerchantRepo.GetByID(ctx, 404)
		assert.True(t, repositories.IsNotFound(err))

		exists, err := repos.MerchantRepo.Exists(ctx, 404)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repos.CustomerRepo.GetByID(ctx, 0)
		assert.ErrorIs(t, err, repositories.ErrInvalidID)
	})

	t.Run("invalid entities are rejected", func(t *testing.T) {
		repos := newStore(t)

		err := repos.MerchantRepo.Create(ctx, models.NewMerchant("   "))
		assert.True(t, repositories.IsValidation(err))

		err = repos.TransactionRepo.Create(ctx, models.NewTransaction(1, "refunded"))
		assert.True(t, repositories.IsValidation(err))
	})

	t.Run("find merchants by name ignores case", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		name := "SCHROEDER-jerde"
		found, err := repos.MerchantRepo.Find(ctx, models.MerchantFilters{Name: &name})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, ds.Merchant.ID, found[0].ID)

		created := models.Date{Year: 2012, Month: time.March, Day: 27}
		found, err = repos.MerchantRepo.Find(ctx, models.MerchantFilters{CreatedAt: &created})
		require.NoError(t, err)
		assert.Len(t, found, 3)

		found, err = repos.MerchantRepo.Find(ctx, models.MerchantFilters{ID: &ds.IdleMerchant.ID, Name: &name})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("find invoice items", func(t *testing.T) {
		repos := newStore(t)
		SeedDataset(t, repos)

		quantity := int64(100)
		found, err := repos.InvoiceItemRepo.Find(ctx, models.InvoiceItemFilters{Quantity: &quantity})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		price := models.Money(1234)
		found, err = repos.InvoiceItemRepo.Find(ctx, models.InvoiceItemFilters{UnitPrice: &price})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, int64(1345), found[0].Quantity)

		lines, err := repos.InvoiceItemRepo.GetByInvoiceID(ctx, found[0].InvoiceID)
		require.NoError(t, err)
		assert.Len(t, lines, 1)

		transactions, err := repos.TransactionRepo.GetByInvoiceID(ctx, found[0].InvoiceID)
		require.NoError(t, err)
		assert.Len(t, transactions, 3)

		all, err := repos.InvoiceItemRepo.Find(ctx, models.InvoiceItemFilters{})
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("items by merchant", func(t *testing.T) {
		repos := newStore(t)
		ds := SeedDataset(t, repos)

		items, err := repos.ItemRepo.GetByMerchantID(ctx, ds.Merchant.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, models.Money(75107), items[0].UnitPrice)

		items, err = repos.ItemRepo.GetByMerchantID(ctx, ds.IdleMerchant.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
