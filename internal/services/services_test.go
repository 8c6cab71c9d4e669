package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"merchant-bi-api/internal/metrics"
	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"
	"merchant-bi-api/internal/repositories/memory"
	"merchant-bi-api/internal/repositories/repotest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func newTestServices(t *testing.T) (*ServiceContainer, *repositories.RepositoryContainer) {
	repos := memory.NewStore(testLogger()).Repositories()
	container, err := NewServiceContainer(repos, &ServiceConfig{Logger: testLogger()})
	require.NoError(t, err)
	return container, repos
}

func TestNewServiceContainer(t *testing.T) {
	_, err := NewServiceContainer(nil, nil)
	assert.Error(t, err)

	_, err = NewServiceContainer(&repositories.RepositoryContainer{}, nil)
	assert.Error(t, err)

	container, err := NewServiceContainer(memory.NewStore(nil).Repositories(), nil)
	require.NoError(t, err)
	assert.NotNil(t, container.BusinessIntelligence)
	assert.NotNil(t, container.MerchantService)
	assert.NotNil(t, container.InvoiceItemService)
}

func TestMerchantRevenue_Scenario(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	revenue, err := svc.BusinessIntelligence.MerchantRevenue(ctx, ds.Merchant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "20000.0", revenue.String())

	date := repotest.ScenarioDate
	revenue, err = svc.BusinessIntelligence.MerchantRevenue(ctx, ds.Merchant.ID, &date)
	require.NoError(t, err)
	assert.Equal(t, "10000.0", revenue.String())

	revenue, err = svc.BusinessIntelligence.MerchantRevenue(ctx, ds.IdleMerchant.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0", revenue.String())
}

func TestTotalRevenueForDate(t *testing.T) {
	svc, repos := newTestServices(t)
	repotest.SeedDataset(t, repos)
	ctx := context.Background()

	revenue, err := svc.BusinessIntelligence.TotalRevenueForDate(ctx, repotest.ScenarioDate)
	require.NoError(t, err)
	assert.Equal(t, "10100.0", revenue.String())

	_, err = svc.BusinessIntelligence.TotalRevenueForDate(ctx, models.Date{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRevenueCalculator_UnknownMerchantIsZero(t *testing.T) {
	store := memory.NewStore(testLogger())
	calculator := NewRevenueService(store.Repositories().LedgerRepo, testLogger())

	revenue, err := calculator.RevenueFor(context.Background(), 404, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), revenue)
}

func TestMostRevenue_TiesBreakByID(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedRankingDataset(t, repos)
	ctx := context.Background()

	top, err := svc.BusinessIntelligence.MostRevenue(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, ds.HighA.ID, top[0].Merchant.ID)
	assert.Equal(t, ds.HighB.ID, top[1].Merchant.ID)
	assert.Equal(t, "1100.0", top[0].Revenue.String())
	assert.Equal(t, "1100.0", top[1].Revenue.String())

	all, err := svc.BusinessIntelligence.MostRevenue(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ds.Low.ID, all[2].Merchant.ID)
}

func TestMostItems(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedRankingDataset(t, repos)
	ctx := context.Background()

	top, err := svc.BusinessIntelligence.MostItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, ds.Low.ID, top[0].Merchant.ID)
	assert.Equal(t, int64(50), top[0].Quantity)

	all, err := svc.BusinessIntelligence.MostItems(ctx, 3)
	require.NoError(t, err)
	ids := []int64{all[0].Merchant.ID, all[1].Merchant.ID, all[2].Merchant.ID}
	assert.Equal(t, []int64{ds.Low.ID, ds.HighA.ID, ds.HighB.ID}, ids)
}

func TestRanking_IncludesMerchantsWithoutSales(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	top, err := svc.BusinessIntelligence.MostRevenue(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, ds.Merchant.ID, top[0].Merchant.ID)
	assert.Equal(t, ds.OtherMerchant.ID, top[1].Merchant.ID)
	assert.Equal(t, ds.IdleMerchant.ID, top[2].Merchant.ID)
	assert.Equal(t, models.Money(0), top[2].Revenue)
}

func TestRanking_RejectsNonPositiveN(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	for _, n := range []int{0, -1} {
		_, err := svc.BusinessIntelligence.MostRevenue(ctx, n)
		assert.ErrorIs(t, err, ErrInvalidArgument, "n=%d", n)

		_, err = svc.BusinessIntelligence.MostItems(ctx, n)
		assert.ErrorIs(t, err, ErrInvalidArgument, "n=%d", n)
	}
}

func TestRanking_LargeNReturnsEveryMerchant(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedRankingDataset(t, repos)
	ctx := context.Background()

	for _, n := range []int{1001, 5000} {
		byRevenue, err := svc.BusinessIntelligence.MostRevenue(ctx, n)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, byRevenue, 3, "n=%d", n)

		byItems, err := svc.BusinessIntelligence.MostItems(ctx, n)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, byItems, 3, "n=%d", n)
		assert.Equal(t, ds.Low.ID, byItems[0].Merchant.ID)
	}

	ranker := NewRankingService(repos.LedgerRepo, testLogger())
	all, err := ranker.TopMerchantsByRevenue(ctx, 5000)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFavoriteCustomer_Scenario(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	customer, err := svc.BusinessIntelligence.FavoriteCustomer(ctx, ds.Merchant.ID)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, ds.CustomerB.ID, customer.ID)
	assert.Equal(t, "Cecelia", customer.FirstName)

	customer, err = svc.BusinessIntelligence.FavoriteCustomer(ctx, ds.OtherMerchant.ID)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, ds.CustomerA.ID, customer.ID)

	customer, err = svc.BusinessIntelligence.FavoriteCustomer(ctx, ds.IdleMerchant.ID)
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestFavoriteCustomer_TieGoesToLowestID(t *testing.T) {
	svc, repos := newTestServices(t)
	b := repotest.NewBuilder(t, repos)
	ctx := context.Background()

	merchant := b.Merchant("Even Split")
	first := b.Customer("First", "Buyer")
	second := b.Customer("Second", "Buyer")
	when := repotest.Day(2017, time.May, 1)

	b.Invoice(merchant, second, when, nil, models.TransactionResultSuccess, models.TransactionResultSuccess)
	b.Invoice(merchant, first, when, nil, models.TransactionResultSuccess)
	b.Invoice(merchant, first, when, nil, models.TransactionResultSuccess)

	customer, err := svc.BusinessIntelligence.FavoriteCustomer(ctx, merchant.ID)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, first.ID, customer.ID)
}

func TestFavoriteCustomer_OnlyFailedTransactions(t *testing.T) {
	svc, repos := newTestServices(t)
	b := repotest.NewBuilder(t, repos)

	merchant := b.Merchant("Declined")
	customer := b.Customer("Card", "Declined")
	b.Invoice(merchant, customer, repotest.Day(2017, time.May, 1), nil, models.TransactionResultFailed)

	favorite, err := svc.BusinessIntelligence.FavoriteCustomer(context.Background(), merchant.ID)
	require.NoError(t, err)
	assert.Nil(t, favorite)
}

func TestCustomersWithPendingInvoices_Scenario(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	customers, err := svc.BusinessIntelligence.CustomersWithPendingInvoices(ctx, ds.Merchant.ID)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, ds.CustomerA.ID, customers[0].ID)
	assert.Equal(t, ds.CustomerC.ID, customers[1].ID)

	customers, err = svc.BusinessIntelligence.CustomersWithPendingInvoices(ctx, ds.IdleMerchant.ID)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestPerMerchantQueries_UnknownMerchant(t *testing.T) {
	svc, repos := newTestServices(t)
	repotest.SeedDataset(t, repos)
	ctx := context.Background()

	_, err := svc.BusinessIntelligence.MerchantRevenue(ctx, 404, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.BusinessIntelligence.FavoriteCustomer(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.BusinessIntelligence.CustomersWithPendingInvoices(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.BusinessIntelligence.MerchantRevenue(ctx, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

type failingLedger struct {
	repositories.LedgerReader
	err error
}

func (f failingLedger) MerchantTotals(ctx context.Context) ([]repositories.MerchantTotal, error) {
	return nil, f.err
}

func (f failingLedger) CustomerSuccessCounts(ctx context.Context, merchantID int64) ([]repositories.CustomerActivity, error) {
	return nil, f.err
}

func TestServices_PropagateStoreFailures(t *testing.T) {
	storeErr := errors.New("ledger unavailable")
	ledger := failingLedger{err: storeErr}

	_, err := NewRankingService(ledger, testLogger()).TopMerchantsByRevenue(context.Background(), 5)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrInvalidArgument)

	_, err = NewCustomerRelationshipService(ledger, testLogger()).FavoriteCustomer(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)
}

func TestBusinessIntelligence_RecordsQueryMetrics(t *testing.T) {
	repos := memory.NewStore(testLogger()).Repositories()
	m := metrics.New()
	svc, err := NewServiceContainer(repos, &ServiceConfig{Metrics: m, Logger: testLogger()})
	require.NoError(t, err)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	_, err = svc.BusinessIntelligence.MerchantRevenue(ctx, ds.Merchant.ID, nil)
	require.NoError(t, err)
	_, err = svc.BusinessIntelligence.MerchantRevenue(ctx, 404, nil)
	require.Error(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "merchant_bi_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMerchantService(t *testing.T) {
	svc, repos := newTestServices(t)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	merchant, err := svc.MerchantService.GetMerchant(ctx, ds.OtherMerchant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Klein, Rempel and Jones", merchant.Name)

	_, err = svc.MerchantService.GetMerchant(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MerchantService.GetMerchant(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	merchants, err := svc.MerchantService.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Len(t, merchants, 3)

	name := "willms AND sons"
	found, err := svc.MerchantService.FindMerchant(ctx, models.MerchantFilters{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ds.IdleMerchant.ID, found.ID)

	missing := "Nobody"
	found, err = svc.MerchantService.FindMerchant(ctx, models.MerchantFilters{Name: &missing})
	require.NoError(t, err)
	assert.Nil(t, found)

	all, err := svc.MerchantService.FindAllMerchants(ctx, models.MerchantFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInvoiceItemService(t *testing.T) {
	svc, repos := newTestServices(t)
	repotest.SeedDataset(t, repos)
	ctx := context.Background()

	price := models.Money(10000)
	all, err := svc.InvoiceItemService.FindAllInvoiceItems(ctx, models.InvoiceItemFilters{UnitPrice: &price})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	first, err := svc.InvoiceItemService.FindInvoiceItem(ctx, models.InvoiceItemFilters{UnitPrice: &price})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, all[0].ID, first.ID)

	quantity := int64(7777)
	none, err := svc.InvoiceItemService.FindInvoiceItem(ctx, models.InvoiceItemFilters{Quantity: &quantity})
	require.NoError(t, err)
	assert.Nil(t, none)
}
