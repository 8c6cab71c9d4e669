package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"merchant-bi-api/internal/database"
	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"
	"merchant-bi-api/internal/repositories/repotest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func setupTestDB(t *testing.T) *sql.DB {
	config := database.DefaultConnectionConfig()
	config.DatabasePath = filepath.Join(t.TempDir(), "ledger.db")
	config.Logger = testLogger()

	cm := database.NewConnectionManager(config)
	require.NoError(t, cm.Connect())
	t.Cleanup(func() { cm.Close() })

	return cm.GetDB()
}

func newTestStore(t *testing.T) *repositories.RepositoryContainer {
	return NewRepositoryContainer(setupTestDB(t), testLogger())
}

func TestLedgerRepository(t *testing.T) {
	repotest.RunLedgerReaderSuite(t, newTestStore)
}

func TestEntityRepositories(t *testing.T) {
	repotest.RunEntitySuite(t, newTestStore)
}

func TestLedgerRepository_ResultComparisonIgnoresCase(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositoryContainer(db, testLogger())
	ctx := context.Background()

	b := repotest.NewBuilder(t, repos)
	merchant := b.Merchant("Legacy Import")
	customer := b.Customer("Alan", "Turing")
	invoice := b.Invoice(merchant, customer, repotest.Day(2017, time.June, 1), []repotest.Line{{UnitPrice: 250, Quantity: 4}})

	// rows written by older tooling were never normalized
	_, err := db.Exec(`INSERT INTO transactions (invoice_id, credit_card_number, result, created_at, updated_at)
		VALUES (?, '', ' SUCCESS', ?, ?)`, invoice.ID, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)

	revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &merchant.ID})
	require.NoError(t, err)
	assert.Equal(t, models.Money(1000), revenue)

	transactions, err := repos.TransactionRepo.GetByInvoiceID(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.True(t, transactions[0].Result.IsSuccessful())
}

func TestLedgerRepository_DateFilterUsesUTCDay(t *testing.T) {
	repos := newTestStore(t)
	ctx := context.Background()

	b := repotest.NewBuilder(t, repos)
	merchant := b.Merchant("Night Owl")
	customer := b.Customer("Late", "Buyer")

	// 23:30 in New York on June 30 is already July 1 in UTC
	newYork := time.FixedZone("EDT", -4*60*60)
	b.Invoice(merchant, customer, time.Date(2017, time.June, 30, 23, 30, 0, 0, newYork), []repotest.Line{{UnitPrice: 100, Quantity: 1}}, models.TransactionResultSuccess)

	june30 := models.Date{Year: 2017, Month: time.June, Day: 30}
	july1 := models.Date{Year: 2017, Month: time.July, Day: 1}

	revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{Date: &june30})
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), revenue)

	revenue, err = repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{Date: &july1})
	require.NoError(t, err)
	assert.Equal(t, models.Money(100), revenue)
}

func TestRepositories_ConstraintViolations(t *testing.T) {
	repos := newTestStore(t)
	ctx := context.Background()

	invoice := models.NewInvoice(77, 88, models.InvoiceStatusShipped)
	err := repos.InvoiceRepo.Create(ctx, invoice)
	require.Error(t, err)
	assert.True(t, repositories.IsConstraint(err))

	merchant := models.NewMerchant("Original")
	require.NoError(t, repos.MerchantRepo.Create(ctx, merchant))

	duplicate := models.NewMerchant("Copy")
	duplicate.ID = merchant.ID
	err = repos.MerchantRepo.Create(ctx, duplicate)
	assert.ErrorIs(t, err, repositories.ErrDuplicateEntry)
}

func TestRepositories_KeepImportedIDs(t *testing.T) {
	repos := newTestStore(t)
	ctx := context.Background()

	merchant := models.NewMerchant("Imported")
	merchant.ID = 42
	require.NoError(t, repos.MerchantRepo.Create(ctx, merchant))

	got, err := repos.MerchantRepo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Imported", got.Name)
}

func TestTransactionManager(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db, testLogger())
	repos := NewRepositoryContainer(db, testLogger())
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := tm.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.RepositoryContainer) error {
		require.NoError(t, tx.MerchantRepo.Create(ctx, models.NewMerchant("Rolled Back")))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	count, err := repos.MerchantRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	err = tm.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.RepositoryContainer) error {
		return tx.MerchantRepo.Create(ctx, models.NewMerchant("Committed"))
	})
	require.NoError(t, err)

	count, err = repos.MerchantRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLedgerRepository_DriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos := NewRepositoryContainer(db, testLogger())
	ctx := context.Background()
	driverErr := errors.New("database is locked")

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(ii.unit_price \\* ii.quantity\\), 0\\)").
		WithArgs(int64(1)).
		WillReturnError(driverErr)

	merchantID := int64(1)
	_, err = repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &merchantID})
	var repoErr *repositories.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "successful_revenue", repoErr.Op)
	assert.ErrorIs(t, err, driverErr)

	mock.ExpectQuery("FROM merchants m").WillReturnError(driverErr)
	_, err = repos.LedgerRepo.MerchantTotals(ctx)
	assert.ErrorIs(t, err, driverErr)

	mock.ExpectQuery("FROM customers c").WithArgs(int64(1)).WillReturnError(driverErr)
	_, err = repos.LedgerRepo.CustomerSuccessCounts(ctx, 1)
	assert.ErrorIs(t, err, driverErr)

	mock.ExpectQuery("FROM customers").WithArgs(int64(1)).WillReturnError(driverErr)
	_, err = repos.LedgerRepo.CustomersWithPendingInvoices(ctx, 1)
	assert.ErrorIs(t, err, driverErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ScansAggregates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos := NewRepositoryContainer(db, testLogger())
	ctx := context.Background()
	created := time.Date(2012, time.March, 27, 14, 53, 59, 0, time.UTC)

	mock.ExpectQuery("FROM merchants m").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at", "revenue", "quantity"}).
			AddRow(int64(1), "Schroeder-Jerde", created, created, int64(2000000), int64(200)).
			AddRow(int64(2), "Klein, Rempel and Jones", created, created, int64(0), int64(0)),
	)

	totals, err := repos.LedgerRepo.MerchantTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "20000.0", totals[0].Revenue.String())
	assert.Equal(t, int64(200), totals[0].Quantity)
	assert.Equal(t, models.Money(0), totals[1].Revenue)

	mock.ExpectQuery("FROM customers c").WithArgs(int64(1)).WillReturnRows(
		sqlmock.NewRows([]string{"id", "first_name", "last_name", "created_at", "updated_at", "successes"}).
			AddRow(int64(5), "Cecelia", "Osinski", created, created, int64(4)),
	)

	activity, err := repos.LedgerRepo.CustomerSuccessCounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, int64(4), activity[0].SuccessfulTransactions)
	assert.Equal(t, "Cecelia Osinski", activity[0].Customer.GetDisplayName())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_DriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMerchantRepository(db, testLogger())
	ctx := context.Background()
	driverErr := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM merchants WHERE id = \\?").
		WithArgs(int64(3)).
		WillReturnError(driverErr)
	_, err = repo.GetByID(ctx, 3)
	assert.ErrorIs(t, err, driverErr)
	assert.False(t, repositories.IsNotFound(err))

	mock.ExpectQuery("SELECT id, name, created_at, updated_at FROM merchants WHERE id = \\?").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))
	_, err = repo.GetByID(ctx, 4)
	assert.True(t, repositories.IsNotFound(err))

	mock.ExpectQuery("SELECT 1 FROM merchants WHERE id = \\? LIMIT 1").
		WithArgs(int64(5)).
		WillReturnError(driverErr)
	_, err = repo.Exists(ctx, 5)
	assert.ErrorIs(t, err, driverErr)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM merchants").WillReturnError(driverErr)
	_, err = repo.Count(ctx)
	assert.ErrorIs(t, err, driverErr)

	mock.ExpectExec("INSERT INTO merchants").WillReturnError(driverErr)
	err = repo.Create(ctx, models.NewMerchant("Unwritable"))
	assert.ErrorIs(t, err, driverErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
