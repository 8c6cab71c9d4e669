package migration

import (
	"context"
	"path/filepath"
	"testing"

	"merchant-bi-api/internal/adapters/storage"
	"merchant-bi-api/internal/database"
	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"
	"merchant-bi-api/internal/repositories/memory"
	"merchant-bi-api/internal/repositories/sqlite"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

var ledgerExport = map[string]string{
	MerchantsFile: `[
		{"id": 1, "name": "Schroeder-Jerde", "created_at": "2012-03-27 14:53:59 UTC", "updated_at": "2012-03-27 14:53:59 UTC"},
		{"id": 2, "name": "Klein, Rempel and Jones", "created_at": "2012-03-27T14:53:59Z"}
	]`,
	CustomersFile: `[
		{"id": 1, "first_name": "Joey", "last_name": "Ondricka", "created_at": "2012-03-27 14:54:09 UTC"},
		{"id": 2, "first_name": "Cecelia", "last_name": "Osinski"}
	]`,
	ItemsFile: `[
		{"id": 4, "merchant_id": 1, "name": "Item Nemo Facere", "description": "Sunt eum id eius", "unit_price": "751.07"},
		{"id": 5, "merchant_id": 2, "name": "Item Expedita Aliquam", "unit_price": 687.23}
	]`,
	InvoicesFile: `[
		{"id": 1, "merchant_id": 1, "customer_id": 1, "status": "shipped", "created_at": "2012-03-25 09:54:09 UTC"},
		{"id": 2, "merchant_id": 1, "customer_id": 2, "status": "Shipped", "created_at": "2012-03-12 05:54:09 UTC"},
		{"id": 3, "merchant_id": 2, "customer_id": 2, "status": "shipped", "created_at": "2012-03-25 09:54:09 UTC"}
	]`,
	InvoiceItemsFile: `[
		{"id": 1, "invoice_id": 1, "item_id": 4, "quantity": 5, "unit_price": "136.35", "created_at": "2012-03-27 14:54:09 UTC"},
		{"id": 2, "invoice_id": 2, "item_id": 4, "quantity": 9, "unit_price": 233.24},
		{"id": 3, "invoice_id": 3, "item_id": 5, "quantity": 2, "unit_price": "100"}
	]`,
	TransactionsFile: `[
		{"id": 1, "invoice_id": 1, "credit_card_number": 4654405418249632, "result": "SUCCESS"},
		{"id": 2, "invoice_id": 2, "credit_card_number": "4580251236515201", "result": "failed"},
		{"id": 3, "invoice_id": 3, "credit_card_number": "4354495077693036", "result": " success "}
	]`,
}

func exportSource(files map[string]string) *storage.MemorySource {
	source := storage.NewMemorySource()
	for name, content := range files {
		source.Put(name, []byte(content))
	}
	return source
}

func withFile(name, content string) map[string]string {
	files := make(map[string]string, len(ledgerExport))
	for k, v := range ledgerExport {
		files[k] = v
	}
	files[name] = content
	return files
}

func TestMigrateFromJSON(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(testLogger())
	migrator := NewJSONMigrator(exportSource(ledgerExport), store, testLogger())

	result, err := migrator.MigrateFromJSON(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.MerchantsProcessed)
	assert.Equal(t, 2, result.CustomersProcessed)
	assert.Equal(t, 2, result.ItemsProcessed)
	assert.Equal(t, 3, result.InvoicesProcessed)
	assert.Equal(t, 3, result.InvoiceItemsProcessed)
	assert.Equal(t, 3, result.TransactionsProcessed)
	assert.Equal(t, 3, result.Processed(InvoicesFile))
	assert.Empty(t, result.Warnings)

	repos := store.Repositories()

	merchant, err := repos.MerchantRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Schroeder-Jerde", merchant.Name)
	assert.Equal(t, models.Date{Year: 2012, Month: 3, Day: 27}, models.NewDate(merchant.CreatedAt))

	item, err := repos.ItemRepo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.Money(68723), item.UnitPrice)

	transaction, err := repos.TransactionRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionResultSuccess, transaction.Result)
	assert.Equal(t, "4654405418249632", transaction.CreditCardNumber)

	invoice, err := repos.InvoiceRepo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusShipped, invoice.Status)

	merchantID := int64(1)
	revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &merchantID})
	require.NoError(t, err)
	assert.Equal(t, "681.75", revenue.String())

	counts, err := migrator.ValidateMigration(ctx)
	require.NoError(t, err)
	require.Len(t, counts, len(LedgerFiles))
	for _, count := range counts {
		assert.True(t, count.Matches(), count.File)
	}
}

func TestMigrateFromJSON_SkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(testLogger())

	files := withFile(TransactionsFile, `[
		{"id": 1, "invoice_id": 1, "result": "success"},
		{"id": 2, "invoice_id": 2, "result": "refunded"},
		{"id": 3, "invoice_id": 3, "result": "failed", "created_at": "last tuesday"}
	]`)
	migrator := NewJSONMigrator(exportSource(files), store, testLogger())

	result, err := migrator.MigrateFromJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TransactionsProcessed)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "record 2")

	counts, err := migrator.ValidateMigration(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), TransactionsFile)
	for _, count := range counts {
		if count.File == TransactionsFile {
			assert.Equal(t, 3, count.Exported)
			assert.Equal(t, int64(1), count.Stored)
		}
	}
}

func TestMigrateFromJSON_RollsBackOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(testLogger())

	files := withFile(InvoiceItemsFile, `[
		{"id": 1, "invoice_id": 1, "item_id": 4, "quantity": 5, "unit_price": "136.35"},
		{"id": 2, "invoice_id": 1, "item_id": 99, "quantity": 1, "unit_price": "1.00"}
	]`)
	migrator := NewJSONMigrator(exportSource(files), store, testLogger())

	_, err := migrator.MigrateFromJSON(ctx)
	require.Error(t, err)
	assert.True(t, repositories.IsConstraint(err))

	count, err := store.Repositories().MerchantRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMigrateFromJSON_MissingFilesAreSkipped(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(testLogger())
	source := exportSource(map[string]string{MerchantsFile: ledgerExport[MerchantsFile]})
	migrator := NewJSONMigrator(source, store, testLogger())

	exists, files, err := migrator.CheckJSONFilesExist(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []string{MerchantsFile}, files)

	result, err := migrator.MigrateFromJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.MerchantsProcessed)
	assert.Zero(t, result.TransactionsProcessed)

	_, err = migrator.ValidateMigration(ctx)
	assert.NoError(t, err)
}

func TestMigrateFromJSON_MalformedFile(t *testing.T) {
	store := memory.NewStore(testLogger())
	migrator := NewJSONMigrator(exportSource(withFile(ItemsFile, `{"id": 4}`)), store, testLogger())

	_, err := migrator.MigrateFromJSON(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ItemsFile)
}

func TestCheckJSONFilesExist_Empty(t *testing.T) {
	migrator := NewJSONMigrator(storage.NewMemorySource(), memory.NewStore(nil), nil)

	exists, files, err := migrator.CheckJSONFilesExist(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, files)
}

func TestMigrateFromJSON_SQLite(t *testing.T) {
	ctx := context.Background()

	config := database.DefaultConnectionConfig()
	config.DatabasePath = filepath.Join(t.TempDir(), "ledger.db")
	config.Logger = testLogger()
	cm := database.NewConnectionManager(config)
	require.NoError(t, cm.Connect())
	t.Cleanup(func() { cm.Close() })

	db := cm.GetDB()
	ledger := NewLedger(sqlite.NewRepositoryContainer(db, testLogger()), sqlite.NewTransactionManager(db, testLogger()))

	t.Run("rolls back", func(t *testing.T) {
		files := withFile(TransactionsFile, `[{"id": 1, "invoice_id": 42, "result": "success"}]`)
		_, err := NewJSONMigrator(exportSource(files), ledger, testLogger()).MigrateFromJSON(ctx)
		require.Error(t, err)

		count, err := ledger.Repositories().InvoiceRepo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("imports", func(t *testing.T) {
		migrator := NewJSONMigrator(exportSource(ledgerExport), ledger, testLogger())
		_, err := migrator.MigrateFromJSON(ctx)
		require.NoError(t, err)

		_, err = migrator.ValidateMigration(ctx)
		require.NoError(t, err)

		date := models.Date{Year: 2012, Month: 3, Day: 25}
		total, err := ledger.Repositories().LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{Date: &date})
		require.NoError(t, err)
		// invoice 1 (681.75) and invoice 3 (200.00) were paid on the 25th
		assert.Equal(t, "881.75", total.String())
	})
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"2012-03-27 14:54:09 UTC", "2012-03-27T14:54:09Z"},
		{"2012-03-27T14:54:09.000Z", "2012-03-27T14:54:09Z"},
		{"2012-03-27 22:54:09 +0800", "2012-03-27T14:54:09Z"},
		{"2012-03-27", "2012-03-27T00:00:00Z"},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got.Format("2006-01-02T15:04:05Z07:00"), tt.value)
	}

	zero, err := parseTimestamp("  ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = parseTimestamp("soon")
	assert.Error(t, err)

	_, err = parseTimestamp("2012-03-27 14:54:09 PST")
	assert.Error(t, err, "named zones other than UTC carry no offset")
}
