package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"
	"merchant-bi-api/internal/repositories/repotest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repositories.RepositoryContainer {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return NewStore(logger).Repositories()
}

func TestLedgerRepository(t *testing.T) {
	repotest.RunLedgerReaderSuite(t, newTestStore)
}

func TestEntityRepositories(t *testing.T) {
	repotest.RunEntitySuite(t, newTestStore)
}

func TestStore_RejectsDanglingReferences(t *testing.T) {
	repos := newTestStore(t)
	ctx := context.Background()

	err := repos.InvoiceRepo.Create(ctx, models.NewInvoice(77, 88, models.InvoiceStatusShipped))
	assert.True(t, repositories.IsConstraint(err))

	merchant := models.NewMerchant("Original")
	require.NoError(t, repos.MerchantRepo.Create(ctx, merchant))

	duplicate := models.NewMerchant("Copy")
	duplicate.ID = merchant.ID
	assert.ErrorIs(t, repos.MerchantRepo.Create(ctx, duplicate), repositories.ErrDuplicateEntry)
}

func TestStore_ReturnsCopies(t *testing.T) {
	repos := newTestStore(t)
	ctx := context.Background()

	merchant := models.NewMerchant("Immutable")
	require.NoError(t, repos.MerchantRepo.Create(ctx, merchant))

	got, err := repos.MerchantRepo.GetByID(ctx, merchant.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := repos.MerchantRepo.GetByID(ctx, merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Immutable", again.Name)
}

func TestStore_WithinTransaction(t *testing.T) {
	store := NewStore(nil)
	repos := store.Repositories()
	ctx := context.Background()

	errAbort := errors.New("abort")
	err := store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.RepositoryContainer) error {
		require.NoError(t, tx.MerchantRepo.Create(ctx, models.NewMerchant("Rolled Back")))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	count, _ := repos.MerchantRepo.Count(ctx)
	assert.Equal(t, int64(0), count)

	err = store.WithinTransaction(ctx, func(ctx context.Context, tx *repositories.RepositoryContainer) error {
		return tx.MerchantRepo.Create(ctx, models.NewMerchant("Committed"))
	})
	require.NoError(t, err)

	count, _ = repos.MerchantRepo.Count(ctx)
	assert.Equal(t, int64(1), count)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	repos := newTestStore(t)
	ds := repotest.SeedDataset(t, repos)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			revenue, err := repos.LedgerRepo.SuccessfulRevenue(ctx, repositories.RevenueFilter{MerchantID: &ds.Merchant.ID})
			assert.NoError(t, err)
			assert.Equal(t, repotest.MerchantRevenue, revenue)
		}()
	}
	wg.Wait()
}
