// Package memory is an in-memory ledger store. It backs tests and local runs and evaluates the
// ledger aggregates in Go instead of SQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// table holds the rows of one entity keyed by ID
type table[T any] struct {
	rows   map[int64]T
	nextID int64
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[int64]T)}
}

func (t table[T]) clone() table[T] {
	rows := make(map[int64]T, len(t.rows))
	for id, row := range t.rows {
		rows[id] = row
	}
	return table[T]{rows: rows, nextID: t.nextID}
}

// sorted returns the rows ordered by ID
func (t table[T]) sorted() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]T, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, t.rows[id])
	}
	return rows
}

// assign picks the ID for a new row. A caller-supplied ID is kept when free.
func (t *table[T]) assign(id int64) (int64, error) {
	if id > 0 {
		if _, taken := t.rows[id]; taken {
			return 0, repositories.ErrDuplicateEntry
		}
		if id > t.nextID {
			t.nextID = id
		}
		return id, nil
	}
	t.nextID++
	return t.nextID, nil
}

// state is the full ledger; rows are stored by value so readers get copies
type state struct {
	merchants    table[models.Merchant]
	customers    table[models.Customer]
	items        table[models.Item]
	invoices     table[models.Invoice]
	invoiceItems table[models.InvoiceItem]
	transactions table[models.Transaction]
}

func newState() *state {
	return &state{
		merchants:    newTable[models.Merchant](),
		customers:    newTable[models.Customer](),
		items:        newTable[models.Item](),
		invoices:     newTable[models.Invoice](),
		invoiceItems: newTable[models.InvoiceItem](),
		transactions: newTable[models.Transaction](),
	}
}

func (s *state) clone() *state {
	return &state{
		merchants:    s.merchants.clone(),
		customers:    s.customers.clone(),
		items:        s.items.clone(),
		invoices:     s.invoices.clone(),
		invoiceItems: s.invoiceItems.clone(),
		transactions: s.transactions.clone(),
	}
}

// Store is a thread-safe in-memory ledger
type Store struct {
	mu     sync.RWMutex
	data   *state
	logger *logrus.Logger
}

// NewStore creates an empty in-memory ledger
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		data:   newState(),
		logger: logger,
	}
}

// Repositories returns repositories reading and writing this store
func (s *Store) Repositories() *repositories.RepositoryContainer {
	return &repositories.RepositoryContainer{
		MerchantRepo:    &MerchantRepository{s},
		CustomerRepo:    &CustomerRepository{s},
		ItemRepo:        &ItemRepository{s},
		InvoiceRepo:     &InvoiceRepository{s},
		InvoiceItemRepo: &InvoiceItemRepository{s},
		TransactionRepo: &TransactionRepository{s},
		LedgerRepo:      &LedgerRepository{s},
	}
}

// WithinTransaction runs fn against a staged copy of the ledger and publishes the copy only when
// fn succeeds. The store is locked for the whole unit of work.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.RepositoryContainer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &Store{data: s.data.clone(), logger: s.logger}
	if err := fn(ctx, staged.Repositories()); err != nil {
		s.logger.WithError(err).Debug("Discarding staged ledger changes")
		return err
	}

	s.data = staged.data
	return nil
}

func (s *Store) read(fn func(data *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(data *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

var _ repositories.Transactor = (*Store)(nil)
