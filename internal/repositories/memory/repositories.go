package memory

import (
	"context"
	"fmt"
	"time"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"
)

func getByID[T any](s *Store, entity string, id int64, pick func(*state) *table[T]) (*T, error) {
	if id <= 0 {
		return nil, repositories.NewRepositoryError("validate", entity, id, repositories.ErrInvalidID)
	}

	var row T
	var ok bool
	s.read(func(data *state) {
		row, ok = pick(data).rows[id]
	})
	if !ok {
		return nil, repositories.NotFoundError(entity, id)
	}
	return &row, nil
}

func list[T any](s *Store, pick func(*state) *table[T], keep func(*T) bool) []*T {
	result := make([]*T, 0)
	s.read(func(data *state) {
		for _, row := range pick(data).sorted() {
			row := row
			if keep == nil || keep(&row) {
				result = append(result, &row)
			}
		}
	})
	return result
}

func count[T any](s *Store, pick func(*state) *table[T]) int64 {
	var n int64
	s.read(func(data *state) {
		n = int64(len(pick(data).rows))
	})
	return n
}

func exists[T any](s *Store, id int64, pick func(*state) *table[T]) bool {
	var ok bool
	s.read(func(data *state) {
		_, ok = pick(data).rows[id]
	})
	return ok
}

// insert stores a copy of row under a new or caller-supplied ID after checking its references
func insert[T any](s *Store, entity string, id *int64, row *T, pick func(*state) *table[T], references func(*state) error) error {
	return s.write(func(data *state) error {
		if references != nil {
			if err := references(data); err != nil {
				return repositories.ConstraintError(entity, "FOREIGN KEY", err)
			}
		}

		t := pick(data)
		assigned, err := t.assign(*id)
		if err != nil {
			return repositories.NewRepositoryError("create", entity, *id, err)
		}

		*id = assigned
		t.rows[assigned] = *row
		return nil
	})
}

func requireRow[T any](t *table[T], entity string, id int64) error {
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("%s %d does not exist", entity, id)
	}
	return nil
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func merchantsOf(data *state) *table[models.Merchant] { return &data.merchants }
func customersOf(data *state) *table[models.Customer] { return &data.customers }
func itemsOf(data *state) *table[models.Item] { return &data.items }
func invoicesOf(data *state) *table[models.Invoice] { return &data.invoices }
func invoiceItemsOf(data *state) *table[models.InvoiceItem] { return &data.invoiceItems }
func transactionsOf(data *state) *table[models.Transaction] { return &data.transactions }

// MerchantRepository implements the MerchantRepository interface in memory
type MerchantRepository struct{ store *Store }

func (r *MerchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	merchant.Name = models.SanitizeString(merchant.Name)
	if err := merchant.Validate(); err != nil {
		return repositories.ValidationError("merchant", err)
	}
	merchant.CreatedAt = utc(merchant.CreatedAt)
	merchant.UpdatedAt = utc(merchant.UpdatedAt)
	return insert(r.store, "merchant", &merchant.ID, merchant, merchantsOf, nil)
}

func (r *MerchantRepository) GetByID(ctx context.Context, id int64) (*models.Merchant, error) {
	return getByID(r.store, "merchant", id, merchantsOf)
}

func (r *MerchantRepository) List(ctx context.Context) ([]*models.Merchant, error) {
	return list(r.store, merchantsOf, nil), nil
}

func (r *MerchantRepository) Count(ctx context.Context) (int64, error) {
	return count(r.store, merchantsOf), nil
}

func (r *MerchantRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.store, id, merchantsOf), nil
}

func (r *MerchantRepository) Find(ctx context.Context, filters models.MerchantFilters) ([]*models.Merchant, error) {
	return list(r.store, merchantsOf, filters.Matches), nil
}

// CustomerRepository implements the CustomerRepository interface in memory
type CustomerRepository struct{ store *Store }

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := customer.Validate(); err != nil {
		return repositories.ValidationError("customer", err)
	}
	customer.CreatedAt = utc(customer.CreatedAt)
	customer.UpdatedAt = utc(customer.UpdatedAt)
	return insert(r.store, "customer", &customer.ID, customer, customersOf, nil)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	return getByID(r.store, "customer", id, customersOf)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	return list(r.store, customersOf, nil), nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	return count(r.store, customersOf), nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.store, id, customersOf), nil
}

// ItemRepository implements the ItemRepository interface in memory
type ItemRepository struct{ store *Store }

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := item.Validate(); err != nil {
		return repositories.ValidationError("item", err)
	}
	item.CreatedAt = utc(item.CreatedAt)
	item.UpdatedAt = utc(item.UpdatedAt)
	return insert(r.store, "item", &item.ID, item, itemsOf, func(data *state) error {
		return requireRow(&data.merchants, "merchant", item.MerchantID)
	})
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	return getByID(r.store, "item", id, itemsOf)
}

func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	return list(r.store, itemsOf, nil), nil
}

func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	return count(r.store, itemsOf), nil
}

func (r *ItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.store, id, itemsOf), nil
}

func (r *ItemRepository) GetByMerchantID(ctx context.Context, merchantID int64) ([]*models.Item, error) {
	return list(r.store, itemsOf, func(item *models.Item) bool {
		return item.MerchantID == merchantID
	}), nil
}

// InvoiceRepository implements the InvoiceRepository interface in memory
type InvoiceRepository struct{ store *Store }

func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return repositories.ValidationError("invoice", err)
	}
	invoice.CreatedAt = utc(invoice.CreatedAt)
	invoice.UpdatedAt = utc(invoice.UpdatedAt)
	return insert(r.store, "invoice", &invoice.ID, invoice, invoicesOf, func(data *state) error {
		if err := requireRow(&data.merchants, "merchant", invoice.MerchantID); err != nil {
			return err
		}
		return requireRow(&data.customers, "customer", invoice.CustomerID)
	})
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	return getByID(r.store, "invoice", id, invoicesOf)
}

func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	return list(r.store, invoicesOf, nil), nil
}

func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	return count(r.store, invoicesOf), nil
}

func (r *InvoiceRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.store, id, invoicesOf), nil
}

func (r *InvoiceRepository) GetByMerchantID(ctx context.Context, merchantID int64) ([]*models.Invoice, error) {
	return list(r.store, invoicesOf, func(invoice *models.Invoice) bool {
		return invoice.MerchantID == merchantID
	}), nil
}

// InvoiceItemRepository implements the InvoiceItemRepository interface in memory
type InvoiceItemRepository struct{ store *Store }

func (r *InvoiceItemRepository) Create(ctx context.Context, invoiceItem *models.InvoiceItem) error {
	if err := invoiceItem.Validate(); err != nil {
		return repositories.ValidationError("invoice_item", err)
	}
	invoiceItem.CreatedAt = utc(invoiceItem.CreatedAt)
	invoiceItem.UpdatedAt = utc(invoiceItem.UpdatedAt)
	return insert(r.store, "invoice_item", &invoiceItem.ID, invoiceItem, invoiceItemsOf, func(data *state) error {
		if err := requireRow(&data.invoices, "invoice", invoiceItem.InvoiceID); err != nil {
			return err
		}
		return requireRow(&data.items, "item", invoiceItem.ItemID)
	})
}

func (r *InvoiceItemRepository) GetByID(ctx context.Context, id int64) (*models.InvoiceItem, error) {
	return getByID(r.store, "invoice_item", id, invoiceItemsOf)
}

func (r *InvoiceItemRepository) List(ctx context.Context) ([]*models.InvoiceItem, error) {
	return list(r.store, invoiceItemsOf, nil), nil
}

func (r *InvoiceItemRepository) Count(ctx context.Context) (int64, error) {
	return count(r.store, invoiceItemsOf), nil
}

func (r *InvoiceItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.store, id, invoiceItemsOf), nil
}

func (r *InvoiceItemRepository) Find(ctx context.Context, filters models.InvoiceItemFilters) ([]*models.InvoiceItem, error) {
	return list(r.store, invoiceItemsOf, filters.Matches), nil
}

func (r *InvoiceItemRepository) GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*models.InvoiceItem, error) {
	return list(r.store, invoiceItemsOf, func(invoiceItem *models.InvoiceItem) bool {
		return invoiceItem.InvoiceID == invoiceID
	}), nil
}

// TransactionRepository implements the TransactionRepository interface in memory
type TransactionRepository struct{ store *Store }

func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return repositories.ValidationError("transaction", err)
	}
	transaction.CreatedAt = utc(transaction.CreatedAt)
	transaction.UpdatedAt = utc(transaction.UpdatedAt)
	return insert(r.store, "transaction", &transaction.ID, transaction, transactionsOf, func(data *state) error {
		return requireRow(&data.invoices, "invoice", transaction.InvoiceID)
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	return getByID(r.store, "transaction", id, transactionsOf)
}

func (r *TransactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	return list(r.store, transactionsOf, nil), nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return count(r.store, transactionsOf), nil
}

func (r *TransactionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(r.store, id, transactionsOf), nil
}

func (r *TransactionRepository) GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*models.Transaction, error) {
	return list(r.store, transactionsOf, func(transaction *models.Transaction) bool {
		return transaction.InvoiceID == invoiceID
	}), nil
}

var (
	_ repositories.MerchantRepository    = (*MerchantRepository)(nil)
	_ repositories.CustomerRepository    = (*CustomerRepository)(nil)
	_ repositories.ItemRepository        = (*ItemRepository)(nil)
	_ repositories.InvoiceRepository     = (*InvoiceRepository)(nil)
	_ repositories.InvoiceItemRepository = (*InvoiceItemRepository)(nil)
	_ repositories.TransactionRepository = (*TransactionRepository)(nil)
)
