package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const invoiceItemColumns = "id, invoice_id, item_id, unit_price, quantity, created_at, updated_at"

// InvoiceItemRepository implements the InvoiceItemRepository interface for SQLite
type InvoiceItemRepository struct {
	*BaseRepository[models.InvoiceItem]
}

// NewInvoiceItemRepository creates a new SQLite invoice item repository
func NewInvoiceItemRepository(db DBTX, logger *logrus.Logger) repositories.InvoiceItemRepository {
	return &InvoiceItemRepository{
		BaseRepository: NewBaseRepository(db, "invoice_items", "invoice_item", invoiceItemColumns, scanInvoiceItem, logger),
	}
}

func scanInvoiceItem(row rowScanner) (*models.InvoiceItem, error) {
	invoiceItem := &models.InvoiceItem{}
	err := row.Scan(
		&invoiceItem.ID,
		&invoiceItem.InvoiceID,
		&invoiceItem.ItemID,
		&invoiceItem.UnitPrice,
		&invoiceItem.Quantity,
		&invoiceItem.CreatedAt,
		&invoiceItem.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return invoiceItem, nil
}

// Create creates a new invoice item
func (r *InvoiceItemRepository) Create(ctx context.Context, invoiceItem *models.InvoiceItem) error {
	if err := invoiceItem.Validate(); err != nil {
		return repositories.ValidationError("invoice_item", err)
	}

	invoiceItem.CreatedAt = utc(invoiceItem.CreatedAt)
	invoiceItem.UpdatedAt = utc(invoiceItem.UpdatedAt)

	query := `
		INSERT INTO invoice_items (invoice_id, item_id, unit_price, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if invoiceItem.ID > 0 {
		query = `
		INSERT INTO invoice_items (invoice_id, item_id, unit_price, quantity, created_at, updated_at, id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	}

	id, err := r.insert(ctx, query, withID(invoiceItem.ID,
		invoiceItem.InvoiceID,
		invoiceItem.ItemID,
		invoiceItem.UnitPrice.Minor(),
		invoiceItem.Quantity,
		invoiceItem.CreatedAt,
		invoiceItem.UpdatedAt,
	)...)
	if err != nil {
		return err
	}

	invoiceItem.ID = id
	return nil
}

// Find retrieves invoice items matching every supplied filter
func (r *InvoiceItemRepository) Find(ctx context.Context, filters models.InvoiceItemFilters) ([]*models.InvoiceItem, error) {
	var c conditions
	if filters.ID != nil {
		c.add("id = ?", *filters.ID)
	}
	if filters.InvoiceID != nil {
		c.add("invoice_id = ?", *filters.InvoiceID)
	}
	if filters.ItemID != nil {
		c.add("item_id = ?", *filters.ItemID)
	}
	if filters.Quantity != nil {
		c.add("quantity = ?", *filters.Quantity)
	}
	if filters.UnitPrice != nil {
		c.add("unit_price = ?", filters.UnitPrice.Minor())
	}
	c.addDate("created_at", filters.CreatedAt)
	c.addDate("updated_at", filters.UpdatedAt)

	return r.selectWhere(ctx, "find", c.where(), c.args)
}

// GetByInvoiceID retrieves the lines of an invoice
func (r *InvoiceItemRepository) GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*models.InvoiceItem, error) {
	return r.selectWhere(ctx, "get_by_invoice_id", "WHERE invoice_id = ?", []interface{}{invoiceID})
}
