package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const invoiceColumns = "id, merchant_id, customer_id, status, created_at, updated_at"

// InvoiceRepository implements the InvoiceRepository interface for SQLite
type InvoiceRepository struct {
	*BaseRepository[models.Invoice]
}

// NewInvoiceRepository creates a new SQLite invoice repository
func NewInvoiceRepository(db DBTX, logger *logrus.Logger) repositories.InvoiceRepository {
	return &InvoiceRepository{
		BaseRepository: NewBaseRepository(db, "invoices", "invoice", invoiceColumns, scanInvoice, logger),
	}
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(
		&invoice.ID,
		&invoice.MerchantID,
		&invoice.CustomerID,
		&invoice.Status,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// Create creates a new invoice
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return repositories.ValidationError("invoice", err)
	}

	invoice.CreatedAt = utc(invoice.CreatedAt)
	invoice.UpdatedAt = utc(invoice.UpdatedAt)

	query := `
		INSERT INTO invoices (merchant_id, customer_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	if invoice.ID > 0 {
		query = `
		INSERT INTO invoices (merchant_id, customer_id, status, created_at, updated_at, id)
		VALUES (?, ?, ?, ?, ?, ?)`
	}

	id, err := r.insert(ctx, query, withID(invoice.ID,
		invoice.MerchantID,
		invoice.CustomerID,
		string(invoice.Status),
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)...)
	if err != nil {
		return err
	}

	invoice.ID = id
	return nil
}

// GetByMerchantID retrieves a merchant's invoices
func (r *InvoiceRepository) GetByMerchantID(ctx context.Context, merchantID int64) ([]*models.Invoice, error) {
	return r.selectWhere(ctx, "get_by_merchant_id", "WHERE merchant_id = ?", []interface{}{merchantID})
}
