package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const transactionColumns = "id, invoice_id, credit_card_number, result, created_at, updated_at"

// TransactionRepository implements the TransactionRepository interface for SQLite
type TransactionRepository struct {
	*BaseRepository[models.Transaction]
}

// NewTransactionRepository creates a new SQLite transaction repository
func NewTransactionRepository(db DBTX, logger *logrus.Logger) repositories.TransactionRepository {
	return &TransactionRepository{
		BaseRepository: NewBaseRepository(db, "transactions", "transaction", transactionColumns, scanTransaction, logger),
	}
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	err := row.Scan(
		&transaction.ID,
		&transaction.InvoiceID,
		&transaction.CreditCardNumber,
		&transaction.Result,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Create creates a new transaction. The result is stored lower-cased.
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return repositories.ValidationError("transaction", err)
	}

	transaction.CreatedAt = utc(transaction.CreatedAt)
	transaction.UpdatedAt = utc(transaction.UpdatedAt)

	query := `
		INSERT INTO transactions (invoice_id, credit_card_number, result, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	if transaction.ID > 0 {
		query = `
		INSERT INTO transactions (invoice_id, credit_card_number, result, created_at, updated_at, id)
		VALUES (?, ?, ?, ?, ?, ?)`
	}

	id, err := r.insert(ctx, query, withID(transaction.ID,
		transaction.InvoiceID,
		transaction.CreditCardNumber,
		string(transaction.Result),
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)...)
	if err != nil {
		return err
	}

	transaction.ID = id
	return nil
}

// GetByInvoiceID retrieves the payment attempts of an invoice
func (r *TransactionRepository) GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*models.Transaction, error) {
	return r.selectWhere(ctx, "get_by_invoice_id", "WHERE invoice_id = ?", []interface{}{invoiceID})
}
