package sqlite

import (
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// NewRepositoryContainer wires every SQLite ledger repository over the same connection or transaction
func NewRepositoryContainer(db DBTX, logger *logrus.Logger) *repositories.RepositoryContainer {
	if logger == nil {
		logger = logrus.New()
	}
	return &repositories.RepositoryContainer{
		MerchantRepo:    NewMerchantRepository(db, logger),
		CustomerRepo:    NewCustomerRepository(db, logger),
		ItemRepo:        NewItemRepository(db, logger),
		InvoiceRepo:     NewInvoiceRepository(db, logger),
		InvoiceItemRepo: NewInvoiceItemRepository(db, logger),
		TransactionRepo: NewTransactionRepository(db, logger),
		LedgerRepo:      NewLedgerRepository(db, logger),
	}
}
