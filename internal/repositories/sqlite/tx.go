package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// TransactionManager runs units of work inside a SQLite transaction
type TransactionManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewTransactionManager creates a new SQLite transaction manager
func NewTransactionManager(db *sql.DB, logger *logrus.Logger) repositories.Transactor {
	if logger == nil {
		logger = logrus.New()
	}
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// WithinTransaction executes fn with repositories bound to one transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (tm *TransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.RepositoryContainer) error) error {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		tm.logger.WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, NewRepositoryContainer(tx, tm.logger)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			tm.logger.WithError(rollbackErr).Error("Failed to rollback transaction after error")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		tm.logger.WithError(err).Error("Failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	tm.logger.Debug("Transaction committed successfully")
	return nil
}
