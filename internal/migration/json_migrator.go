package migration

import (
	"context"
	"encoding/json"
	"fmt"

	"merchant-bi-api/internal/adapters/storage"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Ledger is what the migrator writes to: a store that can report row counts and run a
// unit of work atomically
type Ledger interface {
	repositories.Transactor
	Repositories() *repositories.RepositoryContainer
}

type ledger struct {
	repositories.Transactor
	repos *repositories.RepositoryContainer
}

func (l ledger) Repositories() *repositories.RepositoryContainer {
	return l.repos
}

// NewLedger pairs a store's repositories with the transactor that writes to the same store
func NewLedger(repos *repositories.RepositoryContainer, transactor repositories.Transactor) Ledger {
	return ledger{Transactor: transactor, repos: repos}
}

// JSONMigrator loads a JSON ledger export into the ledger store
type JSONMigrator struct {
	source storage.Source
	ledger Ledger
	logger *logrus.Logger
}

// NewJSONMigrator creates a new JSON migrator
func NewJSONMigrator(source storage.Source, ledger Ledger, logger *logrus.Logger) *JSONMigrator {
	if logger == nil {
		logger = logrus.New()
	}
	return &JSONMigrator{
		source: source,
		ledger: ledger,
		logger: logger,
	}
}

// MigrationResult contains the results of the migration
type MigrationResult struct {
	MerchantsProcessed    int
	CustomersProcessed    int
	ItemsProcessed        int
	InvoicesProcessed     int
	InvoiceItemsProcessed int
	TransactionsProcessed int
	Warnings              []string
}

// Processed returns the number of rows imported from file
func (r *MigrationResult) Processed(file string) int {
	switch file {
	case MerchantsFile:
		return r.MerchantsProcessed
	case CustomersFile:
		return r.CustomersProcessed
	case ItemsFile:
		return r.ItemsProcessed
	case InvoicesFile:
		return r.InvoicesProcessed
	case InvoiceItemsFile:
		return r.InvoiceItemsProcessed
	case TransactionsFile:
		return r.TransactionsProcessed
	default:
		return 0
	}
}

func (r *MigrationResult) warn(logger *logrus.Logger, file string, id int64, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"file": file,
		"id":   id,
	}).Warn("Invalid record, skipping")
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: record %d skipped: %v", file, id, err))
}

// MigrateFromJSON imports every export file inside one transaction. Records that fail
// validation are skipped with a warning. A store failure, such as a reference to a row that
// was never imported, rolls the whole import back.
func (m *JSONMigrator) MigrateFromJSON(ctx context.Context) (*MigrationResult, error) {
	m.logger.Info("Starting JSON ledger import...")

	result := &MigrationResult{Warnings: make([]string, 0)}

	err := m.ledger.WithinTransaction(ctx, func(ctx context.Context, repos *repositories.RepositoryContainer) error {
		var err error
		if result.MerchantsProcessed, err = importFile(ctx, m, MerchantsFile, JSONMerchant.toModel, repos.MerchantRepo.Create, result); err != nil {
			return err
		}
		if result.CustomersProcessed, err = importFile(ctx, m, CustomersFile, JSONCustomer.toModel, repos.CustomerRepo.Create, result); err != nil {
			return err
		}
		if result.ItemsProcessed, err = importFile(ctx, m, ItemsFile, JSONItem.toModel, repos.ItemRepo.Create, result); err != nil {
			return err
		}
		if result.InvoicesProcessed, err = importFile(ctx, m, InvoicesFile, JSONInvoice.toModel, repos.InvoiceRepo.Create, result); err != nil {
			return err
		}
		if result.InvoiceItemsProcessed, err = importFile(ctx, m, InvoiceItemsFile, JSONInvoiceItem.toModel, repos.InvoiceItemRepo.Create, result); err != nil {
			return err
		}
		result.TransactionsProcessed, err = importFile(ctx, m, TransactionsFile, JSONTransaction.toModel, repos.TransactionRepo.Create, result)
		return err
	})
	if err != nil {
		return result, fmt.Errorf("ledger import failed: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"merchants":     result.MerchantsProcessed,
		"customers":     result.CustomersProcessed,
		"items":         result.ItemsProcessed,
		"invoices":      result.InvoicesProcessed,
		"invoice_items": result.InvoiceItemsProcessed,
		"transactions":  result.TransactionsProcessed,
		"warnings":      len(result.Warnings),
	}).Info("JSON ledger import completed successfully")

	return result, nil
}

// record is implemented by the JSON export types
type record interface {
	JSONMerchant | JSONCustomer | JSONItem | JSONInvoice | JSONInvoiceItem | JSONTransaction
}

// importFile decodes one export file and creates a row per valid record. A missing file is
// skipped.
func importFile[R record, M any](
	ctx context.Context,
	m *JSONMigrator,
	file string,
	convert func(R) (*M, error),
	create func(context.Context, *M) error,
	result *MigrationResult,
) (int, error) {
	records, found, err := m.load(ctx, file)
	if err != nil || !found {
		return 0, err
	}

	var rows []R
	if err := json.Unmarshal(records, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal %s: %w", file, err)
	}

	count := 0
	for i, row := range rows {
		model, err := convert(row)
		if err != nil {
			result.warn(m.logger, file, recordID(row, i), err)
			continue
		}
		if err := create(ctx, model); err != nil {
			return count, fmt.Errorf("failed to import %s record %d: %w", file, recordID(row, i), err)
		}
		count++
	}

	m.logger.WithFields(logrus.Fields{"file": file, "count": count}).Info("Export file imported")
	return count, nil
}

// recordID returns the exported id, or the 1-based position when the record has none
func recordID[R record](row R, index int) int64 {
	var id int64
	switch r := any(row).(type) {
	case JSONMerchant:
		id = r.ID
	case JSONCustomer:
		id = r.ID
	case JSONItem:
		id = r.ID
	case JSONInvoice:
		id = r.ID
	case JSONInvoiceItem:
		id = r.ID
	case JSONTransaction:
		id = r.ID
	}
	if id == 0 {
		return int64(index + 1)
	}
	return id
}

// load reads an export file, reporting whether it exists
func (m *JSONMigrator) load(ctx context.Context, file string) ([]byte, bool, error) {
	data, err := m.source.Retrieve(ctx, file)
	if err != nil {
		if storage.IsNotFound(err) {
			m.logger.WithField("file", file).Warn("Export file not found, skipping")
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, true, nil
}

// CheckJSONFilesExist reports which export files are present
func (m *JSONMigrator) CheckJSONFilesExist(ctx context.Context) (bool, []string, error) {
	existing := make([]string, 0, len(LedgerFiles))
	for _, file := range LedgerFiles {
		exists, err := m.source.Exists(ctx, file)
		if err != nil {
			return false, nil, fmt.Errorf("failed to check %s: %w", file, err)
		}
		if exists {
			existing = append(existing, file)
		}
	}
	return len(existing) > 0, existing, nil
}

// TableCount compares the rows in one export file with the rows in the store
type TableCount struct {
	File     string
	Exported int
	Stored   int64
}

// Matches reports whether every exported record is in the store
func (c TableCount) Matches() bool {
	return int64(c.Exported) == c.Stored
}

// ValidateMigration compares row counts in the store against the export files. It returns
// the per-file counts and an error naming every file whose counts differ.
func (m *JSONMigrator) ValidateMigration(ctx context.Context) ([]TableCount, error) {
	m.logger.Info("Validating import results...")

	repos := m.ledger.Repositories()
	counters := map[string]func(context.Context) (int64, error){
		MerchantsFile:    repos.MerchantRepo.Count,
		CustomersFile:    repos.CustomerRepo.Count,
		ItemsFile:        repos.ItemRepo.Count,
		InvoicesFile:     repos.InvoiceRepo.Count,
		InvoiceItemsFile: repos.InvoiceItemRepo.Count,
		TransactionsFile: repos.TransactionRepo.Count,
	}

	counts := make([]TableCount, 0, len(LedgerFiles))
	var mismatched []string
	for _, file := range LedgerFiles {
		data, found, err := m.load(ctx, file)
		if err != nil {
			return nil, err
		}

		exported := 0
		if found {
			var rows []json.RawMessage
			if err := json.Unmarshal(data, &rows); err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s: %w", file, err)
			}
			exported = len(rows)
		}

		stored, err := counters[file](ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows for %s: %w", file, err)
		}

		count := TableCount{File: file, Exported: exported, Stored: stored}
		counts = append(counts, count)
		if !count.Matches() {
			mismatched = append(mismatched, fmt.Sprintf("%s (exported %d, stored %d)", file, exported, stored))
		}

		m.logger.WithFields(logrus.Fields{
			"file":     file,
			"exported": exported,
			"stored":   stored,
		}).Info("Import validation")
	}

	if len(mismatched) > 0 {
		return counts, fmt.Errorf("row counts differ: %v", mismatched)
	}
	return counts, nil
}
