package server

import (
	"context"
	"fmt"

	"merchant-bi-api/internal/adapters/storage"
	"merchant-bi-api/internal/migration"
)

// JSONMigrator returns an importer that writes the export in source into this container's ledger
func (c *Container) JSONMigrator(source storage.Source) *migration.JSONMigrator {
	return migration.NewJSONMigrator(source, migration.NewLedger(c.Repositories, c.Transactor), c.Logger)
}

// SeedFromExport imports the export in source when the ledger holds no merchants yet.
// It returns a nil result when the ledger was already populated.
func (c *Container) SeedFromExport(ctx context.Context, source storage.Source) (*migration.MigrationResult, error) {
	merchants, err := c.Repositories.MerchantRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count merchants: %w", err)
	}
	if merchants > 0 {
		c.Logger.WithField("merchants", merchants).Info("Ledger already populated, skipping seed import")
		return nil, nil
	}

	return c.JSONMigrator(source).MigrateFromJSON(ctx)
}
