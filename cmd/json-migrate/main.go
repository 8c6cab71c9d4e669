package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"merchant-bi-api/internal/adapters/storage"
	"merchant-bi-api/internal/config"
	"merchant-bi-api/internal/migration"
	"merchant-bi-api/pkg/server"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbPath   = flag.String("db", config.GetEnv("DB_PATH", "./data/ledger.db"), "Database file path")
		jsonPath = flag.String("json", config.GetEnv("LEDGER_EXPORT_PATH", "./data/json"), "JSON export directory path")
		action   = flag.String("action", "import", "Action: check, import, validate")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		dryRun   = flag.Bool("dry-run", false, "Only check the export files, without touching the database")
		timeout  = flag.Duration("timeout", 10*time.Minute, "Maximum time for the action")
	)
	flag.Parse()

	// Setup logger
	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}

	absJSONPath, err := filepath.Abs(*jsonPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute JSON path")
	}

	logger.WithFields(logrus.Fields{
		"db_path":   absDBPath,
		"json_path": absJSONPath,
		"action":    *action,
		"dry_run":   *dryRun,
	}).Info("Starting JSON ledger import tool")

	source, err := storage.CreateFromConfig(&storage.SourceConfig{
		Type:     string(storage.SourceTypeLocal),
		BasePath: absJSONPath,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open JSON export directory")
	}
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *action == "check" || (*action == "import" && *dryRun):
		err = checkJSONFiles(ctx, source, absJSONPath, logger)
	case *action == "import":
		err = runImport(ctx, source, absDBPath, logger)
	case *action == "validate":
		err = validateImport(ctx, source, absDBPath, logger)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: check, import, validate")
	}

	if err != nil {
		logger.WithError(err).WithField("action", *action).Fatal("JSON ledger import tool failed")
	}

	logger.Info("JSON ledger import tool completed successfully")
}

func checkJSONFiles(ctx context.Context, source storage.Source, jsonPath string, logger *logrus.Logger) error {
	logger.Info("Checking for JSON export files...")

	migrator := migration.NewJSONMigrator(source, nil, logger)
	hasFiles, existingFiles, err := migrator.CheckJSONFilesExist(ctx)
	if err != nil {
		return err
	}

	if !hasFiles {
		logger.Warn("No JSON export files found")
		fmt.Printf("No JSON export files found in %s\n", jsonPath)
		fmt.Printf("Expected files: %v\n", migration.LedgerFiles)
		return nil
	}

	fmt.Printf("Found %d JSON export files:\n", len(existingFiles))
	for _, file := range existingFiles {
		fmt.Printf("  %s\n", file)
		if info, err := source.GetMetadata(ctx, file); err == nil {
			fmt.Printf("    Size: %d bytes, Modified: %s\n",
				info.Size, info.LastModified.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}

// openLedger opens the ledger database with migrations applied
func openLedger(dbPath string, logger *logrus.Logger) (*server.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Database.Path = dbPath
	cfg.Database.AutoMigrate = true
	cfg.RateLimit.RPS = 0

	return server.NewContainer(cfg, logger)
}

func runImport(ctx context.Context, source storage.Source, dbPath string, logger *logrus.Logger) error {
	container, err := openLedger(dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}
	defer container.Close()

	migrator := container.JSONMigrator(source)

	hasFiles, existingFiles, err := migrator.CheckJSONFilesExist(ctx)
	if err != nil {
		return err
	}
	if !hasFiles {
		return fmt.Errorf("no JSON export files found")
	}
	logger.WithField("files", existingFiles).Info("Found JSON export files")

	result, err := migrator.MigrateFromJSON(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Import Results ===\n")
	for _, file := range migration.LedgerFiles {
		fmt.Printf("%-20s %d\n", file, result.Processed(file))
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			fmt.Printf("  %s\n", warning)
		}
	}

	if _, err := migrator.ValidateMigration(ctx); err != nil {
		// skipped records are expected to leave the counts short
		logger.WithError(err).Warn("Post-import validation found differences")
	}

	return nil
}

func validateImport(ctx context.Context, source storage.Source, dbPath string, logger *logrus.Logger) error {
	container, err := openLedger(dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}
	defer container.Close()

	counts, err := container.JSONMigrator(source).ValidateMigration(ctx)
	for _, count := range counts {
		mark := "ok"
		if !count.Matches() {
			mark = "MISMATCH"
		}
		fmt.Printf("%-20s exported %-8d stored %-8d %s\n", count.File, count.Exported, count.Stored, mark)
	}
	if err != nil {
		return err
	}

	fmt.Println("Import validation passed successfully")
	return nil
}
