package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"merchant-bi-api/internal/config"
	"merchant-bi-api/internal/database"

	"github.com/sirupsen/logrus"
)

func main() {
	var (
		dbPath  = flag.String("db", config.GetEnv("DB_PATH", "./data/ledger.db"), "Database file path")
		action  = flag.String("action", "up", "Migration action: up, down, status, validate")
		backup  = flag.Bool("backup", config.GetEnvAsBool("DB_BACKUP_BEFORE_MIGRATE", false), "Back up the database before changing the schema")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
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

	logger.WithFields(logrus.Fields{
		"db_path": absDBPath,
		"action":  *action,
	}).Info("Starting migration tool")

	// Schema changes are driven by the action, never on connect
	connectionManager := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath:        absDBPath,
		MaxOpenConns:        1,
		MaxIdleConns:        1,
		BackupBeforeMigrate: *backup,
		Logger:              logger,
	})

	if err := connectionManager.Connect(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer connectionManager.Close()

	migrations := connectionManager.GetMigrationManager()

	switch *action {
	case "up":
		err = migrations.RunMigrations()
	case "down":
		err = migrations.RollbackMigration()
	case "status":
		err = showMigrationStatus(migrations)
	case "validate":
		err = validateSchema(migrations)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate")
	}

	if err != nil {
		logger.WithError(err).WithField("action", *action).Fatal("Migration action failed")
	}

	logger.Info("Migration tool completed successfully")
}

func showMigrationStatus(migrations *database.MigrationManager) error {
	status, err := migrations.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	fmt.Printf("  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))

	return nil
}

func validateSchema(migrations *database.MigrationManager) error {
	if err := migrations.ValidateSchema(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	fmt.Println("Schema validation passed successfully")
	return nil
}
