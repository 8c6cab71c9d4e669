package server

import (
	"context"
	"fmt"

	"merchant-bi-api/internal/config"
	"merchant-bi-api/internal/database"
	"merchant-bi-api/internal/handlers"
	"merchant-bi-api/internal/metrics"
	"merchant-bi-api/internal/repositories"
	"merchant-bi-api/internal/repositories/sqlite"
	"merchant-bi-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logrus.Logger
	Metrics      *metrics.Metrics
	Repositories *repositories.RepositoryContainer
	Transactor   repositories.Transactor
	Services     *services.ServiceContainer
	Router       *gin.Engine

	connections *database.ConnectionManager
}

// NewContainer opens the ledger database and wires repositories, services and the HTTP router
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		var err error
		if logger, err = config.NewLogger(cfg.Logging); err != nil {
			return nil, err
		}
	}

	connections := database.NewConnectionManager(cfg.Database.ToConnectionConfig(logger))
	if err := connections.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to ledger database: %w", err)
	}

	db := connections.GetDB()
	repos := sqlite.NewRepositoryContainer(db, logger)
	m := metrics.New()

	serviceContainer, err := services.NewServiceContainer(repos, &services.ServiceConfig{
		Metrics: m,
		Logger:  logger,
	})
	if err != nil {
		connections.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	container := &Container{
		Config:       cfg,
		Logger:       logger,
		Metrics:      m,
		Repositories: repos,
		Transactor:   sqlite.NewTransactionManager(db, logger),
		Services:     serviceContainer,
		connections:  connections,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	container.Router = handlers.NewRouter(&handlers.RouterConfig{
		Services:    serviceContainer,
		Metrics:     m,
		Logger:      logger,
		RateLimit:   cfg.RateLimit,
		HealthCheck: container.HealthCheck,
	})

	return container, nil
}

// HealthCheck reports whether the ledger database answers queries
func (c *Container) HealthCheck(ctx context.Context) error {
	return c.connections.HealthCheck(ctx)
}

// Migrations returns the schema migration manager bound to the open connection
func (c *Container) Migrations() *database.MigrationManager {
	return c.connections.GetMigrationManager()
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.connections == nil {
		return nil
	}
	if err := c.connections.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
