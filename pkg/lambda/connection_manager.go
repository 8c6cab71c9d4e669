package lambda

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"merchant-bi-api/internal/adapters/storage"
	"merchant-bi-api/internal/config"
	"merchant-bi-api/pkg/server"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// staleAfter is how long a warm container may sit idle before IsHealthy reports it stale
const staleAfter = 5 * time.Minute

// ConnectionManager keeps one service container alive across warm Lambda invocations
type ConnectionManager struct {
	container  *server.Container
	config     *config.Config
	exportPath string
	lastUsed   time.Time
	mu         sync.RWMutex
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager()
	})
	return globalConnectionManager
}

// NewConnectionManager creates an uninitialized connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{}
}

// SetLedgerExport makes the next container build seed an empty ledger from the JSON export in dir
func (cm *ConnectionManager) SetLedgerExport(dir string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.exportPath = dir
}

// Initialize builds the container from cfg. Calling it on an initialized manager is a no-op.
func (cm *ConnectionManager) Initialize(cfg *config.Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.initializeLocked(cfg)
}

func (cm *ConnectionManager) initializeLocked(cfg *config.Config) error {
	if cm.container != nil {
		return nil
	}

	container, err := server.NewContainer(cfg, nil)
	if err != nil {
		return err
	}

	if cm.exportPath != "" {
		if err := seed(container, cm.exportPath); err != nil {
			container.Close()
			return err
		}
	}

	cm.config = cfg
	cm.container = container
	cm.lastUsed = time.Now()
	return nil
}

func seed(container *server.Container, dir string) error {
	source, err := storage.CreateFromConfig(&storage.SourceConfig{
		Type:     string(storage.SourceTypeLocal),
		BasePath: dir,
	})
	if err != nil {
		return fmt.Errorf("failed to open ledger export: %w", err)
	}
	defer source.Close()

	if _, err := container.SeedFromExport(context.Background(), source); err != nil {
		return fmt.Errorf("failed to seed ledger: %w", err)
	}
	return nil
}

// GetContainer returns the service container, initializing it from the environment if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.RLock()
	if cm.container != nil {
		container := cm.container
		cm.mu.RUnlock()
		cm.UpdateLastUsed()
		return container, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cfg := cm.config
	if cfg == nil {
		var err error
		if cfg, err = config.GetOptimizedConfig(); err != nil {
			return nil, err
		}
	}
	if err := cm.initializeLocked(cfg); err != nil {
		return nil, err
	}
	return cm.container, nil
}

// Handle serves one API Gateway event through the shared router
func (cm *ConnectionManager) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	container, err := cm.GetContainer(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize service container")
		return errorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}

	return Serve(ctx, container.Router, event)
}

// IsHealthy reports whether a container exists and was used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.container == nil {
		return false
	}
	return time.Since(cm.lastUsed) < staleAfter
}

// Cleanup closes the container. The next GetContainer call rebuilds it.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}

	err := cm.container.Close()
	cm.container = nil
	return err
}

// UpdateLastUsed updates the last used timestamp
func (cm *ConnectionManager) UpdateLastUsed() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
}
