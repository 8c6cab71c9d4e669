package services

import (
	"fmt"

	"merchant-bi-api/internal/metrics"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	BusinessIntelligence BusinessIntelligenceService
	MerchantService      MerchantService
	InvoiceItemService   InvoiceItemService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos *repositories.RepositoryContainer, config *ServiceConfig) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository container cannot be nil")
	}
	if repos.MerchantRepo == nil || repos.InvoiceItemRepo == nil || repos.LedgerRepo == nil {
		return nil, fmt.Errorf("repository container is incomplete")
	}

	if config == nil {
		config = &ServiceConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}

	revenue := NewRevenueService(repos.LedgerRepo, logger)
	ranker := NewRankingService(repos.LedgerRepo, logger)
	relationships := NewCustomerRelationshipService(repos.LedgerRepo, logger)

	return &ServiceContainer{
		BusinessIntelligence: NewBusinessIntelligenceService(repos.MerchantRepo, revenue, ranker, relationships, config.Metrics, logger),
		MerchantService:      NewMerchantService(repos.MerchantRepo, logger),
		InvoiceItemService:   NewInvoiceItemService(repos.InvoiceItemRepo, logger),
	}, nil
}
