package services

import (
	"context"
	"fmt"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// merchantService implements the MerchantService interface
type merchantService struct {
	merchantRepo repositories.MerchantRepository
	logger       *logrus.Logger
}

// NewMerchantService creates a new merchant service instance
func NewMerchantService(merchantRepo repositories.MerchantRepository, logger *logrus.Logger) MerchantService {
	if logger == nil {
		logger = logrus.New()
	}
	return &merchantService{
		merchantRepo: merchantRepo,
		logger:       logger,
	}
}

// GetMerchant retrieves a merchant by ID
func (s *merchantService) GetMerchant(ctx context.Context, id int64) (*models.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepositoryError(err)
	}
	return merchant, nil
}

// ListMerchants retrieves all merchants
func (s *merchantService) ListMerchants(ctx context.Context) ([]*models.Merchant, error) {
	merchants, err := s.merchantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	return merchants, nil
}

// FindMerchant returns the first merchant matching the filters
func (s *merchantService) FindMerchant(ctx context.Context, filters models.MerchantFilters) (*models.Merchant, error) {
	merchants, err := s.FindAllMerchants(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(merchants) == 0 {
		return nil, nil
	}
	return merchants[0], nil
}

// FindAllMerchants returns every merchant matching the filters
func (s *merchantService) FindAllMerchants(ctx context.Context, filters models.MerchantFilters) ([]*models.Merchant, error) {
	merchants, err := s.merchantRepo.Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to find merchants: %w", err)
	}

	s.logger.WithField("matches", len(merchants)).Debug("Searched merchants")
	return merchants, nil
}
