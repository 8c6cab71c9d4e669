package services

import (
	"context"
	"fmt"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// invoiceItemService implements the InvoiceItemService interface
type invoiceItemService struct {
	invoiceItemRepo repositories.InvoiceItemRepository
	logger          *logrus.Logger
}

// NewInvoiceItemService creates a new invoice item service instance
func NewInvoiceItemService(invoiceItemRepo repositories.InvoiceItemRepository, logger *logrus.Logger) InvoiceItemService {
	if logger == nil {
		logger = logrus.New()
	}
	return &invoiceItemService{
		invoiceItemRepo: invoiceItemRepo,
		logger:          logger,
	}
}

// FindInvoiceItem returns the first invoice item matching the filters
func (s *invoiceItemService) FindInvoiceItem(ctx context.Context, filters models.InvoiceItemFilters) (*models.InvoiceItem, error) {
	invoiceItems, err := s.FindAllInvoiceItems(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(invoiceItems) == 0 {
		return nil, nil
	}
	return invoiceItems[0], nil
}

// FindAllInvoiceItems returns every invoice item matching the filters
func (s *invoiceItemService) FindAllInvoiceItems(ctx context.Context, filters models.InvoiceItemFilters) ([]*models.InvoiceItem, error) {
	invoiceItems, err := s.invoiceItemRepo.Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice items: %w", err)
	}

	s.logger.WithField("matches", len(invoiceItems)).Debug("Searched invoice items")
	return invoiceItems, nil
}
