package services

import (
	"context"
	"fmt"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// revenueService implements the RevenueCalculator interface
type revenueService struct {
	ledger repositories.LedgerReader
	logger *logrus.Logger
}

// NewRevenueService creates a new revenue calculator
func NewRevenueService(ledger repositories.LedgerReader, logger *logrus.Logger) RevenueCalculator {
	if logger == nil {
		logger = logrus.New()
	}
	return &revenueService{
		ledger: ledger,
		logger: logger,
	}
}

// RevenueFor sums unit_price * quantity over the merchant's invoices that have a successful
// transaction, optionally only those created on date
func (s *revenueService) RevenueFor(ctx context.Context, merchantID int64, date *models.Date) (models.Money, error) {
	revenue, err := s.ledger.SuccessfulRevenue(ctx, repositories.RevenueFilter{
		MerchantID: &merchantID,
		Date:       date,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compute revenue for merchant %d: %w", merchantID, err)
	}

	fields := logrus.Fields{"merchant_id": merchantID, "revenue": revenue.String()}
	if date != nil {
		fields["date"] = date.String()
	}
	s.logger.WithFields(fields).Debug("Computed merchant revenue")

	return revenue, nil
}

// TotalRevenueForDate sums successful revenue across all merchants for one day
func (s *revenueService) TotalRevenueForDate(ctx context.Context, date models.Date) (models.Money, error) {
	if date.IsZero() {
		return 0, invalidArgument("date is required")
	}

	revenue, err := s.ledger.SuccessfulRevenue(ctx, repositories.RevenueFilter{Date: &date})
	if err != nil {
		return 0, fmt.Errorf("failed to compute total revenue for %s: %w", date, err)
	}

	s.logger.WithFields(logrus.Fields{
		"date":    date.String(),
		"revenue": revenue.String(),
	}).Debug("Computed total revenue")

	return revenue, nil
}
