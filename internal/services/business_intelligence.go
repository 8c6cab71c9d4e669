package services

import (
	"context"
	"time"

	"merchant-bi-api/internal/metrics"
	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// businessIntelligenceService implements the BusinessIntelligenceService interface
type businessIntelligenceService struct {
	merchantRepo  repositories.MerchantRepository
	revenue       RevenueCalculator
	ranker        MerchantRanker
	relationships CustomerRelationshipAnalyzer
	metrics       *metrics.Metrics
	logger        *logrus.Logger
}

// NewBusinessIntelligenceService creates the query facade
func NewBusinessIntelligenceService(
	merchantRepo repositories.MerchantRepository,
	revenue RevenueCalculator,
	ranker MerchantRanker,
	relationships CustomerRelationshipAnalyzer,
	m *metrics.Metrics,
	logger *logrus.Logger,
) BusinessIntelligenceService {
	if logger == nil {
		logger = logrus.New()
	}
	return &businessIntelligenceService{
		merchantRepo:  merchantRepo,
		revenue:       revenue,
		ranker:        ranker,
		relationships: relationships,
		metrics:       m,
		logger:        logger,
	}
}

// MerchantRevenue returns the merchant's successful revenue, optionally for one day
func (s *businessIntelligenceService) MerchantRevenue(ctx context.Context, merchantID int64, date *models.Date) (revenue models.Money, err error) {
	defer s.observe("merchant_revenue", time.Now(), &err)

	if err = s.requireMerchant(ctx, merchantID); err != nil {
		return 0, err
	}
	return s.revenue.RevenueFor(ctx, merchantID, date)
}

// TotalRevenueForDate returns successful revenue across all merchants for one day
func (s *businessIntelligenceService) TotalRevenueForDate(ctx context.Context, date models.Date) (revenue models.Money, err error) {
	defer s.observe("total_revenue", time.Now(), &err)

	return s.revenue.TotalRevenueForDate(ctx, date)
}

// MostRevenue returns the top n merchants by successful revenue
func (s *businessIntelligenceService) MostRevenue(ctx context.Context, n int) (rankings []models.MerchantRanking, err error) {
	defer s.observe("most_revenue", time.Now(), &err)

	return s.ranker.TopMerchantsByRevenue(ctx, n)
}

// MostItems returns the top n merchants by successful units sold
func (s *businessIntelligenceService) MostItems(ctx context.Context, n int) (rankings []models.MerchantRanking, err error) {
	defer s.observe("most_items", time.Now(), &err)

	return s.ranker.TopMerchantsByQuantity(ctx, n)
}

// FavoriteCustomer returns the merchant's favorite customer, or nil when there is none
func (s *businessIntelligenceService) FavoriteCustomer(ctx context.Context, merchantID int64) (customer *models.Customer, err error) {
	defer s.observe("favorite_customer", time.Now(), &err)

	if err = s.requireMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	return s.relationships.FavoriteCustomer(ctx, merchantID)
}

// CustomersWithPendingInvoices returns the merchant's customers with an unpaid invoice
func (s *businessIntelligenceService) CustomersWithPendingInvoices(ctx context.Context, merchantID int64) (customers []*models.Customer, err error) {
	defer s.observe("customers_with_pending_invoices", time.Now(), &err)

	if err = s.requireMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	return s.relationships.CustomersWithPendingInvoices(ctx, merchantID)
}

func (s *businessIntelligenceService) requireMerchant(ctx context.Context, merchantID int64) error {
	if merchantID <= 0 {
		return invalidArgument("merchant id must be positive, got %d", merchantID)
	}

	exists, err := s.merchantRepo.Exists(ctx, merchantID)
	if err != nil {
		return translateRepositoryError(err)
	}
	if !exists {
		return repositoryNotFound("merchant", merchantID)
	}
	return nil
}

func (s *businessIntelligenceService) observe(operation string, start time.Time, err *error) {
	elapsed := time.Since(start)
	s.metrics.ObserveQuery(operation, outcomeOf(*err), elapsed)

	entry := s.logger.WithFields(logrus.Fields{
		"operation": operation,
		"duration":  elapsed,
	})
	if *err != nil {
		entry.WithError(*err).Debug("Business intelligence query failed")
		return
	}
	entry.Debug("Business intelligence query completed")
}
