package services

import (
	"context"
	"fmt"
	"sort"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// rankingService implements the MerchantRanker interface
type rankingService struct {
	ledger    repositories.LedgerReader
	validator *validator.Validate
	logger    *logrus.Logger
}

// NewRankingService creates a new merchant ranker
func NewRankingService(ledger repositories.LedgerReader, logger *logrus.Logger) MerchantRanker {
	if logger == nil {
		logger = logrus.New()
	}
	return &rankingService{
		ledger:    ledger,
		validator: validator.New(),
		logger:    logger,
	}
}

// TopMerchantsByRevenue returns up to n merchants by descending successful revenue
func (s *rankingService) TopMerchantsByRevenue(ctx context.Context, n int) ([]models.MerchantRanking, error) {
	return s.top(ctx, n, "revenue", func(total repositories.MerchantTotal) int64 {
		return total.Revenue.Minor()
	})
}

// TopMerchantsByQuantity returns up to n merchants by descending successful units sold
func (s *rankingService) TopMerchantsByQuantity(ctx context.Context, n int) ([]models.MerchantRanking, error) {
	return s.top(ctx, n, "quantity", func(total repositories.MerchantTotal) int64 {
		return total.Quantity
	})
}

func (s *rankingService) top(ctx context.Context, n int, metric string, value func(repositories.MerchantTotal) int64) ([]models.MerchantRanking, error) {
	// n beyond the candidate pool returns every merchant
	if err := s.validator.Var(n, "min=1"); err != nil {
		return nil, invalidArgument("quantity must be a positive integer, got %d", n)
	}

	totals, err := s.ledger.MerchantTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchant totals: %w", err)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		vi, vj := value(totals[i]), value(totals[j])
		if vi != vj {
			return vi > vj
		}
		return totals[i].Merchant.ID < totals[j].Merchant.ID
	})

	if n < len(totals) {
		totals = totals[:n]
	}

	rankings := make([]models.MerchantRanking, 0, len(totals))
	for _, total := range totals {
		rankings = append(rankings, models.MerchantRanking{
			Merchant: total.Merchant,
			Revenue:  total.Revenue,
			Quantity: total.Quantity,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"metric":   metric,
		"limit":    n,
		"returned": len(rankings),
	}).Debug("Ranked merchants")

	return rankings, nil
}
