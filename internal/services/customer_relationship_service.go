package services

import (
	"context"
	"fmt"
	"sort"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// customerRelationshipService implements the CustomerRelationshipAnalyzer interface
type customerRelationshipService struct {
	ledger repositories.LedgerReader
	logger *logrus.Logger
}

// NewCustomerRelationshipService creates a new customer relationship analyzer
func NewCustomerRelationshipService(ledger repositories.LedgerReader, logger *logrus.Logger) CustomerRelationshipAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &customerRelationshipService{
		ledger: ledger,
		logger: logger,
	}
}

// FavoriteCustomer returns the customer with the most successful transactions with the merchant.
// Equal counts resolve to the lowest customer ID.
func (s *customerRelationshipService) FavoriteCustomer(ctx context.Context, merchantID int64) (*models.Customer, error) {
	activity, err := s.ledger.CustomerSuccessCounts(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count successful transactions for merchant %d: %w", merchantID, err)
	}

	var best *repositories.CustomerActivity
	for i := range activity {
		candidate := &activity[i]
		if candidate.SuccessfulTransactions <= 0 {
			continue
		}
		if best == nil ||
			candidate.SuccessfulTransactions > best.SuccessfulTransactions ||
			(candidate.SuccessfulTransactions == best.SuccessfulTransactions && candidate.Customer.ID < best.Customer.ID) {
			best = candidate
		}
	}

	if best == nil {
		s.logger.WithField("merchant_id", merchantID).Debug("Merchant has no favorite customer")
		return nil, nil
	}

	s.logger.WithFields(logrus.Fields{
		"merchant_id":             merchantID,
		"customer_id":             best.Customer.ID,
		"successful_transactions": best.SuccessfulTransactions,
	}).Debug("Found favorite customer")

	customer := best.Customer
	return &customer, nil
}

// CustomersWithPendingInvoices returns, ordered by ID and without duplicates, the customers with
// at least one invoice with the merchant that has no successful transaction
func (s *customerRelationshipService) CustomersWithPendingInvoices(ctx context.Context, merchantID int64) ([]*models.Customer, error) {
	found, err := s.ledger.CustomersWithPendingInvoices(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending invoices for merchant %d: %w", merchantID, err)
	}

	seen := make(map[int64]bool, len(found))
	customers := make([]*models.Customer, 0, len(found))
	for _, customer := range found {
		if seen[customer.ID] {
			continue
		}
		seen[customer.ID] = true
		customers = append(customers, customer)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })

	s.logger.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"customers":   len(customers),
	}).Debug("Found customers with pending invoices")

	return customers, nil
}
