package sqlite

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// successfulInvoice is true when the invoice aliased i has at least one successful transaction.
// It is a semi-join so an invoice with several successful attempts still counts once.
const successfulInvoice = `EXISTS (
	SELECT 1 FROM transactions t
	WHERE t.invoice_id = i.id AND LOWER(TRIM(t.result)) = 'success'
)`

const successfulRevenueQuery = `
	SELECT COALESCE(SUM(ii.unit_price * ii.quantity), 0)
	FROM invoices i
	JOIN invoice_items ii ON ii.invoice_id = i.id
	WHERE ` + successfulInvoice

const merchantTotalsQuery = `
	SELECT m.id, m.name, m.created_at, m.updated_at,
		COALESCE(totals.revenue, 0), COALESCE(totals.quantity, 0)
	FROM merchants m
	LEFT JOIN (
		SELECT i.merchant_id,
			SUM(ii.unit_price * ii.quantity) AS revenue,
			SUM(ii.quantity) AS quantity
		FROM invoices i
		JOIN invoice_items ii ON ii.invoice_id = i.id
		WHERE ` + successfulInvoice + `
		GROUP BY i.merchant_id
	) totals ON totals.merchant_id = m.id
	ORDER BY m.id ASC`

const customerSuccessCountsQuery = `
	SELECT c.id, c.first_name, c.last_name, c.created_at, c.updated_at, s.successes
	FROM customers c
	JOIN (
		SELECT i.customer_id, COUNT(t.id) AS successes
		FROM invoices i
		JOIN transactions t ON t.invoice_id = i.id
		WHERE i.merchant_id = ? AND LOWER(TRIM(t.result)) = 'success'
		GROUP BY i.customer_id
	) s ON s.customer_id = c.id
	ORDER BY c.id ASC`

const pendingInvoiceCustomersWhere = `
	WHERE EXISTS (
		SELECT 1 FROM invoices i
		WHERE i.customer_id = customers.id AND i.merchant_id = ? AND NOT ` + successfulInvoice + `
	)`

// LedgerRepository implements the LedgerReader interface with SQLite aggregate queries
type LedgerRepository struct {
	invoices  *BaseRepository[models.Invoice]
	merchants *BaseRepository[models.Merchant]
	customers *BaseRepository[models.Customer]
}

// NewLedgerRepository creates a new SQLite ledger reader
func NewLedgerRepository(db DBTX, logger *logrus.Logger) repositories.LedgerReader {
	return &LedgerRepository{
		invoices:  NewBaseRepository(db, "invoices", "ledger", invoiceColumns, scanInvoice, logger),
		merchants: NewBaseRepository(db, "merchants", "ledger", merchantColumns, scanMerchant, logger),
		customers: NewBaseRepository(db, "customers", "ledger", customerColumns, scanCustomer, logger),
	}
}

// SuccessfulRevenue sums the lines of eligible invoices matching the filter
func (r *LedgerRepository) SuccessfulRevenue(ctx context.Context, filter repositories.RevenueFilter) (models.Money, error) {
	var c conditions
	if filter.MerchantID != nil {
		c.add("i.merchant_id = ?", *filter.MerchantID)
	}
	c.addDate("i.created_at", filter.Date)

	query := successfulRevenueQuery
	for _, clause := range c.clauses {
		query += " AND " + clause
	}

	var total int64
	if err := r.invoices.executeQueryRow(ctx, "successful_revenue", query, c.args...).Scan(&total); err != nil {
		return 0, repositories.NewRepositoryError("successful_revenue", "ledger", 0, err)
	}

	return models.Money(total), nil
}

// MerchantTotals returns every merchant with its successful revenue and units sold
func (r *LedgerRepository) MerchantTotals(ctx context.Context) ([]repositories.MerchantTotal, error) {
	rows, err := r.merchants.executeQuery(ctx, "merchant_totals", merchantTotalsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]repositories.MerchantTotal, 0)
	for rows.Next() {
		var total repositories.MerchantTotal
		var revenue int64
		err := rows.Scan(
			&total.Merchant.ID,
			&total.Merchant.Name,
			&total.Merchant.CreatedAt,
			&total.Merchant.UpdatedAt,
			&revenue,
			&total.Quantity,
		)
		if err != nil {
			return nil, repositories.NewRepositoryError("merchant_totals", "ledger", 0, err)
		}
		total.Revenue = models.Money(revenue)
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("merchant_totals", "ledger", 0, err)
	}

	return totals, nil
}

// CustomerSuccessCounts counts each customer's successful transactions with the merchant
func (r *LedgerRepository) CustomerSuccessCounts(ctx context.Context, merchantID int64) ([]repositories.CustomerActivity, error) {
	rows, err := r.customers.executeQuery(ctx, "customer_success_counts", customerSuccessCountsQuery, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity := make([]repositories.CustomerActivity, 0)
	for rows.Next() {
		var entry repositories.CustomerActivity
		err := rows.Scan(
			&entry.Customer.ID,
			&entry.Customer.FirstName,
			&entry.Customer.LastName,
			&entry.Customer.CreatedAt,
			&entry.Customer.UpdatedAt,
			&entry.SuccessfulTransactions,
		)
		if err != nil {
			return nil, repositories.NewRepositoryError("customer_success_counts", "ledger", merchantID, err)
		}
		activity = append(activity, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("customer_success_counts", "ledger", merchantID, err)
	}

	return activity, nil
}

// CustomersWithPendingInvoices returns customers holding an unpaid invoice with the merchant
func (r *LedgerRepository) CustomersWithPendingInvoices(ctx context.Context, merchantID int64) ([]*models.Customer, error) {
	return r.customers.selectWhere(ctx, "customers_with_pending_invoices", pendingInvoiceCustomersWhere, []interface{}{merchantID})
}
