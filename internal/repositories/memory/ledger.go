package memory

import (
	"context"

	"merchant-bi-api/internal/models"
	"merchant-bi-api/internal/repositories"
)

// LedgerRepository evaluates the ledger aggregates over the in-memory tables
type LedgerRepository struct{ store *Store }

// paidInvoices returns the IDs of invoices with at least one successful transaction
func paidInvoices(data *state) map[int64]bool {
	paid := make(map[int64]bool)
	for _, transaction := range data.transactions.rows {
		if transaction.Result.IsSuccessful() {
			paid[transaction.InvoiceID] = true
		}
	}
	return paid
}

// SuccessfulRevenue sums the lines of paid invoices matching the filter
func (r *LedgerRepository) SuccessfulRevenue(ctx context.Context, filter repositories.RevenueFilter) (models.Money, error) {
	var total models.Money
	r.store.read(func(data *state) {
		paid := paidInvoices(data)
		for _, line := range data.invoiceItems.rows {
			invoice, ok := data.invoices.rows[line.InvoiceID]
			if !ok || !paid[invoice.ID] {
				continue
			}
			if filter.MerchantID != nil && invoice.MerchantID != *filter.MerchantID {
				continue
			}
			if filter.Date != nil && !filter.Date.Contains(invoice.CreatedAt) {
				continue
			}
			total += line.LineTotal()
		}
	})
	return total, nil
}

// MerchantTotals returns every merchant with its successful revenue and units sold
func (r *LedgerRepository) MerchantTotals(ctx context.Context) ([]repositories.MerchantTotal, error) {
	var totals []repositories.MerchantTotal
	r.store.read(func(data *state) {
		paid := paidInvoices(data)

		revenue := make(map[int64]models.Money)
		quantity := make(map[int64]int64)
		for _, line := range data.invoiceItems.rows {
			invoice, ok := data.invoices.rows[line.InvoiceID]
			if !ok || !paid[invoice.ID] {
				continue
			}
			revenue[invoice.MerchantID] += line.LineTotal()
			quantity[invoice.MerchantID] += line.Quantity
		}

		merchants := data.merchants.sorted()
		totals = make([]repositories.MerchantTotal, 0, len(merchants))
		for _, merchant := range merchants {
			totals = append(totals, repositories.MerchantTotal{
				Merchant: merchant,
				Revenue:  revenue[merchant.ID],
				Quantity: quantity[merchant.ID],
			})
		}
	})
	return totals, nil
}

// CustomerSuccessCounts counts each customer's successful transactions with the merchant
func (r *LedgerRepository) CustomerSuccessCounts(ctx context.Context, merchantID int64) ([]repositories.CustomerActivity, error) {
	activity := make([]repositories.CustomerActivity, 0)
	r.store.read(func(data *state) {
		counts := make(map[int64]int64)
		for _, transaction := range data.transactions.rows {
			if !transaction.Result.IsSuccessful() {
				continue
			}
			invoice, ok := data.invoices.rows[transaction.InvoiceID]
			if !ok || invoice.MerchantID != merchantID {
				continue
			}
			counts[invoice.CustomerID]++
		}

		for _, customer := range data.customers.sorted() {
			if n, ok := counts[customer.ID]; ok {
				activity = append(activity, repositories.CustomerActivity{
					Customer:               customer,
					SuccessfulTransactions: n,
				})
			}
		}
	})
	return activity, nil
}

// CustomersWithPendingInvoices returns customers holding an unpaid invoice with the merchant
func (r *LedgerRepository) CustomersWithPendingInvoices(ctx context.Context, merchantID int64) ([]*models.Customer, error) {
	customers := make([]*models.Customer, 0)
	r.store.read(func(data *state) {
		paid := paidInvoices(data)

		pending := make(map[int64]bool)
		for _, invoice := range data.invoices.rows {
			if invoice.MerchantID == merchantID && !paid[invoice.ID] {
				pending[invoice.CustomerID] = true
			}
		}

		for _, customer := range data.customers.sorted() {
			customer := customer
			if pending[customer.ID] {
				customers = append(customers, &customer)
			}
		}
	})
	return customers, nil
}

var _ repositories.LedgerReader = (*LedgerRepository)(nil)
