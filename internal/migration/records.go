package migration

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"merchant-bi-api/internal/models"
)

// Export file names, in import order. Each file holds a JSON array.
const (
	MerchantsFile    = "merchants.json"
	CustomersFile    = "customers.json"
	ItemsFile        = "items.json"
	InvoicesFile     = "invoices.json"
	InvoiceItemsFile = "invoice_items.json"
	TransactionsFile = "transactions.json"
)

// LedgerFiles lists every export file in dependency order
var LedgerFiles = []string{MerchantsFile, CustomersFile, ItemsFile, InvoicesFile, InvoiceItemsFile, TransactionsFile}

// JSONMerchant represents the JSON structure for merchants
type JSONMerchant struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// JSONCustomer represents the JSON structure for customers
type JSONCustomer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// JSONItem represents the JSON structure for items. unit_price is in major units.
type JSONItem struct {
	ID          int64        `json:"id"`
	MerchantID  int64        `json:"merchant_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	UnitPrice   models.Money `json:"unit_price"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

// JSONInvoice represents the JSON structure for invoices
type JSONInvoice struct {
	ID         int64  `json:"id"`
	MerchantID int64  `json:"merchant_id"`
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// JSONInvoiceItem represents the JSON structure for invoice items. unit_price is in major units.
type JSONInvoiceItem struct {
	ID        int64        `json:"id"`
	InvoiceID int64        `json:"invoice_id"`
	ItemID    int64        `json:"item_id"`
	Quantity  int64        `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
	CreatedAt string       `json:"created_at,omitempty"`
	UpdatedAt string       `json:"updated_at,omitempty"`
}

// JSONTransaction represents the JSON structure for transactions. The card number may be
// exported as a string or a bare number.
type JSONTransaction struct {
	ID               int64       `json:"id"`
	InvoiceID        int64       `json:"invoice_id"`
	CreditCardNumber json.Number `json:"credit_card_number,omitempty"`
	Result           string      `json:"result"`
	CreatedAt        string      `json:"created_at,omitempty"`
	UpdatedAt        string      `json:"updated_at,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 UTC",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	models.DateLayout,
}

// parseTimestamp reads an export timestamp as UTC. An empty value yields the zero time,
// which the store replaces with the import time.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", value)
}

func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	createdAt, err := parseTimestamp(created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	updatedAt, err := parseTimestamp(updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return createdAt, updatedAt, nil
}

func (r JSONMerchant) toModel() (*models.Merchant, error) {
	createdAt, updatedAt, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	merchant := &models.Merchant{
		ID:        r.ID,
		Name:      models.SanitizeString(r.Name),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	return merchant, merchant.Validate()
}

func (r JSONCustomer) toModel() (*models.Customer, error) {
	createdAt, updatedAt, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	customer := &models.Customer{
		ID:        r.ID,
		FirstName: models.SanitizeString(r.FirstName),
		LastName:  models.SanitizeString(r.LastName),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	return customer, customer.Validate()
}

func (r JSONItem) toModel() (*models.Item, error) {
	createdAt, updatedAt, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item := &models.Item{
		ID:          r.ID,
		MerchantID:  r.MerchantID,
		Name:        models.SanitizeString(r.Name),
		Description: strings.TrimSpace(r.Description),
		UnitPrice:   r.UnitPrice,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	return item, item.Validate()
}

func (r JSONInvoice) toModel() (*models.Invoice, error) {
	createdAt, updatedAt, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	status := models.InvoiceStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	if status == "" {
		status = models.InvoiceStatusShipped
	}
	invoice := &models.Invoice{
		ID:         r.ID,
		MerchantID: r.MerchantID,
		CustomerID: r.CustomerID,
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	return invoice, invoice.Validate()
}

func (r JSONInvoiceItem) toModel() (*models.InvoiceItem, error) {
	createdAt, updatedAt, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	invoiceItem := &models.InvoiceItem{
		ID:        r.ID,
		InvoiceID: r.InvoiceID,
		ItemID:    r.ItemID,
		UnitPrice: r.UnitPrice,
		Quantity:  r.Quantity,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	return invoiceItem, invoiceItem.Validate()
}

// toModel normalizes the result to lower case; unknown results fail validation
func (r JSONTransaction) toModel() (*models.Transaction, error) {
	createdAt, updatedAt, err := parseTimestamps(r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	result, err := models.ParseTransactionResult(r.Result)
	if err != nil {
		return nil, err
	}
	transaction := &models.Transaction{
		ID:               r.ID,
		InvoiceID:        r.InvoiceID,
		CreditCardNumber: r.CreditCardNumber.String(),
		Result:           result,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	return transaction, transaction.Validate()
}
