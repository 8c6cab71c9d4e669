package models

import (
	"time"
)

// InvoiceStatus is the fulfilment status recorded on an invoice. It does not decide
// whether the invoice was paid; only its transactions do.
type InvoiceStatus string

const (
	InvoiceStatusShipped InvoiceStatus = "shipped"
	InvoiceStatusPending InvoiceStatus = "pending"
)

// Invoice records a sale from a merchant to a customer
type Invoice struct {
	ID         int64         `json:"id" db:"id"`
	MerchantID int64         `json:"merchant_id" db:"merchant_id"`
	CustomerID int64         `json:"customer_id" db:"customer_id"`
	Status     InvoiceStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// NewInvoice creates an invoice with timestamps set to now
func NewInvoice(merchantID, customerID int64, status InvoiceStatus) *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		MerchantID: merchantID,
		CustomerID: customerID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the invoice data
func (i *Invoice) Validate() error {
	if err := ValidateID(i.MerchantID, "merchant_id"); err != nil {
		return err
	}
	if err := ValidateID(i.CustomerID, "customer_id"); err != nil {
		return err
	}
	return ValidateRequired(string(i.Status), "status")
}
