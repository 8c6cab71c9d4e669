package models

import (
	"fmt"
	"strings"
	"time"
)

// TransactionResult is the outcome of a payment attempt against an invoice
type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "success"
	TransactionResultFailed  TransactionResult = "failed"
)

// ParseTransactionResult normalizes a result to lower case and rejects unknown values
func ParseTransactionResult(value string) (TransactionResult, error) {
	result := TransactionResult(strings.ToLower(strings.TrimSpace(value)))
	switch result {
	case TransactionResultSuccess, TransactionResultFailed:
		return result, nil
	default:
		return "", &ValidationError{
			Field:   "result",
			Message: fmt.Sprintf("result must be one of: %s, %s", TransactionResultSuccess, TransactionResultFailed),
			Value:   value,
		}
	}
}

// IsSuccessful compares case-insensitively so rows stored without normalization still count.
func (r TransactionResult) IsSuccessful() bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), string(TransactionResultSuccess))
}

// Transaction is one payment attempt for an invoice. An invoice may have many.
type Transaction struct {
	ID               int64             `json:"id" db:"id"`
	InvoiceID        int64             `json:"invoice_id" db:"invoice_id"`
	CreditCardNumber string            `json:"credit_card_number,omitempty" db:"credit_card_number"`
	Result           TransactionResult `json:"result" db:"result"`
	CreatedAt        time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}

// NewTransaction creates a transaction with timestamps set to now
func NewTransaction(invoiceID int64, result TransactionResult) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		InvoiceID: invoiceID,
		Result:    result,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the transaction and normalizes its result
func (t *Transaction) Validate() error {
	if err := ValidateID(t.InvoiceID, "invoice_id"); err != nil {
		return err
	}
	result, err := ParseTransactionResult(string(t.Result))
	if err != nil {
		return err
	}
	t.Result = result
	return nil
}
