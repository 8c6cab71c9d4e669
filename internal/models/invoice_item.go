package models

import (
	"time"
)

// InvoiceItem is a line on an invoice. UnitPrice is captured at sale time in minor units.
type InvoiceItem struct {
	ID        int64     `json:"id" db:"id"`
	InvoiceID int64     `json:"invoice_id" db:"invoice_id"`
	ItemID    int64     `json:"item_id" db:"item_id"`
	UnitPrice Money     `json:"unit_price" db:"unit_price"`
	Quantity  int64     `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewInvoiceItem creates an invoice item with timestamps set to now
func NewInvoiceItem(invoiceID, itemID int64, unitPrice Money, quantity int64) *InvoiceItem {
	now := time.Now().UTC()
	return &InvoiceItem{
		InvoiceID: invoiceID,
		ItemID:    itemID,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the invoice item data
func (ii *InvoiceItem) Validate() error {
	if err := ValidateID(ii.InvoiceID, "invoice_id"); err != nil {
		return err
	}
	if err := ValidateID(ii.ItemID, "item_id"); err != nil {
		return err
	}
	if err := ValidateNonNegative(ii.UnitPrice.Minor(), "unit_price"); err != nil {
		return err
	}
	return ValidateNonNegative(ii.Quantity, "quantity")
}

// LineTotal returns unit price times quantity in minor units
func (ii *InvoiceItem) LineTotal() Money {
	return LineTotal(ii.UnitPrice, ii.Quantity)
}

// InvoiceItemFilters whitelists the attributes an invoice item search may match on
type InvoiceItemFilters struct {
	ID        *int64
	InvoiceID *int64
	ItemID    *int64
	Quantity  *int64
	UnitPrice *Money
	CreatedAt *Date
	UpdatedAt *Date
}

// Matches reports whether the invoice item satisfies every supplied filter
func (f InvoiceItemFilters) Matches(ii *InvoiceItem) bool {
	switch {
	case f.ID != nil && *f.ID != ii.ID:
		return false
	case f.InvoiceID != nil && *f.InvoiceID != ii.InvoiceID:
		return false
	case f.ItemID != nil && *f.ItemID != ii.ItemID:
		return false
	case f.Quantity != nil && *f.Quantity != ii.Quantity:
		return false
	case f.UnitPrice != nil && *f.UnitPrice != ii.UnitPrice:
		return false
	case f.CreatedAt != nil && !f.CreatedAt.Contains(ii.CreatedAt):
		return false
	case f.UpdatedAt != nil && !f.UpdatedAt.Contains(ii.UpdatedAt):
		return false
	}
	return true
}
