package models

import (
	"time"
)

// Item is a product a merchant sells
type Item struct {
	ID          int64     `json:"id" db:"id"`
	MerchantID  int64     `json:"merchant_id" db:"merchant_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	UnitPrice   Money     `json:"unit_price" db:"unit_price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewItem creates an item with timestamps set to now
func NewItem(merchantID int64, name string, unitPrice Money) *Item {
	now := time.Now().UTC()
	return &Item{
		MerchantID: merchantID,
		Name:       SanitizeString(name),
		UnitPrice:  unitPrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate validates the item data
func (i *Item) Validate() error {
	if err := ValidateID(i.MerchantID, "merchant_id"); err != nil {
		return err
	}
	if err := ValidateRequired(i.Name, "name"); err != nil {
		return err
	}
	return ValidateNonNegative(i.UnitPrice.Minor(), "unit_price")
}
