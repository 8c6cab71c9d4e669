package models

import (
	"time"
)

// Merchant sells items through invoices
type Merchant struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewMerchant creates a merchant with timestamps set to now
func NewMerchant(name string) *Merchant {
	now := time.Now().UTC()
	return &Merchant{
		Name:      SanitizeString(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the merchant data
func (m *Merchant) Validate() error {
	if err := ValidateRequired(m.Name, "name"); err != nil {
		return err
	}
	return ValidateStringLength(m.Name, "name", 1, 255)
}

// MerchantRanking pairs a merchant with the metric it was ranked by
type MerchantRanking struct {
	Merchant Merchant `json:"merchant"`
	Revenue  Money    `json:"revenue"`
	Quantity int64    `json:"quantity"`
}

// MerchantFilters whitelists the attributes a merchant search may match on
type MerchantFilters struct {
	ID        *int64
	Name      *string
	CreatedAt *Date
	UpdatedAt *Date
}

// IsEmpty reports whether no filter was supplied
func (f MerchantFilters) IsEmpty() bool {
	return f.ID == nil && f.Name == nil && f.CreatedAt == nil && f.UpdatedAt == nil
}

// Matches reports whether the merchant satisfies every supplied filter. Names compare
// case-insensitively.
func (f MerchantFilters) Matches(m *Merchant) bool {
	if f.ID != nil && *f.ID != m.ID {
		return false
	}
	if f.Name != nil && NormalizeSearchTerm(*f.Name) != NormalizeSearchTerm(m.Name) {
		return false
	}
	if f.CreatedAt != nil && !f.CreatedAt.Contains(m.CreatedAt) {
		return false
	}
	if f.UpdatedAt != nil && !f.UpdatedAt.Contains(m.UpdatedAt) {
		return false
	}
	return true
}
