package models

import (
	"strings"
	"time"
)

// Customer buys from merchants through invoices
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewCustomer creates a customer with timestamps set to now
func NewCustomer(firstName, lastName string) *Customer {
	now := time.Now().UTC()
	return &Customer{
		FirstName: SanitizeString(firstName),
		LastName:  SanitizeString(lastName),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the customer data
func (c *Customer) Validate() error {
	if err := ValidateStringLength(c.FirstName, "first_name", 0, 255); err != nil {
		return err
	}
	return ValidateStringLength(c.LastName, "last_name", 0, 255)
}

// GetDisplayName returns the display name for the customer
func (c *Customer) GetDisplayName() string {
	var parts []string
	if c.FirstName != "" {
		parts = append(parts, c.FirstName)
	}
	if c.LastName != "" {
		parts = append(parts, c.LastName)
	}

	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	return "Unknown Customer"
}
