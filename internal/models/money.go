package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the number of minor currency units (cents) in one major unit.
const MinorUnitsPerMajor = 100

// Money is an amount held in minor currency units. Aggregations add Money values and only
// convert to major units when the amount is reported.
type Money int64

// NewMoneyFromMajor converts a major-unit decimal (e.g. 12.34) into minor units.
// Fractions of a minor unit are rounded half away from zero.
func NewMoneyFromMajor(amount decimal.Decimal) Money {
	return Money(amount.Shift(2).Round(0).IntPart())
}

// ParseMoney parses a major-unit string such as "12.34".
func ParseMoney(value string) (Money, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, &ValidationError{
			Field:   "amount",
			Message: "amount must be a decimal number",
			Value:   value,
		}
	}
	return NewMoneyFromMajor(amount), nil
}

// LineTotal returns unitPrice * quantity.
func LineTotal(unitPrice Money, quantity int64) Money {
	return unitPrice * Money(quantity)
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return int64(m)
}

// Major returns the exact amount in major units.
func (m Money) Major() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String renders the major amount with at least one decimal digit: 20000.0, 12.5, 12.34.
func (m Money) String() string {
	s := m.Major().String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// MarshalJSON renders Money as a quoted major-unit string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted major-unit string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMoney(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
