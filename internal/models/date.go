package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used for date filters.
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var dateLayouts = []string{
	DateLayout,
	"2006-1-2",
	time.RFC3339Nano,
	// UTC only; other zone abbreviations would parse with a zero offset
	"2006-01-02 15:04:05 UTC",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts an ISO date (zero padded or not) or a full timestamp, which is
// truncated to its UTC calendar day.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, &ValidationError{
		Field:   "date",
		Message: fmt.Sprintf("date %q must be formatted as YYYY-MM-DD", value),
		Value:   value,
	}
}

// Start returns midnight UTC of the day.
func (d Date) Start() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls on this UTC calendar day.
func (d Date) Contains(t time.Time) bool {
	return NewDate(t) == d
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Start().Format(DateLayout)
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d == Date{}
}
