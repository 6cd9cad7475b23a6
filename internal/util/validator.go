package util

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAmountPrecision   = errors.New("amount has more than two decimal places")
	ErrAmountTooLarge    = errors.New("amount too large")
)

// amounts are decimal(15,2): up to 13 integer digits
var maxAmount = decimal.New(1, 13)

// ParseAmount parses a positive monetary amount with at most two fraction
// digits. Anything malformed is rejected here, before it can reach the
// aggregation core.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrAmountNotPositive
	}
	if d.Exponent() < -2 {
		return decimal.Zero, ErrAmountPrecision
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD business date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, want YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// ValidateTitle checks a resource title is non-empty and within bounds.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is empty")
	}
	if len(title) > 200 {
		return errors.New("title too long, max 200 characters")
	}
	return nil
}
