// Package currencyutils parses user-entered amounts and formats balances for display.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/christo725/family-bank-app/internal/bankerror"

	"github.com/shopspring/decimal"
)

var currencyNoise = regexp.MustCompile(`(?i)usd|chf|eur|[€$£¥\s]`)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "1,234.56", "1.234,56", "1'234.56", "$5" and "5".
func ParseAmount(field, amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, bankerror.NewValidation(field, "", "is required")
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, bankerror.NewValidation(field, amountStr, "is not a number")
	}
	return amount, nil
}

// ParseNonNegative is ParseAmount rejecting values below zero.
func ParseNonNegative(field, amountStr string) (decimal.Decimal, error) {
	amount, err := ParseAmount(field, amountStr)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, bankerror.NewValidation(field, amountStr, "must not be negative")
	}
	return amount, nil
}

// ParsePositive is ParseAmount rejecting zero and values below it.
func ParsePositive(field, amountStr string) (decimal.Decimal, error) {
	amount, err := ParseAmount(field, amountStr)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, bankerror.NewValidation(field, amountStr, "must be greater than zero")
	}
	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")

	// Handle European format (1.234,56) -> (1234.56)
	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		// A trailing group of one or two digits is a decimal part (1234,56);
		// otherwise the comma groups thousands (1,234).
		parts := strings.Split(amountStr, ",")
		if len(parts) > 1 && len(parts[len(parts)-1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	// Remove apostrophes used as thousand separators (1'234.56)
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	return amountStr
}

// FormatUSD renders amount the way the account page shows money:
// "$1,234.56", "-$20.00".
func FormatUSD(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + frac
}
