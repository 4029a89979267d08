package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are written as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RateSettings are the recurring-deposit parameters in effect for a period.
type RateSettings struct {
	Allowance       decimal.Decimal `json:"allowance" yaml:"allowance"`
	InterestPercent decimal.Decimal `json:"interest_percent" yaml:"interest_percent"`
}

// NewRateSettings builds settings from two decimal strings.
func NewRateSettings(allowance, interestPercent string) (RateSettings, error) {
	a, err := decimal.NewFromString(allowance)
	if err != nil {
		return RateSettings{}, fmt.Errorf("invalid allowance '%s': %w", allowance, err)
	}
	i, err := decimal.NewFromString(interestPercent)
	if err != nil {
		return RateSettings{}, fmt.Errorf("invalid interest percent '%s': %w", interestPercent, err)
	}
	return RateSettings{Allowance: a, InterestPercent: i}, nil
}

// Equal compares both rates by value.
func (r RateSettings) Equal(o RateSettings) bool {
	return r.Allowance.Equal(o.Allowance) && r.InterestPercent.Equal(o.InterestPercent)
}

// Interest is the weekly interest earned on balance at percent, rounded
// half-up to InterestPrecision places. It is zero for a non-positive balance.
// Both the scheduler and the goal projector use it, so a projected Sunday
// and a booked Sunday always agree.
func Interest(balance, percent decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() || !percent.IsPositive() {
		return decimal.Zero
	}
	return balance.Mul(percent.Shift(-2)).Round(InterestPrecision)
}

// InterestLabel is the ledger label of an interest deposit at percent.
func InterestLabel(percent decimal.Decimal) string {
	return fmt.Sprintf(InterestLabelPattern, percent.String())
}
