package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterest(t *testing.T) {
	tests := []struct {
		name     string
		balance  string
		percent  string
		expected string
	}{
		{"one percent of five", "5", "1", "0.05"},
		{"one percent of 10.05", "10.05", "1", "0.1005"},
		{"rounded to six places", "10.1505", "1.5", "0.152258"},
		{"zero balance", "0", "1", "0"},
		{"negative balance earns nothing", "-14.95", "1", "0"},
		{"zero rate", "100", "0", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Interest(dec(tc.balance), dec(tc.percent))
			assert.True(t, dec(tc.expected).Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestInterestLabel(t *testing.T) {
	assert.Equal(t, "Interest @ 1%", InterestLabel(dec("1")))
	assert.Equal(t, "Interest @ 2.5%", InterestLabel(dec("2.50")))
}

func TestNewRateSettings(t *testing.T) {
	r, err := NewRateSettings("7.5", "2")
	require.NoError(t, err)
	assert.True(t, r.Allowance.Equal(dec("7.5")))
	assert.True(t, r.InterestPercent.Equal(dec("2")))

	_, err = NewRateSettings("abc", "2")
	assert.Error(t, err)
	_, err = NewRateSettings("1", "")
	assert.Error(t, err)
}

func TestAutoDeposits(t *testing.T) {
	a := NewAllowance(day("2024-01-06"), dec("5"))
	assert.Equal(t, "allowance:2024-01-06", a.ID)
	assert.Equal(t, KindAuto, a.Kind)
	assert.False(t, a.IsManual())

	i := NewInterest(day("2024-01-07"), dec("0.05"), dec("1"))
	assert.Equal(t, "interest:2024-01-07", i.ID)
	assert.Equal(t, "Interest @ 1%", i.Label)
	assert.Equal(t, DepositInterest, i.Type)
}
