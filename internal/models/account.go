// Package models holds the account record and its ledger entries.
package models

import (
	"fmt"
	"time"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/dateutils"

	"github.com/shopspring/decimal"
)

// AccountState is the whole persisted record of the single savings account.
//
// AutoDeposits is owned by the scheduler and can always be regenerated from
// the other fields. LastProcessedSaturday/Sunday are the high-water marks:
// no deposit is ever generated for a day on or before them.
type AccountState struct {
	AccountHolder         string          `json:"account_holder" yaml:"account_holder"`
	InitialBalance        decimal.Decimal `json:"initial_balance" yaml:"initial_balance"`
	StartDate             dateutils.Date  `json:"start_date" yaml:"start_date"`
	InitialRates          RateSettings    `json:"initial_settings" yaml:"initial_settings"`
	CurrentRates          RateSettings    `json:"current_settings" yaml:"current_settings"`
	SettingsChangeDate    *dateutils.Date `json:"settings_change_date" yaml:"settings_change_date"`
	LastProcessedSaturday *dateutils.Date `json:"last_processed_saturday" yaml:"last_processed_saturday"`
	LastProcessedSunday   *dateutils.Date `json:"last_processed_sunday" yaml:"last_processed_sunday"`
	ManualTransactions    []Transaction   `json:"manual_txns" yaml:"manual_txns"`
	AutoDeposits          []Transaction   `json:"auto_deposits" yaml:"auto_deposits"`
}

// Seed describes the account created when nothing has been persisted yet.
type Seed struct {
	AccountHolder   string
	StartDate       dateutils.Date
	InitialBalance  decimal.Decimal
	Allowance       decimal.Decimal
	InterestPercent decimal.Decimal
}

// DefaultSeed is the built-in starting account.
func DefaultSeed() Seed {
	return Seed{
		AccountHolder:   DefaultAccountHolder,
		StartDate:       dateutils.MustParseISO(DefaultStartDate),
		InitialBalance:  decimal.RequireFromString(DefaultInitialBalance),
		Allowance:       decimal.RequireFromString(DefaultAllowance),
		InterestPercent: decimal.RequireFromString(DefaultInterestPercent),
	}
}

// NewAccountState returns a fresh account for seed. Current rates mirror the
// initial ones until they are changed explicitly.
func NewAccountState(seed Seed) *AccountState {
	rates := RateSettings{Allowance: seed.Allowance, InterestPercent: seed.InterestPercent}
	return &AccountState{
		AccountHolder:      seed.AccountHolder,
		InitialBalance:     seed.InitialBalance,
		StartDate:          seed.StartDate,
		InitialRates:       rates,
		CurrentRates:       rates,
		ManualTransactions: []Transaction{},
		AutoDeposits:       []Transaction{},
	}
}

// RatesFor returns the settings in effect on day: the current rates once a
// change date is set and reached, the initial rates otherwise.
func (s *AccountState) RatesFor(day dateutils.Date) RateSettings {
	if s.SettingsChangeDate != nil && !day.Before(*s.SettingsChangeDate) {
		return s.CurrentRates
	}
	return s.InitialRates
}

// Checkpoint returns the high-water mark for the Saturday or Sunday schedule.
func (s *AccountState) Checkpoint(wd time.Weekday) *dateutils.Date {
	switch wd {
	case time.Saturday:
		return s.LastProcessedSaturday
	case time.Sunday:
		return s.LastProcessedSunday
	default:
		return nil
	}
}

// SetCheckpoint replaces the high-water mark for wd. A nil day clears it.
func (s *AccountState) SetCheckpoint(wd time.Weekday, day *dateutils.Date) {
	var cp *dateutils.Date
	if day != nil {
		d := *day
		cp = &d
	}
	switch wd {
	case time.Saturday:
		s.LastProcessedSaturday = cp
	case time.Sunday:
		s.LastProcessedSunday = cp
	}
}

// FindManual returns the index of the manual transaction with id.
func (s *AccountState) FindManual(id string) (int, bool) {
	for i, tx := range s.ManualTransactions {
		if tx.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Normalize repairs fields older records may lack: nil slices and entry kinds.
func (s *AccountState) Normalize() {
	if s.ManualTransactions == nil {
		s.ManualTransactions = []Transaction{}
	}
	if s.AutoDeposits == nil {
		s.AutoDeposits = []Transaction{}
	}
	for i := range s.ManualTransactions {
		s.ManualTransactions[i].Kind = KindManual
	}
	for i := range s.AutoDeposits {
		s.AutoDeposits[i].Kind = KindAuto
	}
}

// Validate checks the account parameters.
func (s *AccountState) Validate() error {
	if s.StartDate.IsZero() {
		return bankerror.NewValidation("start_date", "", "is required")
	}
	if s.InitialBalance.IsNegative() {
		return bankerror.NewValidation("initial_balance", s.InitialBalance.String(), "must not be negative")
	}
	if err := validateRates("initial", s.InitialRates); err != nil {
		return err
	}
	if err := validateRates("current", s.CurrentRates); err != nil {
		return err
	}
	for i, tx := range s.ManualTransactions {
		if tx.ID == "" {
			return bankerror.NewValidation(fmt.Sprintf("manual_txns[%d].id", i), "", "is required")
		}
		if tx.Date.IsZero() {
			return bankerror.NewValidation(fmt.Sprintf("manual_txns[%d].date", i), "", "is required")
		}
	}
	return nil
}

func validateRates(prefix string, r RateSettings) error {
	if r.Allowance.IsNegative() {
		return bankerror.NewValidation(prefix+"_allowance", r.Allowance.String(), "must not be negative")
	}
	if r.InterestPercent.IsNegative() {
		return bankerror.NewValidation(prefix+"_interest", r.InterestPercent.String(), "must not be negative")
	}
	return nil
}

// Clone returns a deep copy.
func (s *AccountState) Clone() *AccountState {
	c := *s
	c.SettingsChangeDate = cloneDate(s.SettingsChangeDate)
	c.LastProcessedSaturday = cloneDate(s.LastProcessedSaturday)
	c.LastProcessedSunday = cloneDate(s.LastProcessedSunday)
	c.ManualTransactions = append([]Transaction{}, s.ManualTransactions...)
	c.AutoDeposits = append([]Transaction{}, s.AutoDeposits...)
	return &c
}

func cloneDate(d *dateutils.Date) *dateutils.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
