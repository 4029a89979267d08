// Package scheduler generates the weekly allowance (Saturday) and interest
// (Sunday) deposits that have fallen due since the last checkpoint.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/ledger"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"
)

// Weekdays on which each deposit type fires.
const (
	AllowanceDay = time.Saturday
	InterestDay  = time.Sunday
)

// Event is one due occurrence of a weekly schedule.
type Event struct {
	Date dateutils.Date
	Type models.DepositType
}

// Result summarises one Advance call.
type Result struct {
	Events          int
	Allowances      int
	Interests       int
	SkippedInterest int
	LastSaturday    *dateutils.Date
	LastSunday      *dateutils.Date
}

// Advanced reports whether any due event was processed.
func (r Result) Advanced() bool {
	return r.Events > 0
}

// Scheduler books due deposits into an account.
type Scheduler struct {
	log logging.Logger
}

// New returns a Scheduler logging to log.
func New(log logging.Logger) *Scheduler {
	if log == nil {
		log = logging.Discard()
	}
	return &Scheduler{log: log.WithField(logging.FieldComponent, "scheduler")}
}

// scheduleStart is the day after the checkpoint, or the start date when the
// schedule has never run. It never precedes the start date.
func scheduleStart(s *models.AccountState, wd time.Weekday) dateutils.Date {
	cp := s.Checkpoint(wd)
	if cp == nil {
		return s.StartDate
	}
	next := cp.AddDays(1)
	if next.Before(s.StartDate) {
		return s.StartDate
	}
	return next
}

// DueEvents lists the allowance and interest events in (checkpoint, asOf],
// oldest first. A Saturday event sorts before a Sunday event on the same day.
func DueEvents(s *models.AccountState, asOf dateutils.Date) []Event {
	var events []Event
	for _, d := range dateutils.OccurrencesBetween(scheduleStart(s, AllowanceDay), asOf, AllowanceDay) {
		events = append(events, Event{Date: d, Type: models.DepositAllowance})
	}
	for _, d := range dateutils.OccurrencesBetween(scheduleStart(s, InterestDay), asOf, InterestDay) {
		events = append(events, Event{Date: d, Type: models.DepositInterest})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Type == models.DepositAllowance && events[j].Type != models.DepositAllowance
	})
	return events
}

// Advance books every deposit due up to and including asOf and moves the
// checkpoints. Calling it again with the same asOf is a no-op.
//
// The new deposits and checkpoints are assigned to s only after every event
// has been computed, so s is either fully advanced or untouched.
func (sch *Scheduler) Advance(s *models.AccountState, asOf dateutils.Date) (Result, error) {
	if s.StartDate.IsZero() {
		return Result{}, bankerror.NewValidation("start_date", "", "is required")
	}

	events := DueEvents(s, asOf)
	result := Result{LastSaturday: s.LastProcessedSaturday, LastSunday: s.LastProcessedSunday}
	if len(events) == 0 {
		sch.log.Debug("No deposits due", logging.F(logging.FieldAsOf, asOf.String()))
		return result, nil
	}

	existing := make(map[string]bool, len(s.AutoDeposits))
	for _, tx := range s.AutoDeposits {
		existing[tx.ID] = true
	}

	first := events[0].Date
	balance := ledger.BalanceBefore(s, first)

	// Entries already on the books from the first event onward are folded
	// into the balance as the walk reaches their date.
	var pending []models.Transaction
	for _, tx := range ledger.Merge(s) {
		if !tx.Date.Before(first) {
			pending = append(pending, tx)
		}
	}

	autos := append([]models.Transaction{}, s.AutoDeposits...)
	lastSat, lastSun := s.LastProcessedSaturday, s.LastProcessedSunday
	next := 0

	for _, ev := range events {
		for next < len(pending) && !pending[next].Date.After(ev.Date) {
			balance = balance.Add(pending[next].Amount)
			next++
		}

		if existing[models.AutoID(ev.Type, ev.Date)] {
			return Result{}, fmt.Errorf("deposit %s already booked past checkpoint", models.AutoID(ev.Type, ev.Date))
		}

		rates := s.RatesFor(ev.Date)
		day := ev.Date
		switch ev.Type {
		case models.DepositAllowance:
			autos = append(autos, models.NewAllowance(day, rates.Allowance))
			balance = balance.Add(rates.Allowance)
			lastSat = &day
			result.Allowances++

		case models.DepositInterest:
			interest := models.Interest(balance, rates.InterestPercent)
			if interest.IsPositive() {
				autos = append(autos, models.NewInterest(day, interest, rates.InterestPercent))
				balance = balance.Add(interest)
				result.Interests++
			} else {
				result.SkippedInterest++
			}
			lastSun = &day
		}

		sch.log.Debug("Processed deposit event",
			logging.F(logging.FieldDate, day.String()),
			logging.F(logging.FieldOperation, string(ev.Type)),
			logging.F(logging.FieldBalance, balance.String()))
	}

	s.AutoDeposits = autos
	s.SetCheckpoint(AllowanceDay, lastSat)
	s.SetCheckpoint(InterestDay, lastSun)

	result.Events = len(events)
	result.LastSaturday = s.LastProcessedSaturday
	result.LastSunday = s.LastProcessedSunday

	sch.log.Info("Advanced recurring deposits",
		logging.F(logging.FieldAsOf, asOf.String()),
		logging.F(logging.FieldCount, result.Events),
		logging.F(logging.FieldSaturday, dateString(result.LastSaturday)),
		logging.F(logging.FieldSunday, dateString(result.LastSunday)))

	return result, nil
}

func dateString(d *dateutils.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
