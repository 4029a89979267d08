// Package recalc discards generated deposits from a cutoff date onward and
// replays the scheduler to regenerate them.
package recalc

import (
	"fmt"
	"time"

	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"
	"github.com/christo725/family-bank-app/internal/scheduler"
)

// Result reports what a recalculation removed and regenerated.
type Result struct {
	Cutoff      dateutils.Date
	Removed     int
	Regenerated scheduler.Result
}

// Engine invalidates and replays generated deposits.
type Engine struct {
	scheduler *scheduler.Scheduler
	log       logging.Logger
}

// NewEngine returns an Engine replaying through sch.
func NewEngine(sch *scheduler.Scheduler, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	if sch == nil {
		sch = scheduler.New(log)
	}
	return &Engine{scheduler: sch, log: log.WithField(logging.FieldComponent, "recalc")}
}

// InvalidateFrom removes every generated deposit dated on or after cutoff and
// regenerates them up to today.
//
// A checkpoint on or after cutoff is moved back to the last occurrence before
// cutoff, so the deposits kept before cutoff are never generated twice. When
// that occurrence precedes the first one the schedule could ever produce, the
// checkpoint is cleared instead.
//
// s is only modified when the replay succeeds.
func (e *Engine) InvalidateFrom(s *models.AccountState, cutoff, today dateutils.Date) (Result, error) {
	work := s.Clone()

	kept := make([]models.Transaction, 0, len(work.AutoDeposits))
	for _, tx := range work.AutoDeposits {
		if tx.Date.Before(cutoff) {
			kept = append(kept, tx)
		}
	}
	removed := len(work.AutoDeposits) - len(kept)
	work.AutoDeposits = kept

	for _, wd := range []time.Weekday{scheduler.AllowanceDay, scheduler.InterestDay} {
		rewind(work, wd, cutoff)
	}

	e.log.Debug("Invalidated generated deposits",
		logging.F(logging.FieldCutoff, cutoff.String()),
		logging.F(logging.FieldCount, removed))

	res, err := e.scheduler.Advance(work, today)
	if err != nil {
		return Result{}, fmt.Errorf("failed to replay deposits from %s: %w", cutoff, err)
	}

	*s = *work

	e.log.Info("Recalculated deposits",
		logging.F(logging.FieldCutoff, cutoff.String()),
		logging.F(logging.FieldAsOf, today.String()),
		logging.F("removed", removed),
		logging.F("regenerated", res.Allowances+res.Interests))

	return Result{Cutoff: cutoff, Removed: removed, Regenerated: res}, nil
}

func rewind(s *models.AccountState, wd time.Weekday, cutoff dateutils.Date) {
	cp := s.Checkpoint(wd)
	if cp == nil || cp.Before(cutoff) {
		return
	}
	prev := dateutils.LastOccurrenceBefore(cutoff, wd)
	if prev.Before(dateutils.FirstEligible(s.StartDate, wd)) {
		s.SetCheckpoint(wd, nil)
		return
	}
	s.SetCheckpoint(wd, &prev)
}

// RebuildAll clears every generated deposit and both checkpoints and replays
// the whole history up to today.
func (e *Engine) RebuildAll(s *models.AccountState, today dateutils.Date) (Result, error) {
	work := s.Clone()
	removed := len(work.AutoDeposits)
	work.AutoDeposits = []models.Transaction{}
	work.LastProcessedSaturday = nil
	work.LastProcessedSunday = nil

	res, err := e.scheduler.Advance(work, today)
	if err != nil {
		return Result{}, fmt.Errorf("failed to rebuild deposits: %w", err)
	}

	*s = *work

	e.log.Info("Rebuilt all deposits",
		logging.F(logging.FieldAsOf, today.String()),
		logging.F("removed", removed),
		logging.F("regenerated", res.Allowances+res.Interests))

	return Result{Cutoff: s.StartDate, Removed: removed, Regenerated: res}, nil
}
