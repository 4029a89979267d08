// Package account runs every account operation as load, catch up, change,
// save against the configured store.
package account

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/goal"
	"github.com/christo725/family-bank-app/internal/ledger"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"
	"github.com/christo725/family-bank-app/internal/recalc"
	"github.com/christo725/family-bank-app/internal/scheduler"
	"github.com/christo725/family-bank-app/internal/store"

	"github.com/shopspring/decimal"
)

// Overview is the account as shown to the user: settings, the ledger with
// running balances and the next deposit days.
type Overview struct {
	AccountHolder      string              `json:"account_holder"`
	InitialBalance     decimal.Decimal     `json:"initial_balance"`
	StartDate          dateutils.Date      `json:"start_date"`
	InitialSettings    models.RateSettings `json:"initial_settings"`
	CurrentSettings    models.RateSettings `json:"current_settings"`
	SettingsChangeDate *dateutils.Date     `json:"settings_change_date"`
	Today              dateutils.Date      `json:"today"`
	BalanceToday       decimal.Decimal     `json:"balance_today"`
	ledger.Ledger
	scheduler.Upcoming
}

// NewTransaction is a manual deposit or withdrawal. A nil Date means today.
type NewTransaction struct {
	Direction models.Direction
	Label     string
	Amount    decimal.Decimal
	Date      *dateutils.Date
}

// InitialSettingsUpdate changes the account parameters. Nil fields are left
// as they are.
type InitialSettingsUpdate struct {
	AccountHolder   *string
	InitialBalance  *decimal.Decimal
	StartDate       *dateutils.Date
	Allowance       *decimal.Decimal
	InterestPercent *decimal.Decimal
}

// CurrentSettingsUpdate changes the rates in effect from the settings change
// date onward. Nil fields are left as they are.
type CurrentSettingsUpdate struct {
	Allowance       *decimal.Decimal
	InterestPercent *decimal.Decimal
}

// Service serialises account operations within this process. Separate
// processes writing the same store are not coordinated.
type Service struct {
	mu        sync.Mutex
	store     store.Store
	scheduler *scheduler.Scheduler
	engine    *recalc.Engine
	clock     dateutils.Clock
	log       logging.Logger
}

// NewService wires a Service. Nil collaborators get working defaults.
func NewService(st store.Store, sch *scheduler.Scheduler, engine *recalc.Engine, clock dateutils.Clock, log logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	if sch == nil {
		sch = scheduler.New(log)
	}
	if engine == nil {
		engine = recalc.NewEngine(sch, log)
	}
	if clock == nil {
		clock = dateutils.SystemClock{}
	}
	return &Service{
		store:     st,
		scheduler: sch,
		engine:    engine,
		clock:     clock,
		log:       log.WithField(logging.FieldComponent, "account"),
	}
}

// Today is the current calendar day according to the service clock.
func (s *Service) Today() dateutils.Date {
	return dateutils.Today(s.clock)
}

// mutate loads the account, books any deposits due today, applies fn and
// saves. fn must validate its input before changing state.
func (s *Service) mutate(ctx context.Context, op string, fn func(st *models.AccountState, today dateutils.Date) error) (*models.AccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.WithField(logging.FieldOperation, op)
	today := s.Today()

	st, err := s.store.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load account")
		return nil, err
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("stored account is invalid: %w", err)
	}
	if _, err := s.scheduler.Advance(st, today); err != nil {
		return nil, fmt.Errorf("failed to book due deposits: %w", err)
	}
	if fn != nil {
		if err := fn(st, today); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save(ctx, st); err != nil {
		log.WithError(err).Error("Failed to save account")
		return nil, err
	}
	return st, nil
}

// CatchUp books every deposit due up to today.
func (s *Service) CatchUp(ctx context.Context) (scheduler.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, res, err := s.catchUp(ctx)
	return res, err
}

// catchUp loads the account and advances it to today, saving only when
// something was booked. The caller holds s.mu.
func (s *Service) catchUp(ctx context.Context) (*models.AccountState, scheduler.Result, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, scheduler.Result{}, err
	}
	if err := st.Validate(); err != nil {
		return nil, scheduler.Result{}, fmt.Errorf("stored account is invalid: %w", err)
	}
	res, err := s.scheduler.Advance(st, s.Today())
	if err != nil {
		return nil, res, fmt.Errorf("failed to book due deposits: %w", err)
	}
	if res.Advanced() {
		if err := s.store.Save(ctx, st); err != nil {
			return nil, res, err
		}
	}
	return st, res, nil
}

// Overview catches the account up and returns its ledger view.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, _, err := s.catchUp(ctx)
	if err != nil {
		return Overview{}, err
	}
	return s.overview(st), nil
}

func (s *Service) overview(st *models.AccountState) Overview {
	today := s.Today()
	return Overview{
		AccountHolder:      st.AccountHolder,
		InitialBalance:     st.InitialBalance,
		StartDate:          st.StartDate,
		InitialSettings:    st.InitialRates,
		CurrentSettings:    st.CurrentRates,
		SettingsChangeDate: st.SettingsChangeDate,
		Today:              today,
		BalanceToday:       ledger.BalanceAt(st, today),
		Ledger:             ledger.Compute(st),
		Upcoming:           scheduler.NextDeposits(today),
	}
}

// AddTransaction records a manual deposit or withdrawal and regenerates the
// deposits from its date onward.
func (s *Service) AddTransaction(ctx context.Context, req NewTransaction) (models.Transaction, error) {
	var added models.Transaction
	_, err := s.mutate(ctx, "add_transaction", func(st *models.AccountState, today dateutils.Date) error {
		date := today
		if req.Date != nil {
			date = *req.Date
		}
		if date.Before(st.StartDate) {
			return bankerror.NewValidation("date", date.String(), "is before the account start date "+st.StartDate.String())
		}

		tx, err := models.NewTransactionBuilder().
			WithDate(date).
			WithLabel(req.Label).
			WithAmount(req.Amount).
			WithDirection(req.Direction).
			Build()
		if err != nil {
			return err
		}

		st.ManualTransactions = append(st.ManualTransactions, tx)
		if _, err := s.engine.InvalidateFrom(st, tx.Date, today); err != nil {
			return err
		}
		added = tx
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.log.Info("Added transaction",
		logging.F(logging.FieldTransactionID, added.ID),
		logging.F(logging.FieldDate, added.Date.String()),
		logging.F(logging.FieldAmount, added.Amount.String()))
	return added, nil
}

// DeleteTransaction removes the manual transaction with id and regenerates
// the deposits from its date onward.
func (s *Service) DeleteTransaction(ctx context.Context, id string) (models.Transaction, error) {
	return s.deleteWhere(ctx, func(st *models.AccountState) (int, error) {
		idx, ok := st.FindManual(strings.TrimSpace(id))
		if !ok {
			return -1, &bankerror.NotFoundError{Kind: "transaction", ID: id}
		}
		return idx, nil
	})
}

// DeleteTransactionAt removes the manual transaction at position index of the
// manual list.
func (s *Service) DeleteTransactionAt(ctx context.Context, index int) (models.Transaction, error) {
	return s.deleteWhere(ctx, func(st *models.AccountState) (int, error) {
		if index < 0 || index >= len(st.ManualTransactions) {
			return -1, bankerror.NewValidation("index", fmt.Sprint(index), "is out of range")
		}
		return index, nil
	})
}

func (s *Service) deleteWhere(ctx context.Context, find func(*models.AccountState) (int, error)) (models.Transaction, error) {
	var removed models.Transaction
	_, err := s.mutate(ctx, "delete_transaction", func(st *models.AccountState, today dateutils.Date) error {
		idx, err := find(st)
		if err != nil {
			return err
		}
		removed = st.ManualTransactions[idx]
		st.ManualTransactions = append(st.ManualTransactions[:idx:idx], st.ManualTransactions[idx+1:]...)
		_, err = s.engine.InvalidateFrom(st, removed.Date, today)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.log.Info("Deleted transaction",
		logging.F(logging.FieldTransactionID, removed.ID),
		logging.F(logging.FieldDate, removed.Date.String()))
	return removed, nil
}

// UpdateInitialSettings changes the account parameters and replays the whole
// history. While the current rates have never been changed they follow the
// initial rates.
func (s *Service) UpdateInitialSettings(ctx context.Context, req InitialSettingsUpdate) (Overview, error) {
	if err := nonNegative("initial_balance", req.InitialBalance); err != nil {
		return Overview{}, err
	}
	if err := nonNegative("initial_allowance", req.Allowance); err != nil {
		return Overview{}, err
	}
	if err := nonNegative("initial_interest", req.InterestPercent); err != nil {
		return Overview{}, err
	}

	st, err := s.mutate(ctx, "update_initial_settings", func(st *models.AccountState, today dateutils.Date) error {
		if req.StartDate != nil {
			if req.StartDate.IsZero() {
				return bankerror.NewValidation("start_date", "", "is required")
			}
			if err := startPrecedesManual(st, *req.StartDate); err != nil {
				return err
			}
		}

		if req.AccountHolder != nil && strings.TrimSpace(*req.AccountHolder) != "" {
			st.AccountHolder = strings.TrimSpace(*req.AccountHolder)
		}
		if req.InitialBalance != nil {
			st.InitialBalance = *req.InitialBalance
		}
		if req.StartDate != nil {
			st.StartDate = *req.StartDate
		}
		if req.Allowance != nil {
			st.InitialRates.Allowance = *req.Allowance
		}
		if req.InterestPercent != nil {
			st.InitialRates.InterestPercent = *req.InterestPercent
		}
		if st.SettingsChangeDate == nil {
			st.CurrentRates = st.InitialRates
		}
		_, err := s.engine.RebuildAll(st, today)
		return err
	})
	if err != nil {
		return Overview{}, err
	}

	s.log.Info("Updated initial settings",
		logging.F("start_date", st.StartDate.String()),
		logging.F("allowance", st.InitialRates.Allowance.String()),
		logging.F("interest_percent", st.InitialRates.InterestPercent.String()))
	return s.overview(st), nil
}

// UpdateCurrentSettings changes the rates in effect from the settings change
// date, which becomes today if it was never set. Deposits from that date on
// are regenerated with the new rates.
func (s *Service) UpdateCurrentSettings(ctx context.Context, req CurrentSettingsUpdate) (Overview, error) {
	if err := nonNegative("current_allowance", req.Allowance); err != nil {
		return Overview{}, err
	}
	if err := nonNegative("current_interest", req.InterestPercent); err != nil {
		return Overview{}, err
	}

	st, err := s.mutate(ctx, "update_current_settings", func(st *models.AccountState, today dateutils.Date) error {
		if req.Allowance != nil {
			st.CurrentRates.Allowance = *req.Allowance
		}
		if req.InterestPercent != nil {
			st.CurrentRates.InterestPercent = *req.InterestPercent
		}
		if st.SettingsChangeDate == nil {
			change := today
			st.SettingsChangeDate = &change
		}
		_, err := s.engine.InvalidateFrom(st, *st.SettingsChangeDate, today)
		return err
	})
	if err != nil {
		return Overview{}, err
	}

	s.log.Info("Updated current settings",
		logging.F("effective", st.SettingsChangeDate.String()),
		logging.F("allowance", st.CurrentRates.Allowance.String()),
		logging.F("interest_percent", st.CurrentRates.InterestPercent.String()))
	return s.overview(st), nil
}

// Recalculate discards every generated deposit and replays the whole history.
func (s *Service) Recalculate(ctx context.Context) (recalc.Result, error) {
	var res recalc.Result
	_, err := s.mutate(ctx, "recalculate", func(st *models.AccountState, today dateutils.Date) error {
		var err error
		res, err = s.engine.RebuildAll(st, today)
		return err
	})
	return res, err
}

// ProjectGoal catches the account up and projects it to the goal date.
func (s *Service) ProjectGoal(ctx context.Context, req goal.Request) (goal.Projection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, _, err := s.catchUp(ctx)
	if err != nil {
		return goal.Projection{}, err
	}
	return goal.Project(st, req, s.Today())
}

// startPrecedesManual rejects a start date later than any manual transaction;
// the initial balance is the balance before every transaction.
func startPrecedesManual(st *models.AccountState, start dateutils.Date) error {
	for _, tx := range st.ManualTransactions {
		if tx.Date.Before(start) {
			return bankerror.NewValidation("start_date", start.String(),
				"is after manual transaction dated "+tx.Date.String())
		}
	}
	return nil
}

func nonNegative(field string, v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return bankerror.NewValidation(field, v.String(), "must not be negative")
	}
	return nil
}
