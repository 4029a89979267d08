// Package goal answers whether a savings target will be met by a given date
// if the current weekly allowance and interest keep being paid.
package goal

import (
	"sort"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/ledger"
	"github.com/christo725/family-bank-app/internal/models"
	"github.com/christo725/family-bank-app/internal/scheduler"

	"github.com/shopspring/decimal"
)

// Outcome classifies a projection.
type Outcome string

const (
	// AlreadyReached means the balance today already covers the goal.
	AlreadyReached Outcome = "already_reached"
	// NoScheduledDeposits means no allowance or interest day falls between
	// today and the goal date.
	NoScheduledDeposits Outcome = "no_scheduled_deposits"
	// WillReach means the scheduled deposits alone reach the goal.
	WillReach Outcome = "will_reach"
	// Shortfall means extra weekly savings are needed.
	Shortfall Outcome = "shortfall"
	// NoAllowanceRemaining means the goal is missed and no allowance day is
	// left to spread the difference over.
	NoAllowanceRemaining Outcome = "no_allowance_remaining"
)

// Request is a savings target.
type Request struct {
	Amount decimal.Decimal `json:"goal_amount"`
	Date   dateutils.Date  `json:"goal_date"`
}

// Projection is the answer to a Request.
type Projection struct {
	Outcome           Outcome         `json:"outcome"`
	GoalAmount        decimal.Decimal `json:"goal_amount"`
	GoalDate          dateutils.Date  `json:"goal_date"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	ProjectedBalance  decimal.Decimal `json:"future_balance"`
	Shortfall         decimal.Decimal `json:"shortfall"`
	WeeklyExtraNeeded decimal.Decimal `json:"weekly_extra_needed"`
	DaysUntilGoal     int             `json:"days_until_goal"`
	AllowancePayments int             `json:"allowance_payments"`
	InterestPayments  int             `json:"interest_payments"`
	TotalAllowance    decimal.Decimal `json:"total_allowance"`
}

// Reached reports whether the goal is met without extra savings.
func (p Projection) Reached() bool {
	return p.Outcome == AlreadyReached || p.Outcome == WillReach
}

type step struct {
	date   dateutils.Date
	amount decimal.Decimal
	kind   int
}

const (
	stepManual = iota
	stepAllowance
	stepInterest
)

// Project simulates the account from today to req.Date using the current
// rates only. Manual transactions already entered for days after today are
// applied on their date. Interest is computed the same way the scheduler
// computes it, so a projected Sunday matches the deposit later booked for it.
//
// s is not modified; callers should have advanced it to today first.
func Project(s *models.AccountState, req Request, today dateutils.Date) (Projection, error) {
	if !req.Amount.IsPositive() {
		return Projection{}, bankerror.NewValidation("goal_amount", req.Amount.String(), "must be greater than zero")
	}
	if req.Date.IsZero() {
		return Projection{}, bankerror.NewValidation("goal_date", "", "is required")
	}

	current := ledger.BalanceAt(s, today)
	p := Projection{
		GoalAmount:       req.Amount,
		GoalDate:         req.Date,
		CurrentBalance:   current,
		ProjectedBalance: current,
		Shortfall:        decimal.Zero,
		DaysUntilGoal:    today.DaysUntil(req.Date),
		TotalAllowance:   decimal.Zero,
	}

	if !req.Amount.GreaterThan(current) {
		p.Outcome = AlreadyReached
		return p, nil
	}

	saturdays := dateutils.OccurrencesBetween(today, req.Date, scheduler.AllowanceDay)
	sundays := dateutils.OccurrencesBetween(today, req.Date, scheduler.InterestDay)
	p.AllowancePayments = len(saturdays)
	p.InterestPayments = len(sundays)

	if len(saturdays) == 0 && len(sundays) == 0 {
		p.Outcome = NoScheduledDeposits
		p.Shortfall = req.Amount.Sub(current)
		return p, nil
	}

	rates := s.CurrentRates
	p.TotalAllowance = rates.Allowance.Mul(decimal.NewFromInt(int64(len(saturdays))))
	p.ProjectedBalance = simulate(s, current, rates, saturdays, sundays, today, req.Date)

	if !p.ProjectedBalance.LessThan(req.Amount) {
		p.Outcome = WillReach
		return p, nil
	}

	p.Shortfall = req.Amount.Sub(p.ProjectedBalance)
	if len(saturdays) == 0 {
		p.Outcome = NoAllowanceRemaining
		return p, nil
	}
	p.Outcome = Shortfall
	p.WeeklyExtraNeeded = p.Shortfall.Div(decimal.NewFromInt(int64(len(saturdays)))).RoundUp(2)
	return p, nil
}

func simulate(s *models.AccountState, balance decimal.Decimal, rates models.RateSettings,
	saturdays, sundays []dateutils.Date, today, goalDate dateutils.Date) decimal.Decimal {
	var steps []step
	for _, tx := range s.ManualTransactions {
		if tx.Date.After(today) && !tx.Date.After(goalDate) {
			steps = append(steps, step{date: tx.Date, amount: tx.Amount, kind: stepManual})
		}
	}
	for _, d := range saturdays {
		steps = append(steps, step{date: d, amount: rates.Allowance, kind: stepAllowance})
	}
	for _, d := range sundays {
		steps = append(steps, step{date: d, kind: stepInterest})
	}
	sort.SliceStable(steps, func(i, j int) bool {
		if !steps[i].date.Equal(steps[j].date) {
			return steps[i].date.Before(steps[j].date)
		}
		return steps[i].kind < steps[j].kind
	})

	for _, st := range steps {
		switch st.kind {
		case stepInterest:
			balance = balance.Add(models.Interest(balance, rates.InterestPercent))
		default:
			balance = balance.Add(st.amount)
		}
	}
	return balance
}
