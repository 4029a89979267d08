package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/goal"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"
	"github.com/christo725/family-bank-app/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal { d := dec(s); return &d }

func day(s string) dateutils.Date { return dateutils.MustParseISO(s) }

func dayPtr(s string) *dateutils.Date { d := day(s); return &d }

// movableClock lets a test move "today" between operations.
type movableClock struct {
	today dateutils.Date
}

func (c *movableClock) Now() time.Time { return c.today.Time().Add(12 * time.Hour) }

func newService(t *testing.T, today string) (*Service, *store.MockStore, *movableClock) {
	t.Helper()
	st := store.NewMockStore(nil)
	clock := &movableClock{today: day(today)}
	return NewService(st, nil, nil, clock, logging.NewMockLogger()), st, clock
}

func autoAmounts(s *models.AccountState) map[string]string {
	out := map[string]string{}
	for _, tx := range s.AutoDeposits {
		out[tx.ID] = tx.Amount.String()
	}
	return out
}

func TestOverview_CatchesUpAndSaves(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Len(t, ov.Rows, 4)
	assert.True(t, dec("10.1505").Equal(ov.CurrentBalance))
	assert.True(t, dec("10.1505").Equal(ov.BalanceToday))
	assert.Equal(t, "2024-01-20", ov.NextSaturday.String())
	assert.Equal(t, 5, ov.DaysUntilSaturday)
	assert.Equal(t, "2024-01-15", ov.Today.String())
	assert.Equal(t, 1, st.Saves)

	// Nothing new is due, so a second look does not write.
	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Saves)
}

func TestAddTransaction_RegeneratesLaterDeposits(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")
	ctx := context.Background()
	_, err := svc.Overview(ctx)
	require.NoError(t, err)

	tx, err := svc.AddTransaction(ctx, NewTransaction{
		Direction: models.Withdrawal,
		Label:     "Toy",
		Amount:    dec("20"),
		Date:      dayPtr("2024-01-08"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.True(t, dec("-20").Equal(tx.Amount))

	saved := st.Saved()
	require.Len(t, saved.ManualTransactions, 1)
	amounts := autoAmounts(saved)
	assert.Equal(t, "5", amounts["allowance:2024-01-13"])
	_, hasInterest := amounts["interest:2024-01-14"]
	assert.False(t, hasInterest)
	assert.Equal(t, "2024-01-14", saved.LastProcessedSunday.String())
}

func TestAddTransaction_DefaultsToToday(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")

	tx, err := svc.AddTransaction(context.Background(), NewTransaction{
		Direction: models.Deposit, Label: "Birthday", Amount: dec("50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", tx.Date.String())
	assert.Len(t, st.Saved().AutoDeposits, 4)
}

func TestAddTransaction_RejectedInputLeavesStoreUntouched(t *testing.T) {
	tests := []struct {
		name  string
		req   NewTransaction
		field string
	}{
		{"zero amount", NewTransaction{Direction: models.Deposit, Label: "x", Amount: dec("0")}, "amount"},
		{"blank label", NewTransaction{Direction: models.Deposit, Label: " ", Amount: dec("1")}, "label"},
		{"before start", NewTransaction{Direction: models.Deposit, Label: "x", Amount: dec("1"), Date: dayPtr("2023-12-31")}, "date"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, st, _ := newService(t, "2024-01-15")
			_, err := svc.AddTransaction(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, bankerror.IsValidation(err))
			assert.Contains(t, err.Error(), tc.field)
			assert.Zero(t, st.Saves)
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")
	ctx := context.Background()
	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	original := autoAmounts(st.Saved())

	tx, err := svc.AddTransaction(ctx, NewTransaction{
		Direction: models.Deposit, Label: "Gift", Amount: dec("100"), Date: dayPtr("2024-01-09"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, original, autoAmounts(st.Saved()))

	removed, err := svc.DeleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, removed.ID)
	assert.Empty(t, st.Saved().ManualTransactions)
	assert.Equal(t, original, autoAmounts(st.Saved()))

	_, err = svc.DeleteTransaction(ctx, tx.ID)
	assert.True(t, bankerror.IsNotFound(err))
}

func TestDeleteTransactionAt(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")
	ctx := context.Background()

	for _, label := range []string{"first", "second"} {
		_, err := svc.AddTransaction(ctx, NewTransaction{
			Direction: models.Deposit, Label: label, Amount: dec("1"), Date: dayPtr("2024-01-10"),
		})
		require.NoError(t, err)
	}

	removed, err := svc.DeleteTransactionAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", removed.Label)
	require.Len(t, st.Saved().ManualTransactions, 1)
	assert.Equal(t, "second", st.Saved().ManualTransactions[0].Label)

	for _, idx := range []int{-1, 1, 5} {
		_, err = svc.DeleteTransactionAt(ctx, idx)
		assert.True(t, bankerror.IsValidation(err), "index %d", idx)
	}
}

func TestUpdateInitialSettings_ReplaysHistory(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")
	ctx := context.Background()

	ov, err := svc.UpdateInitialSettings(ctx, InitialSettingsUpdate{
		AccountHolder:  strPtr("Emma"),
		InitialBalance: decPtr("100"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Emma", ov.AccountHolder)
	assert.Equal(t, "1.05", autoAmounts(st.Saved())["interest:2024-01-07"])

	_, err = svc.UpdateInitialSettings(ctx, InitialSettingsUpdate{Allowance: decPtr("2")})
	require.NoError(t, err)

	saved := st.Saved()
	assert.Equal(t, "2", autoAmounts(saved)["allowance:2024-01-13"])
	assert.True(t, saved.CurrentRates.Equal(saved.InitialRates), "current rates follow initial ones until changed")
}

func TestUpdateInitialSettings_MovingStartDate(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")

	_, err := svc.UpdateInitialSettings(context.Background(), InitialSettingsUpdate{StartDate: dayPtr("2024-01-07")})
	require.NoError(t, err)

	saved := st.Saved()
	assert.Equal(t, map[string]string{"allowance:2024-01-13": "5", "interest:2024-01-14": "0.05"}, autoAmounts(saved))
}

func TestUpdateInitialSettings_StartAfterManualRejected(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, NewTransaction{
		Direction: models.Deposit, Label: "Gift", Amount: dec("100"), Date: dayPtr("2024-01-03"),
	})
	require.NoError(t, err)
	saves := st.Saves
	before := autoAmounts(st.Saved())

	_, err = svc.UpdateInitialSettings(ctx, InitialSettingsUpdate{StartDate: dayPtr("2024-01-07")})
	require.Error(t, err)
	assert.True(t, bankerror.IsValidation(err))
	assert.Contains(t, err.Error(), "2024-01-03")
	assert.Equal(t, saves, st.Saves)

	saved := st.Saved()
	assert.Equal(t, "2024-01-01", saved.StartDate.String())
	assert.Equal(t, before, autoAmounts(saved))

	// The manual transaction's own day is still a valid start.
	_, err = svc.UpdateInitialSettings(ctx, InitialSettingsUpdate{StartDate: dayPtr("2024-01-03")})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", st.Saved().StartDate.String())
}

func TestUpdateInitialSettings_RejectsNegative(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")

	_, err := svc.UpdateInitialSettings(context.Background(), InitialSettingsUpdate{InterestPercent: decPtr("-1")})
	assert.True(t, bankerror.IsValidation(err))
	assert.Zero(t, st.Saves)
}

func TestUpdateCurrentSettings_AppliesFromChangeDate(t *testing.T) {
	svc, st, clock := newService(t, "2024-01-15")
	ctx := context.Background()

	ov, err := svc.UpdateCurrentSettings(ctx, CurrentSettingsUpdate{Allowance: decPtr("10")})
	require.NoError(t, err)
	require.NotNil(t, ov.SettingsChangeDate)
	assert.Equal(t, "2024-01-15", ov.SettingsChangeDate.String())
	assert.True(t, dec("1").Equal(ov.CurrentSettings.InterestPercent))

	clock.today = day("2024-01-22")
	_, err = svc.Overview(ctx)
	require.NoError(t, err)

	amounts := autoAmounts(st.Saved())
	assert.Equal(t, "5", amounts["allowance:2024-01-13"])
	assert.Equal(t, "10", amounts["allowance:2024-01-20"])

	// Changing the rates again keeps the first change date and rewrites the
	// deposits booked since then.
	_, err = svc.UpdateCurrentSettings(ctx, CurrentSettingsUpdate{Allowance: decPtr("3")})
	require.NoError(t, err)

	saved := st.Saved()
	assert.Equal(t, "2024-01-15", saved.SettingsChangeDate.String())
	assert.Equal(t, "3", autoAmounts(saved)["allowance:2024-01-20"])

	// Initial rates no longer leak into the current ones.
	_, err = svc.UpdateInitialSettings(ctx, InitialSettingsUpdate{Allowance: decPtr("1")})
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(st.Saved().CurrentRates.Allowance))
}

func TestRecalculate(t *testing.T) {
	svc, _, _ := newService(t, "2024-01-15")
	ctx := context.Background()
	_, err := svc.Overview(ctx)
	require.NoError(t, err)

	res, err := svc.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Removed)
	assert.Equal(t, 4, res.Regenerated.Events)
}

func TestProjectGoal(t *testing.T) {
	svc, _, _ := newService(t, "2024-01-15")

	p, err := svc.ProjectGoal(context.Background(), goal.Request{Amount: dec("1000"), Date: day("2024-01-19")})
	require.NoError(t, err)

	assert.Equal(t, goal.NoScheduledDeposits, p.Outcome)
	assert.True(t, dec("10.1505").Equal(p.CurrentBalance))
}

func TestPersistenceFailures(t *testing.T) {
	svc, st, _ := newService(t, "2024-01-15")
	ctx := context.Background()

	st.SaveError = errors.New("disk full")
	_, err := svc.AddTransaction(ctx, NewTransaction{Direction: models.Deposit, Label: "x", Amount: dec("1")})
	require.Error(t, err)
	assert.True(t, bankerror.IsPersistence(err))
	assert.Nil(t, st.Saved())

	st.SaveError = nil
	st.LoadError = errors.New("gone")
	_, err = svc.Overview(ctx)
	assert.True(t, bankerror.IsPersistence(err))
}

func TestCatchUp(t *testing.T) {
	svc, st, clock := newService(t, "2024-01-05")
	ctx := context.Background()

	res, err := svc.CatchUp(ctx)
	require.NoError(t, err)
	assert.False(t, res.Advanced())
	assert.Zero(t, st.Saves)

	clock.today = day("2024-01-07")
	res, err = svc.CatchUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Events)
	assert.Equal(t, 1, st.Saves)
}

func strPtr(s string) *string { return &s }
