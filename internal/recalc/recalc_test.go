package recalc

import (
	"testing"

	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"
	"github.com/christo725/family-bank-app/internal/scheduler"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) dateutils.Date { return dateutils.MustParseISO(s) }

// caughtUp returns the reference account advanced to 2024-01-15.
func caughtUp(t *testing.T, initialBalance string) *models.AccountState {
	t.Helper()
	seed := models.DefaultSeed()
	seed.InitialBalance = dec(initialBalance)
	s := models.NewAccountState(seed)
	_, err := scheduler.New(nil).Advance(s, day("2024-01-15"))
	require.NoError(t, err)
	return s
}

func manual(id, date, amount string) models.Transaction {
	return models.Transaction{ID: id, Date: day(date), Label: id, Amount: dec(amount), Kind: models.KindManual}
}

func amounts(s *models.AccountState) map[string]string {
	out := map[string]string{}
	for _, tx := range s.AutoDeposits {
		out[tx.ID] = tx.Amount.String()
	}
	return out
}

func TestInvalidateFrom_WithdrawalBeforeDeposits(t *testing.T) {
	s := caughtUp(t, "0")
	s.ManualTransactions = append(s.ManualTransactions, manual("toy", "2024-01-08", "-20"))

	mock := logging.NewMockLogger()
	res, err := NewEngine(nil, mock).InvalidateFrom(s, day("2024-01-08"), day("2024-01-15"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, 1, res.Regenerated.Allowances)
	assert.Equal(t, 1, res.Regenerated.SkippedInterest)

	// The balance is negative on the 14th, so no interest is earned at all.
	assert.Equal(t, map[string]string{
		"allowance:2024-01-06": "5",
		"interest:2024-01-07":  "0.05",
		"allowance:2024-01-13": "5",
	}, amounts(s))
	assert.Equal(t, "2024-01-13", s.LastProcessedSaturday.String())
	assert.Equal(t, "2024-01-14", s.LastProcessedSunday.String())
	assert.True(t, mock.HasEntry("INFO", "Recalculated deposits"))
}

func TestInvalidateFrom_SmallerPositiveInterest(t *testing.T) {
	s := caughtUp(t, "100")
	require.Equal(t, "1.1105", amounts(s)["interest:2024-01-14"])

	s.ManualTransactions = append(s.ManualTransactions, manual("toy", "2024-01-08", "-20"))
	_, err := NewEngine(nil, nil).InvalidateFrom(s, day("2024-01-08"), day("2024-01-15"))
	require.NoError(t, err)

	// 106.05 - 20 + 5 = 91.05 on the 14th
	assert.Equal(t, "0.9105", amounts(s)["interest:2024-01-14"])
	assert.Equal(t, "1.05", amounts(s)["interest:2024-01-07"])
}

func TestInvalidateFrom_DeleteRestoresOriginal(t *testing.T) {
	original := caughtUp(t, "100")
	s := original.Clone()
	engine := NewEngine(nil, nil)

	s.ManualTransactions = append(s.ManualTransactions, manual("gift", "2024-01-09", "50"))
	_, err := engine.InvalidateFrom(s, day("2024-01-09"), day("2024-01-15"))
	require.NoError(t, err)
	assert.NotEqual(t, amounts(original), amounts(s))

	s.ManualTransactions = s.ManualTransactions[:0]
	_, err = engine.InvalidateFrom(s, day("2024-01-09"), day("2024-01-15"))
	require.NoError(t, err)

	assert.Equal(t, amounts(original), amounts(s))
	assert.Equal(t, original.LastProcessedSaturday.String(), s.LastProcessedSaturday.String())
	assert.Equal(t, original.LastProcessedSunday.String(), s.LastProcessedSunday.String())
}

func TestInvalidateFrom_CutoffOnDepositDay(t *testing.T) {
	s := caughtUp(t, "0")
	s.ManualTransactions = append(s.ManualTransactions, manual("chores", "2024-01-13", "10"))

	res, err := NewEngine(nil, nil).InvalidateFrom(s, day("2024-01-13"), day("2024-01-15"))
	require.NoError(t, err)

	// The allowance on the cutoff day itself is dropped and booked again.
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, "5", amounts(s)["allowance:2024-01-13"])
	// 5.05 + 10 + 5
	assert.Equal(t, "0.2005", amounts(s)["interest:2024-01-14"])
	assert.Len(t, s.AutoDeposits, 4)
}

func TestInvalidateFrom_CutoffBeforeFirstOccurrenceClearsCheckpoints(t *testing.T) {
	s := caughtUp(t, "0")
	s.ManualTransactions = append(s.ManualTransactions, manual("gift", "2024-01-03", "100"))

	res, err := NewEngine(nil, nil).InvalidateFrom(s, day("2024-01-03"), day("2024-01-15"))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Removed)
	assert.Equal(t, 4, res.Regenerated.Events)
	assert.Equal(t, "1.05", amounts(s)["interest:2024-01-07"])
}

func TestInvalidateFrom_FutureCutoffKeepsEverything(t *testing.T) {
	s := caughtUp(t, "0")
	before := amounts(s)

	res, err := NewEngine(nil, nil).InvalidateFrom(s, day("2024-02-01"), day("2024-01-15"))
	require.NoError(t, err)

	assert.Zero(t, res.Removed)
	assert.False(t, res.Regenerated.Advanced())
	assert.Equal(t, before, amounts(s))
}

func TestInvalidateFrom_FailureLeavesStateUntouched(t *testing.T) {
	s := caughtUp(t, "0")
	s.StartDate = dateutils.Date{}
	before := amounts(s)

	_, err := NewEngine(nil, nil).InvalidateFrom(s, day("2024-01-08"), day("2024-01-15"))
	require.Error(t, err)
	assert.Equal(t, before, amounts(s))
	assert.Equal(t, "2024-01-14", s.LastProcessedSunday.String())
}

func TestRebuildAll(t *testing.T) {
	s := caughtUp(t, "0")
	s.InitialBalance = dec("100")

	res, err := NewEngine(nil, nil).RebuildAll(s, day("2024-01-15"))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Removed)
	assert.Equal(t, map[string]string{
		"allowance:2024-01-06": "5",
		"interest:2024-01-07":  "1.05",
		"allowance:2024-01-13": "5",
		"interest:2024-01-14":  "1.1105",
	}, amounts(s))
}

// Any sequence of inserts and deletes followed by invalidation must leave the
// same deposits as a full rebuild.
func TestInvalidateFrom_SequenceMatchesRebuild(t *testing.T) {
	s := caughtUp(t, "20")
	engine := NewEngine(nil, nil)
	today := day("2024-03-01")

	steps := []struct {
		add    *models.Transaction
		remove string
		cutoff string
	}{
		{add: ptr(manual("a", "2024-01-20", "30")), cutoff: "2024-01-20"},
		{add: ptr(manual("b", "2024-01-09", "-10")), cutoff: "2024-01-09"},
		{add: ptr(manual("c", "2024-02-11", "7.25")), cutoff: "2024-02-11"},
		{remove: "b", cutoff: "2024-01-09"},
		{add: ptr(manual("d", "2024-01-06", "1")), cutoff: "2024-01-06"},
		{remove: "a", cutoff: "2024-01-20"},
	}

	for _, step := range steps {
		if step.add != nil {
			s.ManualTransactions = append(s.ManualTransactions, *step.add)
		}
		if step.remove != "" {
			idx, ok := s.FindManual(step.remove)
			require.True(t, ok)
			s.ManualTransactions = append(s.ManualTransactions[:idx], s.ManualTransactions[idx+1:]...)
		}
		_, err := engine.InvalidateFrom(s, day(step.cutoff), today)
		require.NoError(t, err)
	}

	rebuilt := s.Clone()
	_, err := engine.RebuildAll(rebuilt, today)
	require.NoError(t, err)

	assert.Equal(t, amounts(rebuilt), amounts(s))
	assert.Len(t, s.AutoDeposits, len(rebuilt.AutoDeposits))
	assert.Equal(t, rebuilt.LastProcessedSaturday.String(), s.LastProcessedSaturday.String())
	assert.Equal(t, rebuilt.LastProcessedSunday.String(), s.LastProcessedSunday.String())
}

func ptr(tx models.Transaction) *models.Transaction { return &tx }
