package goal_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/christo725/family-bank-app/cmd/goal"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *account.Service {
	t.Helper()
	c, err := container.NewForTesting(filepath.Join(t.TempDir(), "bank.json"), "2024-01-15")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c.GetService()
}

func TestGoalCommand_Metadata(t *testing.T) {
	assert.Equal(t, "goal AMOUNT DATE", goal.Cmd.Use)
	assert.Contains(t, goal.Cmd.Short, "savings goal")
	assert.Error(t, goal.Cmd.Args(goal.Cmd, []string{"100"}))
	assert.NoError(t, goal.Cmd.Args(goal.Cmd, []string{"100", "2024-06-01"}))
}

func TestRun_WillReach(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, goal.Run(context.Background(), newService(t), &out, "12", "2024-01-20"))

	assert.Equal(t, "You will reach your goal by 2024-01-20!\n"+
		"Projected balance: $15.15\n"+
		"1 allowance and 0 interest payments in 5 days, $5.00 of allowance.\n", out.String())
}

func TestRun_Shortfall(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, goal.Run(context.Background(), newService(t), &out, "$100", "2024-01-28"))

	assert.Contains(t, out.String(), "short by")
	assert.Contains(t, out.String(), "per week")
	assert.Contains(t, out.String(), "2 allowance and 2 interest payments in 13 days")
}

func TestRun_Invalid(t *testing.T) {
	svc := newService(t)

	err := goal.Run(context.Background(), svc, &bytes.Buffer{}, "0", "2024-06-01")
	assert.True(t, bankerror.IsValidation(err))

	err = goal.Run(context.Background(), svc, &bytes.Buffer{}, "100", "June")
	assert.True(t, bankerror.IsValidation(err))
}
