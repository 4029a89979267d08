package add_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/christo725/family-bank-app/cmd/add"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := container.NewForTesting(filepath.Join(t.TempDir(), "bank.json"), "2024-01-15")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAddCommand_Metadata(t *testing.T) {
	assert.Contains(t, add.Cmd.Use, "add")
	assert.Contains(t, add.Cmd.Short, "deposit or withdrawal")
	assert.NotEmpty(t, add.Cmd.Example)
	dateFlag := add.Cmd.Flags().Lookup("date")
	require.NotNil(t, dateFlag)
	assert.Equal(t, "t", dateFlag.Shorthand)
	assert.Error(t, add.Cmd.Args(add.Cmd, []string{"deposit", "5"}))
}

func TestRun(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, add.Run(ctx, c.GetService(), &out, "withdrawal", "$20", "Toy car", "2024-01-08"))
	assert.Contains(t, out.String(), "Recorded withdrawal of $20.00 on 2024-01-08: Toy car")

	ov, err := c.GetService().Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-9.95", ov.CurrentBalance.String())
}

func TestRun_DefaultsToToday(t *testing.T) {
	c := newContainer(t)
	var out bytes.Buffer

	require.NoError(t, add.Run(context.Background(), c.GetService(), &out, "Deposit", "1'000", "Grandma", ""))
	assert.Contains(t, out.String(), "Recorded deposit of $1,000.00 on 2024-01-15")
}

func TestRun_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		amount    string
		date      string
	}{
		{"direction", "transfer", "5", ""},
		{"amount", "deposit", "five", ""},
		{"zero", "deposit", "0", ""},
		{"date", "deposit", "5", "yesterday"},
		{"before start", "deposit", "5", "2023-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContainer(t)
			err := add.Run(context.Background(), c.GetService(), &bytes.Buffer{}, tt.direction, tt.amount, "x", tt.date)
			require.Error(t, err)
			assert.True(t, bankerror.IsValidation(err))
		})
	}
}
