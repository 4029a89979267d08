// Package goal projects the balance to a savings goal date.
package goal

import (
	"context"
	"fmt"
	"io"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/goal"

	"github.com/spf13/cobra"
)

// Cmd represents the goal command
var Cmd = &cobra.Command{
	Use:   "goal AMOUNT DATE",
	Short: "Check whether a savings goal will be reached",
	Long: `Project the balance to DATE assuming the current allowance and interest
keep being paid, and tell how much extra must be saved each week if the
projection falls short of AMOUNT.`,
	Example: "  family-bank goal 150 2024-12-24",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c.GetService(), cmd.OutOrStdout(), args[0], args[1])
	},
}

// Run parses the goal and prints the projection.
func Run(ctx context.Context, svc *account.Service, w io.Writer, amount, date string) error {
	value, err := currencyutils.ParsePositive("goal_amount", amount)
	if err != nil {
		return err
	}
	day, err := dateutils.ParseISO(date)
	if err != nil {
		return bankerror.NewValidation("goal_date", date, "must be a YYYY-MM-DD date")
	}

	p, err := svc.ProjectGoal(ctx, goal.Request{Amount: value, Date: day})
	if err != nil {
		return err
	}
	first, second := goal.Messages(p)
	fmt.Fprintln(w, first)
	fmt.Fprintln(w, second)
	_, err = fmt.Fprintf(w, "%d allowance and %d interest payments in %d days, %s of allowance.\n",
		p.AllowancePayments, p.InterestPayments, p.DaysUntilGoal, currencyutils.FormatUSD(p.TotalAllowance))
	return err
}
