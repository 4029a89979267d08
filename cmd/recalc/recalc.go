// Package recalc rebuilds every generated deposit.
package recalc

import (
	"context"
	"fmt"
	"io"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"

	"github.com/spf13/cobra"
)

// Cmd represents the recalc command
var Cmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recalculate every allowance and interest deposit",
	Long: `Recalculate discards every generated allowance and interest deposit and
replays the schedule from the account start date to today.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c.GetService(), cmd.OutOrStdout())
	},
}

// Run rebuilds the generated deposits and reports the counts.
func Run(ctx context.Context, svc *account.Service, w io.Writer) error {
	res, err := svc.Recalculate(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Removed %d generated deposits, booked %d (%d allowance, %d interest).\n",
		res.Removed, res.Regenerated.Allowances+res.Regenerated.Interests,
		res.Regenerated.Allowances, res.Regenerated.Interests)
	return err
}
