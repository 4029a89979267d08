// Package remove deletes manual transactions.
package remove

import (
	"context"
	"fmt"
	"io"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/spf13/cobra"
)

var index int

// Cmd represents the delete command
var Cmd = &cobra.Command{
	Use:     "delete [ID]",
	Aliases: []string{"remove", "rm"},
	Short:   "Delete a manual transaction",
	Long: `Delete a manual transaction by its id, or by its position with --index
(the # column of "show"). Allowance and interest from the transaction date
onward are recalculated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		if !cmd.Flags().Changed("index") {
			index = -1
		}
		return Run(cmd.Context(), c.GetService(), cmd.OutOrStdout(), id, index)
	},
}

func init() {
	Cmd.Flags().IntVarP(&index, "index", "n", -1, "Position of the manual transaction instead of its id")
}

// Run deletes by id, or by index when index is not negative.
func Run(ctx context.Context, svc *account.Service, w io.Writer, id string, index int) error {
	var (
		tx  models.Transaction
		err error
	)
	switch {
	case id != "" && index >= 0:
		return bankerror.NewValidation("id", id, "give either an id or --index, not both")
	case id != "":
		tx, err = svc.DeleteTransaction(ctx, id)
	case index >= 0:
		tx, err = svc.DeleteTransactionAt(ctx, index)
	default:
		return bankerror.NewValidation("id", "", "is required")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Deleted %s on %s: %s\n", currencyutils.FormatUSD(tx.Amount), tx.Date, tx.Label)
	return err
}
