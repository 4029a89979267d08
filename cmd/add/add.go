// Package add records manual deposits and withdrawals.
package add

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/spf13/cobra"
)

var date string

// Cmd represents the add command
var Cmd = &cobra.Command{
	Use:   "add deposit|withdrawal AMOUNT DESCRIPTION...",
	Short: "Record a manual deposit or withdrawal",
	Long: `Record a manual deposit or withdrawal. Allowance and interest from the
transaction date onward are recalculated.`,
	Example: `  family-bank add deposit 20 Birthday money
  family-bank add withdrawal 4.50 Comic book --date 2024-03-02`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c.GetService(), cmd.OutOrStdout(), args[0], args[1], strings.Join(args[2:], " "), date)
	},
}

func init() {
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Transaction date YYYY-MM-DD (default: today)")
}

// Run parses the command-line values and records the transaction.
func Run(ctx context.Context, svc *account.Service, w io.Writer, direction, amount, label, date string) error {
	dir, err := models.ParseDirection(direction)
	if err != nil {
		return err
	}
	value, err := currencyutils.ParsePositive("amount", amount)
	if err != nil {
		return err
	}
	req := account.NewTransaction{Direction: dir, Label: label, Amount: value}
	if strings.TrimSpace(date) != "" {
		day, err := dateutils.ParseISO(date)
		if err != nil {
			return bankerror.NewValidation("date", date, "must be a YYYY-MM-DD date")
		}
		req.Date = &day
	}

	tx, err := svc.AddTransaction(ctx, req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Recorded %s of %s on %s: %s (id %s)\n",
		strings.ToLower(string(dir)), currencyutils.FormatUSD(tx.Amount.Abs()), tx.Date, tx.Label, tx.ID)
	return err
}
