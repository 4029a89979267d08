// Package show prints the account ledger.
package show

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/export"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/spf13/cobra"
)

var asCSV bool

// Cmd represents the show command
var Cmd = &cobra.Command{
	Use:   "show",
	Short: "Show the ledger, balance and next deposit days",
	Long: `Show books every allowance and interest deposit due up to today, then
prints every transaction with its running balance.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		ov, err := c.GetService().Overview(cmd.Context())
		if err != nil {
			return err
		}
		if asCSV {
			return export.WriteLedger(cmd.OutOrStdout(), ov.Ledger, export.DefaultDelimiter)
		}
		return Print(cmd.OutOrStdout(), ov)
	},
}

func init() {
	Cmd.Flags().BoolVar(&asCSV, "csv", false, "Print the ledger as CSV")
}

// Print writes a human-readable account overview.
func Print(w io.Writer, ov account.Overview) error {
	fmt.Fprintf(w, "%s Bank Account\n", possessive(ov.AccountHolder))
	fmt.Fprintf(w, "Started %s with %s. Allowance %s every Saturday, interest %s%% every Sunday.\n\n",
		ov.StartDate, currencyutils.FormatUSD(ov.InitialBalance),
		currencyutils.FormatUSD(ov.CurrentSettings.Allowance), ov.CurrentSettings.InterestPercent)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDate\tDescription\tAmount\tBalance\t")
	for _, r := range ov.Rows {
		ref := ""
		if r.Kind == models.KindManual {
			ref = fmt.Sprint(r.ManualIndex)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", ref, r.Date, r.Label,
			currencyutils.FormatUSD(r.Amount), currencyutils.FormatUSD(r.Balance))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nCurrent balance: %s\n", currencyutils.FormatUSD(ov.CurrentBalance))
	if !ov.BalanceToday.Equal(ov.CurrentBalance) {
		fmt.Fprintf(w, "Balance today (%s): %s\n", ov.Today, currencyutils.FormatUSD(ov.BalanceToday))
	}
	fmt.Fprintf(w, "Next allowance: %s (%s)\n", ov.NextSaturday, inDays(ov.DaysUntilSaturday))
	_, err := fmt.Fprintf(w, "Next interest:  %s (%s)\n", ov.NextSunday, inDays(ov.DaysUntilSunday))
	return err
}

func possessive(name string) string {
	if name == models.DefaultAccountHolder || name == "" {
		return models.DefaultAccountHolder
	}
	return name + "'s"
}

func inDays(n int) string {
	if n == 1 {
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", n)
}
