// Package settings changes the account parameters and the current rates.
package settings

import (
	"context"
	"fmt"
	"io"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/dateutils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// InitialOptions holds the initial settings given on the command line. Nil
// fields were not given.
type InitialOptions struct {
	Holder    *string
	Balance   *string
	StartDate *string
	Allowance *string
	Interest  *string
}

// CurrentOptions holds the current rates given on the command line.
type CurrentOptions struct {
	Allowance *string
	Interest  *string
}

var holder, balance, startDate, allowance, interest string

// Cmd represents the settings command
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Change the account settings",
	Long: `Change the account settings.

"settings initial" changes the starting point of the account and replays the
whole history. "settings current" changes the allowance or interest rate from
the settings change date onward, which is today the first time it is used.`,
}

var initialCmd = &cobra.Command{
	Use:   "initial",
	Short: "Change holder, start date, starting balance and initial rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		opts := InitialOptions{
			Holder:    changed(cmd, "holder", holder),
			Balance:   changed(cmd, "balance", balance),
			StartDate: changed(cmd, "start-date", startDate),
			Allowance: changed(cmd, "allowance", allowance),
			Interest:  changed(cmd, "interest", interest),
		}
		return RunInitial(cmd.Context(), c.GetService(), cmd.OutOrStdout(), opts)
	},
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Change the allowance or interest rate from the change date onward",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		opts := CurrentOptions{
			Allowance: changed(cmd, "allowance", allowance),
			Interest:  changed(cmd, "interest", interest),
		}
		return RunCurrent(cmd.Context(), c.GetService(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	initialCmd.Flags().StringVar(&holder, "holder", "", "Account holder name")
	initialCmd.Flags().StringVar(&balance, "balance", "", "Starting balance")
	initialCmd.Flags().StringVar(&startDate, "start-date", "", "Account start date YYYY-MM-DD")
	initialCmd.Flags().StringVar(&allowance, "allowance", "", "Weekly allowance")
	initialCmd.Flags().StringVar(&interest, "interest", "", "Weekly interest in percent")

	currentCmd.Flags().StringVar(&allowance, "allowance", "", "Weekly allowance")
	currentCmd.Flags().StringVar(&interest, "interest", "", "Weekly interest in percent")

	Cmd.AddCommand(initialCmd, currentCmd)
}

func changed(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func amount(field string, v *string) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := currencyutils.ParseNonNegative(field, *v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RunInitial applies the initial settings and prints the new state.
func RunInitial(ctx context.Context, svc *account.Service, w io.Writer, opts InitialOptions) error {
	update := account.InitialSettingsUpdate{AccountHolder: opts.Holder}
	var err error
	if update.InitialBalance, err = amount("initial_balance", opts.Balance); err != nil {
		return err
	}
	if update.Allowance, err = amount("initial_allowance", opts.Allowance); err != nil {
		return err
	}
	if update.InterestPercent, err = amount("initial_interest", opts.Interest); err != nil {
		return err
	}
	if opts.StartDate != nil {
		day, err := dateutils.ParseISO(*opts.StartDate)
		if err != nil {
			return bankerror.NewValidation("start_date", *opts.StartDate, "must be a YYYY-MM-DD date")
		}
		update.StartDate = &day
	}

	ov, err := svc.UpdateInitialSettings(ctx, update)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Account of %s starts %s with %s; allowance %s, interest %s%%. Balance now %s.\n",
		ov.AccountHolder, ov.StartDate, currencyutils.FormatUSD(ov.InitialBalance),
		currencyutils.FormatUSD(ov.InitialSettings.Allowance), ov.InitialSettings.InterestPercent,
		currencyutils.FormatUSD(ov.CurrentBalance))
	return err
}

// RunCurrent applies the current rates and prints the new state.
func RunCurrent(ctx context.Context, svc *account.Service, w io.Writer, opts CurrentOptions) error {
	update := account.CurrentSettingsUpdate{}
	var err error
	if update.Allowance, err = amount("current_allowance", opts.Allowance); err != nil {
		return err
	}
	if update.InterestPercent, err = amount("current_interest", opts.Interest); err != nil {
		return err
	}

	ov, err := svc.UpdateCurrentSettings(ctx, update)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "From %s: allowance %s, interest %s%%. Balance now %s.\n",
		ov.SettingsChangeDate, currencyutils.FormatUSD(ov.CurrentSettings.Allowance),
		ov.CurrentSettings.InterestPercent, currencyutils.FormatUSD(ov.CurrentBalance))
	return err
}
