// Package export writes the ledger to a CSV file.
package export

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/export"
	"github.com/christo725/family-bank-app/internal/logging"

	"github.com/spf13/cobra"
)

var delimiter string

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the ledger to CSV",
	Long: `Export every transaction with its running balance to a CSV file, or to
standard output when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		return Run(cmd.Context(), c.GetService(), cmd.OutOrStdout(), file, delimiter, c.GetLogger())
	},
}

func init() {
	Cmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV field delimiter")
}

// Run catches the account up and writes its ledger to file, or to w when
// file is empty.
func Run(ctx context.Context, svc *account.Service, w io.Writer, file, delim string, log logging.Logger) error {
	sep, err := parseDelimiter(delim)
	if err != nil {
		return err
	}
	ov, err := svc.Overview(ctx)
	if err != nil {
		return err
	}
	if file == "" {
		return export.WriteLedger(w, ov.Ledger, sep)
	}
	if err := export.WriteLedgerFile(file, ov.Ledger, sep, log); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Exported %d transactions to %s\n", len(ov.Rows), file)
	return err
}

func parseDelimiter(s string) (rune, error) {
	if s == "" {
		return export.DefaultDelimiter, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == '"' || r == '\n' || r == '\r' {
		return 0, bankerror.NewValidation("delimiter", s, "must be a single character")
	}
	return r, nil
}
