// Package hashpassword prints the bcrypt hash for auth.password_hash.
package hashpassword

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/christo725/family-bank-app/internal/auth"

	"github.com/spf13/cobra"
)

// Cmd represents the hash-password command
var Cmd = &cobra.Command{
	Use:   "hash-password [PASSWORD]",
	Short: "Print the bcrypt hash of a password for auth.password_hash",
	Long: `Print the bcrypt hash of a password. Put the result in auth.password_hash
or FAMILYBANK_AUTH_PASSWORD_HASH. Without an argument the password is read
from the first line of standard input.`,
	Args: cobra.MaximumNArgs(1),
	// Hashing needs neither the config file nor the account store.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	RunE: func(cmd *cobra.Command, args []string) error {
		password := ""
		if len(args) == 1 {
			password = args[0]
		}
		return Run(cmd.InOrStdin(), cmd.OutOrStdout(), password)
	},
}

// Run hashes password, or the first line of in when password is empty.
func Run(in io.Reader, w io.Writer, password string) error {
	if password == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}
