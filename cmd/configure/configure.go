// Package configure shows and scaffolds the YAML configuration file.
package configure

import (
	"fmt"
	"io"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/config"
	"github.com/christo725/family-bank-app/internal/fileutils"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/spf13/cobra"
)

// DefaultFile is written by "config init" when no path is given.
const DefaultFile = "config.yaml"

var force bool

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after merging defaults, the config file and
FAMILYBANK_* environment variables. The JWT secret is never printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return c.GetConfig().WriteYAML(cmd.OutOrStdout())
	},
}

var initCmd = &cobra.Command{
	Use:   "init [FILE]",
	Short: "Write a config file holding the defaults",
	Args:  cobra.MaximumNArgs(1),
	// The file being created may be the one the root command would read.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	RunE: func(cmd *cobra.Command, args []string) error {
		file := DefaultFile
		if len(args) == 1 {
			file = args[0]
		}
		return Init(cmd.OutOrStdout(), file, force)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	Cmd.AddCommand(showCmd, initCmd)
}

// Init writes the default configuration to file. An existing file is kept
// unless overwrite is set.
func Init(w io.Writer, file string, overwrite bool) error {
	if !overwrite && fileutils.FileExists(file) {
		return bankerror.NewValidation("file", file, "already exists (use --force to overwrite)")
	}
	defaults, err := config.Defaults()
	if err != nil {
		return err
	}
	if err := fileutils.WriteFileAtomic(file, models.PermissionDataFile, models.PermissionDirectory, defaults.WriteYAML); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	_, err = fmt.Fprintf(w, "Wrote default configuration to %s\n", file)
	return err
}
