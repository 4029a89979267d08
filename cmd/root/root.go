// Package root contains the root command for the application
package root

import (
	"errors"
	"strings"

	"github.com/christo725/family-bank-app/internal/config"
	"github.com/christo725/family-bank-app/internal/container"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalFlags are the flags accepted by every command.
type GlobalFlags struct {
	ConfigFile string
	Today      string
	Data       string
	LogLevel   string
}

// ErrNoContainer is returned when a command runs before the root setup.
var ErrNoContainer = errors.New("application container not initialized")

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppContainer holds the wired dependencies once PersistentPreRunE ran.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "family-bank",
		Short: "A family savings account with weekly allowance and interest.",
		Long: `family-bank tracks a child's savings account. Every Saturday the weekly
allowance is deposited and every Sunday interest is paid on the balance.
Manual deposits and withdrawals can be entered at any date; deposits from
that date on are recalculated.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close application: %v", err)
			}
			AppContainer = nil
		},
	}

	// SharedFlags holds the values of the persistent flags.
	SharedFlags = GlobalFlags{}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: ./config.yaml or ~/.family-bank/config.yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Today, "today", "", "Pretend today is this date (YYYY-MM-DD)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Data, "data", "d", "", "Account data file, overrides data.file or data.sqlite_path")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	ApplyFlags(cfg, SharedFlags)
	Log = config.ConfigureLoggingFromConfig(cfg)

	clock, err := ClockFromFlag(SharedFlags.Today)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg, clock)
	if err != nil {
		return err
	}
	AppContainer = c
	return nil
}

// ApplyFlags lets command-line flags override the loaded configuration.
func ApplyFlags(cfg *config.Config, flags GlobalFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(flags.LogLevel)
	}
	if flags.Data != "" {
		if strings.EqualFold(cfg.Data.Backend, store.BackendSQLite) {
			cfg.Data.SQLitePath = flags.Data
		} else {
			cfg.Data.File = flags.Data
		}
	}
}

// ClockFromFlag pins the clock to the --today value, or returns nil for the
// wall clock.
func ClockFromFlag(today string) (dateutils.Clock, error) {
	if strings.TrimSpace(today) == "" {
		return nil, nil
	}
	day, err := dateutils.ParseISO(today)
	if err != nil {
		return nil, err
	}
	return dateutils.FixedDay(day), nil
}

// GetContainer returns the wired application or ErrNoContainer.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, ErrNoContainer
	}
	return AppContainer, nil
}
