package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/christo725/family-bank-app/cmd/add"
	"github.com/christo725/family-bank-app/cmd/configure"
	"github.com/christo725/family-bank-app/cmd/export"
	"github.com/christo725/family-bank-app/cmd/goal"
	"github.com/christo725/family-bank-app/cmd/hashpassword"
	"github.com/christo725/family-bank-app/cmd/recalc"
	"github.com/christo725/family-bank-app/cmd/remove"
	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/cmd/serve"
	"github.com/christo725/family-bank-app/cmd/settings"
	"github.com/christo725/family-bank-app/cmd/show"
	"github.com/christo725/family-bank-app/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load .env quietly; nothing is configured to log yet
	quiet := logrus.New()
	quiet.SetOutput(os.Stderr)
	quiet.SetLevel(logrus.WarnLevel)
	config.LoadEnv(quiet)

	// 2. Set the global level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(show.Cmd)
	root.Cmd.AddCommand(add.Cmd)
	root.Cmd.AddCommand(remove.Cmd)
	root.Cmd.AddCommand(settings.Cmd)
	root.Cmd.AddCommand(recalc.Cmd)
	root.Cmd.AddCommand(goal.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(hashpassword.Cmd)
	root.Cmd.AddCommand(configure.Cmd)
}

// configureLogLevelDirectly applies LOG_LEVEL to the standard logrus logger.
func configureLogLevelDirectly() {
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("LOG_LEVEL", "info")))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
