// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/christo725/family-bank-app/internal/logging"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// FAMILYBANK_DATA_FILE for data.file.
const EnvPrefix = "FAMILYBANK"

// DefaultPort is used when neither server.addr nor PORT is set.
const DefaultPort = "10000"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Backend    string `mapstructure:"backend" yaml:"backend"`
		File       string `mapstructure:"file" yaml:"file"`
		SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	} `mapstructure:"data" yaml:"data"`

	Clock struct {
		Timezone string `mapstructure:"timezone" yaml:"timezone"`
	} `mapstructure:"clock" yaml:"clock"`

	Seed struct {
		AccountHolder   string `mapstructure:"account_holder" yaml:"account_holder"`
		StartDate       string `mapstructure:"start_date" yaml:"start_date"`
		InitialBalance  string `mapstructure:"initial_balance" yaml:"initial_balance"`
		Allowance       string `mapstructure:"allowance" yaml:"allowance"`
		InterestPercent string `mapstructure:"interest_percent" yaml:"interest_percent"`
	} `mapstructure:"seed" yaml:"seed"`

	Auth struct {
		Username     string        `mapstructure:"username" yaml:"username"`
		PasswordHash string        `mapstructure:"password_hash" yaml:"password_hash"`
		JWTSecret    string        `mapstructure:"jwt_secret" yaml:"-"` // Never serialize the signing key
		TokenTTL     time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	} `mapstructure:"auth" yaml:"auth"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`

	Schedule struct {
		CatchupCron string `mapstructure:"catchup_cron" yaml:"catchup_cron"`
	} `mapstructure:"schedule" yaml:"schedule"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// A non-empty configFile is read instead of searching the standard locations
// and must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.family-bank")
		v.AddConfigPath(".family-bank")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Without an explicit listen address, follow the usual PORT convention
	if config.Server.Addr == "" {
		config.Server.Addr = ":" + GetEnv("PORT", DefaultPort)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Data defaults
	v.SetDefault("data.backend", "file")
	v.SetDefault("data.file", "data/bank_account_data.json")
	v.SetDefault("data.sqlite_path", "data/family-bank.db")

	v.SetDefault("clock.timezone", "Local")

	// Seed account defaults
	v.SetDefault("seed.account_holder", "My")
	v.SetDefault("seed.start_date", "2024-01-01")
	v.SetDefault("seed.initial_balance", "0")
	v.SetDefault("seed.allowance", "5")
	v.SetDefault("seed.interest_percent", "1")

	// Auth defaults
	v.SetDefault("auth.username", "family")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("server.addr", "")
	v.SetDefault("schedule.catchup_cron", "5 0 * * *")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch strings.ToLower(config.Data.Backend) {
	case "file":
		if strings.TrimSpace(config.Data.File) == "" {
			return fmt.Errorf("data.file is required for the file backend")
		}
	case "sqlite":
		if strings.TrimSpace(config.Data.SQLitePath) == "" {
			return fmt.Errorf("data.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid data.backend: %s (must be 'file' or 'sqlite')", config.Data.Backend)
	}

	if _, err := config.Location(); err != nil {
		return err
	}

	if _, err := config.SeedAccount(); err != nil {
		return err
	}

	if config.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got: %s", config.Auth.TokenTTL)
	}

	if _, err := cron.ParseStandard(config.Schedule.CatchupCron); err != nil {
		return fmt.Errorf("invalid schedule.catchup_cron %q: %w", config.Schedule.CatchupCron, err)
	}

	return nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required to serve (set %s_AUTH_JWT_SECRET)", EnvPrefix)
	}
	if strings.TrimSpace(c.Auth.PasswordHash) == "" {
		return fmt.Errorf("auth.password_hash is required to serve (set %s_AUTH_PASSWORD_HASH)", EnvPrefix)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required to serve")
	}
	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrus(config.Log.Level, config.Log.Format)
}
