package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "file", config.Data.Backend)
	assert.Equal(t, "data/bank_account_data.json", config.Data.File)
	assert.Equal(t, "Local", config.Clock.Timezone)
	assert.Equal(t, "2024-01-01", config.Seed.StartDate)
	assert.Equal(t, "5", config.Seed.Allowance)
	assert.Equal(t, 12*time.Hour, config.Auth.TokenTTL)
	assert.Equal(t, ":10000", config.Server.Addr)
	assert.Equal(t, "5 0 * * *", config.Schedule.CatchupCron)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	testEnvVars := map[string]string{
		"FAMILYBANK_LOG_LEVEL":             "debug",
		"FAMILYBANK_LOG_FORMAT":            "json",
		"FAMILYBANK_DATA_BACKEND":          "sqlite",
		"FAMILYBANK_DATA_SQLITE_PATH":      "/tmp/bank.db",
		"FAMILYBANK_SEED_ALLOWANCE":        "7.50",
		"FAMILYBANK_AUTH_JWT_SECRET":       "s3cret",
		"FAMILYBANK_AUTH_TOKEN_TTL":        "30m",
		"FAMILYBANK_SCHEDULE_CATCHUP_CRON": "@hourly",
		"PORT":                             "8081",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "sqlite", config.Data.Backend)
	assert.Equal(t, "/tmp/bank.db", config.Data.SQLitePath)
	assert.Equal(t, "7.50", config.Seed.Allowance)
	assert.Equal(t, "s3cret", config.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, config.Auth.TokenTTL)
	assert.Equal(t, "@hourly", config.Schedule.CatchupCron)
	assert.Equal(t, ":8081", config.Server.Addr)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	dir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
data:
  file: "custom/bank.yaml"
seed:
  account_holder: "Emma"
  initial_balance: "25"
server:
  addr: "127.0.0.1:9000"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "custom/bank.yaml", config.Data.File)
	assert.Equal(t, "Emma", config.Seed.AccountHolder)
	assert.Equal(t, "127.0.0.1:9000", config.Server.Addr)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	dir := chdirTemp(t)

	explicit := filepath.Join(dir, "family.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: warn\n  format: json\n"), 0600))
	t.Setenv("FAMILYBANK_LOG_LEVEL", "error")

	config, err := InitializeConfig(explicit)
	require.NoError(t, err)

	// env > file > default
	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "file", config.Data.Backend)
}

func TestInitializeConfig_ExplicitFileMustExist(t *testing.T) {
	clearTestEnvVars(t)
	_, err := InitializeConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"backend", func(c *Config) { c.Data.Backend = "postgres" }, "invalid data.backend"},
		{"empty file", func(c *Config) { c.Data.File = " " }, "data.file"},
		{"empty sqlite path", func(c *Config) { c.Data.Backend = "sqlite"; c.Data.SQLitePath = "" }, "data.sqlite_path"},
		{"timezone", func(c *Config) { c.Clock.Timezone = "Mars/Olympus" }, "clock.timezone"},
		{"seed date", func(c *Config) { c.Seed.StartDate = "01/01/2024" }, "seed.start_date"},
		{"seed balance", func(c *Config) { c.Seed.InitialBalance = "-5" }, "seed.initial_balance"},
		{"seed interest", func(c *Config) { c.Seed.InterestPercent = "lots" }, "seed.interest_percent"},
		{"token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "auth.token_ttl"},
		{"cron", func(c *Config) { c.Schedule.CatchupCron = "every day" }, "schedule.catchup_cron"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := validConfig()
			tc.mutate(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	assert.NoError(t, validateConfig(validConfig()))
}

func TestValidateServer(t *testing.T) {
	config := validConfig()
	assert.ErrorContains(t, config.ValidateServer(), "auth.jwt_secret")

	config.Auth.JWTSecret = "s3cret"
	assert.ErrorContains(t, config.ValidateServer(), "auth.password_hash")

	config.Auth.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, config.ValidateServer())
}

func TestSeedAccount(t *testing.T) {
	config := validConfig()
	config.Seed.AccountHolder = "  "
	config.Seed.InitialBalance = "1'000.50"

	seed, err := config.SeedAccount()
	require.NoError(t, err)
	assert.Equal(t, "My", seed.AccountHolder)
	assert.Equal(t, "2024-01-01", seed.StartDate.String())
	assert.Equal(t, "1000.5", seed.InitialBalance.String())
}

func TestLocation(t *testing.T) {
	config := validConfig()
	loc, err := config.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	config.Clock.Timezone = "America/New_York"
	loc, err = config.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Data.Backend = "file"
	c.Data.File = "data/bank_account_data.json"
	c.Clock.Timezone = "Local"
	c.Seed.AccountHolder = "My"
	c.Seed.StartDate = "2024-01-01"
	c.Seed.InitialBalance = "0"
	c.Seed.Allowance = "5"
	c.Seed.InterestPercent = "1"
	c.Auth.Username = "family"
	c.Auth.TokenTTL = time.Hour
	c.Server.Addr = ":10000"
	c.Schedule.CatchupCron = "5 0 * * *"
	return c
}

// chdirTemp moves into a fresh directory so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"FAMILYBANK_LOG_LEVEL",
		"FAMILYBANK_LOG_FORMAT",
		"FAMILYBANK_DATA_BACKEND",
		"FAMILYBANK_DATA_FILE",
		"FAMILYBANK_DATA_SQLITE_PATH",
		"FAMILYBANK_CLOCK_TIMEZONE",
		"FAMILYBANK_SEED_ACCOUNT_HOLDER",
		"FAMILYBANK_SEED_START_DATE",
		"FAMILYBANK_SEED_INITIAL_BALANCE",
		"FAMILYBANK_SEED_ALLOWANCE",
		"FAMILYBANK_SEED_INTEREST_PERCENT",
		"FAMILYBANK_AUTH_USERNAME",
		"FAMILYBANK_AUTH_PASSWORD_HASH",
		"FAMILYBANK_AUTH_JWT_SECRET",
		"FAMILYBANK_AUTH_TOKEN_TTL",
		"FAMILYBANK_SERVER_ADDR",
		"FAMILYBANK_SCHEDULE_CATCHUP_CRON",
		"PORT",
	}
	for _, envVar := range envVars {
		// t.Setenv restores the previous value after the test.
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
