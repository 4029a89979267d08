package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/christo725/family-bank-app/internal/currencyutils"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the working
// directory or its parent, if there is one. Variables already set win.
func LoadEnv(logger *logrus.Logger) {
	once.Do(func() {
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				logger.Debug("No .env file found, using environment variables")
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warnf("Error loading .env file: %v", err)
			return
		}
		logger.Debugf("Loaded environment variables from %s", envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// Location resolves clock.timezone. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Clock.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid clock.timezone %q: %w", tz, err)
	}
	return loc, nil
}

// SeedAccount converts the seed.* settings into the account created when
// nothing has been persisted yet.
func (c *Config) SeedAccount() (models.Seed, error) {
	start, err := dateutils.ParseISO(c.Seed.StartDate)
	if err != nil {
		return models.Seed{}, fmt.Errorf("invalid seed.start_date: %w", err)
	}
	balance, err := currencyutils.ParseNonNegative("seed.initial_balance", c.Seed.InitialBalance)
	if err != nil {
		return models.Seed{}, err
	}
	allowance, err := currencyutils.ParseNonNegative("seed.allowance", c.Seed.Allowance)
	if err != nil {
		return models.Seed{}, err
	}
	interest, err := currencyutils.ParseNonNegative("seed.interest_percent", c.Seed.InterestPercent)
	if err != nil {
		return models.Seed{}, err
	}

	holder := strings.TrimSpace(c.Seed.AccountHolder)
	if holder == "" {
		holder = models.DefaultAccountHolder
	}
	return models.Seed{
		AccountHolder:   holder,
		StartDate:       start,
		InitialBalance:  balance,
		Allowance:       allowance,
		InterestPercent: interest,
	}, nil
}
