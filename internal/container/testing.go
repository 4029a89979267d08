package container

import (
	"time"

	"github.com/christo725/family-bank-app/internal/config"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/models"
	"github.com/christo725/family-bank-app/internal/store"
)

// NewForTesting wires a quiet container over a JSON file at dataFile with
// the default seed account and the clock pinned to today (YYYY-MM-DD).
func NewForTesting(dataFile, today string) (*Container, error) {
	day, err := dateutils.ParseISO(today)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	cfg.Log.Level = "error"
	cfg.Log.Format = "text"
	cfg.Data.Backend = store.BackendFile
	cfg.Data.File = dataFile
	cfg.Clock.Timezone = "UTC"
	cfg.Seed.AccountHolder = models.DefaultAccountHolder
	cfg.Seed.StartDate = models.DefaultStartDate
	cfg.Seed.InitialBalance = models.DefaultInitialBalance
	cfg.Seed.Allowance = models.DefaultAllowance
	cfg.Seed.InterestPercent = models.DefaultInterestPercent
	cfg.Auth.Username = "family"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Schedule.CatchupCron = "5 0 * * *"

	return NewContainer(cfg, dateutils.FixedDay(day))
}
