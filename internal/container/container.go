// Package container provides dependency injection for the family bank.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/auth"
	"github.com/christo725/family-bank-app/internal/config"
	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/recalc"
	"github.com/christo725/family-bank-app/internal/scheduler"
	"github.com/christo725/family-bank-app/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	clock     dateutils.Clock
	store     store.Store
	scheduler *scheduler.Scheduler
	engine    *recalc.Engine
	service   *account.Service
	auth      *auth.Authenticator
}

// NewContainer creates and wires all application dependencies. A nil clock
// reads the wall clock in the configured timezone.
func NewContainer(cfg *config.Config, clock dateutils.Clock) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	if clock == nil {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		clock = dateutils.SystemClock{Location: loc}
	}

	seed, err := cfg.SeedAccount()
	if err != nil {
		return nil, fmt.Errorf("invalid seed account: %w", err)
	}

	st, err := store.New(store.Options{
		Backend:    cfg.Data.Backend,
		File:       cfg.Data.File,
		SQLitePath: cfg.Data.SQLitePath,
		Seed:       seed,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sch := scheduler.New(logger)
	engine := recalc.NewEngine(sch, logger)
	svc := account.NewService(st, sch, engine, clock, logger)
	authn := auth.NewAuthenticator(cfg.Auth.Username, cfg.Auth.PasswordHash, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	logger.Debug("Container initialized",
		logging.F(logging.FieldBackend, cfg.Data.Backend),
		logging.F("today", dateutils.Today(clock).String()))

	return &Container{
		logger:    logger,
		config:    cfg,
		clock:     clock,
		store:     st,
		scheduler: sch,
		engine:    engine,
		service:   svc,
		auth:      authn,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClock returns the clock that decides what "today" is.
func (c *Container) GetClock() dateutils.Clock {
	return c.clock
}

// GetStore returns the account store.
func (c *Container) GetStore() store.Store {
	return c.store
}

// GetService returns the account service.
func (c *Container) GetService() *account.Service {
	return c.service
}

// GetAuthenticator returns the API credential checker.
func (c *Container) GetAuthenticator() *auth.Authenticator {
	return c.auth
}

// Close releases the store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
