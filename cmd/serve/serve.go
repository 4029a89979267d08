// Package serve runs the HTTP API with a daily catch-up job.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/christo725/family-bank-app/cmd/root"
	"github.com/christo725/family-bank-app/internal/account"
	"github.com/christo725/family-bank-app/internal/api"
	"github.com/christo725/family-bank-app/internal/container"
	"github.com/christo725/family-bank-app/internal/logging"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the account over HTTP. Reads are public; changes need a bearer token
from POST /api/auth/login. Deposits due are booked at startup and then by a
cron job (schedule.catchup_cron), so the account stays current even when
nobody looks at it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return Serve(ctx, c)
	},
}

// CatchUpJob books due deposits, logging instead of returning failures so a
// bad night does not stop the scheduler.
func CatchUpJob(ctx context.Context, svc *account.Service, log logging.Logger) func() {
	return func() {
		res, err := svc.CatchUp(ctx)
		if err != nil {
			log.WithError(err).Error("Scheduled catch-up failed")
			return
		}
		log.Info("Scheduled catch-up finished", logging.F(logging.FieldCount, res.Events))
	}
}

// NewScheduler returns a stopped cron running CatchUpJob on spec, a standard
// five-field cron expression evaluated in the configured timezone.
func NewScheduler(ctx context.Context, spec string, c *container.Container, log logging.Logger) (*cron.Cron, error) {
	loc, err := c.GetConfig().Location()
	if err != nil {
		return nil, err
	}
	sched := cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{log}))
	if _, err := sched.AddFunc(spec, CatchUpJob(ctx, c.GetService(), log)); err != nil {
		return nil, fmt.Errorf("register catch-up job: %w", err)
	}
	return sched, nil
}

// cronLogger routes cron's own messages through the application logger.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, pairs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithError(err).Error("cron: "+msg, pairs(keysAndValues)...)
}

func pairs(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logging.F(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, c *container.Container) error {
	cfg := c.GetConfig()
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	log := c.GetLogger().WithField(logging.FieldComponent, "serve")
	svc := c.GetService()

	if _, err := svc.CatchUp(ctx); err != nil {
		return fmt.Errorf("initial catch-up failed: %w", err)
	}

	sched, err := NewScheduler(ctx, cfg.Schedule.CatchupCron, c, log)
	if err != nil {
		return err
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(svc, c.GetAuthenticator(), c.GetLogger()).Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting family bank server", logging.F("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info("Server stopped gracefully")
	return nil
}
