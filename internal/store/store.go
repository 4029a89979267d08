// Package store loads and saves the account record.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"
)

// Backend names accepted by New.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store persists the single account record. Load returns the seed account when
// nothing has been saved yet. Save overwrites the whole record.
type Store interface {
	Load(ctx context.Context) (*models.AccountState, error)
	Save(ctx context.Context, s *models.AccountState) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	File       string
	SQLitePath string
	Seed       models.Seed
	Logger     logging.Logger
}

// New opens the store named by opts.Backend.
func New(opts Options) (Store, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileStore(opts.File, opts.Seed, opts.Logger), nil
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath, opts.Seed, opts.Logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", opts.Backend)
	}
}
