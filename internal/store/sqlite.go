package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the account record as a JSON document in a single-row
// table.
type SQLiteStore struct {
	db   *sql.DB
	seed models.Seed
	log  logging.Logger
}

// OpenSQLite opens (or creates) the database at path and creates the table.
func OpenSQLite(path string, seed models.Seed, log logging.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logging.Discard()
	}
	if path == "" {
		return nil, bankerror.NewValidation("data.sqlite_path", "", "is required for the sqlite backend")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return nil, &bankerror.PersistenceError{Backend: BackendSQLite, Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &bankerror.PersistenceError{Backend: BackendSQLite, Op: "open", Err: err}
	}
	// One writer; the account record is a single row.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:   db,
		seed: seed,
		log:  log.WithFields(logging.F(logging.FieldBackend, BackendSQLite), logging.F(logging.FieldFile, path)),
	}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, &bankerror.PersistenceError{Backend: BackendSQLite, Op: "migrate", Err: err}
	}

	s.log.Info("SQLite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS account_state (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		data       TEXT    NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) fail(op string, err error) error {
	return &bankerror.PersistenceError{Backend: BackendSQLite, Op: op, Err: err}
}

// Load reads the record, or returns a fresh seed account when the table is
// empty.
func (s *SQLiteStore) Load(ctx context.Context) (*models.AccountState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM account_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Info("No account row yet, starting from seed")
		return models.NewAccountState(s.seed), nil
	}
	if err != nil {
		return nil, s.fail("load", err)
	}

	var state models.AccountState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, s.fail("load", fmt.Errorf("error parsing account row: %w", err))
	}
	state.Normalize()
	return &state, nil
}

// Save replaces the record inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, state *models.AccountState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return s.fail("save", fmt.Errorf("error encoding account: %w", err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("save", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO account_state (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().Unix())
	if err != nil {
		return s.fail("save", err)
	}
	if err := tx.Commit(); err != nil {
		return s.fail("save", err)
	}

	s.log.Debug("Saved account", logging.F(logging.FieldCount, len(state.ManualTransactions)+len(state.AutoDeposits)))
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.log.Debug("Closing SQLite store")
	return s.db.Close()
}
