package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/fileutils"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the account record in one JSON or YAML file. The encoding
// follows the file extension: .yaml and .yml select YAML, anything else JSON.
type FileStore struct {
	Path string
	seed models.Seed
	log  logging.Logger
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string, seed models.Seed, log logging.Logger) *FileStore {
	if log == nil {
		log = logging.Discard()
	}
	return &FileStore{
		Path: path,
		seed: seed,
		log:  log.WithFields(logging.F(logging.FieldBackend, BackendFile), logging.F(logging.FieldFile, path)),
	}
}

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.Path))
	return ext == ".yaml" || ext == ".yml"
}

func (s *FileStore) fail(op string, err error) error {
	return &bankerror.PersistenceError{Backend: BackendFile, Op: op, Err: err}
}

// Load reads the record, or returns a fresh seed account when the file does
// not exist yet.
func (s *FileStore) Load(ctx context.Context) (*models.AccountState, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail("load", err)
	}

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("No account file yet, starting from seed")
		return models.NewAccountState(s.seed), nil
	}
	if err != nil {
		return nil, s.fail("load", fmt.Errorf("error reading account file: %w", err))
	}

	if err := s.checkLayout(data); err != nil {
		return nil, err
	}

	var state models.AccountState
	if s.isYAML() {
		err = yaml.Unmarshal(data, &state)
	} else {
		err = json.Unmarshal(data, &state)
	}
	if err != nil {
		return nil, s.fail("load", fmt.Errorf("error parsing account file: %w", err))
	}

	state.Normalize()
	s.log.Debug("Loaded account",
		logging.F(logging.FieldCount, len(state.ManualTransactions)+len(state.AutoDeposits)))
	return &state, nil
}

// flatRateKeys are top-level keys of an older layout that kept rates outside
// initial_settings/current_settings. Decoding such a file would zero every rate.
var flatRateKeys = []string{"initial_allowance", "initial_interest", "current_allowance", "current_interest"}

func (s *FileStore) checkLayout(data []byte) error {
	var top map[string]interface{}
	var err error
	if s.isYAML() {
		err = yaml.Unmarshal(data, &top)
	} else {
		err = json.Unmarshal(data, &top)
	}
	if err != nil {
		return s.fail("load", fmt.Errorf("error parsing account file: %w", err))
	}
	for _, key := range flatRateKeys {
		if _, ok := top[key]; ok {
			return bankerror.NewValidation("account file", s.Path,
				"uses the unsupported flat layout ("+key+"); move rates under initial_settings and current_settings")
		}
	}
	return nil
}

// Save writes the record to a temporary file next to Path and renames it over
// Path, so a crash leaves either the old or the new record on disk.
func (s *FileStore) Save(ctx context.Context, state *models.AccountState) error {
	if err := ctx.Err(); err != nil {
		return s.fail("save", err)
	}

	var (
		data []byte
		err  error
	)
	if s.isYAML() {
		data, err = yaml.Marshal(state)
	} else {
		data, err = json.MarshalIndent(state, "", "  ")
	}
	if err != nil {
		return s.fail("save", fmt.Errorf("error encoding account: %w", err))
	}

	err = fileutils.WriteFileAtomic(s.Path, models.PermissionDataFile, models.PermissionDirectory, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return s.fail("save", fmt.Errorf("error saving account: %w", err))
	}

	s.log.Debug("Saved account", logging.F(logging.FieldCount, len(state.ManualTransactions)+len(state.AutoDeposits)))
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}
