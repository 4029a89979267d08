package store

import (
	"context"
	"sync"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/models"
)

// MockStore is an in-memory Store for tests. Load and Save exchange deep
// copies, so callers never share state with the store.
type MockStore struct {
	mu    sync.Mutex
	State *models.AccountState
	Seed  models.Seed
	Saves int

	// Error flags for testing error conditions
	LoadError error
	SaveError error
}

// NewMockStore returns a store holding state, or the default seed when state
// is nil.
func NewMockStore(state *models.AccountState) *MockStore {
	return &MockStore{State: state, Seed: models.DefaultSeed()}
}

// Load returns a copy of the held state.
func (m *MockStore) Load(_ context.Context) (*models.AccountState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, &bankerror.PersistenceError{Backend: "mock", Op: "load", Err: m.LoadError}
	}
	if m.State == nil {
		return models.NewAccountState(m.Seed), nil
	}
	return m.State.Clone(), nil
}

// Save keeps a copy of state.
func (m *MockStore) Save(_ context.Context, state *models.AccountState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return &bankerror.PersistenceError{Backend: "mock", Op: "save", Err: m.SaveError}
	}
	m.State = state.Clone()
	m.Saves++
	return nil
}

// Saved returns a copy of the last saved state.
func (m *MockStore) Saved() *models.AccountState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.State == nil {
		return nil
	}
	return m.State.Clone()
}

// Close does nothing.
func (m *MockStore) Close() error { return nil }
