package storage

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu          sync.Mutex
	orders      []orders.Order
	preferences map[string]map[string]string

	// Hooks for test assertions
	SavePreferencesCalls   int
	DeletePreferencesCalls int
	LastSavedPreferences   map[string]string
	LastDeletedKeys        []string

	// Error injection for testing error paths
	ListOrdersErr        error
	GetPreferencesErr    error
	SavePreferencesErr   error
	DeletePreferencesErr error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository(list ...orders.Order) *MockRepository {
	return &MockRepository{
		orders:      slices.Clone(list),
		preferences: make(map[string]map[string]string),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// ReplaceOrders swaps the stored records
func (m *MockRepository) ReplaceOrders(_ context.Context, list []orders.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = slices.Clone(list)
	return nil
}

// ListOrders returns a copy of the stored records
func (m *MockRepository) ListOrders(_ context.Context) ([]orders.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListOrdersErr != nil {
		return nil, m.ListOrdersErr
	}
	out := slices.Clone(m.orders)
	if out == nil {
		out = []orders.Order{}
	}
	return out, nil
}

// CountOrders returns the number of stored records
func (m *MockRepository) CountOrders(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

// GetPreferences returns a copy of the profile's stored values
func (m *MockRepository) GetPreferences(_ context.Context, profileID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPreferencesErr != nil {
		return nil, m.GetPreferencesErr
	}
	out := make(map[string]string)
	maps.Copy(out, m.preferences[profileID])
	return out, nil
}

// SavePreferences merges values into the profile's stored values
func (m *MockRepository) SavePreferences(_ context.Context, profileID string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavePreferencesCalls++
	m.LastSavedPreferences = maps.Clone(values)
	if m.SavePreferencesErr != nil {
		return m.SavePreferencesErr
	}
	if m.preferences[profileID] == nil {
		m.preferences[profileID] = make(map[string]string)
	}
	maps.Copy(m.preferences[profileID], values)
	return nil
}

// DeletePreferences removes keys, or everything when none are given
func (m *MockRepository) DeletePreferences(_ context.Context, profileID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePreferencesCalls++
	m.LastDeletedKeys = slices.Clone(keys)
	if m.DeletePreferencesErr != nil {
		return m.DeletePreferencesErr
	}
	if len(keys) == 0 {
		delete(m.preferences, profileID)
		return nil
	}
	for _, k := range keys {
		delete(m.preferences[profileID], k)
	}
	return nil
}

// Preferences returns the stored values for a profile, for assertions
func (m *MockRepository) Preferences(profileID string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.preferences[profileID])
}
