package storage

import (
	"context"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory)
// and makes testing with mocks straightforward.
type Repository interface {
	OrderRepository
	PreferenceRepository
	Close() error
}

// OrderRepository holds the record store
type OrderRepository interface {
	// ReplaceOrders swaps the whole record set for orders, keeping their order
	ReplaceOrders(ctx context.Context, list []orders.Order) error

	// ListOrders returns every record in insertion order
	ListOrders(ctx context.Context) ([]orders.Order, error)

	// CountOrders returns the number of stored records
	CountOrders(ctx context.Context) (int, error)
}

// PreferenceRepository persists per-profile dashboard preferences as
// string key/value pairs
type PreferenceRepository interface {
	// GetPreferences returns every stored key for the profile. A profile
	// with nothing stored yields an empty map, not an error.
	GetPreferences(ctx context.Context, profileID string) (map[string]string, error)

	// SavePreferences upserts the given keys
	SavePreferences(ctx context.Context, profileID string, values map[string]string) error

	// DeletePreferences removes the given keys; with no keys it removes
	// everything stored for the profile
	DeletePreferences(ctx context.Context, profileID string, keys ...string) error
}
