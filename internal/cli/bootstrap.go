package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/seed"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
)

// openStore opens the database and seeds it when it holds no orders.
func openStore(ctx context.Context, dbPath, seedPath string, logger *slog.Logger) (*storage.Storage, error) {
	store, err := storage.NewStorage(ctx, dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if _, err := seed.Ensure(ctx, store, seedPath, logger); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("seed orders: %w", err)
	}
	return store, nil
}
