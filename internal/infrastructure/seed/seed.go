// Package seed supplies the order records the dashboard starts with.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
)

//go:embed orders.json
var defaultOrders []byte

// Default returns the bundled sample orders.
func Default() ([]orders.Order, error) {
	return Decode(defaultOrders, ".json")
}

// Load reads orders from a JSON or YAML file. An empty path returns the
// bundled sample.
func Load(path string) ([]orders.Order, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	list, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return list, nil
}

// Decode parses a list of orders. ext selects YAML for ".yaml" and ".yml";
// everything else is treated as JSON.
func Decode(data []byte, ext string) ([]orders.Order, error) {
	var list []orders.Order

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, err
		}
	default:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&list); err != nil {
			return nil, err
		}
	}

	if list == nil {
		list = []orders.Order{}
	}
	return list, nil
}

// Ensure loads the seed into repo when the record store is empty.
// It returns the number of records inserted.
func Ensure(ctx context.Context, repo storage.OrderRepository, path string, logger *slog.Logger) (int, error) {
	count, err := repo.CountOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if count > 0 {
		logger.Debug("record store already populated", "count", count)
		return 0, nil
	}

	list, err := Load(path)
	if err != nil {
		return 0, err
	}

	if err := repo.ReplaceOrders(ctx, list); err != nil {
		return 0, fmt.Errorf("failed to store seed orders: %w", err)
	}

	source := path
	if source == "" {
		source = "embedded"
	}
	logger.Info("seeded record store", "count", len(list), "source", source)
	return len(list), nil
}
