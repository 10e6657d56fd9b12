package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
)

// Storage provides SQLite database access for the record store and
// dashboard preferences. It implements the Repository interface.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens the SQLite database at dbPath and applies pending
// migrations. A nil logger uses slog.Default().
func NewStorage(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db, logger: logger}

	if err := s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// ReplaceOrders deletes every stored record and inserts list in order
func (s *Storage) ReplaceOrders(ctx context.Context, list []orders.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO orders
	(position, product_name, product_number, payment_status, shipping, order_date, qty, unit_price)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, o := range list {
		_, err := stmt.ExecContext(ctx,
			i,
			o.ProductName,
			o.ProductNumber,
			o.PaymentStatus,
			o.Shipping,
			o.OrderDate,
			o.Qty.String(),
			o.UnitPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListOrders returns every record in insertion order
func (s *Storage) ListOrders(ctx context.Context) ([]orders.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT product_name, product_number, payment_status, shipping, order_date, qty, unit_price
	FROM orders
	ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	list := make([]orders.Order, 0)
	for rows.Next() {
		var o orders.Order
		var qty, price string
		err := rows.Scan(
			&o.ProductName,
			&o.ProductNumber,
			&o.PaymentStatus,
			&o.Shipping,
			&o.OrderDate,
			&qty,
			&price,
		)
		if err != nil {
			return nil, err
		}
		o.Qty = orders.ParseNumber(qty)
		o.UnitPrice = orders.ParseNumber(price)
		list = append(list, o)
	}

	return list, rows.Err()
}

// CountOrders returns the number of stored records
func (s *Storage) CountOrders(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

// GetPreferences returns the stored preferences for a profile
func (s *Storage) GetPreferences(ctx context.Context, profileID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE profile_id = ?`, profileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}

	return values, rows.Err()
}

// SavePreferences upserts the given keys for a profile
func (s *Storage) SavePreferences(ctx context.Context, profileID string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO preferences (profile_id, key, value, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(profile_id, key) DO UPDATE SET
		value = excluded.value,
		updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, profileID, key, value); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}

	return tx.Commit()
}

// DeletePreferences removes keys for a profile, or all of them when no
// keys are given
func (s *Storage) DeletePreferences(ctx context.Context, profileID string, keys ...string) error {
	if len(keys) == 0 {
		_, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE profile_id = ?`, profileID)
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	args = append(args, profileID)
	for _, k := range keys {
		args = append(args, k)
	}

	query := fmt.Sprintf(`DELETE FROM preferences WHERE profile_id = ? AND key IN (%s)`, placeholders)
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
