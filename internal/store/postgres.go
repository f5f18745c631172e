package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pricewatch/internal/metrics"
	domain "pricewatch/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL). Positional semantics match the CSV store: insertion order is
// preserved through a monotonically increasing position column, and
// RewriteAll replaces the whole table in one transaction.
//
// Postgres never produces short rows, so ListAll always reports zero
// skipped rows.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// ListAll returns the catalog in insertion order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]domain.TrackedItem, int, error) {
	rows, err := s.pool.Query(ctx, queryListItems)
	if err != nil {
		return nil, 0, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	items := []domain.TrackedItem{}
	for rows.Next() {
		var it domain.TrackedItem
		if err := rows.Scan(
			&it.ID, &it.URL, &it.Name,
			&it.CurrentPrice, &it.TargetPrice,
			&it.LastChecked, &it.RecipientEmail,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning catalog row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating catalog: %w", err)
	}

	return items, 0, nil
}

// Append inserts one item at the end of the catalog.
func (s *PostgresStore) Append(ctx context.Context, item *domain.TrackedItem) error {
	args := pgx.NamedArgs{
		"id":              item.ID,
		"url":             item.URL,
		"name":            item.Name,
		"current_price":   item.CurrentPrice,
		"target_price":    item.TargetPrice,
		"last_checked":    item.LastChecked,
		"recipient_email": item.RecipientEmail,
	}

	if _, err := s.pool.Exec(ctx, queryAppendItem, args); err != nil {
		return fmt.Errorf("appending catalog row: %w", err)
	}
	return nil
}

// RewriteAll replaces the entire catalog with items, in order, inside one
// transaction.
func (s *PostgresStore) RewriteAll(ctx context.Context, items []domain.TrackedItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning rewrite: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, "TRUNCATE tracked_items RESTART IDENTITY"); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	for i := range items {
		it := &items[i]
		args := pgx.NamedArgs{
			"id":              it.ID,
			"url":             it.URL,
			"name":            it.Name,
			"current_price":   it.CurrentPrice,
			"target_price":    it.TargetPrice,
			"last_checked":    it.LastChecked,
			"recipient_email": it.RecipientEmail,
		}
		if _, err := tx.Exec(ctx, queryAppendItem, args); err != nil {
			return fmt.Errorf("writing catalog row %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing rewrite: %w", err)
	}

	metrics.CatalogItems.Set(float64(len(items)))
	return nil
}

// DeleteAt removes the item at the given position index. Returns false when
// index is outside [0, len).
func (s *PostgresStore) DeleteAt(ctx context.Context, index int) (bool, error) {
	if index < 0 {
		return false, nil
	}

	tag, err := s.pool.Exec(ctx, queryDeleteAt, index)
	if err != nil {
		return false, fmt.Errorf("deleting catalog row: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
