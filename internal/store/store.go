// Package store defines the catalog persistence abstraction for pricewatch.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables testing the engine against a throwaway
// catalog without touching the configured backend.
package store

import (
	"context"

	domain "pricewatch/pkg/types"
)

// Header is the canonical six-column catalog header. Every read discards it
// before interpreting data rows; every rewrite emits it first.
var Header = []string{
	"URL", "Product Name", "Current Price", "Target Price", "Last Checked", "Recipient Email",
}

// Store defines all catalog access operations.
//
// ListAll returns the catalog in insertion order along with the number of
// corrupt rows that were skipped. A corrupt row (fewer than six fields) is
// discarded silently; the count is the diagnostic channel for that loss.
//
// RewriteAll atomically replaces the entire durable contents. DeleteAt
// returns false, without touching storage, when index is outside [0, len).
type Store interface {
	ListAll(ctx context.Context) (items []domain.TrackedItem, skipped int, err error)
	Append(ctx context.Context, item *domain.TrackedItem) error
	RewriteAll(ctx context.Context, items []domain.TrackedItem) error
	DeleteAt(ctx context.Context, index int) (bool, error)

	Ping(ctx context.Context) error
	Close()
}
