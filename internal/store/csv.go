package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"pricewatch/internal/metrics"
	domain "pricewatch/pkg/types"
)

// CSVStore implements Store over a comma-delimited UTF-8 text file with a
// fixed six-column header. A single mutex serializes every operation;
// rewrites go through a temp file and rename so a crash mid-write never
// leaves a half-written catalog behind.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore creates a CSVStore backed by the file at path. The file is
// created lazily on first write; a missing file reads as an empty catalog.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// ListAll reads the full catalog, skipping and counting rows with fewer
// than six fields.
func (s *CSVStore) ListAll(ctx context.Context) ([]domain.TrackedItem, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(ctx)
}

// readAll is the lock-free read used internally by operations that already
// hold the mutex.
func (s *CSVStore) readAll(ctx context.Context) ([]domain.TrackedItem, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.TrackedItem{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // field-count validation is ours, not the codec's

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading catalog: %w", err)
	}

	if len(records) == 0 {
		return []domain.TrackedItem{}, 0, nil
	}

	// First row is the header.
	items := make([]domain.TrackedItem, 0, len(records)-1)
	skipped := 0

	for _, row := range records[1:] {
		if len(row) < 6 {
			skipped++
			metrics.CatalogSkippedRowsTotal.Inc()
			continue
		}

		item, err := rowToItem(row)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	return items, skipped, nil
}

// Append adds one row to the catalog without rewriting existing rows,
// creating the file with its header if necessary.
func (s *CSVStore) Append(ctx context.Context, item *domain.TrackedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.ensureHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening catalog for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(itemToRow(item)); err != nil {
		return fmt.Errorf("appending catalog row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing catalog append: %w", err)
	}

	return nil
}

// RewriteAll atomically replaces the durable contents with the header row
// followed by items in order.
func (s *CSVStore) RewriteAll(ctx context.Context, items []domain.TrackedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewrite(ctx, items)
}

func (s *CSVStore) rewrite(ctx context.Context, items []domain.TrackedItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog header: %w", err)
	}
	for i := range items {
		if err := w.Write(itemToRow(&items[i])); err != nil {
			tmp.Close()
			return fmt.Errorf("writing catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp catalog: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}

	metrics.CatalogItems.Set(float64(len(items)))
	return nil
}

// DeleteAt removes the item at index, rewriting the remainder. Returns
// false without touching storage when index is out of range.
func (s *CSVStore) DeleteAt(ctx context.Context, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := s.readAll(ctx)
	if err != nil {
		return false, err
	}

	if index < 0 || index >= len(items) {
		return false, nil
	}

	remaining := append(items[:index:index], items[index+1:]...)
	if err := s.rewrite(ctx, remaining); err != nil {
		return false, err
	}

	return true, nil
}

// Ping verifies the catalog's directory is reachable.
func (s *CSVStore) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("catalog directory: %w", err)
	}
	return nil
}

// Close is a no-op; the CSVStore holds no long-lived handles.
func (s *CSVStore) Close() {}

// ensureHeader creates the catalog file with its header row when absent.
func (s *CSVStore) ensureHeader() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking catalog: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating catalog: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("writing catalog header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func itemToRow(item *domain.TrackedItem) []string {
	return []string{
		item.URL,
		item.Name,
		strconv.FormatFloat(item.CurrentPrice, 'f', -1, 64),
		strconv.FormatFloat(item.TargetPrice, 'f', -1, 64),
		item.LastChecked,
		item.RecipientEmail,
	}
}

func rowToItem(row []string) (domain.TrackedItem, error) {
	current, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return domain.TrackedItem{}, fmt.Errorf("parsing current price %q: %w", row[2], err)
	}
	target, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return domain.TrackedItem{}, fmt.Errorf("parsing target price %q: %w", row[3], err)
	}

	return domain.TrackedItem{
		ID:             domain.ItemID(row[0]),
		URL:            row[0],
		Name:           row[1],
		CurrentPrice:   current,
		TargetPrice:    target,
		LastChecked:    row[4],
		RecipientEmail: row[5],
	}, nil
}
