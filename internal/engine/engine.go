// Package engine orchestrates the price-tracking core: adding items,
// re-checking prices, deciding when a drop warrants a notification, and
// dispatching it exactly once per qualifying drop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pricewatch/internal/extract"
	"pricewatch/internal/metrics"
	"pricewatch/internal/notify"
	"pricewatch/internal/store"
	domain "pricewatch/pkg/types"
)

// Result is the success-flag + human-readable message pair every
// collaborator-facing operation hands to the presentation shell. The shell
// renders it; it never makes decisions.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Tracker coordinates the extractor, catalog store, and notifier.
type Tracker struct {
	store     store.Store
	extractor extract.Extractor
	notifier  notify.Notifier
	log       *slog.Logger
	now       func() time.Time
}

// NewTracker creates a Tracker with injected dependencies.
func NewTracker(
	s store.Store,
	ex extract.Extractor,
	n notify.Notifier,
	opts ...TrackerOption,
) *Tracker {
	t := &Tracker{
		store:     s,
		extractor: ex,
		notifier:  n,
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TrackerOption configures the Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.log = l
	}
}

// WithClock overrides the wall-clock source, for deterministic timestamps
// in tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// AddItem validates the request, extracts current product data, persists a
// new catalog entry under the resolved URL, and sends an immediate
// notification when the price is already at or below target. Notification
// failure never downgrades the result: persistence already succeeded.
func (t *Tracker) AddItem(
	ctx context.Context,
	url string,
	targetPrice float64,
	recipientEmail string,
) (Result, error) {
	if !domain.ValidEmail(recipientEmail) {
		return Result{OK: false, Message: "Invalid email format"}, nil
	}
	if targetPrice < 0 {
		return Result{OK: false, Message: "Target price cannot be negative"}, nil
	}

	page, err := t.extractor.Extract(ctx, url)
	if err != nil {
		t.log.Warn("extraction failed", "url", url, "error", err)
		metrics.ExtractionFailuresTotal.Inc()
		return Result{OK: false, Message: "Failed to get product details"}, nil
	}
	if page.Price == nil {
		t.log.Warn("no price found on page", "url", url)
		metrics.ExtractionFailuresTotal.Inc()
		return Result{OK: false, Message: "Failed to get product details"}, nil
	}

	item := domain.TrackedItem{
		ID:             domain.ItemID(page.ResolvedURL),
		URL:            page.ResolvedURL,
		Name:           page.Name,
		CurrentPrice:   *page.Price,
		TargetPrice:    targetPrice,
		LastChecked:    t.now().Format(domain.TimestampLayout),
		RecipientEmail: recipientEmail,
	}

	if err := t.store.Append(ctx, &item); err != nil {
		return Result{}, fmt.Errorf("persisting item: %w", err)
	}

	t.log.Info("item added",
		"id", item.ID,
		"name", item.Name,
		"current_price", item.CurrentPrice,
		"target_price", item.TargetPrice,
	)

	if item.BelowTarget() {
		// No real prior price exists yet, so the notification carries no
		// savings figure.
		event := &domain.NotificationEvent{
			Name:           item.Name,
			URL:            item.URL,
			OldPrice:       nil,
			CurrentPrice:   item.CurrentPrice,
			TargetPrice:    item.TargetPrice,
			RecipientEmail: item.RecipientEmail,
		}
		if err := t.notifier.Notify(ctx, event); err != nil {
			t.log.Warn("immediate notification failed", "id", item.ID, "error", err)
		}
		return Result{
			OK: true,
			Message: fmt.Sprintf(
				"Product added and notification sent! Current price (%s%.2f) is already below your target price!",
				domain.CurrencySymbol, item.CurrentPrice,
			),
		}, nil
	}

	return Result{
		OK: true,
		Message: fmt.Sprintf(
			"Product added successfully! You will be notified when price drops below %s%.2f",
			domain.CurrencySymbol, item.TargetPrice,
		),
	}, nil
}

// CheckAll re-extracts every tracked item, rewrites the catalog once with
// the refreshed state, and sends one notification per qualifying drop. An
// item whose extraction fails keeps its stored row untouched. A drop
// qualifies only when the new price is at or below target AND strictly
// below the previous observation; merely sitting under target does not
// re-notify every cycle.
func (t *Tracker) CheckAll(ctx context.Context) (*domain.CheckSummary, error) {
	start := time.Now()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.ChecksTotal.Inc()

	items, skipped, err := t.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if skipped > 0 {
		t.log.Warn("corrupt catalog rows skipped", "count", skipped)
	}

	summary := &domain.CheckSummary{SkippedRows: skipped}
	if len(items) == 0 {
		return summary, nil
	}

	updated := make([]domain.TrackedItem, 0, len(items))
	var pending []*domain.NotificationEvent

	for i := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := items[i]
		summary.Checked++

		page, extractErr := t.extractor.Extract(ctx, item.URL)
		if extractErr != nil || page.Price == nil {
			t.log.Warn("price check failed, keeping stored row",
				"id", item.ID,
				"url", item.URL,
				"error", extractErr,
			)
			metrics.ExtractionFailuresTotal.Inc()
			updated = append(updated, item)
			continue
		}

		oldPrice := item.CurrentPrice
		item.Name = page.Name
		item.CurrentPrice = *page.Price
		item.LastChecked = t.now().Format(domain.TimestampLayout)
		updated = append(updated, item)
		summary.Updated++

		if item.BelowTarget() && item.CurrentPrice < oldPrice {
			summary.Drops++
			metrics.DropsDetectedTotal.Inc()
			old := oldPrice
			pending = append(pending, &domain.NotificationEvent{
				Name:           item.Name,
				URL:            item.URL,
				OldPrice:       &old,
				CurrentPrice:   item.CurrentPrice,
				TargetPrice:    item.TargetPrice,
				RecipientEmail: item.RecipientEmail,
			})
		}
	}

	if err := t.store.RewriteAll(ctx, updated); err != nil {
		return nil, fmt.Errorf("rewriting catalog: %w", err)
	}

	for _, event := range pending {
		if err := t.notifier.Notify(ctx, event); err != nil {
			t.log.Warn("drop notification failed",
				"name", event.Name,
				"recipient", event.RecipientEmail,
				"error", err,
			)
			summary.SendFailures++
			continue
		}
		summary.Notified++
	}
	summary.AnythingSent = summary.Notified > 0

	t.log.Info("check cycle complete",
		"checked", summary.Checked,
		"updated", summary.Updated,
		"drops", summary.Drops,
		"notified", summary.Notified,
	)

	return summary, nil
}

// ListItems returns the current catalog. The skipped-row count is logged
// and returned so callers can surface silent data loss.
func (t *Tracker) ListItems(ctx context.Context) ([]domain.TrackedItem, int, error) {
	items, skipped, err := t.store.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("reading catalog: %w", err)
	}
	if skipped > 0 {
		t.log.Warn("corrupt catalog rows skipped", "count", skipped)
	}
	return items, skipped, nil
}

// DeleteItem removes the item at the given positional index. Returns false
// when the index does not refer to an existing item.
func (t *Tracker) DeleteItem(ctx context.Context, index int) (bool, error) {
	ok, err := t.store.DeleteAt(ctx, index)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	if ok {
		t.log.Info("item deleted", "index", index)
	}
	return ok, nil
}
