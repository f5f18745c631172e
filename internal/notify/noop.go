package notify

import (
	"context"
	"log/slog"

	domain "pricewatch/pkg/types"
)

// NoopNotifier implements Notifier by logging discarded notifications. It
// is used when no SMTP transport is configured at all (tests, dry runs).
type NoopNotifier struct {
	log *slog.Logger
}

// NewNoopNotifier creates a notifier that discards messages with a log line.
func NewNoopNotifier(log *slog.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

// Notify logs and discards a price-drop notification.
func (n *NoopNotifier) Notify(_ context.Context, event *domain.NotificationEvent) error {
	n.log.Debug("notification discarded (no transport configured)",
		"name", event.Name,
		"current_price", event.CurrentPrice,
		"target_price", event.TargetPrice,
	)
	return ErrNotConfigured
}

// SendTest logs and discards a test send.
func (n *NoopNotifier) SendTest(_ context.Context, recipient string) error {
	if !domain.ValidEmail(recipient) {
		return ErrInvalidEmail
	}
	n.log.Debug("test email discarded (no transport configured)", "recipient", recipient)
	return ErrNotConfigured
}

// Configure rejects runtime configuration; a transport must be selected at
// startup.
func (n *NoopNotifier) Configure(address, _ string) error {
	if !domain.ValidEmail(address) {
		return ErrInvalidEmail
	}
	return ErrNotConfigured
}

// Configured always reports false.
func (n *NoopNotifier) Configured() bool {
	return false
}
