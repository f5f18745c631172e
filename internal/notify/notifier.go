// Package notify defines the notification interface and implementations
// for price-drop alert delivery.
package notify

import (
	"context"
	"errors"

	domain "pricewatch/pkg/types"
)

// ErrNotConfigured is returned by send operations while no sender address
// and credential have been configured.
var ErrNotConfigured = errors.New("sender email not configured")

// ErrInvalidEmail is returned when an address fails the syntactic shape
// check.
var ErrInvalidEmail = errors.New("invalid email format")

// Notifier defines the interface for delivering price-drop notifications.
//
// Notify and SendTest are best-effort: transport errors are returned as
// values and must never propagate as crashes. Configure swaps the sender
// identity at runtime; Configured reports whether sends can be attempted
// at all.
type Notifier interface {
	Notify(ctx context.Context, event *domain.NotificationEvent) error
	SendTest(ctx context.Context, recipient string) error
	Configure(address, credential string) error
	Configured() bool
}
