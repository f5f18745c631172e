// Package domain defines the core business types for pricewatch.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"time"
)

// emailPattern is the syntactic local@domain.tld shape accepted for
// recipient and sender addresses. Deliverability is not checked.
var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// ValidEmail reports whether s has a plausible email shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// TimestampLayout is the wall-clock format persisted in the catalog's
// Last Checked column.
const TimestampLayout = "2006-01-02 15:04:05"

// NameNotFound is the sentinel product name used when extraction cannot
// locate a title on the listing page. A sentinel name is not fatal; a
// missing price is.
const NameNotFound = "Product name not found"

// CurrencySymbol is the fixed display symbol prefixed to prices in
// user-facing messages. Prices are stored as bare decimals; the unit is
// whatever currency the listing page showed.
const CurrencySymbol = "₹"

// TrackedItem is one tracked listing in the catalog.
type TrackedItem struct {
	ID             string  `json:"id"              db:"id"`
	URL            string  `json:"url"             db:"url"`
	Name           string  `json:"name"            db:"name"`
	CurrentPrice   float64 `json:"current_price"   db:"current_price"`
	TargetPrice    float64 `json:"target_price"    db:"target_price"`
	LastChecked    string  `json:"last_checked"    db:"last_checked"`
	RecipientEmail string  `json:"recipient_email" db:"recipient_email"`
}

// BelowTarget reports whether the most recent observation already satisfies
// the alert threshold.
func (t *TrackedItem) BelowTarget() bool {
	return t.CurrentPrice <= t.TargetPrice
}

// NotificationEvent carries the data for one price-drop message. It is never
// persisted. OldPrice is nil when no real prior observation exists (the
// immediate notification on add), in which case no savings figure is shown.
type NotificationEvent struct {
	Name           string
	URL            string
	OldPrice       *float64
	CurrentPrice   float64
	TargetPrice    float64
	RecipientEmail string
}

// Savings returns the display savings figure and whether one should be
// rendered at all.
func (e *NotificationEvent) Savings() (float64, bool) {
	if e.OldPrice == nil {
		return 0, false
	}
	return *e.OldPrice - e.CurrentPrice, true
}

// CheckSummary reports the outcome of one full check cycle.
type CheckSummary struct {
	Checked      int  `json:"checked"`
	Updated      int  `json:"updated"`
	Drops        int  `json:"drops"`
	Notified     int  `json:"notified"`
	SendFailures int  `json:"send_failures"`
	SkippedRows  int  `json:"skipped_rows"`
	AnythingSent bool `json:"anything_sent"`
}

// Message renders the human-readable summary the presentation shell shows
// after a check cycle.
func (s *CheckSummary) Message() string {
	if s.Checked == 0 {
		return "No products to check."
	}
	if s.AnythingSent {
		return "Price check completed. Notifications sent for products with price drops!"
	}
	return "Price check completed. No price drops detected."
}

// ItemID derives the stable identifier for a tracked item from its resolved
// URL. Identity is decoupled from display fields: the same listing always
// hashes to the same ID regardless of name or price changes.
func ItemID(resolvedURL string) string {
	sum := sha256.Sum256([]byte(resolvedURL))
	return hex.EncodeToString(sum[:6])
}

// Now returns the current wall-clock time formatted for the catalog.
func Now() string {
	return time.Now().Format(TimestampLayout)
}
