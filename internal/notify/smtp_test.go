package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/pkg/logger"
	domain "pricewatch/pkg/types"
)

func TestAlertTemplate(t *testing.T) {
	t.Parallel()

	t.Run("renders savings when a prior price exists", func(t *testing.T) {
		t.Parallel()

		old := 250.0
		event := &domain.NotificationEvent{
			Name:         "Widget Deluxe",
			URL:          "https://shop.example/p/1",
			OldPrice:     &old,
			CurrentPrice: 180,
			TargetPrice:  200,
		}
		savings, show := event.Savings()
		require.True(t, show)

		var buf bytes.Buffer
		err := alertTemplate.Execute(&buf, struct {
			Name         string
			URL          string
			CurrentPrice float64
			TargetPrice  float64
			Savings      float64
			ShowSavings  bool
			Symbol       string
		}{
			Name:         event.Name,
			URL:          event.URL,
			CurrentPrice: event.CurrentPrice,
			TargetPrice:  event.TargetPrice,
			Savings:      savings,
			ShowSavings:  show,
			Symbol:       domain.CurrencySymbol,
		})
		require.NoError(t, err)

		body := buf.String()
		assert.Contains(t, body, "Widget Deluxe")
		assert.Contains(t, body, "₹180.00")
		assert.Contains(t, body, "₹200.00")
		assert.Contains(t, body, "You&#39;re saving:")
		assert.Contains(t, body, "₹70.00")
		assert.Contains(t, body, `href="https://shop.example/p/1"`)
	})

	t.Run("omits savings line without a prior price", func(t *testing.T) {
		t.Parallel()

		event := &domain.NotificationEvent{
			Name:         "Widget Deluxe",
			URL:          "https://shop.example/p/1",
			CurrentPrice: 180,
			TargetPrice:  200,
		}
		savings, show := event.Savings()
		require.False(t, show)

		var buf bytes.Buffer
		err := alertTemplate.Execute(&buf, struct {
			Name         string
			URL          string
			CurrentPrice float64
			TargetPrice  float64
			Savings      float64
			ShowSavings  bool
			Symbol       string
		}{
			Name:         event.Name,
			URL:          event.URL,
			CurrentPrice: event.CurrentPrice,
			TargetPrice:  event.TargetPrice,
			Savings:      savings,
			ShowSavings:  show,
			Symbol:       domain.CurrencySymbol,
		})
		require.NoError(t, err)

		assert.NotContains(t, buf.String(), "saving")
	})

	t.Run("escapes markup in product names", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := alertTemplate.Execute(&buf, struct {
			Name         string
			URL          string
			CurrentPrice float64
			TargetPrice  float64
			Savings      float64
			ShowSavings  bool
			Symbol       string
		}{
			Name:   "<script>alert(1)</script>",
			URL:    "https://shop.example/p/1",
			Symbol: domain.CurrencySymbol,
		})
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "<script>")
	})
}

func TestSMTPNotifier_Configure(t *testing.T) {
	t.Parallel()

	n := NewSMTPNotifier("smtp.example.com", 587)
	assert.False(t, n.Configured())

	err := n.Configure("not-an-email", "pass")
	require.ErrorIs(t, err, ErrInvalidEmail)
	assert.False(t, n.Configured())

	require.NoError(t, n.Configure("alerts@example.com", "app-pass"))
	assert.True(t, n.Configured())
}

func TestSMTPNotifier_WithSender(t *testing.T) {
	t.Parallel()

	n := NewSMTPNotifier("smtp.example.com", 587,
		WithSender("alerts@example.com", "app-pass"))
	assert.True(t, n.Configured())
}

func TestSMTPNotifier_UnconfiguredSendFails(t *testing.T) {
	t.Parallel()

	n := NewSMTPNotifier("smtp.example.com", 587)

	err := n.Notify(context.Background(), &domain.NotificationEvent{
		Name:           "Widget",
		URL:            "https://shop.example/p/1",
		CurrentPrice:   10,
		TargetPrice:    20,
		RecipientEmail: "buyer@example.com",
	})
	require.ErrorIs(t, err, ErrNotConfigured)

	err = n.SendTest(context.Background(), "buyer@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPNotifier_SendTestValidatesRecipient(t *testing.T) {
	t.Parallel()

	n := NewSMTPNotifier("smtp.example.com", 587,
		WithSender("alerts@example.com", "app-pass"))

	err := n.SendTest(context.Background(), "bogus address")
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestNoopNotifier(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	n := NewNoopNotifier(logger.NewWithWriter(&buf, "debug", "text"))

	assert.False(t, n.Configured())

	err := n.Notify(context.Background(), &domain.NotificationEvent{
		Name: "Widget", RecipientEmail: "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, buf.String(), "notification discarded")

	assert.ErrorIs(t, n.SendTest(context.Background(), "buyer@example.com"), ErrNotConfigured)
	assert.ErrorIs(t, n.SendTest(context.Background(), "bogus"), ErrInvalidEmail)
	assert.ErrorIs(t, n.Configure("alerts@example.com", "x"), ErrNotConfigured)
}
