package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"sync"

	"github.com/jordan-wright/email"

	"pricewatch/internal/metrics"
	domain "pricewatch/pkg/types"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<html>
  <body>
    <h2>Price Alert!</h2>
    <p>Good news! The product you're tracking is available at your target price or lower.</p>
    <p><b>Product:</b> {{.Name}}</p>
    <p><b>Current price:</b> {{.Symbol}}{{printf "%.2f" .CurrentPrice}}</p>
    <p><b>Your target price:</b> {{.Symbol}}{{printf "%.2f" .TargetPrice}}</p>
    {{if .ShowSavings}}<p><b>You're saving:</b> {{.Symbol}}{{printf "%.2f" .Savings}}</p>
    {{end}}<p><a href="{{.URL}}">Click here to view the product</a></p>
  </body>
</html>`))

const testBody = `<html>
  <body>
    <h2>Test Email from Price Tracker</h2>
    <p>This is a test email to confirm that your price tracker email notifications are working correctly.</p>
    <p>You will receive similar emails when prices drop for your tracked products.</p>
  </body>
</html>`

// SMTPNotifier implements Notifier by sending HTML mail over an
// authenticated STARTTLS session, one session per send. The sender identity
// is injected at construction and may be swapped at runtime via Configure;
// a mutex guards it against configuration changes racing in-flight sends.
type SMTPNotifier struct {
	host string
	port int

	mu         sync.Mutex
	address    string
	credential string
}

// SMTPOption configures the SMTPNotifier.
type SMTPOption func(*SMTPNotifier)

// WithSender sets the initial sender address and credential. Leaving them
// unset keeps the notifier unconfigured: every send fails with
// ErrNotConfigured until Configure is called.
func WithSender(address, credential string) SMTPOption {
	return func(n *SMTPNotifier) {
		n.address = address
		n.credential = credential
	}
}

// NewSMTPNotifier creates an SMTPNotifier delivering through host:port.
func NewSMTPNotifier(host string, port int, opts ...SMTPOption) *SMTPNotifier {
	n := &SMTPNotifier{host: host, port: port}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Configured reports whether a sender address and credential are set.
func (n *SMTPNotifier) Configured() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.address != "" && n.credential != ""
}

// Configure validates address and swaps the sender identity. No
// connectivity check is performed; a bad credential surfaces on the next
// send attempt.
func (n *SMTPNotifier) Configure(address, credential string) error {
	if !domain.ValidEmail(address) {
		return ErrInvalidEmail
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.address = address
	n.credential = credential
	return nil
}

// sender snapshots the configured identity for one send.
func (n *SMTPNotifier) sender() (address, credential string, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.address, n.credential, n.address != "" && n.credential != ""
}

// Notify renders and delivers one price-drop message.
func (n *SMTPNotifier) Notify(ctx context.Context, event *domain.NotificationEvent) error {
	savings, showSavings := event.Savings()

	var body bytes.Buffer
	err := alertTemplate.Execute(&body, struct {
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
		ShowSavings:  showSavings,
		Symbol:       domain.CurrencySymbol,
	})
	if err != nil {
		return fmt.Errorf("rendering alert body: %w", err)
	}

	subject := fmt.Sprintf("Price Alert: %s", event.Name)
	if err := n.send(ctx, event.RecipientEmail, subject, body.Bytes()); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return err
	}

	metrics.NotificationsSentTotal.Inc()
	return nil
}

// SendTest delivers a fixed diagnostic message to recipient. Failure
// reasons are surfaced to the caller as text rather than collapsed.
func (n *SMTPNotifier) SendTest(ctx context.Context, recipient string) error {
	if !domain.ValidEmail(recipient) {
		return ErrInvalidEmail
	}

	err := n.send(ctx, recipient, "Price Tracker - Test Email", []byte(testBody))
	if err != nil {
		return fmt.Errorf("sending test email: %w", err)
	}
	return nil
}

// send performs one authenticated STARTTLS delivery. The context bounds
// nothing here: jordan-wright/email drives net/smtp synchronously, so the
// deadline protection is the SMTP dial timeout inside the library. The
// parameter keeps the call shape uniform with the rest of the engine.
func (n *SMTPNotifier) send(_ context.Context, recipient, subject string, body []byte) error {
	address, credential, ok := n.sender()
	if !ok {
		return ErrNotConfigured
	}

	msg := email.NewEmail()
	msg.From = address
	msg.To = []string{recipient}
	msg.Subject = subject
	msg.HTML = body

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", address, credential, n.host)

	if err := msg.SendWithStartTLS(addr, auth, &tls.Config{ServerName: n.host}); err != nil {
		return fmt.Errorf("delivering mail via %s: %w", addr, err)
	}
	return nil
}
