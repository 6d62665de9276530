package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"price-tracker/internal/usecase/alert"
)

// SMTPConfig contains configuration for email alert delivery.
type SMTPConfig struct {
	// Enabled indicates whether email alerts are enabled
	Enabled bool

	// Host and Port identify the SMTP server, e.g. smtp.gmail.com:587
	Host string
	Port int

	// Username and Password authenticate against the SMTP server
	Username string
	Password string

	// From is the sender address; To lists the recipients
	From string
	To   []string
}

// sendMailFunc matches smtp.SendMail and is swappable for tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSink delivers price alerts by email over SMTP with plain auth.
type SMTPSink struct {
	config   SMTPConfig
	sendMail sendMailFunc
}

// NewSMTPSink creates a new SMTPSink with the specified configuration.
func NewSMTPSink(config SMTPConfig) *SMTPSink {
	return &SMTPSink{
		config:   config,
		sendMail: smtp.SendMail,
	}
}

// Name implements the alert.Sink interface.
func (s *SMTPSink) Name() string { return "email" }

// buildMessage renders the RFC 5322 message for an alert.
func (s *SMTPSink) buildMessage(a alert.Alert) []byte {
	subject := fmt.Sprintf("Price alert: %s at %s", a.ProductName, a.CurrentPrice.StringFixed(2))

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.config.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	fmt.Fprintf(&b, "The price of %s reached your target.\r\n\r\n", a.ProductName)
	fmt.Fprintf(&b, "Current price: %s\r\n", a.CurrentPrice.StringFixed(2))
	fmt.Fprintf(&b, "Target price:  %s\r\n", a.TargetPrice.StringFixed(2))
	fmt.Fprintf(&b, "Savings:       %s\r\n", a.Savings().StringFixed(2))
	fmt.Fprintf(&b, "Triggered at:  %s\r\n", a.TriggeredAt.Format(time.RFC3339))

	return []byte(b.String())
}

// Notify implements the alert.Sink interface. Delivery respects context
// cancellation only up to the SMTP dial; net/smtp offers no mid-session
// cancellation.
func (s *SMTPSink) Notify(ctx context.Context, a alert.Alert) error {
	if !s.config.Enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.config.To) == 0 {
		return fmt.Errorf("smtp sink: no recipients configured")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := s.sendMail(addr, auth, s.config.From, s.config.To, s.buildMessage(a)); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}
	return nil
}
