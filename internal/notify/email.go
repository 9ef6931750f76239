package notify

import (
	"context"
	"fmt"
	"io"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	Subject string
	Body    string
}

// Mailer delivers a rendered message to a set of recipient addresses.
// Delivery is best-effort: callers log failures and move on.
type Mailer interface {
	Send(ctx context.Context, msg Message, recipients []string) error
}

// SMTPMailer delivers messages over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer for the given SMTP endpoint and sender address.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers msg to all recipients in a single SMTP message.
func (m *SMTPMailer) Send(ctx context.Context, msg Message, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", recipients...)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/html", msg.Body)

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes would-be deliveries to a logger instead of sending them.
// Used when no SMTP endpoint is configured, e.g. in local development.
type LogMailer struct {
	logger *log.Logger
}

// NewLogMailer builds a LogMailer. A nil logger discards output.
func NewLogMailer(logger *log.Logger) *LogMailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(_ context.Context, msg Message, recipients []string) error {
	m.logger.Printf("mailer: skipped delivery subject=%q recipients=%d (no smtp configured)", msg.Subject, len(recipients))
	return nil
}
