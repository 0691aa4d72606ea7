package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/multierr"

	"github.com/cambroos/rentals-backend/pkg/config"
)

const quoteRefHeader = "X-Quote-Reference"

// Message is a single outbound email. HTML is required; Text is sent as the
// plain-text alternative when present.
type Message struct {
	FromName    string
	From        string
	To          string
	ReplyToName string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Reference   string
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers through an authenticated SMTP server, dialing per message.
type SMTPSender struct {
	host     string
	opts     []mail.Option
	defaults Message
}

// NewSMTPSender validates the SMTP settings and prepares client options.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if !cfg.Configured() {
		return nil, errors.New("smtp server and sender email are required")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SenderEmail),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return &SMTPSender{
		host:     strings.TrimSpace(cfg.Host),
		opts:     opts,
		defaults: Message{From: cfg.SenderEmail},
	}, nil
}

// SenderAddress is the envelope/From address every message uses.
func (s *SMTPSender) SenderAddress() string {
	return s.defaults.From
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// Verify dials and authenticates without sending, so misconfiguration shows up at startup.
func (s *SMTPSender) Verify(ctx context.Context) (err error) {
	client, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.DialWithContext(verifyCtx); err != nil {
		return fmt.Errorf("smtp dial %s: %w", s.host, err)
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()
	return nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	if msg.From == "" {
		msg.From = s.defaults.From
	}
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyToFormat(msg.ReplyToName, msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	if msg.Reference != "" {
		m.SetGenHeader(quoteRefHeader, msg.Reference)
	}
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

func validateMessage(msg Message) error {
	switch {
	case strings.TrimSpace(msg.From) == "":
		return errors.New("message sender required")
	case strings.TrimSpace(msg.To) == "":
		return errors.New("message recipient required")
	case strings.TrimSpace(msg.Subject) == "":
		return errors.New("message subject required")
	case strings.TrimSpace(msg.HTML) == "":
		return errors.New("message body required")
	}
	return nil
}
