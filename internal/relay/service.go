package relay

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cambroos/rentals-backend/pkg/config"
	pkgerrors "github.com/cambroos/rentals-backend/pkg/errors"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/mailer"
	"github.com/cambroos/rentals-backend/pkg/metrics"
	"github.com/cambroos/rentals-backend/pkg/types"
)

// Service turns a quote request into the operator notification and the
// customer confirmation.
type Service interface {
	Relay(ctx context.Context, order types.OrderRequest) (*Result, error)
}

// Result reports which emails went out for a relayed request.
type Result struct {
	Reference        string
	OperatorSent     bool
	ConfirmationSent bool
}

type service struct {
	sender       mailer.Sender
	fromAddress  string
	mail         config.MailConfig
	logg         *logger.Logger
	metrics      *metrics.RelayMetrics
	newReference func() string
}

// ServiceParams bundles the relay dependencies.
type ServiceParams struct {
	Sender      mailer.Sender
	FromAddress string
	Mail        config.MailConfig
	Logger      *logger.Logger
	Metrics     *metrics.RelayMetrics
	// NewReference overrides reference generation; uuid when nil.
	NewReference func() string
}

// NewService constructs a relay service.
func NewService(params ServiceParams) (Service, error) {
	if params.Sender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if strings.TrimSpace(params.FromAddress) == "" {
		return nil, fmt.Errorf("from address is required")
	}
	if strings.TrimSpace(params.Mail.AdminEmail) == "" {
		return nil, fmt.Errorf("admin email is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	m := params.Metrics
	if m == nil {
		m = metrics.NewRelayMetrics(nil)
	}
	newRef := params.NewReference
	if newRef == nil {
		newRef = func() string { return uuid.NewString() }
	}
	brand := strings.TrimSpace(params.Mail.Brand)
	if brand == "" {
		brand = config.DefaultBrand
	}
	mailCfg := params.Mail
	mailCfg.Brand = brand
	return &service{
		sender:       params.Sender,
		fromAddress:  params.FromAddress,
		mail:         mailCfg,
		logg:         logg,
		metrics:      m,
		newReference: newRef,
	}, nil
}

func (s *service) Relay(ctx context.Context, order types.OrderRequest) (*Result, error) {
	result := &Result{Reference: s.newReference()}
	ctx = s.logg.WithQuoteRef(ctx, result.Reference)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"items":    len(order.CartItems),
		"quantity": order.TotalQuantity(),
	})

	data := newEmailData(order, result.Reference, s.mail.Brand, s.mail.SupportEmail)

	operator, err := s.operatorMessage(order, data)
	if err != nil {
		s.metrics.IncRequest("render_failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render operator email")
	}
	if err := s.deliver(ctx, metrics.RecipientOperator, operator); err != nil {
		s.metrics.IncRequest("failed")
		s.logg.Error(ctx, "relay.operator.failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDelivery, err, "send operator email")
	}
	result.OperatorSent = true
	s.logg.Info(ctx, "relay.operator.sent")

	confirmation, err := s.confirmationMessage(order, data)
	if err == nil {
		err = s.deliver(ctx, metrics.RecipientConfirmation, confirmation)
	}
	if err != nil {
		s.metrics.IncRequest("partial")
		s.logg.WarnErr(ctx, "relay.confirmation.failed", err)
		return result, nil
	}
	result.ConfirmationSent = true
	s.metrics.IncRequest("delivered")
	s.logg.Info(ctx, "relay.confirmation.sent")
	return result, nil
}

func (s *service) deliver(ctx context.Context, recipient string, msg mailer.Message) error {
	started := time.Now()
	err := s.sender.Send(ctx, msg)
	s.metrics.ObserveDuration(recipient, time.Since(started))
	if err != nil {
		s.metrics.IncFailed(recipient)
		return err
	}
	s.metrics.IncDelivered(recipient)
	return nil
}

func (s *service) operatorMessage(order types.OrderRequest, data emailData) (mailer.Message, error) {
	body, err := render("operator", data)
	if err != nil {
		return mailer.Message{}, err
	}
	msg := mailer.Message{
		FromName:  fmt.Sprintf(operatorFromName, s.mail.Brand),
		From:      s.fromAddress,
		To:        s.mail.AdminEmail,
		Subject:   fmt.Sprintf(operatorSubject, data.CustomerName),
		HTML:      body.HTML,
		Text:      body.Text,
		Reference: data.Reference,
	}
	// An unparseable customer address stays in the body only; the operator email still goes out.
	if addr, ok := replyAddress(order.Email); ok {
		msg.ReplyToName = order.FullName()
		msg.ReplyTo = addr
	}
	return msg, nil
}

func replyAddress(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", false
	}
	return addr.Address, true
}

func (s *service) confirmationMessage(order types.OrderRequest, data emailData) (mailer.Message, error) {
	body, err := render("confirmation", data)
	if err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		FromName:  fmt.Sprintf(confirmFromName, s.mail.Brand),
		From:      s.fromAddress,
		To:        strings.TrimSpace(order.Email),
		Subject:   fmt.Sprintf(confirmSubject, s.mail.Brand),
		HTML:      body.HTML,
		Text:      body.Text,
		Reference: data.Reference,
	}, nil
}
