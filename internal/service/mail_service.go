package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/bookly-service/internal/config"
	"github.com/spec-kit/bookly-service/internal/events"
)

// MailService turns auth events into outbound mail. Actual transport is out
// of scope; delivery is a logged stub carrying the real action links.
type MailService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewMailService creates the service.
func NewMailService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.MailConfig) *MailService {
	return &MailService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (m *MailService) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Subscribe(events.EventUserRegistered, m.handleUserRegistered)
	m.dispatcher.Subscribe(events.EventPasswordResetRequested, m.handlePasswordResetRequested)
	m.dispatcher.Subscribe(events.EventPasswordChanged, m.handlePasswordChanged)
}

func (m *MailService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	link := fmt.Sprintf("http://%s/api/v1/auth/verify/%s", m.cfg.Domain, payload.VerificationToken)
	m.sendStub(ctx, event.Email, "verify your account", link)
	return nil
}

func (m *MailService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	link := fmt.Sprintf("http://%s/api/v1/auth/password-reset/confirm/%s", m.cfg.Domain, payload.ResetToken)
	m.sendStub(ctx, event.Email, "reset your password", link)
	return nil
}

func (m *MailService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	m.sendStub(ctx, event.Email, "your password was changed", "")
	return nil
}

func (m *MailService) sendStub(_ context.Context, to, subject, link string) {
	if strings.TrimSpace(m.cfg.From) == "" {
		return
	}
	m.logger.Info("sendMailStub",
		zap.String("from", m.cfg.From),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("link", link))
}
