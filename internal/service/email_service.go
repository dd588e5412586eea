package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-kit/user-service/internal/config"
	"github.com/campus-kit/user-service/internal/events"
)

// EmailService sends account emails in response to domain events. Delivery
// runs off the request path; failures are logged and never surfaced to the
// caller.
type EmailService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewEmailService creates the service.
func NewEmailService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *EmailService {
	return &EmailService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *EmailService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
}

func (n *EmailService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload for user_registered", zap.String("event_id", event.ID))
		return nil
	}

	n.logger.Info("UserRegistered",
		zap.String("email", payload.Email),
		zap.String("role", string(payload.Role)))
	n.sendWelcomeEmailStub(ctx, payload)
	return nil
}

func (n *EmailService) sendWelcomeEmailStub(_ context.Context, payload events.UserRegisteredPayload) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendWelcomeEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", payload.Email),
		zap.String("name", payload.Name))
}
