package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventhub/internal/domain"
)

// Template names resolved by the EmailTemplateRenderer.
const (
	templateWelcome          = "welcome"
	templateJoinConfirmation = "join_confirmation"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.send(ctx, templateWelcome, data.Email, data)
}

func (s *emailService) SendJoinConfirmation(ctx context.Context, data *domain.JoinConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("join confirmation data is nil")
	}
	return s.send(ctx, templateJoinConfirmation, data.Email, data)
}

func (s *emailService) send(ctx context.Context, templateName, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.DebugContext(ctx, "email sent", "template", templateName, "to", to)
	return nil
}
