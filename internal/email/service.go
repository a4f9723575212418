package email

import (
	"context"

	"github.com/locatus/locatus/internal/logger"
)

// Sender is the notification sink consumed by the reminder engine. It must
// never return a hard error for expected failure modes; those map to
// Success=false on the response so a batch can keep going.
type Sender interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResponse, error)
}

// Service handles email operations
type Service struct {
	client *Client
	logger *logger.Logger
}

// NewService creates a new email service
func NewService(client *Client, logger *logger.Logger) Sender {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Send sends an email through the configured provider
func (s *Service) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResponse, error) {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", req.ToAddress,
			"subject", req.Subject,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   "email client is disabled",
		}, nil
	}

	fromAddress := req.FromAddress
	if fromAddress == "" {
		fromAddress = s.client.GetFromAddress()
	}

	messageID, err := s.client.Send(ctx, fromAddress, req.ToAddress, req.Subject, req.Text, req.HTML)
	if err != nil {
		s.logger.Errorw("failed to send email",
			"error", err,
			"to", req.ToAddress,
			"subject", req.Subject,
		)
		return &SendEmailResponse{
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	s.logger.Infow("email sent successfully",
		"message_id", messageID,
		"to", req.ToAddress,
		"subject", req.Subject,
	)

	return &SendEmailResponse{
		MessageID: messageID,
		Success:   true,
	}, nil
}
