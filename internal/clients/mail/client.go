package mail

import (
	"context"
	"fmt"

	"callrelay/internal/observability"

	"github.com/resendlabs/resend-go"
)

type ResendClient struct {
	send   func(*resend.SendEmailRequest) (string, error)
	logger *observability.Logger
}

func NewResendClient(apiKey string, logger *observability.Logger) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendClient{
		send: func(params *resend.SendEmailRequest) (string, error) {
			res, err := client.Emails.Send(params)
			if err != nil {
				return "", err
			}
			return res.Id, nil
		},
		logger: logger,
	}, nil
}

// SendEmail sends a plain text message and returns the provider's id.
func (c *ResendClient) SendEmail(ctx context.Context, from, to, subject, text string) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: to},
		observability.Field{Key: "email_subject", Value: subject},
	)

	id, err := c.send(&resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		c.logger.Error(ctx, "failed to send email", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Info(ctx, "email sent successfully")
	return id, nil
}
