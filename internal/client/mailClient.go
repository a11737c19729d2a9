package client

import (
	"context"
	"fmt"

	"partyhub-backend/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type MailClient interface {
	Send(ctx context.Context, toAddress, subject, htmlBody string) error
}

type mailClientImpl struct {
	sg          *sendgrid.Client
	fromAddress string
	fromName    string
}

func NewMailClient(cfg *config.Mail) MailClient {
	return &mailClientImpl{
		sg:          sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

func (c *mailClientImpl) Send(ctx context.Context, toAddress, subject, htmlBody string) error {
	from := mail.NewEmail(c.fromName, c.fromAddress)
	to := mail.NewEmail("", toAddress)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	resp, err := c.sg.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	return nil
}
