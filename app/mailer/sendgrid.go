package mailer

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridSender struct {
	client *sendgrid.Client
	from   string
}

func NewSendGridSender(cfg config.SendGridConfig, from string) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   from,
	}
}

// NewSendGridSenderWithHost sends through host instead of api.sendgrid.com.
func NewSendGridSenderWithHost(cfg config.SendGridConfig, from, host string) *SendGridSender {
	s := NewSendGridSender(cfg, from)
	s.client.Request.BaseURL = host + "/v3/mail/send"
	return s
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("", s.from),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", msg.To, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status code %d", msg.To, response.StatusCode)
	}
	return nil
}
