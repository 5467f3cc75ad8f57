package mailer

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"
)

type mailgunClient interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

type MailgunSender struct {
	mg   mailgunClient
	from string
}

func NewMailgunSender(cfg config.MailgunConfig, from string) *MailgunSender {
	return &MailgunSender{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: from,
	}
}

// NewMailgunSenderWithBase points the client at a different API base, such as
// the EU region or a local stub.
func NewMailgunSenderWithBase(cfg config.MailgunConfig, from, apiBase string) *MailgunSender {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	mg.SetAPIBase(apiBase)
	return &MailgunSender{mg: mg, from: from}
}

func (s *MailgunSender) Send(ctx context.Context, msg Message) error {
	message := s.mg.NewMessage(s.from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}

	_, id, err := s.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}

	logrus.WithField("message_id", id).Debug("Mailgun message queued")
	return nil
}
