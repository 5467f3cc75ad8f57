package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/config"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender picks the delivery backend named by cfg.Driver.
func NewSender(cfg config.MailConfig) (Sender, error) {
	if cfg.From == "" {
		return nil, errors.New("mail: sender address is required")
	}

	switch cfg.Driver {
	case "smtp":
		if cfg.SMTP.Host == "" || cfg.SMTP.Port == "" {
			return nil, errors.New("mail: smtp host and port are required")
		}
		return NewSMTPSender(cfg.SMTP, cfg.From), nil
	case "mailgun":
		if cfg.Mailgun.Domain == "" || cfg.Mailgun.APIKey == "" {
			return nil, errors.New("mail: mailgun domain and api key are required")
		}
		return NewMailgunSender(cfg.Mailgun, cfg.From), nil
	case "sendgrid":
		if cfg.SendGrid.APIKey == "" {
			return nil, errors.New("mail: sendgrid api key is required")
		}
		return NewSendGridSender(cfg.SendGrid, cfg.From), nil
	case "log":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("mail: unsupported driver %q", cfg.Driver)
	}
}
