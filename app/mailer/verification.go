package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"
)

const VerificationSubject = "Email Verification"

//go:embed templates/verification_email.html
var templateFS embed.FS

var verificationTemplate = template.Must(template.ParseFS(templateFS, "templates/verification_email.html"))

type verificationData struct {
	Email     string
	Link      string
	ExpiresIn string
}

// VerificationMailer renders and sends the email confirmation link.
type VerificationMailer struct {
	sender  Sender
	baseURL string
	ttl     time.Duration
}

func NewVerificationMailer(sender Sender, baseURL string, ttl time.Duration) *VerificationMailer {
	return &VerificationMailer{sender: sender, baseURL: baseURL, ttl: ttl}
}

func (m *VerificationMailer) SendVerification(ctx context.Context, email, token string) error {
	link := m.Link(token)

	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, verificationData{
		Email:     email,
		Link:      link,
		ExpiresIn: humanizeTTL(m.ttl),
	}); err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}

	return m.sender.Send(ctx, Message{
		To:      email,
		Subject: VerificationSubject,
		HTML:    body.String(),
		Text:    "Verify your email address: " + link,
	})
}

func (m *VerificationMailer) Link(token string) string {
	return m.baseURL + "/auth/verify-email?token=" + url.QueryEscape(token)
}

// humanizeTTL prints whole hours when possible, otherwise minutes.
func humanizeTTL(ttl time.Duration) string {
	if ttl >= time.Hour && ttl%time.Hour == 0 {
		return plural(int64(ttl/time.Hour), "hour")
	}
	minutes := int64(ttl / time.Minute)
	if ttl%time.Minute != 0 {
		minutes++
	}
	return plural(minutes, "minute")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
