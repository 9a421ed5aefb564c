// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package notify

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"
	"gopkg.in/gomail.v2"
)

// ResetSubject is the subject line of password reset emails.
const ResetSubject = "Reset your Wardrobe password"

// Email is a rendered message ready for a Sender.
type Email struct {
	To      string
	Subject string
	Link    string
	Text    string
	HTML    string
}

// Sender delivers an Email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

var resetHTML = template.Must(template.New("reset").Parse(`<!doctype html>
<html>
<body>
<h1>Password reset</h1>
<p>Someone asked to reset the password for {{.To}}.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>The link expires at {{.ExpiresAt}}. If you did not ask for this, ignore this email.</p>
</body>
</html>
`))

// ResetLink returns linkBase with token added as the "token" query parameter.
func ResetLink(linkBase, token string) string {
	sep := "?"
	if strings.Contains(linkBase, "?") {
		sep = "&"
	}
	return linkBase + sep + "token=" + url.QueryEscape(token)
}

// RenderResetEmail builds the email for a reset request.
func RenderResetEmail(linkBase, to, token string, expiresAt time.Time) (Email, error) {
	link := ResetLink(linkBase, token)
	expiry := expiresAt.UTC().Format(time.RFC1123)

	var html bytes.Buffer
	err := resetHTML.Execute(&html, struct {
		To, Link, ExpiresAt string
	}{to, link, expiry})
	if err != nil {
		return Email{}, oops.Code("NOTIFY_RENDER_FAILED").Wrap(err)
	}

	text := "Someone asked to reset the password for " + to + ".\n\n" +
		"Open this link to choose a new password:\n" + link + "\n\n" +
		"The link expires at " + expiry + ". If you did not ask for this, ignore this email.\n"

	return Email{
		To:      to,
		Subject: ResetSubject,
		Link:    link,
		Text:    text,
		HTML:    html.String(),
	}, nil
}

// LogSender writes emails to a logger instead of sending them. It is meant
// for local development, where the reset link is read from the worker log.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger uses slog.Default.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the recipient and link.
func (s *LogSender) Send(ctx context.Context, email Email) error {
	s.logger.InfoContext(ctx, "password reset email (not sent, log sender)",
		"to", email.To,
		"subject", email.Subject,
		"link", email.Link)
	return nil
}

// Dialer is the part of *gomail.Dialer SMTPSender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers emails over SMTP.
type SMTPSender struct {
	dialer Dialer
	from   string
}

// NewSMTPDialer returns a gomail dialer for the given server.
func NewSMTPDialer(host string, port int, username, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, username, password)
}

// NewSMTPSender creates an SMTPSender that sends from the given address.
func NewSMTPSender(dialer Dialer, from string) (*SMTPSender, error) {
	if dialer == nil {
		return nil, oops.Code("NOTIFY_INVALID_DEPENDENCY").Errorf("smtp dialer is required")
	}
	if from == "" {
		return nil, oops.Code("NOTIFY_INVALID_DEPENDENCY").Errorf("from address is required")
	}
	return &SMTPSender{dialer: dialer, from: from}, nil
}

// Send delivers email as a multipart text and HTML message. gomail does not
// take a context, so a cancelled ctx only prevents the dial.
func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("NOTIFY_SEND_CANCELLED").Wrap(err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Text)
	if email.HTML != "" {
		m.AddAlternative("text/html", email.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return oops.Code("NOTIFY_SEND_FAILED").
			With("to", email.To).
			Wrap(err)
	}
	return nil
}
