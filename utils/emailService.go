package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"lingo/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "Lingo"

// Mailer sends transactional emails through SendGrid.
type Mailer struct {
	apiKey string
	host   string
	from   *mail.Email
	log    *logger.Logger
}

// NewMailer returns nil when apiKey is empty so callers can skip email entirely.
// host overrides the SendGrid API host and is empty in production.
func NewMailer(apiKey, sender, host string, log *logger.Logger) *Mailer {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	return &Mailer{
		apiKey: apiKey,
		host:   host,
		from:   mail.NewEmail(senderName, sender),
		log:    log.With("service", "Mailer"),
	}
}

// SendEmail delivers one email with a plain text and an html part.
func (m *Mailer) SendEmail(ctx context.Context, toEmail, toName, subject, plainBody, htmlBody string) error {
	req := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	req.Method = "POST"
	client := &sendgrid.Client{Request: req}

	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, toEmail), plainBody, htmlBody)
	resp, err := client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, resp.Body)
	}
	m.log.Debug("email sent", "to", toEmail, "subject", subject)
	return nil
}

// NotifyEnrollment sends the welcome email for a first course enrollment.
func (m *Mailer) NotifyEnrollment(ctx context.Context, email, name, courseTitle string) error {
	subject := "You're enrolled: " + courseTitle
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now learning <strong>%s</strong>.</p>
		<div class="info-box">
			You start with a full set of hearts. Wrong answers on new challenges cost a heart, and practicing
			finished lessons earns them back.
		</div>
		<a href="/learn" class="btn">Start learning</a>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	plain := fmt.Sprintf("Hi %s, you are now learning %s.", name, courseTitle)
	return m.SendEmail(ctx, email, name, subject, plain, getEmailTemplate("Welcome aboard!", body))
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F7F7F7; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 12px; overflow: hidden; }
			.header { background-color: #58CC02; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 32px 28px; color: #3C3C3C; line-height: 1.6; }
			.footer { padding: 16px; text-align: center; font-size: 12px; color: #777777; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #1CB0F6; color: #FFFFFF; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 16px; }
			.info-box { background: #F1FAEB; padding: 14px; border-radius: 8px; border-left: 4px solid #58CC02; margin: 18px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>LINGO</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You received this email because you enrolled in a course.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
