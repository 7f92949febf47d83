package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"
)

// Mailer delivers a contact submission to the company inbox.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig describes the relay used to deliver contact submissions.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// emailTemplate renders the notification body. Field labels stay in
// French, matching the inbox that receives them.
var emailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:Arial,sans-serif;color:#1f2937">
  <h2 style="color:#b45309">Nouveau message de contact</h2>
  <table cellpadding="6">
    <tr><td><strong>Nom</strong></td><td>{{.FullName}}</td></tr>
    {{if .CompanyName}}<tr><td><strong>Soci&eacute;t&eacute;</strong></td><td>{{.CompanyName}}</td></tr>{{end}}
    <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
    <tr><td><strong>T&eacute;l&eacute;phone</strong></td><td>{{.PhoneNumber}}</td></tr>
  </table>
  <h3>Message</h3>
  <p style="white-space:pre-wrap">{{.Message}}</p>
  <hr>
  <p style="font-size:12px;color:#6b7280">Re&ccedil;u le {{.ReceivedAt.Format "02/01/2006 15:04"}} &mdash; r&eacute;f. {{.ID}}</p>
</body>
</html>`))

// RenderEmail produces the HTML notification body for a submission.
func RenderEmail(m Message) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("rendering contact email: %w", err)
	}
	return buf.String(), nil
}

// SMTPMailer sends submissions through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer returns a mailer for the given relay config.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the submission as an HTML email. The context only bounds
// the call as a whole; net/smtp has no mid-flight cancellation.
func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderEmail(m)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Contact: %s", m.FullName())
	if m.CompanyName != "" {
		subject = fmt.Sprintf("Contact: %s (%s)", m.FullName(), m.CompanyName)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.To)
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", m.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{s.cfg.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
