package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/handabata/otp-service/internal/config"
)

// Mailer delivers a single HTML message to one recipient.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// SendEmail first verifies that the relay is reachable, then dispatches the
// message. Either step failing surfaces the transport error to the caller;
// no retries happen at this layer or above.
func (m *mailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := m.verify(addr); err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	headers := []string{
		fmt.Sprintf("From: %q <%s>", m.fromName, m.from),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	if err := ctx.Err(); err != nil {
		return err
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// verify opens a connection and exchanges the greeting, then hangs up.
func (m *mailer) verify(addr string) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	return c.Quit()
}
