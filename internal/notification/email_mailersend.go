package notification

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

// mailerSendEmailSender sends emails through the MailerSend HTTP API.
type mailerSendEmailSender struct {
	client *mailersend.Mailersend
	from   mailersend.From
	log    *slog.Logger
}

// NewMailerSendEmailSender creates a sender backed by MailerSend.
func NewMailerSendEmailSender(apiKey, fromName, fromEmail string, log *slog.Logger) EmailSender {
	return &mailerSendEmailSender{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
		log:    log,
	}
}

func (m *mailerSendEmailSender) Send(ctx context.Context, to, toName, subject, htmlBody, textBody string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: to}})
	msg.SetSubject(subject)
	if strings.TrimSpace(htmlBody) != "" {
		msg.SetHTML(htmlBody)
	}
	if strings.TrimSpace(textBody) != "" {
		msg.SetText(textBody)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailersend send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	m.log.Info("email sent via mailersend", "to", to, "message_id", res.Header.Get("X-Message-Id"))
	return nil
}
