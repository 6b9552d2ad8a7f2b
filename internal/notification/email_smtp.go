package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/config"
	simplemail "github.com/xhit/go-simple-mail/v2"
)

type smtpEmailSender struct {
	server *simplemail.SMTPServer
	from   string
	log    *slog.Logger
}

// NewSMTPEmailSender opens one SMTP connection per message. Port 465 uses
// implicit TLS, port 25 sends in the clear, anything else upgrades with STARTTLS.
func NewSMTPEmailSender(cfg config.SMTPConfig, log *slog.Logger) (EmailSender, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp: host and from address are required")
	}
	if _, err := mail.ParseAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("smtp: invalid from address %q: %w", cfg.From, err)
	}

	server := simplemail.NewSMTPClient()
	server.Host = cfg.Host
	server.Port = cfg.Port
	if server.Port == 0 {
		server.Port = 587
	}
	server.Username = cfg.Username
	server.Password = cfg.Password
	if cfg.Username != "" {
		server.Authentication = simplemail.AuthPlain
	}
	server.Encryption = encryptionFor(server.Port)
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	return &smtpEmailSender{server: server, from: cfg.From, log: log}, nil
}

func encryptionFor(port int) simplemail.Encryption {
	switch port {
	case 465:
		return simplemail.EncryptionSSLTLS
	case 25:
		return simplemail.EncryptionNone
	default:
		return simplemail.EncryptionSTARTTLS
	}
}

func (s *smtpEmailSender) Send(ctx context.Context, to, toName, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := buildMessage(s.from, to, toName, subject, htmlBody, textBody)
	if err != nil {
		return err
	}

	client, err := s.server.Connect()
	if err != nil {
		return fmt.Errorf("smtp connect %s: %w", s.server.Host, err)
	}
	if err := msg.Send(client); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	s.log.Debug("email delivered", "transport", "smtp", "to", to, "subject", subject)
	return nil
}

// buildMessage puts the plain text first and the HTML as alternative when
// both exist, so clients that cannot render HTML still get a readable body.
func buildMessage(from, to, toName, subject, htmlBody, textBody string) (*simplemail.Email, error) {
	rcpt := (&mail.Address{Name: toName, Address: to}).String()
	msg := simplemail.NewMSG().SetFrom(from).AddTo(rcpt).SetSubject(subject)
	switch {
	case textBody != "" && htmlBody != "":
		msg.SetBody(simplemail.TextPlain, textBody)
		msg.AddAlternative(simplemail.TextHTML, htmlBody)
	case htmlBody != "":
		msg.SetBody(simplemail.TextHTML, htmlBody)
	default:
		msg.SetBody(simplemail.TextPlain, textBody)
	}
	if msg.Error != nil {
		return nil, fmt.Errorf("build email to %s: %w", to, msg.Error)
	}
	return msg, nil
}
