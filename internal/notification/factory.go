package notification

import (
	"fmt"
	"log/slog"

	"github.com/delordemm1/gooddeeds-api/internal/config"
)

// NewEmailSenderFromConfig picks the email transport named by cfg.Mail.Provider.
func NewEmailSenderFromConfig(cfg *config.Config, log *slog.Logger) (EmailSender, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		return NewSMTPEmailSender(cfg.SMTP, log)
	case "mailersend":
		if cfg.MailerSend.APIKey == "" || cfg.MailerSend.FromEmail == "" {
			return nil, fmt.Errorf("mailersend requires MAILERSEND_API_KEY and MAILERSEND_FROM_EMAIL")
		}
		return NewMailerSendEmailSender(cfg.MailerSend.APIKey, cfg.MailerSend.FromName, cfg.MailerSend.FromEmail, log), nil
	case "log", "":
		return NewLogEmailSender(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
}
