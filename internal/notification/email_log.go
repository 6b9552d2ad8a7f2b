package notification

import (
	"context"
	"log/slog"
)

// logEmailSender writes emails to the log instead of delivering them. Used in development.
type logEmailSender struct {
	log *slog.Logger
}

// NewLogEmailSender creates a sender that only logs.
func NewLogEmailSender(log *slog.Logger) EmailSender {
	return &logEmailSender{log: log}
}

func (s *logEmailSender) Send(_ context.Context, to, _, subject, _, textBody string) error {
	s.log.Info("DEV SEND: email would be sent", "to", to, "subject", subject, "text", textBody)
	return nil
}
