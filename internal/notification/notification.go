package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/delordemm1/gooddeeds-api/internal/notification/templates"
)

// --- Constants for Type Safety ---
type Channel string
type Priority string

const (
	ChannelEmail Channel = "email"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// --- Data Structures ---

// Content holds the message data for each channel.
type Content struct {
	EmailSubject  string
	EmailHTMLBody string
	EmailTextBody string
}

// Notification is the universal object used to send any notification.
type Notification struct {
	Recipient     string // email address
	RecipientName string
	Channels      []Channel
	Priority      Priority
	Content       Content
}

// EmailSender delivers a single email. Implementations: SMTP, MailerSend, log.
type EmailSender interface {
	Send(ctx context.Context, to, toName, subject, htmlBody, textBody string) error
}

// --- Public Service ---

// Service renders and dispatches notifications.
type Service interface {
	// Send delivers n on every requested channel and reports every failure.
	Send(ctx context.Context, n Notification) error
	// Render materializes a template scenario.
	Render(ctx context.Context, id string, data any) (templates.Rendered, error)
}

type service struct {
	log         *slog.Logger
	renderer    templates.Renderer
	emailSender EmailSender
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, renderer templates.Renderer, emailSender EmailSender) Service {
	return &service{
		log:         log,
		renderer:    renderer,
		emailSender: emailSender,
	}
}

// Send routes the notification to each channel sender synchronously so callers
// can react to delivery failures.
func (s *service) Send(ctx context.Context, n Notification) error {
	var errs []error
	for _, ch := range n.Channels {
		switch ch {
		case ChannelEmail:
			s.log.Info("dispatching email notification", "recipient", n.Recipient, "priority", n.Priority)
			if err := s.emailSender.Send(ctx, n.Recipient, n.RecipientName, n.Content.EmailSubject, n.Content.EmailHTMLBody, n.Content.EmailTextBody); err != nil {
				s.log.Error("failed to send notification", "channel", ch, "recipient", n.Recipient, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", ch, err))
			}
		default:
			errs = append(errs, fmt.Errorf("unsupported notification channel %q", ch))
		}
	}
	return errors.Join(errs...)
}

func (s *service) Render(ctx context.Context, id string, data any) (templates.Rendered, error) {
	return s.renderer.RenderAny(ctx, id, data)
}

// SendTemplate renders a typed template scenario and sends it to a single recipient.
func SendTemplate[T any](ctx context.Context, svc Service, h templates.Handle[T], to string, channels []Channel, priority Priority, data T) error {
	r, err := svc.Render(ctx, h.ID(), data)
	if err != nil {
		return fmt.Errorf("render %s: %w", h.ID(), err)
	}
	return svc.Send(ctx, Notification{
		Recipient: to,
		Channels:  channels,
		Priority:  priority,
		Content: Content{
			EmailSubject:  r.Subject,
			EmailHTMLBody: r.EmailHTML,
			EmailTextBody: r.EmailText,
		},
	})
}
