package verification

import (
	"context"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/notification"
	"github.com/delordemm1/gooddeeds-api/internal/notification/templates"
)

//go:generate mockgen -source=sender.go -destination=mock_sender_test.go -package=verification CodeSender

// CodeMessage is a code ready to be delivered to its owner.
type CodeMessage struct {
	Email     string
	Name      string
	Code      string
	Context   Context
	ExpiresIn time.Duration
}

// CodeSender delivers a code to the person who requested it. A returned error
// means the code did not leave the system.
type CodeSender interface {
	SendCode(ctx context.Context, msg CodeMessage) error
}

// EmailCodeSender sends codes through the notification service using the
// template that matches the code's context.
type EmailCodeSender struct {
	notifications notification.Service
	supportEmail  string
}

func NewEmailCodeSender(notifications notification.Service, supportEmail string) *EmailCodeSender {
	return &EmailCodeSender{notifications: notifications, supportEmail: supportEmail}
}

func (s *EmailCodeSender) SendCode(ctx context.Context, msg CodeMessage) error {
	channels := []notification.Channel{notification.ChannelEmail}
	minutes := int(msg.ExpiresIn.Minutes())

	if msg.Context == ContextPasswordReset {
		return notification.SendTemplate(ctx, s.notifications, templates.PasswordResetCode, msg.Email, channels, notification.PriorityHigh,
			templates.PasswordResetCodeData{
				FirstName:        msg.Name,
				Code:             msg.Code,
				ExpiresInMinutes: minutes,
				SupportEmail:     s.supportEmail,
			})
	}
	return notification.SendTemplate(ctx, s.notifications, templates.SignupCode, msg.Email, channels, notification.PriorityHigh,
		templates.SignupCodeData{
			FirstName:        msg.Name,
			Code:             msg.Code,
			ExpiresInMinutes: minutes,
			SupportEmail:     s.supportEmail,
		})
}
