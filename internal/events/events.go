package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published by the application.
const (
	AccountCreated      = "account.created"
	BeneficiaryApproved = "beneficiary.approved"
	BeneficiaryRejected = "beneficiary.rejected"
	PasswordReset       = "account.password_reset"
)

// Publisher emits domain events. Publishing is fire-and-forget from the caller's
// point of view: callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

// NATSPublisher publishes JSON-encoded events to NATS.
type NATSPublisher struct {
	conn *nats.Conn
	log  *slog.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, log *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("gooddeeds-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, log: log}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	n.log.DebugContext(ctx, "publishing event", "subject", subject)
	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// NoopPublisher discards events. Used when NATS is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (NoopPublisher) Close() error                               { return nil }

// AccountCreatedEvent is published after a verified signup is finalized.
type AccountCreatedEvent struct {
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	BeneficiaryID string    `json:"beneficiary_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeneficiaryReviewedEvent is published when an admin approves or rejects a family.
type BeneficiaryReviewedEvent struct {
	BeneficiaryID string    `json:"beneficiary_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// PasswordResetEvent is published after a password was changed through the reset flow.
type PasswordResetEvent struct {
	UserID  string    `json:"user_id"`
	ResetAt time.Time `json:"reset_at"`
}
