package session

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider

import (
	"context"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/database"
)

// Config controls session TTLs.
type Config struct {
	// SlidingTTL is the idle timeout. Each valid access extends last_active_at by this duration.
	// Default: 7 days.
	SlidingTTL time.Duration

	// AbsoluteTTL is the maximum lifetime from creation. Default: 30 days.
	AbsoluteTTL time.Duration
}

// Session is the resolved identity behind a session token.
type Session struct {
	Token  string
	UserID string
	Role   string
}

// Provider defines operations for managing opaque sessions.
//
// Session IDs are opaque, random, and prefixed with a type, e.g. "auth:".
type Provider interface {
	// CreateAuthSession creates a new auth session for the given user and returns the session ID.
	// Optional userAgent and ip are recorded for auditing.
	CreateAuthSession(ctx context.Context, userID string, userAgent string, ip string) (sessionID string, err error)

	// GetAndExtend validates the session (including TTL checks), extends the sliding TTL
	// and returns the owning user with its current role.
	GetAndExtend(ctx context.Context, sessionID string) (*Session, error)

	// Delete deletes a session by its session ID. It is idempotent.
	Delete(ctx context.Context, sessionID string) error

	// DeleteAllForUser revokes every session of a user, e.g. after a password reset.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// NewPostgresProvider returns a Postgres-backed Provider implementation.
func NewPostgresProvider(db database.DBTX, cfg Config) Provider {
	return newPostgresProvider(db, cfg)
}
