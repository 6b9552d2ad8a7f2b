package user

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
)

// Repository persists accounts and in-flight social logins.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByProvider(ctx context.Context, provider OAuthProvider, providerID string) (*User, error)
	Update(ctx context.Context, user *User) error
	LinkProvider(ctx context.Context, userID string, provider OAuthProvider, providerID string, avatarURL *string) error
	UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error
	Delete(ctx context.Context, id string) error

	// Social login states, single use.
	SaveOAuthState(ctx context.Context, state *OAuthState) error
	ConsumeOAuthState(ctx context.Context, state string) (*OAuthState, error)
	PurgeOAuthStates(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new user repository on a pool or a transaction.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
