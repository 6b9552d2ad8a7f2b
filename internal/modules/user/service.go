package user

import (
	"context"
	"log/slog"

	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/metrics"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/session"
)

// Service defines the interface for the user module's business logic.
// It orchestrates the flow of data between the handlers and the repository,
// and contains the core business rules.
type Service interface {
	// Auth-related methods
	Login(ctx context.Context, email, password, userAgent, ip string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error

	// Profile-related methods
	Me(ctx context.Context, userID string) (*Me, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error)
	CompleteProfile(ctx context.Context, userID string, input CompleteProfileInput) (*CompleteProfileResult, error)

	// OAuth-related methods
	InitiateOAuthLogin(ctx context.Context, provider OAuthProvider, role Role) (redirectURL string, err error)
	HandleOAuthCallback(ctx context.Context, provider OAuthProvider, state, code, userAgent, ip string) (*OAuthResult, error)

	// Admin
	Delete(ctx context.Context, actorID, userID string) error
}

// ProfileReader looks up the beneficiary profile shown on /me.
type ProfileReader interface {
	ForUser(ctx context.Context, userID string) (*beneficiary.Profile, error)
}

// service implements the Service interface.
type service struct {
	repo      Repository
	tx        TxRunner
	profiles  ProfileReader
	sessions  session.Provider
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    *config.Config
}

// Config holds the dependencies for the user service.
type Config struct {
	Repo      Repository
	Tx        TxRunner
	Profiles  ProfileReader
	Sessions  session.Provider
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Config    *config.Config
}

// NewService creates a new user service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:      cfg.Repo,
		tx:        cfg.Tx,
		profiles:  cfg.Profiles,
		sessions:  cfg.Sessions,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		config:    cfg.Config,
	}
}
