package verification

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/metrics"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
)

// Service is the verification ledger: it issues single-use codes, stages the
// data of the protected operation with them and finalizes that operation when
// the code is verified.
type Service interface {
	Issue(ctx context.Context, email string, c Context, payload Payload) error
	Verify(ctx context.Context, email, code string, c Context) (*Result, error)
	// VerifyAndFinalize verifies a code without knowing its context and
	// finalizes whatever workflow the code belongs to.
	VerifyAndFinalize(ctx context.Context, email, code string) (*Result, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	SweepExpired(ctx context.Context) (int, error)
}

// Result is the outcome of a verified code. Signups carry the new account;
// password resets carry a proof token.
type Result struct {
	Context        Context
	User           *user.User
	Profile        *beneficiary.Profile
	ProofToken     string
	ProofExpiresAt time.Time
}

// UserFinder looks up existing accounts.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// Locker serializes issuance per email and context. *cache.Locker satisfies it.
type Locker interface {
	TryLock(ctx context.Context, name string) (func(), error)
}

// BlobDeleter removes uploads staged with a signup that will never be finalized.
type BlobDeleter interface {
	Delete(ctx context.Context, url string) bool
}

// SessionRevoker signs a user out everywhere.
type SessionRevoker interface {
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

type finalizer func(ctx context.Context, code *VerificationCode) (*Result, error)

type service struct {
	repo       Repository
	uow        UnitOfWork
	users      UserFinder
	sender     CodeSender
	locker     Locker
	blobs      BlobDeleter
	sessions   SessionRevoker
	publisher  events.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	ttl        time.Duration
	resetRoles []string
	jwtSecret  []byte
	now        func() time.Time
	finalizers map[Context]finalizer
}

// Config holds the dependencies for the verification service.
type Config struct {
	Repo       Repository
	UnitOfWork UnitOfWork
	Users      UserFinder
	Sender     CodeSender
	Locker     Locker
	Blobs      BlobDeleter
	Sessions   SessionRevoker
	Publisher  events.Publisher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Config     *config.Config
}

// NewService creates a new verification service with the given dependencies.
func NewService(cfg *Config) Service {
	s := &service{
		repo:       cfg.Repo,
		uow:        cfg.UnitOfWork,
		users:      cfg.Users,
		sender:     cfg.Sender,
		locker:     cfg.Locker,
		blobs:      cfg.Blobs,
		sessions:   cfg.Sessions,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		ttl:        time.Duration(cfg.Config.Verification.TTLMinutes) * time.Minute,
		resetRoles: cfg.Config.Verification.ResetRoles,
		jwtSecret:  []byte(cfg.Config.JWTSecret),
		now:        time.Now,
	}
	s.finalizers = map[Context]finalizer{
		ContextSignupDonor:       s.finalizeDonorSignup,
		ContextSignupBeneficiary: s.finalizeBeneficiarySignup,
		ContextPasswordReset:     s.finalizePasswordReset,
	}
	return s
}

func (s *service) resetAllowed(r user.Role) bool {
	return slices.Contains(s.resetRoles, string(r))
}

func (s *service) publish(ctx context.Context, subject string, data any) {
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		s.logger.Warn("publish event failed", "subject", subject, "error", err)
	}
}

// discardBlobs deletes staged uploads that no unused code or profile still
// references. When the reference check fails nothing is deleted.
func (s *service) discardBlobs(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	inUse, err := s.repo.ReferencedBlobs(ctx, urls)
	if err != nil {
		s.logger.Warn("staged upload reference check failed", "error", err)
		return
	}
	for _, u := range urls {
		if !slices.Contains(inUse, u) {
			s.blobs.Delete(ctx, u)
		}
	}
}

// purgeExpired removes expired codes for email (all emails when empty) along
// with the uploads they staged.
func (s *service) purgeExpired(ctx context.Context, email string) (int, error) {
	purged, err := s.repo.DeleteExpired(ctx, email, s.now())
	if err != nil {
		return 0, err
	}
	for i := range purged {
		s.discardBlobs(ctx, stagedBlobsOf(&purged[i]))
	}
	if n := len(purged); n > 0 {
		s.metrics.CodesPurged.Add(float64(n))
	}
	return len(purged), nil
}
