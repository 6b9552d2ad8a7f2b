package beneficiary

import (
	"context"
	"log/slog"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/metrics"
	"github.com/delordemm1/gooddeeds-api/internal/modules/catalog"
	"github.com/delordemm1/gooddeeds-api/internal/modules/wishlist"
	"github.com/delordemm1/gooddeeds-api/internal/notification"
)

// Service defines the beneficiary lifecycle and proximity matching operations.
type Service interface {
	// Proximity matching
	FindNearby(ctx context.Context, origin Coordinate, radiusMiles float64, limit int) ([]Match, error)
	FindAllApproved(ctx context.Context, limit int) ([]Profile, error)
	DonorHome(ctx context.Context, origin *Coordinate, radiusMiles float64) (*DonorHome, error)

	// Admin review
	Get(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context, f ListFilter) (*Page, error)
	Statistics(ctx context.Context) (*Statistics, error)
	Approve(ctx context.Context, id string) (*ReviewResult, error)
	Reject(ctx context.Context, id, reason string) (*ReviewResult, error)

	// Self service
	ForUser(ctx context.Context, userID string) (*Profile, error)
	StatusForUser(ctx context.Context, userID string) (*SelfStatus, error)
	UpdateLocation(ctx context.Context, userID string, c Coordinate) (*Profile, error)
}

// EventLister supplies the recent events shown on the donor home.
type EventLister interface {
	RecentEvents(ctx context.Context, limit int) ([]catalog.Event, error)
}

// WishlistReader supplies the grouped desired items of families.
type WishlistReader interface {
	GroupedFor(ctx context.Context, userIDs []string) (map[string][]wishlist.CategoryGroup, error)
}

type service struct {
	repo      Repository
	events    EventLister
	wishlists WishlistReader
	notifier  notification.Service
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	config    *config.Config
	now       func() time.Time
}

// Config holds the dependencies for the beneficiary service.
type Config struct {
	Repo      Repository
	Events    EventLister
	Wishlists WishlistReader
	Notifier  notification.Service
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Config    *config.Config
}

// NewService creates a new beneficiary service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:      cfg.Repo,
		events:    cfg.Events,
		wishlists: cfg.Wishlists,
		notifier:  cfg.Notifier,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		config:    cfg.Config,
		now:       time.Now,
	}
}
