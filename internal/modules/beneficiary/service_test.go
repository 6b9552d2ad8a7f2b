package beneficiary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/metrics"
	"github.com/delordemm1/gooddeeds-api/internal/modules/catalog"
	"github.com/delordemm1/gooddeeds-api/internal/modules/wishlist"
	"github.com/delordemm1/gooddeeds-api/internal/notification"
	"github.com/delordemm1/gooddeeds-api/internal/notification/templates"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	lastBox  *BoundingBox
	failWith error
}

func newMemRepo(ps ...Profile) *memRepo {
	r := &memRepo{profiles: map[string]*Profile{}}
	for i := range ps {
		p := ps[i]
		r.profiles[p.ID] = &p
	}
	return r
}

func (r *memRepo) Create(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) FindByUserID(_ context.Context, userID string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(_ context.Context, f ListFilter) ([]Profile, int, error) {
	all := r.sorted(func(p *Profile) bool { return f.Status == nil || p.Status == *f.Status })
	total := len(all)
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *memRepo) Statistics(context.Context) (*Statistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Statistics{}
	for _, p := range r.profiles {
		s.Total++
		switch p.Status {
		case StatusPending:
			s.Pending++
		case StatusApproved:
			s.Approved++
		case StatusRejected:
			s.Rejected++
		}
		if p.Latitude != nil && p.Longitude != nil {
			s.WithLocation++
		}
	}
	return s, nil
}

func (r *memRepo) Resolve(_ context.Context, id string, status Status, reason *string, at time.Time) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Status != StatusPending {
		cp := *p
		return &cp, ErrAlreadyProcessed
	}
	p.Status = status
	p.ProcessedAt = &at
	p.RejectionReason = reason
	cp := *p
	return &cp, nil
}

func (r *memRepo) UpdateLocation(_ context.Context, userID string, c Coordinate) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			lat, lon := c.Lat, c.Lon
			p.Latitude, p.Longitude = &lat, &lon
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) ListApprovedWithin(_ context.Context, box BoundingBox) ([]Profile, error) {
	r.mu.Lock()
	r.lastBox = &box
	r.mu.Unlock()
	return r.sorted(func(p *Profile) bool {
		if p.Status != StatusApproved || p.Latitude == nil || p.Longitude == nil {
			return false
		}
		return *p.Latitude >= box.MinLat && *p.Latitude <= box.MaxLat
	}), nil
}

func (r *memRepo) ListApprovedRecent(_ context.Context, limit int) ([]Profile, error) {
	out := r.sorted(func(p *Profile) bool { return p.Status == StatusApproved })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) sorted(keep func(*Profile) bool) []Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Profile
	for _, p := range r.profiles {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type stubEvents struct{ events []catalog.Event }

func (s stubEvents) RecentEvents(context.Context, int) ([]catalog.Event, error) { return s.events, nil }

type stubWishlists struct{ byUser map[string][]wishlist.CategoryGroup }

func (s stubWishlists) GroupedFor(_ context.Context, ids []string) (map[string][]wishlist.CategoryGroup, error) {
	out := map[string][]wishlist.CategoryGroup{}
	for _, id := range ids {
		out[id] = s.byUser[id]
	}
	return out, nil
}

type recordingSender struct {
	mu   sync.Mutex
	to   []string
	subj []string
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, _, subject, _, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	r.subj = append(r.subj, subject)
	return r.err
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var _ events.Publisher = (*recordingPublisher)(nil)

type ServiceSuite struct {
	suite.Suite
	repo      *memRepo
	sender    *recordingSender
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	svc       Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	family := located("fam-1", 40.0, -75.0)
	family.CreatedAt = at(1)
	family.Owner = Owner{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"}
	family.City, family.State = "Philadelphia", "PA"

	noLocation := Profile{ID: "fam-2", UserID: "user-fam-2", Status: StatusApproved, CreatedAt: at(2)}
	halfLocation := Profile{ID: "fam-3", UserID: "user-fam-3", Status: StatusApproved, CreatedAt: at(3), Latitude: ptr(40.0)}
	pendingNear := located("fam-4", 40.0, -75.0)
	pendingNear.Status = StatusPending
	pendingNear.CreatedAt = at(4)
	pendingNear.Owner = Owner{FirstName: "Grace", Email: "grace@example.org"}

	s.repo = newMemRepo(family, noLocation, halfLocation, pendingNear)
	s.sender = &recordingSender{}
	s.publisher = &recordingPublisher{}
	s.metrics = metrics.New(prometheus.NewRegistry())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Mail.SupportEmail = "support@example.org"

	s.svc = NewService(&Config{
		Repo:   s.repo,
		Events: stubEvents{events: []catalog.Event{{ID: "ev-1", Name: "Flood"}}},
		Wishlists: stubWishlists{byUser: map[string][]wishlist.CategoryGroup{
			"user-fam-1": {{CategoryID: "c1", CategoryName: "Food"}},
		}},
		Notifier:  notification.NewService(log, templates.NewEngine(templates.Config{}, log), s.sender),
		Publisher: s.publisher,
		Metrics:   s.metrics,
		Logger:    log,
		Config:    cfg,
	})
}

func (s *ServiceSuite) TestFindNearby_ScenarioRadius() {
	ctx := context.Background()
	origin := Coordinate{Lat: 40.01, Lon: -75.01}

	got, err := s.svc.FindNearby(ctx, origin, 5, 10)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("fam-1", got[0].Profile.ID)
	s.InDelta(0.87, got[0].DistanceMiles, 0.01)

	got, err = s.svc.FindNearby(ctx, origin, 0.5, 10)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *ServiceSuite) TestFindNearby_NeverReturnsUnlocatedOrPending() {
	got, err := s.svc.FindNearby(context.Background(), Coordinate{Lat: 40, Lon: -75}, 500, 100)
	s.Require().NoError(err)
	for _, m := range got {
		s.NotContains([]string{"fam-2", "fam-3", "fam-4"}, m.Profile.ID)
	}
	s.Equal(0.0, got[0].DistanceMiles)
}

func (s *ServiceSuite) TestFindNearby_ClampsRadiusAndRejectsBadInput() {
	ctx := context.Background()
	_, err := s.svc.FindNearby(ctx, Coordinate{Lat: 95, Lon: 0}, 10, 10)
	s.ErrorIs(err, ErrInvalidCoordinate)

	_, err = s.svc.FindNearby(ctx, Coordinate{Lat: 10, Lon: 10}, 100000, 10)
	s.Require().NoError(err)
	wide := BoxAround(Coordinate{Lat: 10, Lon: 10}, 500)
	s.InDelta(wide.MaxLat, s.repo.lastBox.MaxLat, 1e-9)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.NearbySearches.WithLabelValues("nearby")))
}

func (s *ServiceSuite) TestFindAllApproved_NewestFirst() {
	got, err := s.svc.FindAllApproved(context.Background(), 0)
	s.Require().NoError(err)
	s.Equal([]string{"fam-3", "fam-2", "fam-1"}, profileIDs(got))
}

func (s *ServiceSuite) TestDonorHome_WithLocation() {
	home, err := s.svc.DonorHome(context.Background(), &Coordinate{Lat: 40.01, Lon: -75.01}, 50)
	s.Require().NoError(err)

	s.Len(home.RecentEvents, 1)
	s.Require().Len(home.FamilyNearYou, 1)
	near := home.FamilyNearYou[0]
	s.Equal("Ada Lovelace", near.Name)
	s.Equal("Philadelphia, PA", near.Location)
	s.Require().NotNil(near.DistanceMiles)
	s.Equal(0.87, *near.DistanceMiles)
	s.Len(near.DesiredItems, 1)
	s.Len(home.RecentlyAffected, 3)
	s.NotNil(home.RecentlyAffected[0].DesiredItems)
	s.Nil(home.RecentlyAffected[0].DistanceMiles)
}

func (s *ServiceSuite) TestDonorHome_FallbackWithoutLocation() {
	home, err := s.svc.DonorHome(context.Background(), nil, 0)
	s.Require().NoError(err)
	s.Len(home.FamilyNearYou, 3)
	for _, f := range home.FamilyNearYou {
		s.Nil(f.DistanceMiles)
	}
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NearbySearches.WithLabelValues("fallback")))
}

func (s *ServiceSuite) TestApprove_PendingOnce() {
	ctx := context.Background()

	res, err := s.svc.Approve(ctx, "fam-4")
	s.Require().NoError(err)
	s.Equal(StatusApproved, res.Profile.Status)
	s.True(res.EmailSent)
	s.Equal([]string{"grace@example.org"}, s.sender.to)
	s.Equal([]string{events.BeneficiaryApproved}, s.publisher.subjects)

	processedAt := *res.Profile.ProcessedAt

	_, err = s.svc.Approve(ctx, "fam-4")
	s.ErrorIs(err, ErrAlreadyProcessed)
	after, err := s.svc.Get(ctx, "fam-4")
	s.Require().NoError(err)
	s.Equal(processedAt, *after.ProcessedAt)
	s.Len(s.sender.to, 1)
}

func (s *ServiceSuite) TestApprove_AlreadyApprovedLeavesProcessedAtUnchanged() {
	_, err := s.svc.Approve(context.Background(), "fam-1")
	s.ErrorIs(err, ErrAlreadyProcessed)

	p, err := s.svc.Get(context.Background(), "fam-1")
	s.Require().NoError(err)
	s.Nil(p.ProcessedAt)
	s.Equal(StatusApproved, p.Status)
}

func (s *ServiceSuite) TestReject_EmailFailureDoesNotUndoReview() {
	s.sender.err = errors.New("smtp down")

	res, err := s.svc.Reject(context.Background(), "fam-4", "  incomplete documents ")
	s.Require().NoError(err)
	s.False(res.EmailSent)
	s.Equal(StatusRejected, res.Profile.Status)
	s.Equal("incomplete documents", *res.Profile.RejectionReason)
	s.Equal([]string{events.BeneficiaryRejected}, s.publisher.subjects)
}

func (s *ServiceSuite) TestReview_UnknownID() {
	_, err := s.svc.Approve(context.Background(), "nope")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestStatusForUser() {
	st, err := s.svc.StatusForUser(context.Background(), "user-fam-4")
	s.Require().NoError(err)
	s.Equal(StatusPending, st.Status)
	s.True(st.HasLocation)
	s.NotEmpty(st.Message)

	_, err = s.svc.StatusForUser(context.Background(), "user-unknown")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestUpdateLocation_SetsBoth() {
	p, err := s.svc.UpdateLocation(context.Background(), "user-fam-3", Coordinate{Lat: 41.5, Lon: -73.25})
	s.Require().NoError(err)
	s.Require().NotNil(p.Latitude)
	s.Require().NotNil(p.Longitude)
	s.Equal(41.5, *p.Latitude)
	s.Equal(-73.25, *p.Longitude)

	_, err = s.svc.UpdateLocation(context.Background(), "user-fam-3", Coordinate{Lat: 0, Lon: 200})
	s.ErrorIs(err, ErrInvalidCoordinate)
}

func (s *ServiceSuite) TestListAndStatistics() {
	ctx := context.Background()
	pending := StatusPending
	page, err := s.svc.List(ctx, ListFilter{Status: &pending})
	s.Require().NoError(err)
	s.Equal(1, page.Total)
	s.Equal(20, page.Limit)

	st, err := s.svc.Statistics(ctx)
	s.Require().NoError(err)
	s.Equal(4, st.Total)
	s.Equal(3, st.Approved)
	s.Equal(2, st.WithLocation)
}

func TestGet_RepositoryFailureIsInternal(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemRepo()
	repo.failWith = errors.New("conn refused")
	svc := NewService(&Config{Repo: repo, Logger: log, Config: &config.Config{}})

	_, err := svc.Get(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func profileIDs(ps []Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }
