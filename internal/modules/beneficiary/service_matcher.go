package beneficiary

import (
	"context"
	"strings"

	"github.com/delordemm1/gooddeeds-api/internal/modules/catalog"
	"github.com/delordemm1/gooddeeds-api/internal/modules/wishlist"
	"golang.org/x/sync/errgroup"
)

const (
	homeEventsLimit       = 5
	recentlyAffectedLimit = 10

	modeNearby   = "nearby"
	modeFallback = "fallback"
)

// Family is a beneficiary as presented to donors.
type Family struct {
	ID            string                   `json:"id"`
	Image         *string                  `json:"image,omitempty"`
	Name          string                   `json:"name"`
	Location      string                   `json:"location"`
	AffectedEvent *string                  `json:"affectedEvent,omitempty"`
	DistanceMiles *float64                 `json:"distanceMiles,omitempty"`
	DesiredItems  []wishlist.CategoryGroup `json:"desiredItems"`
}

// DonorHome is the aggregate shown on the donor landing screen.
type DonorHome struct {
	RecentEvents     []catalog.Event `json:"recentEvents"`
	FamilyNearYou    []Family        `json:"familyNearYou"`
	RecentlyAffected []Family        `json:"recentlyAffected"`
}

// FindNearby returns approved, located beneficiaries within radiusMiles of origin,
// nearest first. A non-positive radius means the configured default; radii above
// the configured cap are clamped.
func (s *service) FindNearby(ctx context.Context, origin Coordinate, radiusMiles float64, limit int) ([]Match, error) {
	if err := ValidateCoordinate(origin); err != nil {
		return nil, err
	}
	radiusMiles = s.clampRadius(radiusMiles)
	if limit <= 0 {
		limit = s.config.Geo.NearbyLimit
	}

	candidates, err := s.repo.ListApprovedWithin(ctx, BoxAround(origin, radiusMiles))
	if err != nil {
		s.logger.Error("nearby candidate query failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	matches := Rank(origin, candidates, radiusMiles, limit)
	s.metrics.NearbySearches.WithLabelValues(modeNearby).Inc()
	s.metrics.NearbyResults.Observe(float64(len(matches)))
	return matches, nil
}

// FindAllApproved lists approved beneficiaries newest first, without distances.
func (s *service) FindAllApproved(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = s.config.Geo.FallbackLimit
	}
	profiles, err := s.repo.ListApprovedRecent(ctx, limit)
	if err != nil {
		s.logger.Error("approved listing failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return profiles, nil
}

// DonorHome gathers recent events, families near origin (or the fallback listing
// when origin is nil) and recently affected families, each with its desired items.
func (s *service) DonorHome(ctx context.Context, origin *Coordinate, radiusMiles float64) (*DonorHome, error) {
	if origin != nil {
		if err := ValidateCoordinate(*origin); err != nil {
			return nil, err
		}
	}

	var (
		home     = &DonorHome{}
		near     []Match
		fallback []Profile
		recent   []Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		evs, err := s.events.RecentEvents(gctx, homeEventsLimit)
		home.RecentEvents = evs
		return err
	})
	g.Go(func() error {
		var err error
		if origin != nil {
			near, err = s.FindNearby(gctx, *origin, radiusMiles, s.config.Geo.NearbyLimit)
			return err
		}
		fallback, err = s.FindAllApproved(gctx, s.config.Geo.FallbackLimit)
		if err == nil {
			s.metrics.NearbySearches.WithLabelValues(modeFallback).Inc()
		}
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.FindAllApproved(gctx, recentlyAffectedLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(near)+len(fallback)+len(recent))
	for _, m := range near {
		ids = append(ids, m.Profile.UserID)
	}
	for _, p := range fallback {
		ids = append(ids, p.UserID)
	}
	for _, p := range recent {
		ids = append(ids, p.UserID)
	}
	items, err := s.wishlists.GroupedFor(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}

	home.FamilyNearYou = make([]Family, 0, len(near)+len(fallback))
	for _, m := range near {
		d := RoundMiles(m.DistanceMiles)
		f := toFamily(&m.Profile, items)
		f.DistanceMiles = &d
		home.FamilyNearYou = append(home.FamilyNearYou, f)
	}
	for i := range fallback {
		home.FamilyNearYou = append(home.FamilyNearYou, toFamily(&fallback[i], items))
	}
	home.RecentlyAffected = make([]Family, 0, len(recent))
	for i := range recent {
		home.RecentlyAffected = append(home.RecentlyAffected, toFamily(&recent[i], items))
	}
	if home.RecentEvents == nil {
		home.RecentEvents = []catalog.Event{}
	}
	return home, nil
}

func (s *service) clampRadius(r float64) float64 {
	if r <= 0 {
		return s.config.Geo.DefaultRadiusMiles
	}
	return min(r, s.config.Geo.MaxRadiusMiles)
}

func toFamily(p *Profile, items map[string][]wishlist.CategoryGroup) Family {
	desired := items[p.UserID]
	if desired == nil {
		desired = []wishlist.CategoryGroup{}
	}
	return Family{
		ID:            p.ID,
		Image:         p.FamilyPhotoURL,
		Name:          strings.TrimSpace(p.Owner.FirstName + " " + p.Owner.LastName),
		Location:      locationString(p),
		AffectedEvent: p.AffectedEvent,
		DesiredItems:  desired,
	}
}

func locationString(p *Profile) string {
	parts := make([]string, 0, 2)
	for _, v := range []string{p.City, p.State} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
