//go:build integration

package beneficiary

import (
	"context"
	"testing"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/database/pgtest"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.pool = pgtest.NewPool(s.T())
	s.repo = NewRepository(s.pool)
}

func (s *RepositorySuite) SetupTest() {
	pgtest.Truncate(s.T(), s.pool, "beneficiary_profiles", "users")
}

// family inserts a beneficiary account with a pending profile.
func (s *RepositorySuite) family(name string) *Profile {
	ctx := context.Background()
	userID := uuid.NewString()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, role, email_verified) VALUES ($1, $2, 'Family', $3, 'beneficiary', true)`,
		userID, name, name+"@example.com")
	s.Require().NoError(err)

	p, err := NewPendingProfile(userID, Details{FamilySize: 4, Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Create(ctx, p))
	return p
}

func (s *RepositorySuite) TestResolve_OnlyFromPending() {
	ctx := context.Background()
	p := s.family("ann")

	got, err := s.repo.Resolve(ctx, p.ID, StatusApproved, nil, time.Now())
	s.Require().NoError(err)
	s.Equal(StatusApproved, got.Status)
	s.NotNil(got.ProcessedAt)

	reason := "late"
	got, err = s.repo.Resolve(ctx, p.ID, StatusRejected, &reason, time.Now())
	s.ErrorIs(err, ErrAlreadyProcessed)
	s.Equal(StatusApproved, got.Status)
}

func (s *RepositorySuite) TestListApprovedWithin() {
	ctx := context.Background()
	origin := Coordinate{Lat: 40.7128, Lon: -74.0060}

	near := s.family("near")
	_, err := s.repo.UpdateLocation(ctx, near.UserID, Coordinate{Lat: 40.7200, Lon: -74.0100})
	s.Require().NoError(err)
	_, err = s.repo.Resolve(ctx, near.ID, StatusApproved, nil, time.Now())
	s.Require().NoError(err)

	far := s.family("far")
	_, err = s.repo.UpdateLocation(ctx, far.UserID, Coordinate{Lat: 34.0522, Lon: -118.2437})
	s.Require().NoError(err)
	_, err = s.repo.Resolve(ctx, far.ID, StatusApproved, nil, time.Now())
	s.Require().NoError(err)

	pending := s.family("pending")
	_, err = s.repo.UpdateLocation(ctx, pending.UserID, Coordinate{Lat: 40.7130, Lon: -74.0062})
	s.Require().NoError(err)

	got, err := s.repo.ListApprovedWithin(ctx, BoxAround(origin, 10))
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(near.ID, got[0].ID)
	s.Equal("near", got[0].Owner.FirstName)
}

func (s *RepositorySuite) TestUpdateLocation_UnknownUser() {
	_, err := s.repo.UpdateLocation(context.Background(), uuid.NewString(), Coordinate{Lat: 1, Lon: 1})
	s.ErrorIs(err, ErrNotFound)
}
