package beneficiary

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// Repository defines the persistence operations for beneficiary profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context, f ListFilter) ([]Profile, int, error)
	Statistics(ctx context.Context) (*Statistics, error)

	// Resolve moves a pending profile to status. A profile that is no longer
	// pending is left untouched and ErrAlreadyProcessed is returned.
	Resolve(ctx context.Context, id string, status Status, reason *string, at time.Time) (*Profile, error)
	UpdateLocation(ctx context.Context, userID string, c Coordinate) (*Profile, error)

	// ListApprovedWithin returns approved, located profiles inside box.
	ListApprovedWithin(ctx context.Context, box BoundingBox) ([]Profile, error)
	// ListApprovedRecent returns approved profiles, newest first.
	ListApprovedRecent(ctx context.Context, limit int) ([]Profile, error)
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a beneficiary repository on a pool or a transaction.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var profileColumns = []string{
	"b.id", "b.user_id", "b.status", "b.processed_at", "b.rejection_reason", "b.family_size",
	"b.address", "b.city", "b.state", "b.zip_code",
	"b.latitude::float8 AS latitude", "b.longitude::float8 AS longitude",
	"b.affected_event", "b.statement", "b.family_photo_url", "b.identity_proof_url",
	"b.created_at", "b.updated_at",
	`u.first_name AS "owner.first_name"`, `u.last_name AS "owner.last_name"`,
	`u.email AS "owner.email"`, `u.phone_number AS "owner.phone_number"`,
}

func (r *repository) selectProfiles() squirrel.SelectBuilder {
	return r.psql.Select(profileColumns...).
		From("beneficiary_profiles b").
		Join("users u ON u.id = b.user_id")
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	query, args, err := r.psql.Insert("beneficiary_profiles").
		Columns("id", "user_id", "status", "family_size", "address", "city", "state", "zip_code",
			"latitude", "longitude", "affected_event", "statement", "family_photo_url", "identity_proof_url",
			"created_at", "updated_at").
		Values(p.ID, p.UserID, string(p.Status), p.FamilySize, p.Address, p.City, p.State, p.ZipCode,
			p.Latitude, p.Longitude, p.AffectedEvent, p.Statement, p.FamilyPhotoURL, p.IdentityProofURL,
			p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrProfileExists.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return r.findOne(ctx, squirrel.Eq{"b.id": id})
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	return r.findOne(ctx, squirrel.Eq{"b.user_id": userID})
}

func (r *repository) findOne(ctx context.Context, cond squirrel.Sqlizer) (*Profile, error) {
	sql, args, err := r.selectProfiles().Where(cond).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := pgxscan.Get(ctx, r.db, &p, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Profile, int, error) {
	where := squirrel.And{}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"b.status": string(*f.Status)})
	}

	countSQL, countArgs, err := r.psql.Select("count(*)").From("beneficiary_profiles b").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql, args, err := r.selectProfiles().
		Where(where).
		OrderBy("b.created_at DESC", "b.id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	var out []Profile
	if err := pgxscan.Select(ctx, r.db, &out, sql, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) Statistics(ctx context.Context) (*Statistics, error) {
	sql, args, err := r.psql.Select(
		"count(*) AS total",
		"count(*) FILTER (WHERE status = 'pending') AS pending",
		"count(*) FILTER (WHERE status = 'approved') AS approved",
		"count(*) FILTER (WHERE status = 'rejected') AS rejected",
		"count(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL) AS with_location",
	).From("beneficiary_profiles").ToSql()
	if err != nil {
		return nil, err
	}
	var s Statistics
	if err := pgxscan.Get(ctx, r.db, &s, sql, args...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Resolve(ctx context.Context, id string, status Status, reason *string, at time.Time) (*Profile, error) {
	sql, args, err := r.psql.Update("beneficiary_profiles").
		Set("status", string(status)).
		Set("processed_at", at).
		Set("rejection_reason", reason).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": string(StatusPending)}).
		ToSql()
	if err != nil {
		return nil, err
	}
	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return p, ErrAlreadyProcessed
	}
	return p, nil
}

func (r *repository) UpdateLocation(ctx context.Context, userID string, c Coordinate) (*Profile, error) {
	sql, args, err := r.psql.Update("beneficiary_profiles").
		Set("latitude", c.Lat).
		Set("longitude", c.Lon).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.FindByUserID(ctx, userID)
}

func (r *repository) ListApprovedWithin(ctx context.Context, box BoundingBox) ([]Profile, error) {
	q := r.selectProfiles().
		Where(squirrel.Eq{"b.status": string(StatusApproved)}).
		Where("b.latitude IS NOT NULL AND b.longitude IS NOT NULL").
		Where(squirrel.And{
			squirrel.GtOrEq{"b.latitude": box.MinLat},
			squirrel.LtOrEq{"b.latitude": box.MaxLat},
		})
	if box.MinLon != nil && box.MaxLon != nil {
		q = q.Where(squirrel.And{
			squirrel.GtOrEq{"b.longitude": *box.MinLon},
			squirrel.LtOrEq{"b.longitude": *box.MaxLon},
		})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var out []Profile
	if err := pgxscan.Select(ctx, r.db, &out, sql, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) ListApprovedRecent(ctx context.Context, limit int) ([]Profile, error) {
	sql, args, err := r.selectProfiles().
		Where(squirrel.Eq{"b.status": string(StatusApproved)}).
		OrderBy("b.created_at DESC", "b.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var out []Profile
	if err := pgxscan.Select(ctx, r.db, &out, sql, args...); err != nil {
		return nil, err
	}
	return out, nil
}
