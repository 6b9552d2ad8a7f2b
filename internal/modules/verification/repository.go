package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const activeCodeConstraint = "verification_codes_active_uniq"

var codeColumns = []string{"id", "email", "code", "context", "metadata", "expires_at", "used", "created_at"}

// Repository persists verification codes.
type Repository interface {
	// Create inserts v. A second unused code for the same email and context
	// fails with ErrCodeAlreadyIssued.
	Create(ctx context.Context, v *VerificationCode) error
	// HasActive reports whether an unused, unexpired code exists for email and c.
	HasActive(ctx context.Context, email string, c Context, now time.Time) (bool, error)
	// FindValid returns the newest unused, unexpired code matching email and code,
	// restricted to c when it is not nil. No match is ErrInvalidOrExpiredCode.
	FindValid(ctx context.Context, email, code string, c *Context, now time.Time) (*VerificationCode, error)
	// MarkUsed consumes the code. A code that was already used is ErrInvalidOrExpiredCode.
	MarkUsed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes codes expired at now, for one email or for all when
	// email is empty, and returns the removed rows.
	DeleteExpired(ctx context.Context, email string, now time.Time) ([]VerificationCode, error)
	// ReferencedBlobs returns the subset of urls still staged by an unused code
	// or attached to a beneficiary profile.
	ReferencedBlobs(ctx context.Context, urls []string) ([]string, error)
}

type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a verification code repository on a pool or a transaction.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *repository) Create(ctx context.Context, v *VerificationCode) error {
	if v.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		v.ID = id.String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	// A nil RawMessage must reach postgres as NULL, not as an empty byte string.
	var metadata any
	if len(v.Metadata) > 0 {
		metadata = []byte(v.Metadata)
	}

	sql, args, err := r.psql.Insert("verification_codes").
		Columns(codeColumns...).
		Values(v.ID, v.Email, v.Code, string(v.Context), metadata, v.ExpiresAt, v.Used, v.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if database.IsUniqueViolation(err, activeCodeConstraint) {
			return ErrCodeAlreadyIssued.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *repository) HasActive(ctx context.Context, email string, c Context, now time.Time) (bool, error) {
	sql, args, err := r.psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("verification_codes").
		Where(squirrel.Eq{"email": email, "context": string(c), "used": false}).
		Where(squirrel.Gt{"expires_at": now}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) FindValid(ctx context.Context, email, code string, c *Context, now time.Time) (*VerificationCode, error) {
	q := r.psql.Select(codeColumns...).
		From("verification_codes").
		Where(squirrel.Eq{"email": email, "code": code, "used": false}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("created_at DESC").
		Limit(1)
	if c != nil {
		q = q.Where(squirrel.Eq{"context": string(*c)})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var v VerificationCode
	if err := pgxscan.Get(ctx, r.db, &v, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidOrExpiredCode.WithCause(err)
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) MarkUsed(ctx context.Context, id string) error {
	sql, args, err := r.psql.Update("verification_codes").
		Set("used", true).
		Where(squirrel.Eq{"id": id, "used": false}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidOrExpiredCode
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.psql.Delete("verification_codes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *repository) DeleteExpired(ctx context.Context, email string, now time.Time) ([]VerificationCode, error) {
	q := r.psql.Delete("verification_codes").
		Where(squirrel.LtOrEq{"expires_at": now}).
		Suffix("RETURNING " + strings.Join(codeColumns, ", "))
	if email != "" {
		q = q.Where(squirrel.Eq{"email": email})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var purged []VerificationCode
	if err := pgxscan.Select(ctx, r.db, &purged, sql, args...); err != nil {
		return nil, err
	}
	return purged, nil
}

const referencedBlobsQuery = `
	SELECT u.url
	FROM unnest($1::text[]) AS u(url)
	WHERE EXISTS (
		SELECT 1 FROM verification_codes v
		WHERE NOT v.used
		  AND (v.metadata->>'family_photo_url' = u.url OR v.metadata->>'identity_proof_url' = u.url)
	) OR EXISTS (
		SELECT 1 FROM beneficiary_profiles b
		WHERE b.family_photo_url = u.url OR b.identity_proof_url = u.url
	)`

func (r *repository) ReferencedBlobs(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	var inUse []string
	if err := pgxscan.Select(ctx, r.db, &inUse, referencedBlobsQuery, urls); err != nil {
		return nil, err
	}
	return inUse, nil
}
