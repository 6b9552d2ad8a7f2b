package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

var userColumns = []string{
	"id", "first_name", "last_name", "email", "phone_number", "password_hash", "role",
	"email_verified", "provider", "provider_id", "avatar_url", "profile_complete",
	"created_at", "updated_at",
}

// Create inserts a new user record into the database.
func (r *repository) Create(ctx context.Context, user *User) error {
	now := time.Now()
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := r.psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.PasswordHash, string(user.Role),
			user.EmailVerified, user.Provider, user.ProviderID, user.AvatarURL, user.ProfileComplete,
			user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrEmailExists.WithCause(err)
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by email address, case-insensitively.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, squirrel.Expr("lower(email) = ?", NormalizeEmail(email)))
}

// FindByID retrieves a user by their unique ID.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByProvider retrieves the user linked to a social provider account.
func (r *repository) FindByProvider(ctx context.Context, provider OAuthProvider, providerID string) (*User, error) {
	return r.findOne(ctx, squirrel.Eq{"provider": string(provider), "provider_id": providerID})
}

// Update modifies mutable profile fields. Role and password are not touched here.
func (r *repository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("phone_number", user.PhoneNumber).
		Set("email_verified", user.EmailVerified).
		Set("provider", user.Provider).
		Set("provider_id", user.ProviderID).
		Set("avatar_url", user.AvatarURL).
		Set("profile_complete", user.ProfileComplete).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkProvider attaches a social identity to an existing account. The role is untouched
// and an existing avatar is kept.
func (r *repository) LinkProvider(ctx context.Context, userID string, provider OAuthProvider, providerID string, avatarURL *string) error {
	query, args, err := r.psql.Update("users").
		Set("provider", string(provider)).
		Set("provider_id", providerID).
		Set("avatar_url", squirrel.Expr("COALESCE(avatar_url, ?)", avatarURL)).
		Set("email_verified", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err, "users_provider_uniq") {
			return ErrEmailExists.WithCause(err)
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword sets a new password hash for a user.
func (r *repository) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	sql, args, err := r.psql.Update("users").
		Set("password_hash", newPasswordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user; the beneficiary profile, wishlist and sessions cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.psql.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// findOne is a helper method to find a single user by a given condition.
func (r *repository) findOne(ctx context.Context, condition squirrel.Sqlizer) (*User, error) {
	sql, args, err := r.psql.Select(userColumns...).
		From("users").
		Where(condition).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
