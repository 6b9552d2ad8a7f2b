package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

var oauthStateColumns = []string{"state", "provider", "user_id", "verifier", "role", "expires_at", "created_at", "updated_at"}

// SaveOAuthState stores the state and PKCE verifier of a login that is about
// to be redirected to the provider.
func (r *repository) SaveOAuthState(ctx context.Context, st *OAuthState) error {
	now := time.Now()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}
	st.UpdatedAt = now

	var role *string
	if st.Role != nil {
		v := string(*st.Role)
		role = &v
	}
	query, args, err := r.psql.Insert("oauth_states").
		Columns(oauthStateColumns...).
		Values(st.State, string(st.Provider), st.UserID, st.Verifier, role, st.ExpiresAt, st.CreatedAt, st.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// ConsumeOAuthState deletes the state and returns it. A state can be consumed
// once; a replayed callback gets ErrNotFound.
func (r *repository) ConsumeOAuthState(ctx context.Context, state string) (*OAuthState, error) {
	query, args, err := r.psql.Delete("oauth_states").
		Where(squirrel.Eq{"state": state}).
		Suffix("RETURNING " + strings.Join(oauthStateColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	var st OAuthState
	if err := pgxscan.Get(ctx, r.db, &st, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &st, nil
}

// PurgeOAuthStates removes abandoned logins that expired before cutoff.
func (r *repository) PurgeOAuthStates(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := r.psql.Delete("oauth_states").
		Where(squirrel.Lt{"expires_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, err
	}
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
