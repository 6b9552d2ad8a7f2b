package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/gooddeeds-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

const (
	tokenPrefix = "auth:"
	tokenBytes  = 32
	table       = "user_active_sessions"
)

// postgresProvider stores only the SHA-256 digest of each token, so a leaked
// sessions table cannot be replayed as bearer tokens.
type postgresProvider struct {
	db   database.DBTX
	cfg  Config
	psql squirrel.StatementBuilderType
	now  func() time.Time
}

func newPostgresProvider(db database.DBTX, cfg Config) *postgresProvider {
	if cfg.SlidingTTL == 0 {
		cfg.SlidingTTL = 7 * 24 * time.Hour
	}
	if cfg.AbsoluteTTL == 0 {
		cfg.AbsoluteTTL = 30 * 24 * time.Hour
	}
	return &postgresProvider{
		db:   db,
		cfg:  cfg,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:  time.Now,
	}
}

func (p *postgresProvider) CreateAuthSession(ctx context.Context, userID string, userAgent string, ip string) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := tokenPrefix + base64.RawURLEncoding.EncodeToString(b)

	rowID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	now := p.now()
	sql, args, err := p.psql.Insert(table).
		Columns("id", "user_id", "session_token", "user_agent", "ip_address", "last_active_at", "created_at").
		Values(rowID, userID, digest(token), optional(userAgent), optional(clientIP(ip)), now, now).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build session insert: %w", err)
	}
	if _, err := p.db.Exec(ctx, sql, args...); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return token, nil
}

func (p *postgresProvider) GetAndExtend(ctx context.Context, token string) (*Session, error) {
	if !strings.HasPrefix(token, tokenPrefix) || len(token) == len(tokenPrefix) {
		return nil, ErrNotFound
	}
	key := digest(token)

	sql, args, err := p.psql.Select("s.user_id", "u.role", "s.created_at", "s.last_active_at").
		From(table + " s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.session_token": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session lookup: %w", err)
	}

	sess := &Session{Token: token}
	var createdAt, lastActiveAt time.Time
	if err := p.db.QueryRow(ctx, sql, args...).Scan(&sess.UserID, &sess.Role, &createdAt, &lastActiveAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	now := p.now()
	if now.Sub(createdAt) > p.cfg.AbsoluteTTL || now.Sub(lastActiveAt) > p.cfg.SlidingTTL {
		if err := p.deleteWhere(ctx, squirrel.Eq{"session_token": key}); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}

	sql, args, err = p.psql.Update(table).
		Set("last_active_at", now).
		Where(squirrel.Eq{"session_token": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session touch: %w", err)
	}
	if _, err := p.db.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return sess, nil
}

func (p *postgresProvider) Delete(ctx context.Context, token string) error {
	return p.deleteWhere(ctx, squirrel.Eq{"session_token": digest(token)})
}

func (p *postgresProvider) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	sql, args, err := p.psql.Delete(table).Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build session revoke: %w", err)
	}
	tag, err := p.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions of %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

func (p *postgresProvider) deleteWhere(ctx context.Context, pred squirrel.Eq) error {
	sql, args, err := p.psql.Delete(table).Where(pred).ToSql()
	if err != nil {
		return fmt.Errorf("build session delete: %w", err)
	}
	if _, err := p.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// clientIP keeps the first hop of an X-Forwarded-For list.
func clientIP(forwarded string) string {
	first, _, _ := strings.Cut(forwarded, ",")
	return strings.TrimSpace(first)
}

func optional(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
