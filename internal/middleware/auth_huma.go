package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
	apphttpx "github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/session"
)

// SessionAuth is a router-agnostic Huma middleware that resolves an opaque
// "Bearer auth:..." session token and injects the user ID, role and session ID
// into the request context. On failure it writes an RFC7807 problem with code
// ErrUnauthorized.
func SessionAuth(sessions session.Provider, logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		authHeader := ctx.Header("Authorization")
		if authHeader == "" {
			writeProblem(ctx, domainerr.ErrUnauthorized.WithDetail("missing authorization header"))
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeProblem(ctx, domainerr.ErrUnauthorized.WithDetail("invalid authorization header format"))
			return
		}

		sess, err := sessions.GetAndExtend(ctx.Context(), strings.TrimSpace(token))
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrExpired) {
				logger.Error("session lookup failed", "error", err)
			}
			writeProblem(ctx, domainerr.ErrUnauthorized.WithDetail("invalid or expired session"))
			return
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, sess.UserID)
		ctx = huma.WithValue(ctx, contextx.RoleKey, sess.Role)
		ctx = huma.WithValue(ctx, contextx.SessionIDKey, sess.Token)
		next(ctx)
	}
}

// RequireRole rejects requests whose authenticated role is not listed.
// It must run after SessionAuth.
func RequireRole(roles ...string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if _, ok := contextx.UserID(ctx.Context()); !ok {
			writeProblem(ctx, domainerr.ErrUnauthorized)
			return
		}
		if !slices.Contains(roles, contextx.Role(ctx.Context())) {
			writeProblem(ctx, domainerr.ErrForbidden)
			return
		}
		next(ctx)
	}
}

func writeProblem(ctx huma.Context, err error) {
	var p *apphttpx.Problem
	if !errors.As(apphttpx.ToProblem(ctx.Context(), err), &p) {
		p = apphttpx.InternalProblem(ctx.Context(), "")
	}
	ctx.SetHeader("Content-Type", "application/problem+json")
	ctx.SetStatus(p.GetStatus())
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(p)
}
