// Package authtest provides route guards for handler tests that authenticate
// every request as a fixed user.
package authtest

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
)

// Guards returns middleware.Guards whose Auth step resolves every request to
// userID with role. An empty userID leaves the request anonymous.
func Guards(userID, role string) middleware.Guards {
	return middleware.Guards{Auth: func(ctx huma.Context, next func(huma.Context)) {
		if userID != "" {
			ctx = huma.WithValue(ctx, contextx.UserIDKey, userID)
			ctx = huma.WithValue(ctx, contextx.RoleKey, role)
			ctx = huma.WithValue(ctx, contextx.SessionIDKey, "auth:test")
		}
		next(ctx)
	}}
}
