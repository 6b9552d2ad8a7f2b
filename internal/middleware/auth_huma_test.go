package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/session"
	"github.com/stretchr/testify/assert"
)

type fakeSessions struct {
	byToken map[string]*session.Session
}

func (f *fakeSessions) CreateAuthSession(context.Context, string, string, string) (string, error) {
	return "", nil
}

func (f *fakeSessions) GetAndExtend(_ context.Context, token string) (*session.Session, error) {
	if s, ok := f.byToken[token]; ok {
		return s, nil
	}
	return nil, session.ErrNotFound
}

func (f *fakeSessions) Delete(context.Context, string) error { return nil }

func (f *fakeSessions) DeleteAllForUser(context.Context, string) (int64, error) { return 0, nil }

type whoAmIOutput struct {
	Body struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
}

func newTestAPI(t *testing.T) humatest.TestAPI {
	_, api := humatest.New(t)
	sessions := &fakeSessions{byToken: map[string]*session.Session{
		"auth:admin": {Token: "auth:admin", UserID: "u-1", Role: "admin"},
		"auth:donor": {Token: "auth:donor", UserID: "u-2", Role: "donor"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/admin/whoami",
		Middlewares: huma.Middlewares{SessionAuth(sessions, logger), RequireRole("admin")},
	}, func(ctx context.Context, _ *struct{}) (*whoAmIOutput, error) {
		out := &whoAmIOutput{}
		out.Body.UserID, _ = contextx.UserID(ctx)
		out.Body.Role = contextx.Role(ctx)
		return out, nil
	})
	return api
}

func TestSessionAuth(t *testing.T) {
	api := newTestAPI(t)

	t.Run("missing header", func(t *testing.T) {
		resp := api.Get("/admin/whoami")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Contains(t, resp.Body.String(), "ErrUnauthorized")
	})

	t.Run("unknown token", func(t *testing.T) {
		resp := api.Get("/admin/whoami", "Authorization: Bearer auth:nope")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		resp := api.Get("/admin/whoami", "Authorization: Bearer auth:donor")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("admin passes through", func(t *testing.T) {
		resp := api.Get("/admin/whoami", "Authorization: Bearer auth:admin")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"userId":"u-1"`)
		assert.Contains(t, resp.Body.String(), `"role":"admin"`)
	})
}
