package wishlist

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
	"github.com/delordemm1/gooddeeds-api/internal/middleware/authtest"
	"github.com/stretchr/testify/assert"
)

func TestHandler_ReplaceAndList(t *testing.T) {
	_, api := humatest.New(t)
	svc := newTestService(newMemRepo())
	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).
		RegisterRoutes(api, authtest.Guards("u1", middleware.RoleBeneficiary))

	resp := api.Put("/beneficiary/desired-items", map[string]any{
		"items": []map[string]any{{"productId": "0190f7a4-0000-7000-8000-000000000001", "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "ErrValidation")

	resp = api.Get("/beneficiary/desired-items")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"categories":[]`)
}

func TestHandler_DonorIsForbidden(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(newTestService(newMemRepo()), slog.New(slog.NewTextHandler(io.Discard, nil))).
		RegisterRoutes(api, authtest.Guards("u9", middleware.RoleDonor))

	resp := api.Get("/beneficiary/desired-items")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
