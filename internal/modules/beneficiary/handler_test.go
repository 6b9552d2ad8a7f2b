package beneficiary

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
	"github.com/delordemm1/gooddeeds-api/internal/middleware/authtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type HandlerSuite struct {
	suite.Suite
	fx *ServiceSuite
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.fx = new(ServiceSuite)
	s.fx.SetT(s.T())
	s.fx.SetupTest()
}

func (s *HandlerSuite) api(userID, role string) humatest.TestAPI {
	_, api := humatest.New(s.T())
	NewHandler(s.fx.svc, slog.New(slog.NewTextHandler(io.Discard, nil))).
		RegisterRoutes(api, authtest.Guards(userID, role))
	return api
}

func (s *HandlerSuite) TestDonorHome_WithCoordinates() {
	resp := s.api("donor-1", middleware.RoleDonor).Get("/donor/home?latitude=40.01&longitude=-75.01&radius=5")
	s.Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), `"distanceMiles":0.87`)
	s.Contains(resp.Body.String(), `"recentEvents"`)
}

func (s *HandlerSuite) TestDonorHome_HalfCoordinateIsRejected() {
	resp := s.api("donor-1", middleware.RoleDonor).Get("/donor/home?latitude=40.01")
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.Body.String(), "longitude")
}

func (s *HandlerSuite) TestDonorHome_OutOfRange() {
	resp := s.api("donor-1", middleware.RoleDonor).Get("/donor/home?latitude=91&longitude=0")
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.Body.String(), "ErrInvalidCoordinate")
}

func (s *HandlerSuite) TestApprove_TwiceConflicts() {
	api := s.api("admin-1", middleware.RoleAdmin)
	resp := api.Post("/admin/beneficiaries/fam-4/approve", map[string]any{})
	s.Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), `"emailSent":true`)

	resp = api.Post("/admin/beneficiaries/fam-4/approve", map[string]any{})
	s.Equal(http.StatusConflict, resp.Code)
	s.Contains(resp.Body.String(), "ErrAlreadyProcessed")
}

func (s *HandlerSuite) TestReject_RequiresReason() {
	resp := s.api("admin-1", middleware.RoleAdmin).Post("/admin/beneficiaries/fam-4/reject", map[string]any{"reason": ""})
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.Body.String(), "reason")
}

func (s *HandlerSuite) TestUpdateLocation_TooManyDecimals() {
	resp := s.api("user-fam-3", middleware.RoleBeneficiary).Post("/beneficiary/location", map[string]any{
		"latitude": 40.123456789, "longitude": -75.5,
	})
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.Body.String(), "latitude")
}

func (s *HandlerSuite) TestUpdateLocation_OK() {
	resp := s.api("user-fam-3", middleware.RoleBeneficiary).Post("/beneficiary/location", map[string]any{
		"latitude": 40.12345678, "longitude": -75.5,
	})
	s.Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), `"longitude":-75.5`)
}

func (s *HandlerSuite) TestAdminRoutesRejectDonors() {
	resp := s.api("donor-1", middleware.RoleDonor).Get("/admin/beneficiaries/statistics")
	assert.Equal(s.T(), http.StatusForbidden, resp.Code)
}
