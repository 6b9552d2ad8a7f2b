package beneficiary

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
)

// Handler holds the dependencies for the beneficiary module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the beneficiary module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the donor, beneficiary and admin endpoints.
func (h *Handler) RegisterRoutes(api huma.API, guards middleware.Guards) {
	// --- Donor ---
	huma.Register(api, huma.Operation{
		OperationID: "donor-home",
		Method:      http.MethodGet,
		Path:        "/donor/home",
		Summary:     "Recent events and families to help, nearest first when a location is given",
		Tags:        []string{"Donor"},
		Middlewares: guards.Donor(),
	}, h.DonorHomeHandler)

	// --- Beneficiary self service ---
	huma.Register(api, huma.Operation{
		OperationID: "beneficiary-status",
		Method:      http.MethodGet,
		Path:        "/beneficiaries/status",
		Summary:     "Review status of the caller's application",
		Tags:        []string{"Beneficiary"},
		Middlewares: guards.Beneficiary(),
	}, h.StatusHandler)

	huma.Register(api, huma.Operation{
		OperationID: "beneficiary-location",
		Method:      http.MethodPost,
		Path:        "/beneficiary/location",
		Summary:     "Set the family's location",
		Tags:        []string{"Beneficiary"},
		Middlewares: guards.Beneficiary(),
	}, h.UpdateLocationHandler)

	// --- Admin review ---
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-beneficiaries",
		Method:      http.MethodGet,
		Path:        "/admin/beneficiaries",
		Summary:     "List beneficiaries",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.ListHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-beneficiary-statistics",
		Method:      http.MethodGet,
		Path:        "/admin/beneficiaries/statistics",
		Summary:     "Counts by review status",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.StatisticsHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-get-beneficiary",
		Method:      http.MethodGet,
		Path:        "/admin/beneficiaries/{id}",
		Summary:     "Get a beneficiary",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.GetHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-approve-beneficiary",
		Method:      http.MethodPost,
		Path:        "/admin/beneficiaries/{id}/approve",
		Summary:     "Approve a pending beneficiary",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.ApproveHandler)

	huma.Register(api, huma.Operation{
		OperationID: "admin-reject-beneficiary",
		Method:      http.MethodPost,
		Path:        "/admin/beneficiaries/{id}/reject",
		Summary:     "Reject a pending beneficiary",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.RejectHandler)
}
