package user

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/config"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
)

// Handler holds the dependencies for the user module's HTTP handlers.
type Handler struct {
	service  Service
	frontend config.FrontendConfig
	logger   *slog.Logger
}

// NewHandler creates a new handler for the user module.
func NewHandler(service Service, frontend config.FrontendConfig, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		frontend: frontend,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routing for the user module.
func (h *Handler) RegisterRoutes(api huma.API, guards middleware.Guards) {
	// --- Authentication Routes ---
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Auth"},
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/logout",
		Summary:       "Revoke the current session",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusNoContent,
		Middlewares:   guards.Authenticated(),
	}, h.LogoutHandler)

	// --- OAuth Routes ---
	huma.Register(api, huma.Operation{
		OperationID: "social-redirect",
		Method:      http.MethodGet,
		Path:        "/auth/social/{provider}/redirect",
		Summary:     "Get the provider consent URL",
		Tags:        []string{"Auth"},
	}, h.OAuthRedirectHandler)

	huma.Register(api, huma.Operation{
		OperationID: "social-callback",
		Method:      http.MethodGet,
		Path:        "/auth/social/{provider}/callback",
		Summary:     "Complete a social sign-in",
		Tags:        []string{"Auth"},
	}, h.OAuthCallbackHandler)

	huma.Register(api, huma.Operation{
		OperationID: "social-callback-form",
		Method:      http.MethodPost,
		Path:        "/auth/social/{provider}/callback",
		Summary:     "Complete a social sign-in posted as a form",
		Tags:        []string{"Auth"},
	}, h.OAuthFormCallbackHandler)

	huma.Register(api, huma.Operation{
		OperationID: "social-complete-profile",
		Method:      http.MethodPost,
		Path:        "/auth/social/complete-profile",
		Summary:     "Provide the details missing after a social sign-up",
		Tags:        []string{"Auth"},
		Middlewares: guards.Authenticated(),
	}, h.CompleteProfileHandler)

	// --- Profile Routes ---
	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Get the current user",
		Tags:        []string{"Profile"},
		Middlewares: guards.Authenticated(),
	}, h.MeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "update-me",
		Method:      http.MethodPatch,
		Path:        "/me",
		Summary:     "Update the current user's profile",
		Tags:        []string{"Profile"},
		Middlewares: guards.Authenticated(),
	}, h.UpdateProfileHandler)

	// --- Admin ---
	huma.Register(api, huma.Operation{
		OperationID:   "admin-delete-user",
		Method:        http.MethodDelete,
		Path:          "/admin/users/{id}",
		Summary:       "Delete an account",
		Tags:          []string{"Admin"},
		DefaultStatus: http.StatusNoContent,
		Middlewares:   guards.Admin(),
	}, h.DeleteHandler)
}
