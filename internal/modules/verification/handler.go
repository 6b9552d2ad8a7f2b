package verification

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/gooddeeds-api/internal/middleware"
)

// Handler holds the dependencies for the verification module's HTTP handlers.
type Handler struct {
	service Service
	codeTTL time.Duration
	logger  *slog.Logger
}

// NewHandler creates a new handler for the verification module. codeTTL is
// reported to clients after a code was sent.
func NewHandler(service Service, codeTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{service: service, codeTTL: codeTTL, logger: logger}
}

// RegisterRoutes sets up the signup, password reset and maintenance endpoints.
func (h *Handler) RegisterRoutes(api huma.API, guards middleware.Guards) {
	// --- Signup ---
	huma.Register(api, huma.Operation{
		OperationID: "donor-signup",
		Method:      http.MethodPost,
		Path:        "/auth/signup",
		Summary:     "Stage a donor account and email a verification code",
		Tags:        []string{"Signup"},
	}, h.DonorSignupHandler)

	huma.Register(api, huma.Operation{
		OperationID: "beneficiary-signup",
		Method:      http.MethodPost,
		Path:        "/auth/beneficiaries/signup",
		Summary:     "Stage a beneficiary account with household details and email a verification code",
		Tags:        []string{"Signup"},
	}, h.BeneficiarySignupHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "signup-verify",
		Method:        http.MethodPost,
		Path:          "/auth/signup/verify-otp",
		Summary:       "Verify a signup code and create the account",
		Tags:          []string{"Signup"},
		DefaultStatus: http.StatusCreated,
	}, h.VerifySignupHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "beneficiary-signup-verify",
		Method:        http.MethodPost,
		Path:          "/auth/beneficiaries/verify-otp",
		Summary:       "Verify a beneficiary signup code and create the account",
		Tags:          []string{"Signup"},
		DefaultStatus: http.StatusCreated,
	}, h.VerifySignupHandler)

	// --- Password reset ---
	huma.Register(api, huma.Operation{
		OperationID: "forgot-password-send",
		Method:      http.MethodPost,
		Path:        "/forgot-password/send-otp",
		Summary:     "Email a password reset code",
		Tags:        []string{"Password"},
	}, h.SendResetCodeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "forgot-password-verify",
		Method:      http.MethodPost,
		Path:        "/forgot-password/verify-otp",
		Summary:     "Check a password reset code",
		Tags:        []string{"Password"},
	}, h.VerifyResetCodeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "forgot-password-reset",
		Method:      http.MethodPost,
		Path:        "/forgot-password/reset",
		Summary:     "Set a new password with a reset code",
		Tags:        []string{"Password"},
	}, h.ResetPasswordHandler)

	// --- Admin ---
	huma.Register(api, huma.Operation{
		OperationID: "admin-sweep-codes",
		Method:      http.MethodPost,
		Path:        "/admin/verification/sweep",
		Summary:     "Delete expired verification codes",
		Tags:        []string{"Admin"},
		Middlewares: guards.Admin(),
	}, h.SweepHandler)
}
