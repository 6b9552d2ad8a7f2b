package user

import (
	"net/http"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

// --- Pre-defined Domain Errors ---
// These variables represent specific, known error conditions in the user domain.

var (
	// Resource & identity
	ErrNotFound = domainerr.New("ErrNotFound", http.StatusNotFound,
		"user not found", "urn:problem:user/err-not-found")

	ErrUnauthorized = domainerr.ErrUnauthorized

	// Auth & credentials
	ErrInvalidCredentials = domainerr.New("ErrInvalidCredentials", http.StatusUnauthorized,
		"invalid email or password", "urn:problem:user/err-invalid-credentials")

	// Registration
	ErrEmailExists = domainerr.New("ErrEmailExists", http.StatusConflict,
		"a user with this email already exists", "urn:problem:user/err-email-exists")

	// Profile completion
	ErrProfileAlreadyComplete = domainerr.New("ErrProfileAlreadyComplete", http.StatusBadRequest,
		"profile already completed", "urn:problem:user/err-profile-already-complete")

	ErrHouseholdRequired = domainerr.New("ErrHouseholdRequired", http.StatusBadRequest,
		"household details are required for beneficiary accounts", "urn:problem:user/err-household-required")

	ErrCannotDeleteSelf = domainerr.New("ErrCannotDeleteSelf", http.StatusBadRequest,
		"you cannot delete your own account", "urn:problem:user/err-cannot-delete-self")

	// OAuth
	ErrUnsupportedOAuthProvider = domainerr.New("ErrUnsupportedOAuthProvider", http.StatusBadRequest,
		"unsupported oauth provider", "urn:problem:user/err-unsupported-oauth-provider")

	ErrOAuthStateInvalid = domainerr.New("ErrOAuthStateInvalid", http.StatusBadRequest,
		"invalid oauth state", "urn:problem:user/err-oauth-state-invalid")

	ErrOAuthStateExpired = domainerr.New("ErrOAuthStateExpired", http.StatusBadRequest,
		"oauth state has expired", "urn:problem:user/err-oauth-state-expired")

	ErrOAuthExchangeFailed = domainerr.New("ErrOAuthExchangeFailed", http.StatusUnauthorized,
		"oauth authentication failed", "urn:problem:user/err-oauth-exchange-failed")

	ErrOAuthEmailMissing = domainerr.New("ErrOAuthEmailMissing", http.StatusBadRequest,
		"email not provided by oauth provider", "urn:problem:user/err-oauth-email-missing")

	ErrOAuthEmailUnverified = domainerr.New("ErrOAuthEmailUnverified", http.StatusForbidden,
		"the provider has not verified this email address", "urn:problem:user/err-oauth-email-unverified")

	// Generic internal
	ErrInternal = domainerr.ErrInternal
)
