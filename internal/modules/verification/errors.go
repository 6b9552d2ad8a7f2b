package verification

import (
	"net/http"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

var (
	ErrEmailAlreadyRegistered = domainerr.New("ErrEmailAlreadyRegistered", http.StatusConflict,
		"this email is already registered", "urn:problem:verification/err-email-already-registered")

	ErrUserNotFound = domainerr.New("ErrUserNotFound", http.StatusNotFound,
		"no account uses this email address", "urn:problem:verification/err-user-not-found")

	ErrRoleNotEligible = domainerr.New("ErrRoleNotEligible", http.StatusForbidden,
		"password reset is not available for this account", "urn:problem:verification/err-role-not-eligible")

	ErrCodeAlreadyIssued = domainerr.New("ErrCodeAlreadyIssued", http.StatusTooManyRequests,
		"a code has already been sent, please wait before requesting another one", "urn:problem:verification/err-code-already-issued")

	ErrDeliveryFailed = domainerr.New("ErrDeliveryFailed", http.StatusBadGateway,
		"failed to send the code, please try again later", "urn:problem:verification/err-delivery-failed")

	ErrInvalidOrExpiredCode = domainerr.New("ErrInvalidOrExpiredCode", http.StatusBadRequest,
		"invalid or expired code", "urn:problem:verification/err-invalid-or-expired-code")

	ErrAccountCreationFailed = domainerr.New("ErrAccountCreationFailed", http.StatusInternalServerError,
		"the account could not be created", "urn:problem:verification/err-account-creation-failed")

	ErrPayloadMismatch = domainerr.New("ErrPayloadMismatch", http.StatusBadRequest,
		"staged data does not match the verification context", "urn:problem:verification/err-payload-mismatch")

	ErrInternal = domainerr.ErrInternal
)
