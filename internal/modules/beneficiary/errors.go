package beneficiary

import (
	"net/http"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

var (
	ErrNotFound = domainerr.New("ErrBeneficiaryNotFound", http.StatusNotFound,
		"beneficiary not found", "urn:problem:beneficiary/err-beneficiary-not-found")

	ErrProfileExists = domainerr.New("ErrProfileExists", http.StatusConflict,
		"this account already has a beneficiary profile", "urn:problem:beneficiary/err-profile-exists")

	ErrAlreadyProcessed = domainerr.New("ErrAlreadyProcessed", http.StatusConflict,
		"this beneficiary has already been reviewed", "urn:problem:beneficiary/err-already-processed")

	ErrInvalidCoordinate = domainerr.New("ErrInvalidCoordinate", http.StatusBadRequest,
		"latitude must be within [-90, 90] and longitude within [-180, 180]", "urn:problem:geo/err-invalid-coordinate")

	ErrNoLocationData = domainerr.New("ErrNoLocationData", http.StatusUnprocessableEntity,
		"beneficiary has no location data", "urn:problem:geo/err-no-location-data")

	ErrInternal = domainerr.ErrInternal
)
