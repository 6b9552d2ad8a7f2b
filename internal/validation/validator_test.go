package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locationInput struct {
	Latitude  float64 `json:"latitude" validate:"latitude,maxdecimals=8"`
	Longitude float64 `json:"longitude" validate:"longitude,maxdecimals=8"`
}

func TestValidateStruct_Coordinates(t *testing.T) {
	require.NoError(t, ValidateStruct(&locationInput{Latitude: 40.71280000, Longitude: -74.0060}))

	err := ValidateStruct(&locationInput{Latitude: 91, Longitude: -74.123456789})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields()["latitude"], "must be a valid latitude between -90 and 90")
	assert.Contains(t, verr.Fields()["longitude"], "must have at most 8 decimal places")
}

type signupInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"omitempty,oneof=donor beneficiary"`
}

func TestValidateStruct_Summary(t *testing.T) {
	err := ValidateStruct(&signupInput{Email: "nope", Password: "longenough", ConfirmPassword: "different", Role: "admin"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, "invalid email, and 2 other errors", verr.Error())
	assert.Equal(t, []string{"must match password"}, verr.Fields()["confirmPassword"])
	assert.Equal(t, []string{"must be one of: donor, beneficiary"}, verr.Fields()["role"])
	assert.Equal(t, 400, verr.ProblemStatus())
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("items", "must not contain duplicates")
	assert.Equal(t, "items must not contain duplicates", err.Error())
}
