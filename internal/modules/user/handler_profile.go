package user

import (
	"context"

	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

// MeResponse is the current user, with the household profile for beneficiaries.
type MeResponse struct {
	Body struct {
		User        *UserView            `json:"user"`
		Beneficiary *beneficiary.Profile `json:"beneficiary,omitempty"`
	}
}

// MeHandler retrieves the profile of the currently authenticated user.
func (h *Handler) MeHandler(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}

	me, err := h.service.Me(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &MeResponse{}
	resp.Body.User = toUserView(me.User)
	resp.Body.Beneficiary = me.Beneficiary
	return resp, nil
}

// UpdateProfileRequest defines the fields that can be updated on a user's profile.
type UpdateProfileRequest struct {
	Body struct {
		FirstName   *string `json:"firstName,omitempty" validate:"omitempty,min=2,max=100"`
		LastName    *string `json:"lastName,omitempty" validate:"omitempty,min=2,max=100"`
		PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
	}
}

type UserResponse struct {
	Body struct {
		User *UserView `json:"user"`
	}
}

// UpdateProfileHandler updates the profile of the currently authenticated user.
func (h *Handler) UpdateProfileHandler(ctx context.Context, input *UpdateProfileRequest) (*UserResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	u, err := h.service.UpdateProfile(ctx, userID, UpdateProfileInput{
		FirstName:   input.Body.FirstName,
		LastName:    input.Body.LastName,
		PhoneNumber: input.Body.PhoneNumber,
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &UserResponse{}
	resp.Body.User = toUserView(u)
	return resp, nil
}

// CompleteProfileRequest finishes a social sign-up. Household is required for beneficiaries.
type CompleteProfileRequest struct {
	Body struct {
		PhoneNumber string                      `json:"phoneNumber" validate:"required,max=20"`
		Household   *beneficiary.HouseholdInput `json:"household,omitempty" validate:"omitempty"`
	}
}

type CompleteProfileResponse struct {
	Body struct {
		User          *UserView `json:"user"`
		BeneficiaryID string    `json:"beneficiaryId,omitempty"`
		Message       string    `json:"message"`
	}
}

func (h *Handler) CompleteProfileHandler(ctx context.Context, input *CompleteProfileRequest) (*CompleteProfileResponse, error) {
	userID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	in := CompleteProfileInput{PhoneNumber: input.Body.PhoneNumber}
	if input.Body.Household != nil {
		d := input.Body.Household.Details()
		in.Household = &d
	}
	res, err := h.service.CompleteProfile(ctx, userID, in)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &CompleteProfileResponse{}
	resp.Body.User = toUserView(res.User)
	resp.Body.BeneficiaryID = res.BeneficiaryID
	resp.Body.Message = "Profile completed."
	if res.BeneficiaryID != "" {
		resp.Body.Message = "Profile completed. Your application is pending review."
	}
	return resp, nil
}

type DeleteUserRequest struct {
	ID string `path:"id"`
}

func (h *Handler) DeleteHandler(ctx context.Context, input *DeleteUserRequest) (*struct{}, error) {
	actorID, ok := contextx.UserID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := h.service.Delete(ctx, actorID, input.ID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return nil, nil
}
