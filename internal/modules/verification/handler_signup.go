package verification

import (
	"context"

	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

const codeSentMessage = "OTP sent to your email address successfully."

// AccountFields are the fields every signup stages.
type AccountFields struct {
	FirstName            string `json:"firstName" validate:"required,max=255"`
	LastName             string `json:"lastName" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	PhoneNumber          string `json:"phoneNumber" validate:"required,max=20"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type DonorSignupRequest struct {
	Body AccountFields
}

type BeneficiarySignupRequest struct {
	Body struct {
		AccountFields
		beneficiary.HouseholdInput
	}
}

type CodeSentResponse struct {
	Body struct {
		Message          string `json:"message"`
		ExpiresInMinutes int    `json:"expiresInMinutes"`
	}
}

func (h *Handler) codeSent() *CodeSentResponse {
	resp := &CodeSentResponse{}
	resp.Body.Message = codeSentMessage
	resp.Body.ExpiresInMinutes = int(h.codeTTL.Minutes())
	return resp
}

func (h *Handler) DonorSignupHandler(ctx context.Context, input *DonorSignupRequest) (*CodeSentResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	b := input.Body
	payload, err := NewDonorSignup(b.FirstName, b.LastName, b.PhoneNumber, b.Password)
	if err != nil {
		return nil, httpx.ToProblem(ctx, ErrInternal.WithCause(err))
	}
	if err := h.service.Issue(ctx, b.Email, ContextSignupDonor, payload); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return h.codeSent(), nil
}

func (h *Handler) BeneficiarySignupHandler(ctx context.Context, input *BeneficiarySignupRequest) (*CodeSentResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	a, hh := input.Body.AccountFields, input.Body.HouseholdInput
	account, err := NewDonorSignup(a.FirstName, a.LastName, a.PhoneNumber, a.Password)
	if err != nil {
		return nil, httpx.ToProblem(ctx, ErrInternal.WithCause(err))
	}
	payload := BeneficiarySignupPayload{
		DonorSignupPayload: account,
		FamilySize:         hh.FamilySize,
		Address:            hh.Address,
		City:               hh.City,
		State:              hh.State,
		ZipCode:            hh.ZipCode,
		AffectedEvent:      hh.AffectedEvent,
		Statement:          hh.Statement,
		FamilyPhotoURL:     hh.FamilyPhotoURL,
		IdentityProofURL:   hh.IdentityProofURL,
	}
	if err := h.service.Issue(ctx, a.Email, ContextSignupBeneficiary, payload); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return h.codeSent(), nil
}

type VerifyRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required,numeric,min=4,max=6"`
	}
}

// AccountView is the account created by a verified signup.
type AccountView struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Role        user.Role `json:"role"`
}

type VerifyResponse struct {
	Body struct {
		Message     string               `json:"message"`
		User        *AccountView         `json:"user,omitempty"`
		Beneficiary *beneficiary.Profile `json:"beneficiary,omitempty"`
		ProofToken  string               `json:"proofToken,omitempty"`
	}
}

// VerifySignupHandler serves both verify endpoints: the code's own context
// decides what gets created.
func (h *Handler) VerifySignupHandler(ctx context.Context, input *VerifyRequest) (*VerifyResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	res, err := h.service.VerifyAndFinalize(ctx, input.Body.Email, input.Body.OTP)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &VerifyResponse{}
	switch res.Context {
	case ContextSignupBeneficiary:
		resp.Body.Message = "Beneficiary account created successfully."
	case ContextSignupDonor:
		resp.Body.Message = "Account created successfully."
	default:
		resp.Body.Message = "OTP verified successfully."
		resp.Body.ProofToken = res.ProofToken
	}
	if res.User != nil {
		resp.Body.User = &AccountView{
			ID:          res.User.ID,
			FirstName:   res.User.FirstName,
			LastName:    res.User.LastName,
			Email:       res.User.Email,
			PhoneNumber: res.User.PhoneNumber,
			Role:        res.User.Role,
		}
	}
	resp.Body.Beneficiary = res.Profile
	return resp, nil
}
