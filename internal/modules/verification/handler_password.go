package verification

import (
	"context"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

type SendResetCodeRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

func (h *Handler) SendResetCodeHandler(ctx context.Context, input *SendResetCodeRequest) (*CodeSentResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	if err := h.service.Issue(ctx, input.Body.Email, ContextPasswordReset, nil); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return h.codeSent(), nil
}

type VerifyResetCodeRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required,numeric,len=6"`
	}
}

type VerifyResetCodeResponse struct {
	Body struct {
		Message    string    `json:"message"`
		ProofToken string    `json:"proofToken"`
		ExpiresAt  time.Time `json:"expiresAt"`
	}
}

func (h *Handler) VerifyResetCodeHandler(ctx context.Context, input *VerifyResetCodeRequest) (*VerifyResetCodeResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	res, err := h.service.Verify(ctx, input.Body.Email, input.Body.OTP, ContextPasswordReset)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &VerifyResetCodeResponse{}
	resp.Body.Message = "OTP verified successfully."
	resp.Body.ProofToken = res.ProofToken
	resp.Body.ExpiresAt = res.ProofExpiresAt
	return resp, nil
}

type ResetPasswordRequest struct {
	Body struct {
		Email                string `json:"email" validate:"required,email"`
		OTP                  string `json:"otp" validate:"required,numeric,len=6"`
		Password             string `json:"password" validate:"required,min=8,max=72"`
		PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*MessageResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	if err := h.service.ResetPassword(ctx, input.Body.Email, input.Body.OTP, input.Body.Password); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &MessageResponse{}
	resp.Body.Message = "Password reset successfully."
	return resp, nil
}

type SweepResponse struct {
	Body struct {
		Purged int `json:"purged"`
	}
}

func (h *Handler) SweepHandler(ctx context.Context, _ *struct{}) (*SweepResponse, error) {
	n, err := h.service.SweepExpired(ctx)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &SweepResponse{}
	resp.Body.Purged = n
	return resp, nil
}
