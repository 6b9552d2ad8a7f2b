package user

import (
	"context"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/contextx"
	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

// UserView is the public shape of an account.
type UserView struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	PhoneNumber     *string   `json:"phoneNumber,omitempty"`
	Role            Role      `json:"role"`
	EmailVerified   bool      `json:"emailVerified"`
	Provider        *string   `json:"provider,omitempty"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
	ProfileComplete bool      `json:"profileComplete"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserView(u *User) *UserView {
	return &UserView{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		Role:            u.Role,
		EmailVerified:   u.EmailVerified,
		Provider:        u.Provider,
		AvatarURL:       u.AvatarURL,
		ProfileComplete: u.ProfileComplete,
		CreatedAt:       u.CreatedAt,
	}
}

// LoginRequest defines the structure for the user login request body.
type LoginRequest struct {
	UserAgent string `header:"User-Agent"`
	ClientIP  string `header:"X-Forwarded-For"`
	Body      struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

// LoginResponse carries the session token used as a Bearer credential.
type LoginResponse struct {
	Body struct {
		Token string    `json:"token"`
		User  *UserView `json:"user"`
	}
}

// LoginHandler handles the user login endpoint.
func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	if err := validation.ValidateStruct(&input.Body); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	res, err := h.service.Login(ctx, input.Body.Email, input.Body.Password, input.UserAgent, input.ClientIP)
	if err != nil {
		h.logger.Warn("login attempt failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &LoginResponse{}
	resp.Body.Token = res.Token
	resp.Body.User = toUserView(res.User)
	return resp, nil
}

func (h *Handler) LogoutHandler(ctx context.Context, _ *struct{}) (*struct{}, error) {
	sessionID, ok := contextx.SessionID(ctx)
	if !ok {
		return nil, httpx.ToProblem(ctx, domainerr.ErrUnauthorized)
	}
	if err := h.service.Logout(ctx, sessionID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return nil, nil
}
