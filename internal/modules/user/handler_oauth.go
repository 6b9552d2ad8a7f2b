package user

import (
	"context"
	"net/http"
	"net/url"

	"github.com/delordemm1/gooddeeds-api/internal/httpx"
	"github.com/delordemm1/gooddeeds-api/internal/validation"
)

// OAuthRedirectRequest names the provider and the role a new account should get.
type OAuthRedirectRequest struct {
	Provider string `path:"provider"`
	Role     string `query:"role" enum:"donor,beneficiary" default:"donor"`
}

type OAuthRedirectResponse struct {
	Body struct {
		RedirectURL string `json:"redirectUrl"`
	}
}

// OAuthRedirectHandler returns the consent URL. The frontend navigates to it.
func (h *Handler) OAuthRedirectHandler(ctx context.Context, input *OAuthRedirectRequest) (*OAuthRedirectResponse, error) {
	redirectURL, err := h.service.InitiateOAuthLogin(ctx, OAuthProvider(input.Provider), Role(input.Role))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	resp := &OAuthRedirectResponse{}
	resp.Body.RedirectURL = redirectURL
	return resp, nil
}

type OAuthCallbackRequest struct {
	Provider  string `path:"provider"`
	Code      string `query:"code"`
	State     string `query:"state"`
	UserAgent string `header:"User-Agent"`
	ClientIP  string `header:"X-Forwarded-For"`
}

// OAuthFormCallbackRequest is Apple's form_post callback.
type OAuthFormCallbackRequest struct {
	Provider  string `path:"provider"`
	UserAgent string `header:"User-Agent"`
	ClientIP  string `header:"X-Forwarded-For"`
	RawBody   []byte `contentType:"application/x-www-form-urlencoded"`
}

// OAuthCallbackResponse redirects to the frontend when it is configured and
// otherwise returns the session as JSON.
type OAuthCallbackResponse struct {
	Status        int
	Location      string `header:"Location"`
	XSessionToken string `header:"x-session-token"`
	Body          *OAuthCallbackBody
}

type OAuthCallbackBody struct {
	Token    string    `json:"token"`
	NextStep string    `json:"nextStep"`
	Provider string    `json:"provider"`
	User     *UserView `json:"user"`
}

func (h *Handler) OAuthCallbackHandler(ctx context.Context, input *OAuthCallbackRequest) (*OAuthCallbackResponse, error) {
	return h.completeOAuth(ctx, input.Provider, input.State, input.Code, input.UserAgent, input.ClientIP)
}

func (h *Handler) OAuthFormCallbackHandler(ctx context.Context, input *OAuthFormCallbackRequest) (*OAuthCallbackResponse, error) {
	form, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		return nil, httpx.ToProblem(ctx, validation.NewFieldError("body", "must be a url-encoded form"))
	}
	return h.completeOAuth(ctx, input.Provider, form.Get("state"), form.Get("code"), input.UserAgent, input.ClientIP)
}

func (h *Handler) completeOAuth(ctx context.Context, provider, state, code, userAgent, ip string) (*OAuthCallbackResponse, error) {
	if state == "" || code == "" {
		return nil, httpx.ToProblem(ctx, ErrOAuthStateInvalid.WithDetail("state and code are required"))
	}

	res, err := h.service.HandleOAuthCallback(ctx, OAuthProvider(provider), state, code, userAgent, ip)
	if err != nil {
		h.logger.Warn("oauth callback failed", "provider", provider, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	target := h.frontend.SocialSuccessURL
	if res.NextStep == NextStepCompleteProfile {
		target = h.frontend.CompleteProfileURL
	}
	if target != "" {
		loc, err := withQuery(target, res.SessionToken, res.NextStep, provider)
		if err == nil {
			return &OAuthCallbackResponse{Status: http.StatusFound, Location: loc}, nil
		}
		h.logger.Error("invalid frontend redirect url", "url", target, "error", err)
	}

	return &OAuthCallbackResponse{
		Status:        http.StatusOK,
		XSessionToken: res.SessionToken,
		Body: &OAuthCallbackBody{
			Token:    res.SessionToken,
			NextStep: res.NextStep,
			Provider: provider,
			User:     toUserView(res.User),
		},
	}, nil
}

func withQuery(target, token, nextStep, provider string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("next_step", nextStep)
	q.Set("provider", provider)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
