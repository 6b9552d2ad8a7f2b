package user

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateTTL = 10 * time.Minute

// Next steps reported to the frontend after a social sign-in.
const (
	NextStepDashboard       = "dashboard"
	NextStepCompleteProfile = "complete_profile"
)

// OAuthResult is the outcome of a completed social sign-in.
type OAuthResult struct {
	SessionToken string
	User         *User
	NextStep     string
	IsNew        bool
}

// socialIdentity is what we keep from a provider's user info.
type socialIdentity struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

type socialProvider interface {
	oauthConfig() *oauth2.Config
	identity(ctx context.Context, token *oauth2.Token) (*socialIdentity, error)
}

func (s *service) socialProvider(provider OAuthProvider) (socialProvider, error) {
	switch provider {
	case OAuthProviderGOOGLE:
		return &googleProvider{
			config: &oauth2.Config{
				ClientID:     s.config.Google.ClientID,
				ClientSecret: s.config.Google.ClientSecret,
				RedirectURL:  s.config.Google.RedirectURL,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
		}, nil
	case OAuthProviderAPPLE:
		key, err := jwt.ParseECPrivateKeyFromPEM([]byte(strings.ReplaceAll(s.config.Apple.PrivateKey, `\n`, "\n")))
		if err != nil {
			return nil, ErrInternal.WithCause(fmt.Errorf("parse apple private key: %w", err))
		}
		return &appleProvider{
			config: &oauth2.Config{
				ClientID:    s.config.Apple.ClientID,
				RedirectURL: s.config.Apple.RedirectURL,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			teamID: s.config.Apple.TeamID,
			keyID:  s.config.Apple.KeyID,
			key:    key,
		}, nil
	default:
		return nil, ErrUnsupportedOAuthProvider.WithDetail(fmt.Sprintf("unsupported oauth provider: %s", provider))
	}
}

type googleProvider struct {
	config *oauth2.Config
}

func (g *googleProvider) oauthConfig() *oauth2.Config { return g.config }

func (g *googleProvider) identity(ctx context.Context, token *oauth2.Token) (*socialIdentity, error) {
	resp, err := g.config.Client(ctx, token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	return &socialIdentity{
		ID:            info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		Name:          info.Name,
		AvatarURL:     info.Picture,
	}, nil
}

type appleProvider struct {
	config *oauth2.Config
	teamID string
	keyID  string
	key    *ecdsa.PrivateKey
}

func (a *appleProvider) oauthConfig() *oauth2.Config { return a.config }

// Apple has no userinfo endpoint. The identity comes from the id_token returned
// by the token exchange, and the name is only posted on the very first sign-in.
func (a *appleProvider) identity(_ context.Context, token *oauth2.Token) (*socialIdentity, error) {
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, errors.New("id_token missing from apple token response")
	}
	return appleIdentity(idToken)
}

// claimBool accepts both true and "true"; Apple sends email_verified as a string.
type claimBool bool

func (b *claimBool) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseBool(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("invalid boolean claim %s: %w", data, err)
	}
	*b = claimBool(v)
	return nil
}

func appleIdentity(idToken string) (*socialIdentity, error) {
	var claims struct {
		jwt.RegisteredClaims
		Email         string    `json:"email"`
		EmailVerified claimBool `json:"email_verified"`
	}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return nil, fmt.Errorf("parse apple id_token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("apple id_token has no subject")
	}
	return &socialIdentity{ID: claims.Subject, Email: claims.Email, EmailVerified: bool(claims.EmailVerified)}, nil
}

// clientSecret signs the short-lived JWT Apple expects in place of a static secret.
func (a *appleProvider) clientSecret() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, &jwt.RegisteredClaims{
		Issuer:    a.teamID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		Audience:  jwt.ClaimStrings{"https://appleid.apple.com"},
		Subject:   a.config.ClientID,
	})
	token.Header["kid"] = a.keyID
	return token.SignedString(a.key)
}

// InitiateOAuthLogin stores a PKCE state carrying the requested role and returns
// the provider's consent URL. Only donor and beneficiary can be requested.
func (s *service) InitiateOAuthLogin(ctx context.Context, provider OAuthProvider, role Role) (string, error) {
	p, err := s.socialProvider(provider)
	if err != nil {
		return "", err
	}
	if role != RoleBeneficiary {
		role = RoleDonor
	}

	state, err := generateSecureToken(32)
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("generate oauth state: %w", err))
	}
	verifier := oauth2.GenerateVerifier()
	now := time.Now()
	if err := s.repo.SaveOAuthState(ctx, &OAuthState{
		State:     state,
		Provider:  provider,
		Verifier:  verifier,
		Role:      &role,
		ExpiresAt: now.Add(oauthStateTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		s.logger.Error("failed to store oauth state", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if provider == OAuthProviderAPPLE {
		// Apple posts the callback when name or email scopes are requested.
		opts = append(opts, oauth2.SetAuthURLParam("response_mode", "form_post"))
	}
	return p.oauthConfig().AuthCodeURL(state, opts...), nil
}

// HandleOAuthCallback checks the state, exchanges the code, resolves the local
// account and opens a session for it.
func (s *service) HandleOAuthCallback(ctx context.Context, provider OAuthProvider, state, code, userAgent, ip string) (*OAuthResult, error) {
	p, err := s.socialProvider(provider)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.ConsumeOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOAuthStateInvalid
		}
		s.logger.Error("failed to load oauth state", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if st.Provider != provider {
		return nil, ErrOAuthStateInvalid
	}
	if time.Now().After(st.ExpiresAt) {
		return nil, ErrOAuthStateExpired
	}

	opts := []oauth2.AuthCodeOption{oauth2.VerifierOption(st.Verifier)}
	if ap, ok := p.(*appleProvider); ok {
		secret, err := ap.clientSecret()
		if err != nil {
			return nil, ErrInternal.WithCause(fmt.Errorf("sign apple client secret: %w", err))
		}
		opts = append(opts, oauth2.SetAuthURLParam("client_secret", secret))
	}

	token, err := p.oauthConfig().Exchange(ctx, code, opts...)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}
	ident, err := p.identity(ctx, token)
	if err != nil {
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}

	role := RoleDonor
	if st.Role != nil {
		role = *st.Role
	}
	u, isNew, err := s.resolveSocialUser(ctx, provider, ident, role)
	if err != nil {
		return nil, err
	}

	sessionToken, err := s.sessions.CreateAuthSession(ctx, u.ID, userAgent, ip)
	if err != nil {
		s.logger.Error("failed to create auth session after oauth login", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if _, err := s.repo.PurgeOAuthStates(ctx, time.Now()); err != nil {
		s.logger.Warn("failed to purge expired oauth states", "error", err)
	}

	next := NextStepDashboard
	if !u.ProfileComplete {
		next = NextStepCompleteProfile
	}
	s.logger.Info("user signed in via oauth", "provider", provider, "user_id", u.ID, "new", isNew)
	return &OAuthResult{SessionToken: sessionToken, User: u, NextStep: next, IsNew: isNew}, nil
}

// resolveSocialUser finds the account by provider id, then links an account with
// the same email (keeping its role), and otherwise creates an incomplete account
// with the requested role. Linking and creating both require the provider to
// vouch for the email.
func (s *service) resolveSocialUser(ctx context.Context, provider OAuthProvider, ident *socialIdentity, role Role) (*User, bool, error) {
	if ident.ID == "" {
		return nil, false, ErrOAuthExchangeFailed.WithDetail("provider returned no account id")
	}

	u, err := s.repo.FindByProvider(ctx, provider, ident.ID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Error("failed to find user by provider", "error", err)
		return nil, false, ErrInternal.WithCause(err)
	}

	if ident.Email == "" {
		return nil, false, ErrOAuthEmailMissing
	}
	if !ident.EmailVerified {
		s.logger.Warn("oauth email not verified by provider", "provider", provider)
		return nil, false, ErrOAuthEmailUnverified
	}
	var avatar *string
	if ident.AvatarURL != "" {
		avatar = &ident.AvatarURL
	}

	u, err = s.repo.FindByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		if err := s.repo.LinkProvider(ctx, u.ID, provider, ident.ID, avatar); err != nil {
			if errors.Is(err, ErrEmailExists) {
				return nil, false, err
			}
			s.logger.Error("failed to link provider", "error", err, "user_id", u.ID)
			return nil, false, ErrInternal.WithCause(err)
		}
		p, pid := string(provider), ident.ID
		u.Provider, u.ProviderID = &p, &pid
		if u.AvatarURL == nil {
			u.AvatarURL = avatar
		}
		s.logger.Info("linked social provider to existing account", "provider", provider, "user_id", u.ID)
		return u, false, nil
	case !errors.Is(err, ErrNotFound):
		s.logger.Error("failed to find user by email during oauth callback", "error", err)
		return nil, false, ErrInternal.WithCause(err)
	}

	u, err = s.newSocialUser(provider, ident, role, avatar)
	if err != nil {
		return nil, false, ErrInternal.WithCause(err)
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, false, err
		}
		s.logger.Error("failed to create user from oauth", "error", err)
		return nil, false, ErrInternal.WithCause(err)
	}

	s.metrics.AccountsCreated.WithLabelValues(string(u.Role), "social").Inc()
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	})
	return u, true, nil
}

func (s *service) newSocialUser(provider OAuthProvider, ident *socialIdentity, role Role, avatar *string) (*User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	hash, err := unusablePasswordHash()
	if err != nil {
		return nil, err
	}

	first, last := "Social", "User"
	if name := strings.TrimSpace(ident.Name); name != "" {
		parts := strings.SplitN(name, " ", 2)
		first = parts[0]
		if len(parts) > 1 {
			last = strings.TrimSpace(parts[1])
		}
	}

	p, pid := string(provider), ident.ID
	now := time.Now()
	return &User{
		ID:            id.String(),
		FirstName:     first,
		LastName:      last,
		Email:         NormalizeEmail(ident.Email),
		PasswordHash:  &hash,
		Role:          role,
		EmailVerified: true,
		Provider:      &p,
		ProviderID:    &pid,
		AvatarURL:     avatar,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
