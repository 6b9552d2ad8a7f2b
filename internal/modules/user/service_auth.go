package user

import (
	"context"
	"errors"
)

// LoginResult carries the opaque session token and the signed-in user.
type LoginResult struct {
	Token string
	User  *User
}

// Login handles the business logic for authenticating a user.
func (s *service) Login(ctx context.Context, email, password, userAgent, ip string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same error as a wrong password so emails cannot be probed.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to find user by email", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	if user.PasswordHash == nil || !CheckPassword(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.CreateAuthSession(ctx, user.ID, userAgent, ip)
	if err != nil {
		s.logger.Error("failed to create auth session", "error", err, "user_id", user.ID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user logged in successfully", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, User: user}, nil
}

// Logout revokes the current session.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("failed to delete session", "error", err)
		return ErrInternal.WithCause(err)
	}
	return nil
}
