package verification

import (
	"context"
	"errors"

	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
)

// ResetPassword re-validates a password reset code, replaces the password and
// consumes the code in one transaction, then signs the user out everywhere.
func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = user.NormalizeEmail(email)
	c := ContextPasswordReset
	rec, err := s.findValid(ctx, email, code, &c)
	if err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("account lookup failed", "error", err)
		return ErrInternal.WithCause(err)
	}

	hash, err := user.HashPassword(newPassword)
	if err != nil {
		return ErrInternal.WithCause(err)
	}

	err = s.uow.RunInTx(ctx, func(st TxStores) error {
		if err := st.Accounts.UpdatePassword(ctx, u.ID, hash); err != nil {
			return err
		}
		return st.Codes.MarkUsed(ctx, rec.ID)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpiredCode) {
			return ErrInvalidOrExpiredCode
		}
		s.logger.Error("password reset failed", "error", err, "user_id", u.ID)
		return ErrInternal.WithCause(err)
	}

	if n, err := s.sessions.DeleteAllForUser(ctx, u.ID); err != nil {
		s.logger.Warn("failed to revoke sessions after password reset", "error", err, "user_id", u.ID)
	} else {
		s.logger.Info("password reset", "user_id", u.ID, "sessions_revoked", n)
	}

	if _, err := s.purgeExpired(ctx, email); err != nil {
		s.logger.Warn("purge expired codes after reset failed", "error", err)
	}
	s.publish(ctx, events.PasswordReset, events.PasswordResetEvent{UserID: u.ID, ResetAt: s.now()})
	return nil
}

// SweepExpired deletes every expired code and the uploads staged with them.
func (s *service) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.purgeExpired(ctx, "")
	if err != nil {
		s.logger.Error("sweep expired codes failed", "error", err)
		return 0, ErrInternal.WithCause(err)
	}
	s.logger.Info("expired verification codes swept", "count", n)
	return n, nil
}
