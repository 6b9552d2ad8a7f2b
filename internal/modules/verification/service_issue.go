package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/delordemm1/gooddeeds-api/internal/cache"
	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
)

// Issue creates a code for email in context c, stages payload with it and
// delivers it. Only one unused code may exist per email and context. When
// Issue fails, uploads named by a beneficiary payload are discarded unless
// another code or a profile still references them.
func (s *service) Issue(ctx context.Context, email string, c Context, payload Payload) (err error) {
	email = user.NormalizeEmail(email)
	defer func() {
		if err == nil {
			return
		}
		var de *domainerr.DomainError
		reason := "ErrInternal"
		if errors.As(err, &de) {
			reason = de.Code
		}
		s.metrics.CodeIssueRejected.WithLabelValues(string(c), reason).Inc()
		if bp, ok := payload.(BeneficiarySignupPayload); ok {
			s.discardBlobs(context.WithoutCancel(ctx), bp.stagedBlobs())
		}
	}()

	if !c.Valid() {
		return ErrPayloadMismatch.WithDetail(fmt.Sprintf("unknown verification context %q", c))
	}
	if err := checkPayload(c, payload); err != nil {
		return err
	}

	name, err := s.checkIssuePreconditions(ctx, email, c, payload)
	if err != nil {
		return err
	}

	unlock, err := s.locker.TryLock(ctx, "verification:issue:"+string(c)+":"+email)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return ErrCodeAlreadyIssued
		}
		s.logger.Error("issue lock failed", "error", err, "context", c)
		return ErrInternal.WithCause(err)
	}
	defer unlock()

	if _, err := s.purgeExpired(ctx, email); err != nil {
		s.logger.Error("purge expired codes failed", "error", err, "context", c)
		return ErrInternal.WithCause(err)
	}

	active, err := s.repo.HasActive(ctx, email, c, s.now())
	if err != nil {
		s.logger.Error("active code lookup failed", "error", err, "context", c)
		return ErrInternal.WithCause(err)
	}
	if active {
		return ErrCodeAlreadyIssued
	}

	code, err := generateCode(c.CodeLength())
	if err != nil {
		return ErrInternal.WithCause(err)
	}
	metadata, err := encodePayload(payload)
	if err != nil {
		return ErrInternal.WithCause(err)
	}

	now := s.now()
	rec := &VerificationCode{
		Email:     email,
		Code:      code,
		Context:   c,
		Metadata:  metadata,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrCodeAlreadyIssued) {
			return ErrCodeAlreadyIssued
		}
		s.logger.Error("store verification code failed", "error", err, "context", c)
		return ErrInternal.WithCause(err)
	}

	if err := s.sender.SendCode(ctx, CodeMessage{
		Email:     email,
		Name:      name,
		Code:      code,
		Context:   c,
		ExpiresIn: s.ttl,
	}); err != nil {
		s.logger.Error("code delivery failed", "error", err, "context", c)
		if delErr := s.repo.Delete(ctx, rec.ID); delErr != nil {
			s.logger.Error("failed to delete undelivered code", "error", delErr, "context", c)
		}
		return ErrDeliveryFailed.WithCause(err)
	}

	s.metrics.CodesIssued.WithLabelValues(string(c)).Inc()
	s.logger.Info("verification code issued", "context", c)
	return nil
}

// checkIssuePreconditions returns the name to greet the recipient with.
func (s *service) checkIssuePreconditions(ctx context.Context, email string, c Context, payload Payload) (string, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		s.logger.Error("account lookup failed", "error", err, "context", c)
		return "", ErrInternal.WithCause(err)
	}
	found := err == nil

	switch c {
	case ContextPasswordReset:
		if !found {
			return "", ErrUserNotFound
		}
		if !s.resetAllowed(existing.Role) {
			return "", ErrRoleNotEligible
		}
		return existing.FirstName, nil
	default:
		if found {
			return "", ErrEmailAlreadyRegistered
		}
		switch p := payload.(type) {
		case DonorSignupPayload:
			return p.FirstName, nil
		case BeneficiarySignupPayload:
			return p.FirstName, nil
		}
		return "", nil
	}
}

// generateCode returns n uniformly random decimal digits, zero padded.
func generateCode(n int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}
