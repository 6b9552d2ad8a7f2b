package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	proofTokenTTL     = 10 * time.Minute
	proofTokenPurpose = "password_reset"
)

// Verify checks a code issued for context c and finalizes its workflow.
func (s *service) Verify(ctx context.Context, email, code string, c Context) (*Result, error) {
	email = user.NormalizeEmail(email)
	if !c.Valid() {
		return nil, ErrInvalidOrExpiredCode
	}
	rec, err := s.findValid(ctx, email, code, &c)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, rec)
}

func (s *service) VerifyAndFinalize(ctx context.Context, email, code string) (*Result, error) {
	email = user.NormalizeEmail(email)
	rec, err := s.findValid(ctx, email, code, nil)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, rec)
}

func (s *service) findValid(ctx context.Context, email, code string, c *Context) (*VerificationCode, error) {
	rec, err := s.repo.FindValid(ctx, email, code, c, s.now())
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpiredCode) {
			label := "any"
			if c != nil {
				label = string(*c)
			}
			s.metrics.CodeVerifyFailed.WithLabelValues(label).Inc()
			return nil, ErrInvalidOrExpiredCode
		}
		s.logger.Error("verification code lookup failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return rec, nil
}

func (s *service) finalize(ctx context.Context, rec *VerificationCode) (*Result, error) {
	fin, ok := s.finalizers[rec.Context]
	if !ok {
		s.logger.Error("no finalizer for verification context", "context", rec.Context)
		return nil, ErrInternal.WithDetail(fmt.Sprintf("unsupported verification context %q", rec.Context))
	}
	res, err := fin(ctx, rec)
	if err != nil {
		return nil, err
	}
	s.metrics.CodesVerified.WithLabelValues(string(rec.Context)).Inc()

	if _, err := s.purgeExpired(ctx, rec.Email); err != nil {
		s.logger.Warn("purge expired codes after verify failed", "error", err)
	}
	return res, nil
}

func (s *service) finalizeDonorSignup(ctx context.Context, rec *VerificationCode) (*Result, error) {
	payload, err := decodePayload(rec)
	if err != nil {
		return nil, ErrAccountCreationFailed.WithCause(err)
	}
	p, ok := payload.(DonorSignupPayload)
	if !ok {
		return nil, ErrPayloadMismatch
	}

	u, err := newVerifiedUser(rec.Email, user.RoleDonor, p)
	if err != nil {
		return nil, ErrAccountCreationFailed.WithCause(err)
	}
	err = s.uow.RunInTx(ctx, func(st TxStores) error {
		if err := st.Accounts.Create(ctx, u); err != nil {
			return err
		}
		return st.Codes.MarkUsed(ctx, rec.ID)
	})
	if err != nil {
		return nil, s.accountCreationError(err, rec)
	}

	s.accountCreated(ctx, u, "")
	return &Result{Context: rec.Context, User: u}, nil
}

// finalizeBeneficiarySignup creates the account and its pending profile in one
// transaction. Either both rows exist afterwards or neither does.
func (s *service) finalizeBeneficiarySignup(ctx context.Context, rec *VerificationCode) (*Result, error) {
	payload, err := decodePayload(rec)
	if err != nil {
		return nil, ErrAccountCreationFailed.WithCause(err)
	}
	p, ok := payload.(BeneficiarySignupPayload)
	if !ok {
		return nil, ErrPayloadMismatch
	}

	u, err := newVerifiedUser(rec.Email, user.RoleBeneficiary, p.DonorSignupPayload)
	if err != nil {
		return nil, ErrAccountCreationFailed.WithCause(err)
	}
	profile, err := beneficiary.NewPendingProfile(u.ID, p.Details())
	if err != nil {
		return nil, ErrAccountCreationFailed.WithCause(err)
	}

	err = s.uow.RunInTx(ctx, func(st TxStores) error {
		if err := st.Accounts.Create(ctx, u); err != nil {
			return err
		}
		if err := st.Profiles.Create(ctx, profile); err != nil {
			return err
		}
		return st.Codes.MarkUsed(ctx, rec.ID)
	})
	if err != nil {
		return nil, s.accountCreationError(err, rec)
	}

	s.accountCreated(ctx, u, profile.ID)
	return &Result{Context: rec.Context, User: u, Profile: profile}, nil
}

// finalizePasswordReset leaves the code unused; ResetPassword consumes it.
func (s *service) finalizePasswordReset(_ context.Context, rec *VerificationCode) (*Result, error) {
	expires := s.now().Add(proofTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     rec.Email,
		"purpose": proofTokenPurpose,
		"iat":     s.now().Unix(),
		"exp":     expires.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, ErrInternal.WithCause(fmt.Errorf("sign proof token: %w", err))
	}
	return &Result{Context: rec.Context, ProofToken: signed, ProofExpiresAt: expires}, nil
}

func (s *service) accountCreationError(err error, rec *VerificationCode) error {
	switch {
	case errors.Is(err, ErrInvalidOrExpiredCode):
		// Verified concurrently by another request.
		return ErrInvalidOrExpiredCode
	case errors.Is(err, user.ErrEmailExists):
		return ErrEmailAlreadyRegistered
	}
	s.logger.Error("account creation failed", "error", err, "context", rec.Context)
	return ErrAccountCreationFailed.WithCause(err)
}

func (s *service) accountCreated(ctx context.Context, u *user.User, beneficiaryID string) {
	s.metrics.AccountsCreated.WithLabelValues(string(u.Role), "signup").Inc()
	s.logger.Info("account created", "user_id", u.ID, "role", u.Role)
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		UserID:        u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		BeneficiaryID: beneficiaryID,
		CreatedAt:     u.CreatedAt,
	})
}

func newVerifiedUser(email string, role user.Role, p DonorSignupPayload) (*user.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	var phone *string
	if p.PhoneNumber != "" {
		phone = &p.PhoneNumber
	}
	hash := p.PasswordHash
	now := time.Now()
	return &user.User{
		ID:              id.String(),
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           email,
		PhoneNumber:     phone,
		PasswordHash:    &hash,
		Role:            role,
		EmailVerified:   true,
		ProfileComplete: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
