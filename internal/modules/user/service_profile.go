package user

import (
	"context"
	"errors"
	"strings"

	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
)

// Me is the signed-in user with their beneficiary profile, if any.
type Me struct {
	User        *User
	Beneficiary *beneficiary.Profile
}

// UpdateProfileInput defines the updatable fields for a user's profile.
// Using pointers allows us to distinguish between a field not being provided (nil)
// and a field being set to its zero value (e.g., an empty string).
type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// CompleteProfileInput finishes an account created through social login.
// Household is required for beneficiaries and ignored for donors.
type CompleteProfileInput struct {
	PhoneNumber string
	Household   *beneficiary.Details
}

type CompleteProfileResult struct {
	User          *User
	BeneficiaryID string
}

// Me retrieves a single user's profile by their ID.
func (s *service) Me(ctx context.Context, userID string) (*Me, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get user profile from repository", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}

	out := &Me{User: user}
	if user.Role == RoleBeneficiary {
		p, err := s.profiles.ForUser(ctx, userID)
		switch {
		case err == nil:
			out.Beneficiary = p
		case errors.Is(err, beneficiary.ErrNotFound):
			// Social sign-ups have no profile until they complete it.
		default:
			return nil, err
		}
	}
	return out, nil
}

// UpdateProfile updates a user's profile information.
func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to find user for profile update", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.PhoneNumber != nil {
		phone := strings.TrimSpace(*input.PhoneNumber)
		user.PhoneNumber = &phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user profile in repository", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("user profile updated successfully", "user_id", user.ID)
	return user, nil
}

// CompleteProfile stores the missing details of a social sign-up. For beneficiaries
// the pending household profile is created in the same transaction.
func (s *service) CompleteProfile(ctx context.Context, userID string, input CompleteProfileInput) (*CompleteProfileResult, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to find user for profile completion", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}
	if user.ProfileComplete {
		return nil, ErrProfileAlreadyComplete
	}
	if user.Role == RoleBeneficiary && input.Household == nil {
		return nil, ErrHouseholdRequired
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	user.PhoneNumber = &phone
	user.ProfileComplete = true

	result := &CompleteProfileResult{User: user}
	err = s.tx.RunInTx(ctx, func(st Stores) error {
		if err := st.Users.Update(ctx, user); err != nil {
			return err
		}
		if user.Role != RoleBeneficiary {
			return nil
		}
		p, err := beneficiary.NewPendingProfile(user.ID, *input.Household)
		if err != nil {
			return err
		}
		if err := st.Profiles.Create(ctx, p); err != nil {
			return err
		}
		result.BeneficiaryID = p.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, beneficiary.ErrProfileExists) {
			return nil, err
		}
		s.logger.Error("profile completion failed", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}

	s.logger.Info("profile completed", "user_id", user.ID, "role", user.Role)
	if result.BeneficiaryID != "" {
		s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
			UserID:        user.ID,
			Email:         user.Email,
			Role:          string(user.Role),
			BeneficiaryID: result.BeneficiaryID,
			CreatedAt:     user.CreatedAt,
		})
	}
	return result, nil
}

// Delete removes an account; its profile, desired items and sessions cascade.
func (s *service) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return ErrCannotDeleteSelf
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return ErrInternal.WithCause(err)
	}
	s.logger.Info("user deleted", "user_id", userID, "by", actorID)
	return nil
}

func (s *service) publish(ctx context.Context, subject string, data any) {
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		s.logger.Warn("publish event failed", "subject", subject, "error", err)
	}
}
