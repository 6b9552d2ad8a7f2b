package beneficiary

import (
	"context"
	"errors"
)

// SelfStatus is what a beneficiary sees about their own review.
type SelfStatus struct {
	Status          Status `json:"status"`
	Message         string `json:"message"`
	RejectionReason string `json:"rejectionReason,omitempty"`
	HasLocation     bool   `json:"hasLocation"`
}

var statusMessages = map[Status]string{
	StatusPending:  "Your application is under review. We will email you once a decision is made.",
	StatusApproved: "Your application has been approved. Donors can now find your family.",
	StatusRejected: "Your application was not approved.",
}

func (s *service) ForUser(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("get beneficiary by user failed", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}
	return p, nil
}

func (s *service) StatusForUser(ctx context.Context, userID string) (*SelfStatus, error) {
	p, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &SelfStatus{
		Status:      p.Status,
		Message:     statusMessages[p.Status],
		HasLocation: p.Latitude != nil && p.Longitude != nil,
	}
	if p.Status == StatusRejected && p.RejectionReason != nil {
		out.RejectionReason = *p.RejectionReason
	}
	return out, nil
}

// UpdateLocation stores both coordinates of the caller's profile.
func (s *service) UpdateLocation(ctx context.Context, userID string, c Coordinate) (*Profile, error) {
	if err := ValidateCoordinate(c); err != nil {
		return nil, err
	}
	p, err := s.repo.UpdateLocation(ctx, userID, c)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("update beneficiary location failed", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}
	s.logger.Info("beneficiary location updated", "user_id", userID)
	return p, nil
}
