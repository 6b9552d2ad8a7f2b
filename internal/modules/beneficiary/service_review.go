package beneficiary

import (
	"context"
	"errors"
	"strings"

	"github.com/delordemm1/gooddeeds-api/internal/events"
	"github.com/delordemm1/gooddeeds-api/internal/notification"
	"github.com/delordemm1/gooddeeds-api/internal/notification/templates"
)

// Page is one page of the admin listing.
type Page struct {
	Items  []Profile `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// ReviewResult reports the reviewed profile and whether the family was emailed.
type ReviewResult struct {
	Profile   *Profile
	EmailSent bool
}

func (s *service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.logger.Error("get beneficiary failed", "error", err, "beneficiary_id", id)
		return nil, ErrInternal.WithCause(err)
	}
	return p, nil
}

func (s *service) List(ctx context.Context, f ListFilter) (*Page, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("list beneficiaries failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if items == nil {
		items = []Profile{}
	}
	return &Page{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	st, err := s.repo.Statistics(ctx)
	if err != nil {
		s.logger.Error("beneficiary statistics failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return st, nil
}

// Approve moves a pending profile to approved and notifies the family.
func (s *service) Approve(ctx context.Context, id string) (*ReviewResult, error) {
	return s.resolve(ctx, id, StatusApproved, nil)
}

// Reject moves a pending profile to rejected with reason and notifies the family.
func (s *service) Reject(ctx context.Context, id, reason string) (*ReviewResult, error) {
	reason = strings.TrimSpace(reason)
	var r *string
	if reason != "" {
		r = &reason
	}
	return s.resolve(ctx, id, StatusRejected, r)
}

func (s *service) resolve(ctx context.Context, id string, to Status, reason *string) (*ReviewResult, error) {
	p, err := s.repo.Resolve(ctx, id, to, reason, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if errors.Is(err, ErrAlreadyProcessed) {
			if p != nil {
				return nil, ErrAlreadyProcessed.WithDetail("beneficiary is already " + string(p.Status))
			}
			return nil, err
		}
		s.logger.Error("beneficiary review failed", "error", err, "beneficiary_id", id, "status", to)
		return nil, ErrInternal.WithCause(err)
	}

	s.metrics.BeneficiaryReview.WithLabelValues(string(to)).Inc()
	s.logger.Info("beneficiary reviewed", "beneficiary_id", p.ID, "status", to)

	sent := s.sendReviewEmail(ctx, p)

	subject := events.BeneficiaryApproved
	if to == StatusRejected {
		subject = events.BeneficiaryRejected
	}
	ev := events.BeneficiaryReviewedEvent{
		BeneficiaryID: p.ID,
		UserID:        p.UserID,
		Status:        string(p.Status),
		ProcessedAt:   s.now(),
	}
	if p.ProcessedAt != nil {
		ev.ProcessedAt = *p.ProcessedAt
	}
	if p.RejectionReason != nil {
		ev.Reason = *p.RejectionReason
	}
	if err := s.publisher.Publish(ctx, subject, ev); err != nil {
		s.logger.Warn("publish review event failed", "error", err, "beneficiary_id", p.ID)
	}

	return &ReviewResult{Profile: p, EmailSent: sent}, nil
}

// sendReviewEmail notifies the family of the decision. Failure does not undo the review.
func (s *service) sendReviewEmail(ctx context.Context, p *Profile) bool {
	channels := []notification.Channel{notification.ChannelEmail}
	support := s.config.Mail.SupportEmail

	var err error
	switch p.Status {
	case StatusApproved:
		err = notification.SendTemplate(ctx, s.notifier, templates.BeneficiaryApproved, p.Owner.Email, channels,
			notification.PriorityMedium, templates.BeneficiaryApprovedData{FirstName: p.Owner.FirstName, SupportEmail: support})
	case StatusRejected:
		data := templates.BeneficiaryRejectedData{FirstName: p.Owner.FirstName, SupportEmail: support}
		if p.RejectionReason != nil {
			data.Reason = *p.RejectionReason
		}
		err = notification.SendTemplate(ctx, s.notifier, templates.BeneficiaryRejected, p.Owner.Email, channels,
			notification.PriorityMedium, data)
	default:
		return false
	}
	if err != nil {
		s.logger.Warn("review email failed", "error", err, "beneficiary_id", p.ID)
		return false
	}
	return true
}
