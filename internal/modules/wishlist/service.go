package wishlist

import (
	"context"
	"errors"
	"log/slog"

	"github.com/delordemm1/gooddeeds-api/internal/domainerr"
)

// Service manages a beneficiary's desired items.
type Service interface {
	ReplaceAll(ctx context.Context, userID string, items []Item) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Grouped(ctx context.Context, userID string) ([]CategoryGroup, error)
	// GroupedFor returns the grouped desired items of several families keyed by user ID.
	GroupedFor(ctx context.Context, userIDs []string) (map[string][]CategoryGroup, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// Config holds the dependencies for the wishlist service.
type Config struct {
	Repo   Repository
	Logger *slog.Logger
}

func NewService(cfg *Config) Service {
	return &service{repo: cfg.Repo, logger: cfg.Logger}
}

func (s *service) ReplaceAll(ctx context.Context, userID string, items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ProductID]; dup {
			return ErrDuplicateProduct.WithContext(map[string]string{"productId": it.ProductID})
		}
		seen[it.ProductID] = struct{}{}
		if !validQuantity(it.Quantity) {
			return ErrInvalidQuantity
		}
	}

	if err := s.repo.ReplaceAll(ctx, userID, items); err != nil {
		return s.mapErr("replace desired items failed", err, userID)
	}
	s.logger.Info("desired items replaced", "user_id", userID, "count", len(items))
	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}
	if err := s.repo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return s.mapErr("update desired item failed", err, userID)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID string) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return s.mapErr("remove desired item failed", err, userID)
	}
	return nil
}

func (s *service) Grouped(ctx context.Context, userID string) ([]CategoryGroup, error) {
	rows, err := s.repo.ListGrouped(ctx, []string{userID})
	if err != nil {
		s.logger.Error("list desired items failed", "error", err, "user_id", userID)
		return nil, ErrInternal.WithCause(err)
	}
	return group(rows), nil
}

func (s *service) GroupedFor(ctx context.Context, userIDs []string) (map[string][]CategoryGroup, error) {
	rows, err := s.repo.ListGrouped(ctx, userIDs)
	if err != nil {
		s.logger.Error("list desired items failed", "error", err, "users", len(userIDs))
		return nil, ErrInternal.WithCause(err)
	}

	perUser := make(map[string][]groupedRow, len(userIDs))
	for _, r := range rows {
		perUser[r.UserID] = append(perUser[r.UserID], r)
	}
	out := make(map[string][]CategoryGroup, len(userIDs))
	for _, id := range userIDs {
		out[id] = group(perUser[id])
	}
	return out, nil
}

func (s *service) mapErr(msg string, err error, userID string) error {
	var de *domainerr.DomainError
	if errors.As(err, &de) {
		return err
	}
	s.logger.Error(msg, "error", err, "user_id", userID)
	return ErrInternal.WithCause(err)
}

func validQuantity(q int) bool {
	return q >= 1 && q <= MaxQuantity
}
