package notification

import (
	"context"

	"github.com/google/uuid"
)

const defaultListLimit = 50

type Repository interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	return s.repo.ListNotifications(ctx, userID, unreadOnly, limit)
}

// MarkRead marks one of the user's notifications as read. Notifications that
// belong to someone else are reported as ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}
