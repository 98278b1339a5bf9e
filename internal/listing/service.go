package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	ClearExpiredSponsorships(ctx context.Context, now time.Time) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return s.repo.GetListing(ctx, id)
}

// ClearExpiredSponsorships drops the boost from every listing whose
// sponsorship ended before now and returns how many listings changed.
func (s *Service) ClearExpiredSponsorships(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.ClearExpiredSponsorships(ctx, now)
}
