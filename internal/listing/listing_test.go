package listing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/unimarket/internal/listing"
)

func TestPlanFor(t *testing.T) {
	tests := []struct {
		tier     listing.Tier
		name     string
		duration time.Duration
		price    string
	}{
		{tier: listing.TierBasic, name: "Basic", duration: 7 * 24 * time.Hour, price: "4.99"},
		{tier: listing.TierPremium, name: "Premium", duration: 14 * 24 * time.Hour, price: "9.99"},
		{tier: listing.TierFeatured, name: "Featured", duration: 30 * 24 * time.Hour, price: "19.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := listing.PlanFor(tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.duration, p.Duration)
			assert.Equal(t, tt.price, p.Price.StringFixed(2))
		})
	}

	for _, bad := range []listing.Tier{0, 4, -1} {
		_, err := listing.PlanFor(bad)
		assert.ErrorIs(t, err, listing.ErrInvalidTier)
	}
}

func TestListing_Purchasable(t *testing.T) {
	assert.True(t, (&listing.Listing{Status: listing.StatusActive, IsAvailable: true}).Purchasable())
	assert.False(t, (&listing.Listing{Status: listing.StatusActive, IsAvailable: false}).Purchasable())
	assert.False(t, (&listing.Listing{Status: listing.StatusSold, IsAvailable: true}).Purchasable())
}

type fakeRepo struct {
	clearedAt time.Time
	cleared   int64
}

func (f *fakeRepo) GetListing(context.Context, uuid.UUID) (*listing.Listing, error) {
	return nil, listing.ErrNotFound
}

func (f *fakeRepo) ClearExpiredSponsorships(_ context.Context, now time.Time) (int64, error) {
	f.clearedAt = now
	return f.cleared, nil
}

func TestService_ClearExpiredSponsorships(t *testing.T) {
	repo := &fakeRepo{cleared: 3}
	svc := listing.NewService(repo)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	n, err := svc.ClearExpiredSponsorships(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, now, repo.clearedAt)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, listing.ErrNotFound)
}
