package listing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("listing not found")
	ErrUnavailable = errors.New("listing is not available")
	ErrInvalidTier = errors.New("invalid sponsorship tier")
)

// Status represents the sale state of a listing.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusPending Status = "PENDING" // paid, funds held in escrow
	StatusSold    Status = "SOLD"
)

// Listing is an item offered for sale on the marketplace.
type Listing struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Title          string
	Price          int64 // Price in minor units
	Status         Status
	IsAvailable    bool
	IsSponsored    bool
	SponsoredTier  *Tier
	SponsoredUntil *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Purchasable reports whether a buyer may start a transaction on the listing.
func (l *Listing) Purchasable() bool {
	return l.Status == StatusActive && l.IsAvailable
}

// Tier is a paid visibility boost level.
type Tier int

const (
	TierBasic    Tier = 1
	TierPremium  Tier = 2
	TierFeatured Tier = 3
)

// Plan describes what a tier costs and how long it lasts.
type Plan struct {
	Tier     Tier
	Name     string
	Duration time.Duration
	Price    decimal.Decimal // Price in major units
}

var plans = map[Tier]Plan{
	TierBasic:    {Tier: TierBasic, Name: "Basic", Duration: 7 * 24 * time.Hour, Price: decimal.RequireFromString("4.99")},
	TierPremium:  {Tier: TierPremium, Name: "Premium", Duration: 14 * 24 * time.Hour, Price: decimal.RequireFromString("9.99")},
	TierFeatured: {Tier: TierFeatured, Name: "Featured", Duration: 30 * 24 * time.Hour, Price: decimal.RequireFromString("19.99")},
}

func PlanFor(t Tier) (Plan, error) {
	p, ok := plans[t]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidTier, t)
	}

	return p, nil
}

// SponsorshipStatus tracks the payment of a sponsorship order.
type SponsorshipStatus string

const (
	SponsorshipPending SponsorshipStatus = "PENDING"
	SponsorshipPaid    SponsorshipStatus = "PAID"
	SponsorshipFailed  SponsorshipStatus = "FAILED"
)

// Sponsorship is an order to boost a listing, settled through the gateway.
type Sponsorship struct {
	ID            uuid.UUID
	ListingID     uuid.UUID
	UserID        uuid.UUID
	Tier          Tier
	Amount        int64 // Amount in minor units
	Reference     string
	PaymentStatus SponsorshipStatus
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
