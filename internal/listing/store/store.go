package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectListingColumns = `
	id, user_id, title, price, status, is_available, is_sponsored,
	sponsored_tier, sponsored_until, created_at, updated_at
`

// Get reads a listing through q.
func Get(ctx context.Context, q database.Querier, id uuid.UUID) (*listing.Listing, error) {
	query := `SELECT ` + selectListingColumns + ` FROM listings WHERE id = $1`

	var (
		l         listing.Listing
		statusStr string
		tier      sql.NullInt16
	)

	err := q.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Price, &statusStr, &l.IsAvailable, &l.IsSponsored,
		&tier, &l.SponsoredUntil, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, listing.ErrNotFound
		}

		return nil, fmt.Errorf("getting listing: %w", err)
	}

	l.Status = listing.Status(statusStr)

	if tier.Valid {
		l.SponsoredTier = new(listing.Tier(tier.Int16))
	}

	return &l, nil
}

// Reserve takes the listing off the market and moves it to status. It only
// touches listings that are still available, so the flip happens once;
// listing.ErrUnavailable is returned to every later caller.
func Reserve(ctx context.Context, q database.Querier, id uuid.UUID, status listing.Status) error {
	query := `
		UPDATE listings
		SET status = $1, is_available = FALSE, updated_at = NOW()
		WHERE id = $2 AND is_available = TRUE
	`

	res, err := q.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("reserving listing: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserving listing: %w", err)
	}

	if n == 0 {
		return listing.ErrUnavailable
	}

	return nil
}

// MarkSold finalises the sale of a listing that an escrow or an offline
// transaction already took off the market.
func MarkSold(ctx context.Context, q database.Querier, id uuid.UUID) error {
	query := `
		UPDATE listings
		SET status = $1, is_available = FALSE, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := q.ExecContext(ctx, query, listing.StatusSold, id); err != nil {
		return fmt.Errorf("marking listing sold: %w", err)
	}

	return nil
}

// ApplySponsorship boosts the listing until the given time.
func ApplySponsorship(ctx context.Context, q database.Querier, id uuid.UUID, tier listing.Tier, until time.Time) error {
	query := `
		UPDATE listings
		SET is_sponsored = TRUE, sponsored_tier = $1, sponsored_until = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := q.ExecContext(ctx, query, int16(tier), until, id)
	if err != nil {
		return fmt.Errorf("applying sponsorship: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("applying sponsorship: %w", err)
	}

	if n == 0 {
		return listing.ErrNotFound
	}

	return nil
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return Get(ctx, s.db, id)
}

// ClearExpiredSponsorships resets every expired boost in a single statement.
func (s *Store) ClearExpiredSponsorships(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE listings
		SET is_sponsored = FALSE, sponsored_tier = NULL, sponsored_until = NULL, updated_at = NOW()
		WHERE is_sponsored = TRUE AND sponsored_until < $1
	`

	res, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("clearing expired sponsorships: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing expired sponsorships: %w", err)
	}

	return n, nil
}
