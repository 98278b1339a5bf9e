package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
)

func InsertSponsorship(ctx context.Context, q database.Querier, s *listing.Sponsorship) error {
	query := `
		INSERT INTO sponsorships (listing_id, user_id, tier, amount, reference, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	if err := q.QueryRowContext(ctx, query, s.ListingID, s.UserID, int16(s.Tier), s.Amount, s.Reference, s.PaymentStatus).
		Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("creating sponsorship: %w", err)
	}

	return nil
}

// GetSponsorshipByReference returns listing.ErrNotFound for unknown references.
func GetSponsorshipByReference(ctx context.Context, q database.Querier, reference string) (*listing.Sponsorship, error) {
	query := `
		SELECT id, listing_id, user_id, tier, amount, reference, payment_status, created_at, updated_at
		FROM sponsorships
		WHERE reference = $1
	`

	var (
		s         listing.Sponsorship
		tier      int16
		statusStr string
	)

	err := q.QueryRowContext(ctx, query, reference).Scan(
		&s.ID, &s.ListingID, &s.UserID, &tier, &s.Amount, &s.Reference, &statusStr, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, listing.ErrNotFound
		}

		return nil, fmt.Errorf("getting sponsorship: %w", err)
	}

	s.Tier = listing.Tier(tier)
	s.PaymentStatus = listing.SponsorshipStatus(statusStr)

	return &s, nil
}

// ClaimSponsorshipPayment settles a sponsorship that is still pending.
func ClaimSponsorshipPayment(ctx context.Context, q database.Querier, id uuid.UUID, to listing.SponsorshipStatus) (bool, error) {
	query := `
		UPDATE sponsorships
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = $3
	`

	res, err := q.ExecContext(ctx, query, to, id, listing.SponsorshipPending)
	if err != nil {
		return false, fmt.Errorf("claiming sponsorship payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming sponsorship payment: %w", err)
	}

	return n == 1, nil
}
