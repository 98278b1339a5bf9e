package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	escrowStore "github.com/MrJamesThe3rd/unimarket/internal/escrow/store"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
	listingStore "github.com/MrJamesThe3rd/unimarket/internal/listing/store"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/unimarket/internal/notification/store"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
	txStore "github.com/MrJamesThe3rd/unimarket/internal/transaction/store"
)

// Store backs checkout with the listing, transaction, escrow and notification
// tables.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return listingStore.Get(ctx, s.db, id)
}

func (s *Store) FindTransactionByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	return txStore.GetByReference(ctx, s.db, reference)
}

func (s *Store) FindSponsorshipByReference(ctx context.Context, reference string) (*listing.Sponsorship, error) {
	return listingStore.GetSponsorshipByReference(ctx, s.db, reference)
}

type checkoutTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (payment.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning checkout tx: %w", err)
	}

	return &checkoutTx{tx: dbTx}, nil
}

func (c *checkoutTx) Commit() error   { return c.tx.Commit() }
func (c *checkoutTx) Rollback() error { return c.tx.Rollback() }

func (c *checkoutTx) CreateTransaction(ctx context.Context, t *transaction.Transaction) error {
	return txStore.Insert(ctx, c.tx, t)
}

func (c *checkoutTx) ClaimTransactionPayment(ctx context.Context, id uuid.UUID, to transaction.PaymentStatus) (bool, error) {
	return txStore.ClaimPayment(ctx, c.tx, id, to)
}

func (c *checkoutTx) SetTransactionStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status) (bool, error) {
	return txStore.SetStatus(ctx, c.tx, id, from, to)
}

func (c *checkoutTx) ReserveListing(ctx context.Context, listingID uuid.UUID) error {
	return listingStore.Reserve(ctx, c.tx, listingID, listing.StatusPending)
}

// MarkListingSold sells the listing straight off the market, so a second
// paid checkout for it finds it unavailable.
func (c *checkoutTx) MarkListingSold(ctx context.Context, listingID uuid.UUID) error {
	return listingStore.Reserve(ctx, c.tx, listingID, listing.StatusSold)
}

func (c *checkoutTx) CreateEscrow(ctx context.Context, e *escrow.Escrow) error {
	return escrowStore.Insert(ctx, c.tx, e)
}

func (c *checkoutTx) CreateSponsorship(ctx context.Context, s *listing.Sponsorship) error {
	return listingStore.InsertSponsorship(ctx, c.tx, s)
}

func (c *checkoutTx) ClaimSponsorshipPayment(ctx context.Context, id uuid.UUID, to listing.SponsorshipStatus) (bool, error) {
	return listingStore.ClaimSponsorshipPayment(ctx, c.tx, id, to)
}

func (c *checkoutTx) ApplySponsorship(ctx context.Context, listingID uuid.UUID, tier listing.Tier, until time.Time) error {
	return listingStore.ApplySponsorship(ctx, c.tx, listingID, tier, until)
}

func (c *checkoutTx) CreateNotifications(ctx context.Context, ns []*notification.Notification) error {
	return notificationStore.Insert(ctx, c.tx, ns)
}
