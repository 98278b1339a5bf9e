package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/database"
	listingStore "github.com/MrJamesThe3rd/unimarket/internal/listing/store"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/unimarket/internal/notification/store"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Columns selects a transaction joined with its listing as t and l.
const Columns = `
	t.id, t.listing_id, l.title, t.buyer_id, t.seller_id, t.amount, t.payment_method,
	t.payment_status, t.payment_reference, t.status, t.escrow_enabled,
	t.meetup_location, t.meetup_time, t.created_at, t.updated_at
`

// Scan reads a row selected with Columns. Extra destinations are scanned
// after the transaction columns.
func Scan(s Scanner, extra ...any) (*transaction.Transaction, error) {
	var (
		t                        transaction.Transaction
		methodStr, statusStr     string
		paymentStatus, reference sql.NullString
		meetupLocation           sql.NullString
	)

	dest := []any{
		&t.ID, &t.ListingID, &t.ListingTitle, &t.BuyerID, &t.SellerID, &t.Amount, &methodStr,
		&paymentStatus, &reference, &statusStr, &t.EscrowEnabled,
		&meetupLocation, &t.MeetupTime, &t.CreatedAt, &t.UpdatedAt,
	}

	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	t.PaymentMethod = transaction.PaymentMethod(methodStr)
	t.PaymentStatus = transaction.PaymentStatus(paymentStatus.String)
	t.PaymentReference = reference.String
	t.Status = transaction.Status(statusStr)
	t.MeetupLocation = meetupLocation.String

	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Insert creates the transaction through q and fills in its ID and timestamps.
func Insert(ctx context.Context, q database.Querier, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			listing_id, buyer_id, seller_id, amount, payment_method, payment_status,
			payment_reference, status, escrow_enabled, meetup_location, meetup_time, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		t.ListingID,
		t.BuyerID,
		t.SellerID,
		t.Amount,
		t.PaymentMethod,
		nullString(string(t.PaymentStatus)),
		nullString(t.PaymentReference),
		t.Status,
		t.EscrowEnabled,
		nullString(t.MeetupLocation),
		t.MeetupTime,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

// Get reads a transaction through q.
func Get(ctx context.Context, q database.Querier, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + Columns + `
		FROM transactions t
		JOIN listings l ON l.id = t.listing_id
		WHERE t.id = $1`

	t, err := Scan(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

// GetByReference reads the transaction paid with the gateway reference.
func GetByReference(ctx context.Context, q database.Querier, reference string) (*transaction.Transaction, error) {
	query := `SELECT ` + Columns + `
		FROM transactions t
		JOIN listings l ON l.id = t.listing_id
		WHERE t.payment_reference = $1`

	t, err := Scan(q.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction by reference: %w", err)
	}

	return t, nil
}

// SetStatus moves a transaction between statuses only if it is still in from.
func SetStatus(ctx context.Context, q database.Querier, id uuid.UUID, from, to transaction.Status) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating transaction status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating transaction status: %w", err)
	}

	return n == 1, nil
}

// SetStatusUnlessHeld is SetStatus for direct party actions: it also refuses
// transactions whose captured payment sits in an escrow, even if the capture
// committed after the caller read the row.
func SetStatusUnlessHeld(ctx context.Context, q database.Querier, id uuid.UUID, from, to transaction.Status) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		  AND NOT (escrow_enabled AND payment_status = $4)
	`

	res, err := q.ExecContext(ctx, query, to, id, from, transaction.PaymentPaid)
	if err != nil {
		return false, fmt.Errorf("updating transaction status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating transaction status: %w", err)
	}

	return n == 1, nil
}

// ClaimPayment settles the payment status of a transaction that is still
// awaiting payment. Only one caller can claim a given transaction.
func ClaimPayment(ctx context.Context, q database.Querier, id uuid.UUID, to transaction.PaymentStatus) (bool, error) {
	query := `
		UPDATE transactions
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = $3
	`

	res, err := q.ExecContext(ctx, query, to, id, transaction.PaymentPending)
	if err != nil {
		return false, fmt.Errorf("claiming payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming payment: %w", err)
	}

	return n == 1, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return Get(ctx, s.db, id)
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + Columns + `
		FROM transactions t
		JOIN listings l ON l.id = t.listing_id`

	args := []any{filter.UserID}

	switch filter.Role {
	case transaction.RoleBuying:
		query += " WHERE t.buyer_id = $1"
	case transaction.RoleSelling:
		query += " WHERE t.seller_id = $1"
	default:
		query += " WHERE (t.buyer_id = $1 OR t.seller_id = $1)"
	}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (t.created_at, t.id) < ($%d, $%d)", argIdx, argIdx+1)

		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += fmt.Sprintf(" ORDER BY t.created_at DESC, t.id DESC LIMIT $%d", argIdx)

	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		t, err := Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

type updateTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction update: %w", err)
	}

	return &updateTx{tx: dbTx}, nil
}

func (u *updateTx) Commit() error   { return u.tx.Commit() }
func (u *updateTx) Rollback() error { return u.tx.Rollback() }

func (u *updateTx) SetStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status) (bool, error) {
	return SetStatusUnlessHeld(ctx, u.tx, id, from, to)
}

func (u *updateTx) MarkListingSold(ctx context.Context, listingID uuid.UUID) error {
	return listingStore.MarkSold(ctx, u.tx, listingID)
}

func (u *updateTx) CreateNotifications(ctx context.Context, ns []*notification.Notification) error {
	return notificationStore.Insert(ctx, u.tx, ns)
}
