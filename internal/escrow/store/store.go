package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	listingStore "github.com/MrJamesThe3rd/unimarket/internal/listing/store"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/unimarket/internal/notification/store"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
	txStore "github.com/MrJamesThe3rd/unimarket/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// The transaction columns come first so txStore.Scan can read them.
const selectEscrowQuery = `SELECT ` + txStore.Columns + `,
		e.id, e.transaction_id, e.amount, e.status, e.release_due, e.release_date, e.created_at, e.updated_at
	FROM escrows e
	JOIN transactions t ON t.id = e.transaction_id
	JOIN listings l ON l.id = t.listing_id`

func scanEscrow(s txStore.Scanner) (*escrow.Escrow, error) {
	var (
		e         escrow.Escrow
		statusStr string
	)

	t, err := txStore.Scan(s,
		&e.ID, &e.TransactionID, &e.Amount, &statusStr, &e.ReleaseDue, &e.ReleaseDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Status = escrow.Status(statusStr)
	e.Transaction = t

	return &e, nil
}

// Insert creates a pending escrow through q.
func Insert(ctx context.Context, q database.Querier, e *escrow.Escrow) error {
	query := `
		INSERT INTO escrows (transaction_id, amount, status, release_due, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	if err := q.QueryRowContext(ctx, query, e.TransactionID, e.Amount, e.Status, e.ReleaseDue).
		Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("creating escrow: %w", err)
	}

	return nil
}

func (s *Store) GetByTransaction(ctx context.Context, transactionID uuid.UUID) (*escrow.Escrow, error) {
	e, err := scanEscrow(s.db.QueryRowContext(ctx, selectEscrowQuery+` WHERE e.transaction_id = $1`, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, escrow.ErrNotFound
		}

		return nil, fmt.Errorf("getting escrow: %w", err)
	}

	return e, nil
}

func (s *Store) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*escrow.Escrow, error) {
	query := selectEscrowQuery + `
		WHERE e.status = $1 AND e.release_due < $2 AND t.status = $4
		ORDER BY e.release_due ASC
		LIMIT $3`

	return s.list(ctx, query, escrow.StatusPending, now, limit, transaction.StatusPending)
}

func (s *Store) ListPending(ctx context.Context, limit int) ([]*escrow.Escrow, error) {
	query := selectEscrowQuery + `
		WHERE e.status = $1
		ORDER BY e.release_due ASC
		LIMIT $2`

	return s.list(ctx, query, escrow.StatusPending, limit)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*escrow.Escrow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing escrows: %w", err)
	}
	defer rows.Close()

	var es []*escrow.Escrow

	for rows.Next() {
		e, err := scanEscrow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning escrow: %w", err)
		}

		es = append(es, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating escrows: %w", err)
	}

	return es, nil
}

type escrowTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (escrow.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning escrow tx: %w", err)
	}

	return &escrowTx{tx: dbTx}, nil
}

func (etx *escrowTx) Commit() error   { return etx.tx.Commit() }
func (etx *escrowTx) Rollback() error { return etx.tx.Rollback() }

// Transition only matches escrows that are still pending, so concurrent
// releases and disputes cannot both win.
func (etx *escrowTx) Transition(ctx context.Context, id uuid.UUID, to escrow.Status, releaseDate *time.Time) (bool, error) {
	query := `
		UPDATE escrows
		SET status = $1, release_date = COALESCE($2, release_date), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	res, err := etx.tx.ExecContext(ctx, query, to, releaseDate, id, escrow.StatusPending)
	if err != nil {
		return false, fmt.Errorf("transitioning escrow: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transitioning escrow: %w", err)
	}

	return n == 1, nil
}

func (etx *escrowTx) SetTransactionStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status) (bool, error) {
	return txStore.SetStatus(ctx, etx.tx, id, from, to)
}

func (etx *escrowTx) MarkListingSold(ctx context.Context, listingID uuid.UUID) error {
	return listingStore.MarkSold(ctx, etx.tx, listingID)
}

func (etx *escrowTx) CreateNotifications(ctx context.Context, ns []*notification.Notification) error {
	return notificationStore.Insert(ctx, etx.tx, ns)
}
