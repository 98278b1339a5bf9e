package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=escrow
type Repository interface {
	GetByTransaction(ctx context.Context, transactionID uuid.UUID) (*Escrow, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*Escrow, error)
	ListPending(ctx context.Context, limit int) ([]*Escrow, error)

	Begin(ctx context.Context) (Tx, error)
}

type Tx interface {
	// Transition moves a PENDING escrow to status and reports whether it was
	// still pending.
	Transition(ctx context.Context, id uuid.UUID, to Status, releaseDate *time.Time) (bool, error)
	SetTransactionStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status) (bool, error)
	MarkListingSold(ctx context.Context, listingID uuid.UUID) error
	CreateNotifications(ctx context.Context, ns []*notification.Notification) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo          Repository
	supportUserID uuid.UUID
	now           func() time.Time
}

// NewService creates the escrow service. Disputes notify supportUserID unless
// it is uuid.Nil.
func NewService(repo Repository, supportUserID uuid.UUID) *Service {
	return &Service{
		repo:          repo,
		supportUserID: supportUserID,
		now:           time.Now,
	}
}

// WithClock replaces the time source used to stamp release dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetByTransaction returns the escrow of a transaction the caller is party to.
func (s *Service) GetByTransaction(ctx context.Context, callerID, transactionID uuid.UUID) (*Escrow, error) {
	e, err := s.repo.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !e.Transaction.IsParty(callerID) {
		return nil, ErrForbidden
	}

	return e, nil
}

func (s *Service) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*Escrow, error) {
	return s.repo.ListOverdue(ctx, now, limit)
}

func (s *Service) ListPending(ctx context.Context, limit int) ([]*Escrow, error) {
	return s.repo.ListPending(ctx, limit)
}

// Act releases or disputes the escrow of a transaction. Only the buyer may
// act, and only while the escrow is pending.
func (s *Service) Act(ctx context.Context, callerID, transactionID uuid.UUID, action Action) (*Escrow, error) {
	if action != ActionRelease && action != ActionDispute {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	e, err := s.repo.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	t := e.Transaction
	if t.BuyerID != callerID {
		return nil, ErrForbidden
	}

	if e.Status != StatusPending {
		return nil, ErrInvalidState
	}

	now := s.now()
	data := map[string]string{"transactionId": t.ID.String()}

	switch action {
	case ActionRelease:
		err = s.transition(ctx, e, StatusReleased, &now, transaction.StatusCompleted, []*notification.Notification{
			notification.New(t.SellerID, notification.TypeTransaction, "Funds Released",
				fmt.Sprintf("The buyer has released the funds for %q", t.ListingTitle), data),
		})
	case ActionDispute:
		ns := []*notification.Notification{
			notification.New(t.SellerID, notification.TypeTransaction, "Transaction Disputed",
				fmt.Sprintf("A dispute has been opened for %q", t.ListingTitle), data),
		}

		if s.supportUserID != uuid.Nil {
			ns = append(ns, notification.New(s.supportUserID, notification.TypeDispute, "New Dispute",
				fmt.Sprintf("A new dispute has been opened for transaction %s", t.ID), data))
		} else {
			slog.WarnContext(ctx, "no support user configured, dispute not escalated", "transaction_id", t.ID)
		}

		err = s.transition(ctx, e, StatusDisputed, nil, transaction.StatusDisputed, ns)
	}

	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "escrow updated", "escrow_id", e.ID, "transaction_id", t.ID, "action", action)

	return e, nil
}

// ReleaseOverdue force-releases an escrow whose hold period has ended. It
// reports false when the escrow or its transaction was settled by someone
// else first.
func (s *Service) ReleaseOverdue(ctx context.Context, e *Escrow, now time.Time) (bool, error) {
	t := e.Transaction
	data := map[string]string{"transactionId": t.ID.String()}

	err := s.transition(ctx, e, StatusReleased, &now, transaction.StatusCompleted, []*notification.Notification{
		notification.New(t.SellerID, notification.TypeTransaction, "Escrow Released",
			fmt.Sprintf("The escrow period has ended and funds have been released for %q", t.ListingTitle), data),
		notification.New(t.BuyerID, notification.TypeTransaction, "Escrow Released",
			fmt.Sprintf("The escrow period has ended for %q", t.ListingTitle), data),
	})
	if err != nil {
		if errors.Is(err, ErrTransactionSettled) {
			slog.WarnContext(ctx, "escrow transaction already settled, leaving escrow for review",
				"escrow_id", e.ID,
				"transaction_id", t.ID,
				"transaction_status", t.Status,
			)

			return false, nil
		}

		if errors.Is(err, ErrInvalidState) {
			return false, nil
		}

		return false, err
	}

	slog.InfoContext(ctx, "auto-released escrow", "escrow_id", e.ID, "transaction_id", t.ID, "release_due", e.ReleaseDue)

	return true, nil
}

// transition applies an escrow state change together with the transaction
// status and notifications in one unit of work.
func (s *Service) transition(
	ctx context.Context,
	e *Escrow,
	to Status,
	releaseDate *time.Time,
	txStatus transaction.Status,
	ns []*notification.Notification,
) error {
	t := e.Transaction

	rtx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin escrow update: %w", err)
	}
	defer rtx.Rollback()

	ok, err := rtx.Transition(ctx, e.ID, to, releaseDate)
	if err != nil {
		return fmt.Errorf("updating escrow: %w", err)
	}

	if !ok {
		return ErrInvalidState
	}

	ok, err = rtx.SetTransactionStatus(ctx, t.ID, transaction.StatusPending, txStatus)
	if err != nil {
		return fmt.Errorf("updating transaction status: %w", err)
	}

	if !ok {
		return ErrTransactionSettled
	}

	if to == StatusReleased {
		if err := rtx.MarkListingSold(ctx, t.ListingID); err != nil {
			return fmt.Errorf("marking listing sold: %w", err)
		}
	}

	if err := rtx.CreateNotifications(ctx, ns); err != nil {
		return fmt.Errorf("creating notifications: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return fmt.Errorf("commit escrow update: %w", err)
	}

	e.Status = to
	e.ReleaseDate = releaseDate
	t.Status = txStatus

	return nil
}
