package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/pagination"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx is a unit of work spanning the transaction, its listing and the
// notifications it produces.
type Tx interface {
	// SetStatus moves the transaction from one status to another and reports
	// whether the row was still in the from status. It never moves a
	// transaction whose funds are held in escrow.
	SetStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	MarkListingSold(ctx context.Context, listingID uuid.UUID) error
	CreateNotifications(ctx context.Context, ns []*notification.Notification) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	UserID uuid.UUID
	Role   Role
	Status *Status
	Cursor *pagination.Cursor
	Limit  int
}

type Page struct {
	Transactions []*Transaction
	NextCursor   string
}

// Get returns the transaction if the caller is its buyer or seller.
func (s *Service) Get(ctx context.Context, id, callerID uuid.UUID) (*Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if !t.IsParty(callerID) {
		return nil, ErrForbidden
	}

	return t, nil
}

// List returns one page of the caller's transactions, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	limit := pagination.ClampLimit(filter.Limit)
	filter.Limit = limit + 1

	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	items, next := pagination.Page(txs, limit, func(t *Transaction) (time.Time, uuid.UUID) {
		return t.CreatedAt, t.ID
	})

	return &Page{Transactions: items, NextCursor: next}, nil
}

// Act completes or cancels a pending transaction on behalf of one of its
// parties. Transactions with funds held in escrow are settled through the
// escrow instead.
func (s *Service) Act(ctx context.Context, callerID, id uuid.UUID, action Action) (*Transaction, error) {
	var to Status

	switch action {
	case ActionComplete:
		to = StatusCompleted
	case ActionCancel:
		to = StatusCancelled
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if !t.IsParty(callerID) {
		return nil, ErrForbidden
	}

	if t.Status != StatusPending {
		return nil, ErrInvalidState
	}

	if t.EscrowHeld() {
		return nil, ErrEscrowHeld
	}

	if action == ActionComplete && t.PaymentMethod == MethodPaystack && t.PaymentStatus != PaymentPaid {
		return nil, fmt.Errorf("%w: payment not captured", ErrInvalidState)
	}

	rtx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction update: %w", err)
	}
	defer rtx.Rollback()

	ok, err := rtx.SetStatus(ctx, t.ID, StatusPending, to)
	if err != nil {
		return nil, fmt.Errorf("updating transaction status: %w", err)
	}

	if !ok {
		return nil, ErrInvalidState
	}

	var n *notification.Notification

	if action == ActionComplete {
		if err := rtx.MarkListingSold(ctx, t.ListingID); err != nil {
			return nil, fmt.Errorf("marking listing sold: %w", err)
		}

		n = notification.New(t.BuyerID, notification.TypeTransaction,
			"Transaction Completed",
			fmt.Sprintf("Your transaction for %q has been completed", t.ListingTitle),
			map[string]string{"transactionId": t.ID.String()})
	} else {
		n = notification.New(t.SellerID, notification.TypeTransaction,
			"Transaction Cancelled",
			fmt.Sprintf("Your transaction for %q has been cancelled", t.ListingTitle),
			map[string]string{"transactionId": t.ID.String()})
	}

	if err := rtx.CreateNotifications(ctx, []*notification.Notification{n}); err != nil {
		return nil, fmt.Errorf("creating notifications: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction update: %w", err)
	}

	slog.InfoContext(ctx, "transaction updated", "transaction_id", t.ID, "action", action, "caller_id", callerID)

	t.Status = to

	return t, nil
}
