// Package escrow holds a buyer's payment until the buyer releases it, opens a
// dispute, or the hold period runs out.
package escrow

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

var (
	ErrNotFound      = errors.New("escrow not found")
	ErrForbidden     = errors.New("only the buyer can act on an escrow")
	ErrInvalidState  = errors.New("escrow is not pending")
	ErrInvalidAction = errors.New("invalid escrow action")

	// ErrTransactionSettled means the escrow is still pending but its
	// transaction has already left PENDING, so the funds cannot follow it.
	ErrTransactionSettled = fmt.Errorf("%w: transaction already settled", ErrInvalidState)
)

// Status is the lifecycle state of an escrow. PENDING is the only state that
// accepts transitions.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusReleased Status = "RELEASED"
	StatusDisputed Status = "DISPUTED"
	StatusRefunded Status = "REFUNDED"
)

// Action is a buyer-initiated escrow transition.
type Action string

const (
	ActionRelease Action = "RELEASE"
	ActionDispute Action = "DISPUTE"
)

type Escrow struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	Amount        int64 // Amount in minor units
	Status        Status
	ReleaseDue    time.Time
	ReleaseDate   *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time

	Transaction *transaction.Transaction // Loaded via JOIN
}

// Overdue reports whether the hold period of a pending escrow has ended.
func (e *Escrow) Overdue(now time.Time) bool {
	return e.Status == StatusPending && e.ReleaseDue.Before(now)
}
