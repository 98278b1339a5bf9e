package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrForbidden     = errors.New("caller is not a party to the transaction")
	ErrInvalidState  = errors.New("transaction is not pending")
	ErrInvalidAction = errors.New("invalid transaction action")
	ErrEscrowHeld    = errors.New("transaction funds are held in escrow")
)

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	MethodPaystack PaymentMethod = "PAYSTACK"
	MethodCash     PaymentMethod = "CASH"
)

// PaymentStatus is the gateway-side state of the payment. Cash transactions
// have no payment status.
type PaymentStatus string

const (
	PaymentNone    PaymentStatus = ""
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusDisputed  Status = "DISPUTED"
)

// Action is a party-initiated change to a transaction.
type Action string

const (
	ActionComplete Action = "COMPLETE"
	ActionCancel   Action = "CANCEL"
)

// Role selects which side of the transaction the caller is on in listings.
type Role string

const (
	RoleAny     Role = ""
	RoleBuying  Role = "buying"
	RoleSelling Role = "selling"
)

// Transaction is a purchase of one listing by one buyer.
type Transaction struct {
	ID               uuid.UUID
	ListingID        uuid.UUID
	ListingTitle     string // Loaded via JOIN
	BuyerID          uuid.UUID
	SellerID         uuid.UUID
	Amount           int64 // Amount in minor units
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	PaymentReference string
	Status           Status
	EscrowEnabled    bool
	MeetupLocation   string
	MeetupTime       *time.Time
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// IsParty reports whether the user is the buyer or the seller.
func (t *Transaction) IsParty(userID uuid.UUID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

// EscrowHeld reports whether paid funds are locked in an escrow.
func (t *Transaction) EscrowHeld() bool {
	return t.EscrowEnabled && t.PaymentStatus == PaymentPaid
}
