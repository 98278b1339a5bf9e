// Package payment runs checkout against the payment gateway and settles the
// local records once the gateway confirms that money moved.
package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrGateway          = errors.New("payment gateway error")
)

// Kind tells which local record a gateway payment settles.
type Kind string

const (
	KindTransaction Kind = "TRANSACTION"
	KindSponsorship Kind = "SPONSORSHIP"
)

// Metadata is echoed back by the gateway on verification.
type Metadata struct {
	Type          Kind   `json:"type,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	ListingID     string `json:"listingId,omitempty"`
	UserID        string `json:"userId,omitempty"`
	TierID        int    `json:"tierId,omitempty"`
	Duration      int64  `json:"duration,omitempty"` // milliseconds
}

// KindOrDefault treats payments without a type as purchases.
func (m Metadata) KindOrDefault() Kind {
	if m.Type == "" {
		return KindTransaction
	}

	return m.Type
}

type InitializeParams struct {
	Email       string
	Amount      int64 // Amount in minor units
	Reference   string
	CallbackURL string
	Metadata    Metadata
}

// Session is a hosted checkout the buyer is redirected to.
type Session struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// ChargeStatus is the gateway's view of a payment.
type ChargeStatus string

const (
	ChargeSuccess   ChargeStatus = "success"
	ChargeFailed    ChargeStatus = "failed"
	ChargeAbandoned ChargeStatus = "abandoned"
)

type Verification struct {
	Reference     string
	Status        ChargeStatus
	Amount        int64 // Amount in minor units
	Currency      string
	PaidAt        *time.Time
	CustomerEmail string
	Metadata      Metadata
}

func (v *Verification) Succeeded() bool {
	return v.Status == ChargeSuccess
}

// Transfer is a payout from the gateway balance.
type Transfer struct {
	Reference    string
	TransferCode string
	Status       string
}

// WebhookEvent is a signed event pushed by the gateway.
type WebhookEvent struct {
	Event     string
	Reference string
}

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=payment
type Gateway interface {
	Initialize(ctx context.Context, params InitializeParams) (*Session, error)
	Verify(ctx context.Context, reference string) (*Verification, error)
	Refund(ctx context.Context, reference string, amount int64, reason string) error
	// ReleaseEscrowFunds pays the held amount of a verified charge out to the
	// account that paid it.
	ReleaseEscrowFunds(ctx context.Context, reference string) (*Transfer, error)
	// ParseWebhook checks the signature of a webhook body and decodes it.
	ParseWebhook(body []byte, signature string) (*WebhookEvent, error)
}
