package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

type transactionResponse struct {
	ID               uuid.UUID                 `json:"id"`
	ListingID        uuid.UUID                 `json:"listingId"`
	ListingTitle     string                    `json:"listingTitle,omitempty"`
	BuyerID          uuid.UUID                 `json:"buyerId"`
	SellerID         uuid.UUID                 `json:"sellerId"`
	Amount           int64                     `json:"amount"`
	PaymentMethod    transaction.PaymentMethod `json:"paymentMethod"`
	PaymentStatus    transaction.PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentReference string                    `json:"paymentReference,omitempty"`
	Status           transaction.Status        `json:"status"`
	EscrowEnabled    bool                      `json:"escrowEnabled"`
	MeetupLocation   string                    `json:"meetupLocation,omitempty"`
	MeetupTime       *time.Time                `json:"meetupTime,omitempty"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        *time.Time                `json:"updatedAt,omitempty"`
}

type singleResponse struct {
	Transaction transactionResponse `json:"transaction"`
}

type pageResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	NextCursor   *string               `json:"nextCursor"`
}

func toResponse(t *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:               t.ID,
		ListingID:        t.ListingID,
		ListingTitle:     t.ListingTitle,
		BuyerID:          t.BuyerID,
		SellerID:         t.SellerID,
		Amount:           t.Amount,
		PaymentMethod:    t.PaymentMethod,
		PaymentStatus:    t.PaymentStatus,
		PaymentReference: t.PaymentReference,
		Status:           t.Status,
		EscrowEnabled:    t.EscrowEnabled,
		MeetupLocation:   t.MeetupLocation,
		MeetupTime:       t.MeetupTime,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toPageResponse(p *transaction.Page) pageResponse {
	resp := pageResponse{Transactions: make([]transactionResponse, len(p.Transactions))}
	for i, t := range p.Transactions {
		resp.Transactions[i] = toResponse(t)
	}

	if p.NextCursor != "" {
		resp.NextCursor = &p.NextCursor
	}

	return resp
}
