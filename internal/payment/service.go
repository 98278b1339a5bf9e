package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/auth"
	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
	"github.com/MrJamesThe3rd/unimarket/internal/metrics"
	"github.com/MrJamesThe3rd/unimarket/internal/money"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

var (
	ErrOwnListing       = errors.New("cannot purchase your own listing")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrCashEscrow       = errors.New("escrow requires gateway payment")
	ErrMissingReference = errors.New("missing payment reference")
	ErrUnknownReference = errors.New("unknown payment reference")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	GetListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	FindTransactionByReference(ctx context.Context, reference string) (*transaction.Transaction, error)
	FindSponsorshipByReference(ctx context.Context, reference string) (*listing.Sponsorship, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups every write of a checkout step so a verification either applies
// fully or not at all.
type Tx interface {
	CreateTransaction(ctx context.Context, t *transaction.Transaction) error
	// ClaimTransactionPayment sets the payment status of a transaction that
	// is still awaiting payment. It reports false if another caller got there
	// first.
	ClaimTransactionPayment(ctx context.Context, id uuid.UUID, to transaction.PaymentStatus) (bool, error)
	SetTransactionStatus(ctx context.Context, id uuid.UUID, from, to transaction.Status) (bool, error)
	// ReserveListing and MarkListingSold take an available listing off the
	// market. Both return listing.ErrUnavailable once another checkout has.
	ReserveListing(ctx context.Context, listingID uuid.UUID) error
	MarkListingSold(ctx context.Context, listingID uuid.UUID) error
	CreateEscrow(ctx context.Context, e *escrow.Escrow) error

	CreateSponsorship(ctx context.Context, s *listing.Sponsorship) error
	ClaimSponsorshipPayment(ctx context.Context, id uuid.UUID, to listing.SponsorshipStatus) (bool, error)
	ApplySponsorship(ctx context.Context, listingID uuid.UUID, tier listing.Tier, until time.Time) error

	CreateNotifications(ctx context.Context, ns []*notification.Notification) error
	Commit() error
	Rollback() error
}

type Config struct {
	CallbackURL string
	Currency    string
	HoldPeriod  time.Duration
}

// Checkout starts gateway payments and applies their results.
type Checkout struct {
	repo Repository
	gw   Gateway
	cfg  Config
	now  func() time.Time
}

func NewCheckout(repo Repository, gw Gateway, cfg Config) *Checkout {
	return &Checkout{
		repo: repo,
		gw:   gw,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (c *Checkout) WithClock(now func() time.Time) *Checkout {
	c.now = now
	return c
}

type PurchaseParams struct {
	ListingID      uuid.UUID
	PaymentMethod  transaction.PaymentMethod
	EscrowEnabled  bool
	MeetupLocation string
	MeetupTime     *time.Time
}

type PurchaseResult struct {
	Transaction *transaction.Transaction
	// AuthorizationURL is empty for cash purchases.
	AuthorizationURL string
}

// Purchase opens a transaction for the listing. Gateway purchases also start a
// hosted checkout; if that fails the transaction is cancelled again.
func (c *Checkout) Purchase(ctx context.Context, buyer auth.User, p PurchaseParams) (*PurchaseResult, error) {
	switch p.PaymentMethod {
	case transaction.MethodPaystack:
	case transaction.MethodCash:
		if p.EscrowEnabled {
			return nil, ErrCashEscrow
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, p.PaymentMethod)
	}

	l, err := c.repo.GetListing(ctx, p.ListingID)
	if err != nil {
		return nil, err
	}

	if !l.Purchasable() {
		return nil, listing.ErrUnavailable
	}

	if l.OwnerID == buyer.ID {
		return nil, ErrOwnListing
	}

	t := &transaction.Transaction{
		ListingID:      l.ID,
		ListingTitle:   l.Title,
		BuyerID:        buyer.ID,
		SellerID:       l.OwnerID,
		Amount:         l.Price,
		PaymentMethod:  p.PaymentMethod,
		Status:         transaction.StatusPending,
		EscrowEnabled:  p.EscrowEnabled,
		MeetupLocation: p.MeetupLocation,
		MeetupTime:     p.MeetupTime,
	}

	if p.PaymentMethod == transaction.MethodPaystack {
		t.PaymentStatus = transaction.PaymentPending
		t.PaymentReference = "txn_" + uuid.NewString()
	}

	if err := c.openTransaction(ctx, t); err != nil {
		return nil, err
	}

	if p.PaymentMethod == transaction.MethodCash {
		return &PurchaseResult{Transaction: t}, nil
	}

	session, err := c.gw.Initialize(ctx, InitializeParams{
		Email:       buyer.Email,
		Amount:      t.Amount,
		Reference:   t.PaymentReference,
		CallbackURL: c.cfg.CallbackURL,
		Metadata: Metadata{
			Type:          KindTransaction,
			TransactionID: t.ID.String(),
			ListingID:     l.ID.String(),
		},
	})
	if err != nil {
		c.abandonTransaction(ctx, t)
		return nil, fmt.Errorf("initializing payment: %w", err)
	}

	slog.InfoContext(ctx, "purchase started", "transaction_id", t.ID, "reference", t.PaymentReference, "escrow", t.EscrowEnabled)

	return &PurchaseResult{Transaction: t, AuthorizationURL: session.AuthorizationURL}, nil
}

func (c *Checkout) openTransaction(ctx context.Context, t *transaction.Transaction) error {
	rtx, err := c.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin purchase: %w", err)
	}
	defer rtx.Rollback()

	if err := rtx.CreateTransaction(ctx, t); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	data := map[string]string{
		"transactionId": t.ID.String(),
		"listingId":     t.ListingID.String(),
	}

	var ns []*notification.Notification

	if t.PaymentMethod == transaction.MethodCash {
		if t.MeetupLocation != "" {
			data["meetupLocation"] = t.MeetupLocation
		}

		if t.MeetupTime != nil {
			data["meetupTime"] = t.MeetupTime.UTC().Format(time.RFC3339)
		}

		ns = []*notification.Notification{
			notification.New(t.SellerID, notification.TypeTransaction, "New Local Meetup Request",
				fmt.Sprintf("A buyer wants to buy your listing %q via local meetup", t.ListingTitle), data),
			notification.New(t.BuyerID, notification.TypeTransaction, "Local Meetup Arranged",
				fmt.Sprintf("Your local meetup for %q has been arranged", t.ListingTitle), data),
		}
	} else {
		ns = []*notification.Notification{
			notification.New(t.SellerID, notification.TypeTransaction, "New Purchase Request",
				fmt.Sprintf("A buyer wants to buy your listing %q", t.ListingTitle), data),
			notification.New(t.BuyerID, notification.TypeTransaction, "Purchase Started",
				fmt.Sprintf("Your purchase of %q is being processed", t.ListingTitle), data),
		}
	}

	if err := rtx.CreateNotifications(ctx, ns); err != nil {
		return fmt.Errorf("creating notifications: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return fmt.Errorf("commit purchase: %w", err)
	}

	return nil
}

// abandonTransaction cancels a transaction whose checkout never started.
func (c *Checkout) abandonTransaction(ctx context.Context, t *transaction.Transaction) {
	if _, err := c.failTransaction(ctx, t); err != nil {
		slog.ErrorContext(ctx, "failed to cancel abandoned transaction", "transaction_id", t.ID, "error", err)
	}
}

// failTransaction marks the payment failed and cancels the transaction. It
// reports false, changing nothing, if the payment was already settled.
func (c *Checkout) failTransaction(ctx context.Context, t *transaction.Transaction) (bool, error) {
	rtx, err := c.repo.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin payment failure: %w", err)
	}
	defer rtx.Rollback()

	claimed, err := rtx.ClaimTransactionPayment(ctx, t.ID, transaction.PaymentFailed)
	if err != nil {
		return false, fmt.Errorf("marking payment failed: %w", err)
	}

	if !claimed {
		return false, nil
	}

	if _, err := rtx.SetTransactionStatus(ctx, t.ID, transaction.StatusPending, transaction.StatusCancelled); err != nil {
		return false, fmt.Errorf("cancelling transaction: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return false, fmt.Errorf("commit payment failure: %w", err)
	}

	t.PaymentStatus = transaction.PaymentFailed
	t.Status = transaction.StatusCancelled

	return true, nil
}

type SponsorResult struct {
	Sponsorship      *listing.Sponsorship
	AuthorizationURL string
}

// Sponsor starts a checkout for boosting one of the owner's listings.
func (c *Checkout) Sponsor(ctx context.Context, owner auth.User, listingID uuid.UUID, tier listing.Tier) (*SponsorResult, error) {
	plan, err := listing.PlanFor(tier)
	if err != nil {
		return nil, err
	}

	l, err := c.repo.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	// Other users' listings are reported as missing.
	if l.OwnerID != owner.ID {
		return nil, listing.ErrNotFound
	}

	s := &listing.Sponsorship{
		ListingID:     l.ID,
		UserID:        owner.ID,
		Tier:          plan.Tier,
		Amount:        money.ToMinor(plan.Price),
		Reference:     "sponsor_" + uuid.NewString(),
		PaymentStatus: listing.SponsorshipPending,
	}

	rtx, err := c.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin sponsorship: %w", err)
	}
	defer rtx.Rollback()

	if err := rtx.CreateSponsorship(ctx, s); err != nil {
		return nil, fmt.Errorf("creating sponsorship: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sponsorship: %w", err)
	}

	session, err := c.gw.Initialize(ctx, InitializeParams{
		Email:       owner.Email,
		Amount:      s.Amount,
		Reference:   s.Reference,
		CallbackURL: c.cfg.CallbackURL,
		Metadata: Metadata{
			Type:      KindSponsorship,
			ListingID: l.ID.String(),
			UserID:    owner.ID.String(),
			TierID:    int(plan.Tier),
			Duration:  plan.Duration.Milliseconds(),
		},
	})
	if err != nil {
		if _, ferr := c.settleSponsorship(ctx, s, listing.SponsorshipFailed, nil); ferr != nil {
			slog.ErrorContext(ctx, "failed to mark sponsorship failed", "reference", s.Reference, "error", ferr)
		}

		return nil, fmt.Errorf("initializing payment: %w", err)
	}

	slog.InfoContext(ctx, "sponsorship started", "listing_id", l.ID, "tier", plan.Name, "reference", s.Reference)

	return &SponsorResult{Sponsorship: s, AuthorizationURL: session.AuthorizationURL}, nil
}

// OutcomeKind is the result of verifying a payment reference.
type OutcomeKind string

const (
	OutcomePaid          OutcomeKind = "PAID"
	OutcomeFailed        OutcomeKind = "FAILED"
	OutcomeSponsored     OutcomeKind = "SPONSORED"
	OutcomeSponsorFailed OutcomeKind = "SPONSOR_FAILED"
)

type Outcome struct {
	Kind          OutcomeKind
	Reference     string
	TransactionID uuid.UUID
	ListingID     uuid.UUID
	// Duplicate is set when the reference had already been settled and
	// nothing was changed.
	Duplicate bool
}

// Verify asks the gateway whether the payment behind reference went through
// and settles the local record. Each reference is settled at most once;
// repeated calls report the first result with Duplicate set.
func (c *Checkout) Verify(ctx context.Context, reference string) (*Outcome, error) {
	if reference == "" {
		return nil, ErrMissingReference
	}

	v, err := c.gw.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("verifying payment: %w", err)
	}

	kind := v.Metadata.KindOrDefault()

	var out *Outcome

	switch kind {
	case KindSponsorship:
		out, err = c.verifySponsorship(ctx, reference, v)
	default:
		out, err = c.verifyTransaction(ctx, reference, v)
	}

	label := "error"

	switch {
	case err != nil:
	case out.Duplicate:
		label = "duplicate"
	case out.Kind == OutcomePaid || out.Kind == OutcomeSponsored:
		label = "paid"
	default:
		label = "failed"
	}

	metrics.PaymentVerifications.WithLabelValues(string(kind), label).Inc()

	return out, err
}

func (c *Checkout) verifyTransaction(ctx context.Context, reference string, v *Verification) (*Outcome, error) {
	t, err := c.repo.FindTransactionByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownReference, reference)
		}

		return nil, err
	}

	out := &Outcome{
		Kind:          OutcomeFailed,
		Reference:     reference,
		TransactionID: t.ID,
		ListingID:     t.ListingID,
	}

	if t.PaymentStatus != transaction.PaymentPending {
		if t.PaymentStatus == transaction.PaymentPaid && t.Status != transaction.StatusCancelled {
			out.Kind = OutcomePaid
		}

		out.Duplicate = true

		return out, nil
	}

	if !v.Succeeded() {
		claimed, err := c.failTransaction(ctx, t)
		if err != nil {
			return nil, err
		}

		out.Duplicate = !claimed

		slog.InfoContext(ctx, "payment failed", "transaction_id", t.ID, "reference", reference, "gateway_status", v.Status)

		return out, nil
	}

	if v.Amount != t.Amount || t.Status != transaction.StatusPending {
		return c.rejectPayment(ctx, t, v, out)
	}

	claimed, err := c.capturePayment(ctx, t)
	if errors.Is(err, errCannotFulfil) {
		return c.rejectPayment(ctx, t, v, out)
	}

	if err != nil {
		return nil, err
	}

	if !claimed {
		out.Duplicate = true
	}

	out.Kind = OutcomePaid

	return out, nil
}

// errCannotFulfil aborts a capture whose sale can no longer happen, either
// because the listing went to another buyer or the transaction was cancelled.
var errCannotFulfil = errors.New("sale can no longer be fulfilled")

func claimErr(step string, err error) error {
	if errors.Is(err, listing.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", errCannotFulfil, step, err)
	}

	return fmt.Errorf("%s: %w", step, err)
}

// capturePayment marks the transaction paid and either opens an escrow or
// completes the sale, in one unit of work.
func (c *Checkout) capturePayment(ctx context.Context, t *transaction.Transaction) (bool, error) {
	rtx, err := c.repo.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin payment capture: %w", err)
	}
	defer rtx.Rollback()

	claimed, err := rtx.ClaimTransactionPayment(ctx, t.ID, transaction.PaymentPaid)
	if err != nil {
		return false, fmt.Errorf("claiming payment: %w", err)
	}

	if !claimed {
		return false, nil
	}

	now := c.now()

	if t.EscrowEnabled {
		if err := rtx.ReserveListing(ctx, t.ListingID); err != nil {
			return false, claimErr("reserving listing", err)
		}

		e := &escrow.Escrow{
			TransactionID: t.ID,
			Amount:        t.Amount,
			Status:        escrow.StatusPending,
			ReleaseDue:    now.Add(c.cfg.HoldPeriod),
		}
		if err := rtx.CreateEscrow(ctx, e); err != nil {
			return false, fmt.Errorf("creating escrow: %w", err)
		}
	} else {
		ok, err := rtx.SetTransactionStatus(ctx, t.ID, transaction.StatusPending, transaction.StatusCompleted)
		if err != nil {
			return false, fmt.Errorf("completing transaction: %w", err)
		}

		if !ok {
			return false, fmt.Errorf("%w: transaction %s is no longer pending", errCannotFulfil, t.ID)
		}

		if err := rtx.MarkListingSold(ctx, t.ListingID); err != nil {
			return false, claimErr("marking listing sold", err)
		}
	}

	data := map[string]string{"transactionId": t.ID.String()}
	ns := []*notification.Notification{
		notification.New(t.SellerID, notification.TypeTransaction, "Payment Received",
			fmt.Sprintf("Payment of %s received for %q", money.Format(t.Amount, c.cfg.Currency), t.ListingTitle), data),
		notification.New(t.BuyerID, notification.TypeTransaction, "Payment Successful",
			fmt.Sprintf("Your payment for %q was successful", t.ListingTitle), data),
	}

	if err := rtx.CreateNotifications(ctx, ns); err != nil {
		return false, fmt.Errorf("creating notifications: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return false, fmt.Errorf("commit payment capture: %w", err)
	}

	slog.InfoContext(ctx, "payment captured", "transaction_id", t.ID, "escrow", t.EscrowEnabled)

	return true, nil
}

// rejectPayment cancels a transaction the gateway charged for but that can no
// longer be honoured, and hands the money back.
func (c *Checkout) rejectPayment(ctx context.Context, t *transaction.Transaction, v *Verification, out *Outcome) (*Outcome, error) {
	slog.WarnContext(ctx, "rejecting captured payment",
		"transaction_id", t.ID,
		"reference", v.Reference,
		"charged", v.Amount,
		"expected", t.Amount,
		"status", t.Status,
	)

	claimed, err := c.failTransaction(ctx, t)
	if err != nil {
		return nil, err
	}

	if !claimed {
		out.Duplicate = true
		return out, nil
	}

	if err := c.gw.Refund(ctx, out.Reference, v.Amount, "transaction could not be completed"); err != nil {
		slog.ErrorContext(ctx, "refund failed", "transaction_id", t.ID, "reference", out.Reference, "error", err)
	}

	return out, nil
}

func (c *Checkout) verifySponsorship(ctx context.Context, reference string, v *Verification) (*Outcome, error) {
	s, err := c.repo.FindSponsorshipByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownReference, reference)
		}

		return nil, err
	}

	out := &Outcome{
		Kind:      OutcomeSponsorFailed,
		Reference: reference,
		ListingID: s.ListingID,
	}

	if s.PaymentStatus != listing.SponsorshipPending {
		if s.PaymentStatus == listing.SponsorshipPaid {
			out.Kind = OutcomeSponsored
		}

		out.Duplicate = true

		return out, nil
	}

	if !v.Succeeded() || v.Amount != s.Amount {
		claimed, err := c.settleSponsorship(ctx, s, listing.SponsorshipFailed, nil)
		if err != nil {
			return nil, err
		}

		out.Duplicate = !claimed

		if claimed && v.Succeeded() {
			if err := c.gw.Refund(ctx, reference, v.Amount, "sponsorship amount mismatch"); err != nil {
				slog.ErrorContext(ctx, "refund failed", "reference", reference, "error", err)
			}
		}

		return out, nil
	}

	plan, err := listing.PlanFor(s.Tier)
	if err != nil {
		return nil, err
	}

	until := c.now().Add(plan.Duration)

	claimed, err := c.settleSponsorship(ctx, s, listing.SponsorshipPaid, &until)
	if err != nil {
		return nil, err
	}

	out.Kind = OutcomeSponsored
	out.Duplicate = !claimed

	return out, nil
}

// settleSponsorship records the payment result of a sponsorship. A paid
// sponsorship boosts the listing until the given time and notifies the owner.
func (c *Checkout) settleSponsorship(ctx context.Context, s *listing.Sponsorship, to listing.SponsorshipStatus, until *time.Time) (bool, error) {
	rtx, err := c.repo.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin sponsorship update: %w", err)
	}
	defer rtx.Rollback()

	claimed, err := rtx.ClaimSponsorshipPayment(ctx, s.ID, to)
	if err != nil {
		return false, fmt.Errorf("claiming sponsorship payment: %w", err)
	}

	if !claimed {
		return false, nil
	}

	if to == listing.SponsorshipPaid {
		if err := rtx.ApplySponsorship(ctx, s.ListingID, s.Tier, *until); err != nil {
			return false, fmt.Errorf("applying sponsorship: %w", err)
		}

		n := notification.New(s.UserID, notification.TypeListing, "Listing Sponsored",
			"Your listing has been successfully sponsored",
			map[string]string{"listingId": s.ListingID.String()})
		if err := rtx.CreateNotifications(ctx, []*notification.Notification{n}); err != nil {
			return false, fmt.Errorf("creating notifications: %w", err)
		}
	}

	if err := rtx.Commit(); err != nil {
		return false, fmt.Errorf("commit sponsorship update: %w", err)
	}

	s.PaymentStatus = to

	return true, nil
}

// HandleWebhook applies a signed gateway event. Only successful charges are
// acted on; other events are acknowledged and ignored.
func (c *Checkout) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	ev, err := c.gw.ParseWebhook(body, signature)
	if err != nil {
		return err
	}

	if ev.Event != "charge.success" {
		slog.DebugContext(ctx, "ignoring webhook event", "event", ev.Event)
		return nil
	}

	out, err := c.Verify(ctx, ev.Reference)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "webhook applied", "reference", ev.Reference, "outcome", out.Kind, "duplicate", out.Duplicate)

	return nil
}
