// Package jobs implements the periodic cleanup sweeps.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	"github.com/MrJamesThe3rd/unimarket/internal/metrics"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

//go:generate mockgen -source=sweeper.go -destination=sweeper_mock.go -package=jobs
type EscrowReleaser interface {
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*escrow.Escrow, error)
	ReleaseOverdue(ctx context.Context, e *escrow.Escrow, now time.Time) (bool, error)
}

type SponsorshipClearer interface {
	ClearExpiredSponsorships(ctx context.Context, now time.Time) (int64, error)
}

type Transferer interface {
	ReleaseEscrowFunds(ctx context.Context, reference string) (*payment.Transfer, error)
}

type Sweeper struct {
	escrows      EscrowReleaser
	sponsorships SponsorshipClearer
	transfers    Transferer
	batch        int
	now          func() time.Time
}

func NewSweeper(escrows EscrowReleaser, sponsorships SponsorshipClearer, transfers Transferer, batch int) *Sweeper {
	if batch <= 0 {
		batch = 100
	}

	return &Sweeper{
		escrows:      escrows,
		sponsorships: sponsorships,
		transfers:    transfers,
		batch:        batch,
		now:          time.Now,
	}
}

func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// SweepEscrows force-releases every pending escrow whose hold period has
// ended and returns how many it released. Escrows settled concurrently are
// skipped. A failure on one escrow does not stop the others; all failures are
// returned together.
func (s *Sweeper) SweepEscrows(ctx context.Context) (int, error) {
	now := s.now()

	var (
		released int
		errs     []error
	)

	for {
		batch, err := s.escrows.ListOverdue(ctx, now, s.batch)
		if err != nil {
			errs = append(errs, fmt.Errorf("listing overdue escrows: %w", err))
			break
		}

		progressed := 0

		for _, e := range batch {
			ok, err := s.escrows.ReleaseOverdue(ctx, e, now)
			if err != nil {
				slog.ErrorContext(ctx, "failed to release escrow", "escrow_id", e.ID, "error", err)
				errs = append(errs, fmt.Errorf("releasing escrow %s: %w", e.ID, err))

				continue
			}

			if !ok {
				slog.InfoContext(ctx, "escrow settled concurrently, skipping", "escrow_id", e.ID)
				continue
			}

			released++
			progressed++

			metrics.EscrowTransitions.WithLabelValues(string(escrow.StatusReleased), "sweep").Inc()

			s.payout(ctx, e)
		}

		if len(batch) < s.batch || progressed == 0 {
			break
		}
	}

	metrics.SweepProcessed.WithLabelValues("escrow").Add(float64(released))

	return released, errors.Join(errs...)
}

// payout asks the gateway to transfer released funds. Failures are logged and
// counted; the escrow stays released.
func (s *Sweeper) payout(ctx context.Context, e *escrow.Escrow) {
	t := e.Transaction
	if t == nil || t.PaymentMethod != transaction.MethodPaystack || t.PaymentReference == "" {
		return
	}

	tr, err := s.transfers.ReleaseEscrowFunds(ctx, t.PaymentReference)
	if err != nil {
		metrics.TransferFailures.Inc()
		slog.ErrorContext(ctx, "failed to release funds through gateway",
			"escrow_id", e.ID,
			"reference", t.PaymentReference,
			"error", err,
		)

		return
	}

	slog.InfoContext(ctx, "escrow funds transferred", "escrow_id", e.ID, "transfer_code", tr.TransferCode)
}

// SweepSponsorships clears every expired listing boost in one pass.
func (s *Sweeper) SweepSponsorships(ctx context.Context) (int64, error) {
	n, err := s.sponsorships.ClearExpiredSponsorships(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("clearing expired sponsorships: %w", err)
	}

	metrics.SweepProcessed.WithLabelValues("sponsorship").Add(float64(n))
	slog.InfoContext(ctx, "cleaned up expired sponsorships", "count", n)

	return n, nil
}
