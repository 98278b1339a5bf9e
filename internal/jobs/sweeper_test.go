package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	"github.com/MrJamesThe3rd/unimarket/internal/jobs"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

var fixedNow = time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)

func overdue(method transaction.PaymentMethod) *escrow.Escrow {
	txID := uuid.New()
	t := &transaction.Transaction{
		ID:            txID,
		ListingID:     uuid.New(),
		ListingTitle:  "Bike",
		BuyerID:       uuid.New(),
		SellerID:      uuid.New(),
		PaymentMethod: method,
		Status:        transaction.StatusPending,
		EscrowEnabled: true,
	}

	if method == transaction.MethodPaystack {
		t.PaymentStatus = transaction.PaymentPaid
		t.PaymentReference = "txn_" + txID.String()
	}

	return &escrow.Escrow{
		ID:            uuid.New(),
		TransactionID: txID,
		Status:        escrow.StatusPending,
		ReleaseDue:    fixedNow.Add(-time.Minute),
		Transaction:   t,
	}
}

func TestSweeper_SweepEscrows(t *testing.T) {
	type testCase struct {
		name      string
		batch     int
		setupMock func(r *jobs.MockEscrowReleaser, tr *jobs.MockTransferer)
		want      int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:  "ReleasesAndTransfersGatewayPayments",
			batch: 10,
			setupMock: func(r *jobs.MockEscrowReleaser, tr *jobs.MockTransferer) {
				card, cash := overdue(transaction.MethodPaystack), overdue(transaction.MethodCash)
				r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 10).Return([]*escrow.Escrow{card, cash}, nil)
				r.EXPECT().ReleaseOverdue(gomock.Any(), card, fixedNow).Return(true, nil)
				r.EXPECT().ReleaseOverdue(gomock.Any(), cash, fixedNow).Return(true, nil)
				tr.EXPECT().ReleaseEscrowFunds(gomock.Any(), card.Transaction.PaymentReference).
					Return(&payment.Transfer{TransferCode: "TRF_1"}, nil)
			},
			want: 2,
		},
		{
			name:  "LostRaceIsNotCounted",
			batch: 10,
			setupMock: func(r *jobs.MockEscrowReleaser, _ *jobs.MockTransferer) {
				e := overdue(transaction.MethodPaystack)
				r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 10).Return([]*escrow.Escrow{e}, nil)
				r.EXPECT().ReleaseOverdue(gomock.Any(), e, fixedNow).Return(false, nil)
			},
			want: 0,
		},
		{
			name:  "TransferFailureDoesNotFailSweep",
			batch: 10,
			setupMock: func(r *jobs.MockEscrowReleaser, tr *jobs.MockTransferer) {
				a, b := overdue(transaction.MethodPaystack), overdue(transaction.MethodPaystack)
				r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 10).Return([]*escrow.Escrow{a, b}, nil)
				r.EXPECT().ReleaseOverdue(gomock.Any(), a, fixedNow).Return(true, nil)
				r.EXPECT().ReleaseOverdue(gomock.Any(), b, fixedNow).Return(true, nil)
				tr.EXPECT().ReleaseEscrowFunds(gomock.Any(), a.Transaction.PaymentReference).Return(nil, payment.ErrGateway)
				tr.EXPECT().ReleaseEscrowFunds(gomock.Any(), b.Transaction.PaymentReference).Return(&payment.Transfer{}, nil)
			},
			want: 2,
		},
		{
			name:  "RowErrorDoesNotStopBatch",
			batch: 10,
			setupMock: func(r *jobs.MockEscrowReleaser, _ *jobs.MockTransferer) {
				a, b := overdue(transaction.MethodCash), overdue(transaction.MethodCash)
				r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 10).Return([]*escrow.Escrow{a, b}, nil)
				r.EXPECT().ReleaseOverdue(gomock.Any(), a, fixedNow).Return(false, errors.New("db error"))
				r.EXPECT().ReleaseOverdue(gomock.Any(), b, fixedNow).Return(true, nil)
			},
			want:    1,
			wantErr: true,
		},
		{
			name:  "PagesThroughFullBatches",
			batch: 2,
			setupMock: func(r *jobs.MockEscrowReleaser, _ *jobs.MockTransferer) {
				a, b, c := overdue(transaction.MethodCash), overdue(transaction.MethodCash), overdue(transaction.MethodCash)
				gomock.InOrder(
					r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 2).Return([]*escrow.Escrow{a, b}, nil),
					r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 2).Return([]*escrow.Escrow{c}, nil),
				)
				r.EXPECT().ReleaseOverdue(gomock.Any(), gomock.Any(), fixedNow).Return(true, nil).Times(3)
			},
			want: 3,
		},
		{
			name:  "NothingDue",
			batch: 10,
			setupMock: func(r *jobs.MockEscrowReleaser, _ *jobs.MockTransferer) {
				r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 10).Return(nil, nil)
			},
			want: 0,
		},
		{
			name:  "ListError",
			batch: 10,
			setupMock: func(r *jobs.MockEscrowReleaser, _ *jobs.MockTransferer) {
				r.EXPECT().ListOverdue(gomock.Any(), fixedNow, 10).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			releaser := jobs.NewMockEscrowReleaser(ctrl)
			transfers := jobs.NewMockTransferer(ctrl)
			tt.setupMock(releaser, transfers)

			sweeper := jobs.NewSweeper(releaser, jobs.NewMockSponsorshipClearer(ctrl), transfers, tt.batch).
				WithClock(func() time.Time { return fixedNow })

			got, err := sweeper.SweepEscrows(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

// The sweep goes through the escrow service so each release writes the
// escrow, the transaction and both notifications together.
func TestSweeper_SweepEscrows_WithEscrowService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := overdue(transaction.MethodCash)
	repo := escrow.NewMockRepository(ctrl)
	mtx := escrow.NewMockTx(ctrl)

	repo.EXPECT().ListOverdue(gomock.Any(), fixedNow, 100).Return([]*escrow.Escrow{e}, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(mtx, nil)
	mtx.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, new(fixedNow)).Return(true, nil)
	mtx.EXPECT().
		SetTransactionStatus(gomock.Any(), e.TransactionID, transaction.StatusPending, transaction.StatusCompleted).
		Return(true, nil)
	mtx.EXPECT().MarkListingSold(gomock.Any(), e.Transaction.ListingID).Return(nil)
	mtx.EXPECT().
		CreateNotifications(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ns []*notification.Notification) error {
			require.Len(t, ns, 2)
			assert.ElementsMatch(t,
				[]uuid.UUID{e.Transaction.BuyerID, e.Transaction.SellerID},
				[]uuid.UUID{ns[0].UserID, ns[1].UserID},
			)
			return nil
		})
	mtx.EXPECT().Commit().Return(nil)
	mtx.EXPECT().Rollback().Return(nil)

	sweeper := jobs.NewSweeper(escrow.NewService(repo, uuid.Nil), jobs.NewMockSponsorshipClearer(ctrl), jobs.NewMockTransferer(ctrl), 0).
		WithClock(func() time.Time { return fixedNow })

	n, err := sweeper.SweepEscrows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, escrow.StatusReleased, e.Status)
	require.NotNil(t, e.ReleaseDate)
	assert.Equal(t, fixedNow, *e.ReleaseDate)
}

func TestSweeper_SweepSponsorships(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clearer := jobs.NewMockSponsorshipClearer(ctrl)
	clearer.EXPECT().ClearExpiredSponsorships(gomock.Any(), fixedNow).Return(int64(4), nil)

	sweeper := jobs.NewSweeper(jobs.NewMockEscrowReleaser(ctrl), clearer, jobs.NewMockTransferer(ctrl), 10).
		WithClock(func() time.Time { return fixedNow })

	n, err := sweeper.SweepSponsorships(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	clearer.EXPECT().ClearExpiredSponsorships(gomock.Any(), fixedNow).Return(int64(0), errors.New("db down"))

	_, err = sweeper.SweepSponsorships(context.Background())
	assert.Error(t, err)
}
