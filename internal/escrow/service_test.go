package escrow_test

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
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

var (
	buyerID   = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sellerID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	supportID = uuid.MustParse("99999999-9999-9999-9999-999999999999")
	fixedNow  = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)
)

func pendingEscrow() *escrow.Escrow {
	txID := uuid.New()

	return &escrow.Escrow{
		ID:            uuid.New(),
		TransactionID: txID,
		Amount:        500000,
		Status:        escrow.StatusPending,
		ReleaseDue:    fixedNow.Add(-time.Hour),
		Transaction: &transaction.Transaction{
			ID:            txID,
			ListingID:     uuid.New(),
			ListingTitle:  "Calculus Textbook",
			BuyerID:       buyerID,
			SellerID:      sellerID,
			Amount:        500000,
			PaymentMethod: transaction.MethodPaystack,
			PaymentStatus: transaction.PaymentPaid,
			Status:        transaction.StatusPending,
			EscrowEnabled: true,
		},
	}
}

func recipients(ns []*notification.Notification) []uuid.UUID {
	ids := make([]uuid.UUID, len(ns))
	for i, n := range ns {
		ids[i] = n.UserID
	}

	return ids
}

func TestService_Act(t *testing.T) {
	type testCase struct {
		name       string
		caller     uuid.UUID
		action     escrow.Action
		support    uuid.UUID
		escrow     func() *escrow.Escrow
		setupTx    func(e *escrow.Escrow, m *escrow.MockTx)
		wantErr    error
		wantStatus escrow.Status
		wantTx     transaction.Status
	}

	tests := []testCase{
		{
			name:   "Release",
			caller: buyerID,
			action: escrow.ActionRelease,
			escrow: pendingEscrow,
			setupTx: func(e *escrow.Escrow, m *escrow.MockTx) {
				m.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, new(fixedNow)).Return(true, nil)
				m.EXPECT().
					SetTransactionStatus(gomock.Any(), e.TransactionID, transaction.StatusPending, transaction.StatusCompleted).
					Return(true, nil)
				m.EXPECT().MarkListingSold(gomock.Any(), e.Transaction.ListingID).Return(nil)
				m.EXPECT().
					CreateNotifications(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ns []*notification.Notification) error {
						assert.Equal(t, []uuid.UUID{sellerID}, recipients(ns))
						assert.Equal(t, "Funds Released", ns[0].Title)
						return nil
					})
				m.EXPECT().Commit().Return(nil)
				m.EXPECT().Rollback().Return(nil)
			},
			wantStatus: escrow.StatusReleased,
			wantTx:     transaction.StatusCompleted,
		},
		{
			name:    "DisputeEscalatesToSupport",
			caller:  buyerID,
			action:  escrow.ActionDispute,
			support: supportID,
			escrow:  pendingEscrow,
			setupTx: func(e *escrow.Escrow, m *escrow.MockTx) {
				m.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusDisputed, gomock.Nil()).Return(true, nil)
				m.EXPECT().
					SetTransactionStatus(gomock.Any(), e.TransactionID, transaction.StatusPending, transaction.StatusDisputed).
					Return(true, nil)
				m.EXPECT().
					CreateNotifications(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ns []*notification.Notification) error {
						assert.Equal(t, []uuid.UUID{sellerID, supportID}, recipients(ns))
						assert.Equal(t, notification.TypeDispute, ns[1].Type)
						return nil
					})
				m.EXPECT().Commit().Return(nil)
				m.EXPECT().Rollback().Return(nil)
			},
			wantStatus: escrow.StatusDisputed,
			wantTx:     transaction.StatusDisputed,
		},
		{
			name:   "DisputeWithoutSupportUser",
			caller: buyerID,
			action: escrow.ActionDispute,
			escrow: pendingEscrow,
			setupTx: func(e *escrow.Escrow, m *escrow.MockTx) {
				m.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusDisputed, gomock.Nil()).Return(true, nil)
				m.EXPECT().SetTransactionStatus(gomock.Any(), e.TransactionID, gomock.Any(), gomock.Any()).Return(true, nil)
				m.EXPECT().
					CreateNotifications(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, ns []*notification.Notification) error {
						assert.Equal(t, []uuid.UUID{sellerID}, recipients(ns))
						return nil
					})
				m.EXPECT().Commit().Return(nil)
				m.EXPECT().Rollback().Return(nil)
			},
			wantStatus: escrow.StatusDisputed,
			wantTx:     transaction.StatusDisputed,
		},
		{
			name:    "SellerCannotRelease",
			caller:  sellerID,
			action:  escrow.ActionRelease,
			escrow:  pendingEscrow,
			wantErr: escrow.ErrForbidden,
		},
		{
			name:   "AlreadyReleased",
			caller: buyerID,
			action: escrow.ActionDispute,
			escrow: func() *escrow.Escrow {
				e := pendingEscrow()
				e.Status = escrow.StatusReleased
				return e
			},
			wantErr: escrow.ErrInvalidState,
		},
		{
			name:   "LostRaceToSweep",
			caller: buyerID,
			action: escrow.ActionDispute,
			escrow: pendingEscrow,
			setupTx: func(e *escrow.Escrow, m *escrow.MockTx) {
				m.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusDisputed, gomock.Nil()).Return(false, nil)
				m.EXPECT().Rollback().Return(nil)
			},
			wantErr: escrow.ErrInvalidState,
		},
		{
			name:   "NotificationFailureLeavesNothingCommitted",
			caller: buyerID,
			action: escrow.ActionRelease,
			escrow: pendingEscrow,
			setupTx: func(e *escrow.Escrow, m *escrow.MockTx) {
				m.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, gomock.Any()).Return(true, nil)
				m.EXPECT().SetTransactionStatus(gomock.Any(), e.TransactionID, gomock.Any(), gomock.Any()).Return(true, nil)
				m.EXPECT().MarkListingSold(gomock.Any(), gomock.Any()).Return(nil)
				m.EXPECT().CreateNotifications(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
				m.EXPECT().Rollback().Return(nil)
			},
			wantErr: errAny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			e := tt.escrow()
			repo := escrow.NewMockRepository(ctrl)
			repo.EXPECT().GetByTransaction(gomock.Any(), e.TransactionID).Return(e, nil)

			if tt.setupTx != nil {
				mtx := escrow.NewMockTx(ctrl)
				repo.EXPECT().Begin(gomock.Any()).Return(mtx, nil)
				tt.setupTx(e, mtx)
			}

			svc := escrow.NewService(repo, tt.support).WithClock(func() time.Time { return fixedNow })

			got, err := svc.Act(context.Background(), tt.caller, e.TransactionID, tt.action)

			switch {
			case tt.wantErr == errAny:
				require.Error(t, err)
				assert.Equal(t, escrow.StatusPending, e.Status)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, got.Status)
				assert.Equal(t, tt.wantTx, got.Transaction.Status)
			}
		})
	}
}

func TestService_Act_InvalidAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := escrow.NewService(escrow.NewMockRepository(ctrl), uuid.Nil)

	_, err := svc.Act(context.Background(), buyerID, uuid.New(), "REFUND")
	assert.ErrorIs(t, err, escrow.ErrInvalidAction)
}

func TestService_ReleaseOverdue(t *testing.T) {
	t.Run("NotifiesBothParties", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		e := pendingEscrow()
		repo := escrow.NewMockRepository(ctrl)
		mtx := escrow.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(mtx, nil)
		mtx.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, new(fixedNow)).Return(true, nil)
		mtx.EXPECT().
			SetTransactionStatus(gomock.Any(), e.TransactionID, transaction.StatusPending, transaction.StatusCompleted).
			Return(true, nil)
		mtx.EXPECT().MarkListingSold(gomock.Any(), e.Transaction.ListingID).Return(nil)
		mtx.EXPECT().
			CreateNotifications(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ns []*notification.Notification) error {
				assert.ElementsMatch(t, []uuid.UUID{sellerID, buyerID}, recipients(ns))
				return nil
			})
		mtx.EXPECT().Commit().Return(nil)
		mtx.EXPECT().Rollback().Return(nil)

		released, err := escrow.NewService(repo, uuid.Nil).ReleaseOverdue(context.Background(), e, fixedNow)
		require.NoError(t, err)
		assert.True(t, released)
		assert.Equal(t, escrow.StatusReleased, e.Status)
		require.NotNil(t, e.ReleaseDate)
		assert.Equal(t, fixedNow, *e.ReleaseDate)
	})

	t.Run("SkipsEscrowSettledConcurrently", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		e := pendingEscrow()
		repo := escrow.NewMockRepository(ctrl)
		mtx := escrow.NewMockTx(ctrl)

		repo.EXPECT().Begin(gomock.Any()).Return(mtx, nil)
		mtx.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, gomock.Any()).Return(false, nil)
		mtx.EXPECT().Rollback().Return(nil)

		released, err := escrow.NewService(repo, uuid.Nil).ReleaseOverdue(context.Background(), e, fixedNow)
		require.NoError(t, err)
		assert.False(t, released)
		assert.Equal(t, escrow.StatusPending, e.Status)
	})

	t.Run("SkipsEscrowWhoseTransactionIsSettled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		e := pendingEscrow()
		repo := escrow.NewMockRepository(ctrl)
		svc := escrow.NewService(repo, uuid.Nil)

		for range 3 {
			mtx := escrow.NewMockTx(ctrl)
			repo.EXPECT().Begin(gomock.Any()).Return(mtx, nil)
			mtx.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, gomock.Any()).Return(true, nil)
			mtx.EXPECT().
				SetTransactionStatus(gomock.Any(), e.TransactionID, transaction.StatusPending, transaction.StatusCompleted).
				Return(false, nil)
			mtx.EXPECT().Rollback().Return(nil)

			released, err := svc.ReleaseOverdue(context.Background(), e, fixedNow)
			require.NoError(t, err)
			assert.False(t, released)
			assert.Equal(t, escrow.StatusPending, e.Status)
		}
	})
}

func TestService_Act_TransactionSettled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := pendingEscrow()
	repo := escrow.NewMockRepository(ctrl)
	mtx := escrow.NewMockTx(ctrl)

	repo.EXPECT().GetByTransaction(gomock.Any(), e.TransactionID).Return(e, nil)
	repo.EXPECT().Begin(gomock.Any()).Return(mtx, nil)
	mtx.EXPECT().Transition(gomock.Any(), e.ID, escrow.StatusReleased, gomock.Any()).Return(true, nil)
	mtx.EXPECT().SetTransactionStatus(gomock.Any(), e.TransactionID, gomock.Any(), gomock.Any()).Return(false, nil)
	mtx.EXPECT().Rollback().Return(nil)

	_, err := escrow.NewService(repo, uuid.Nil).Act(context.Background(), buyerID, e.TransactionID, escrow.ActionRelease)
	assert.ErrorIs(t, err, escrow.ErrTransactionSettled)
	assert.ErrorIs(t, err, escrow.ErrInvalidState)
}

func TestEscrow_Overdue(t *testing.T) {
	e := pendingEscrow()
	assert.True(t, e.Overdue(fixedNow))
	assert.False(t, e.Overdue(fixedNow.Add(-2*time.Hour)))

	e.Status = escrow.StatusDisputed
	assert.False(t, e.Overdue(fixedNow))
}

var errAny = errors.New("any error")
