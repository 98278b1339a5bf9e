package payment_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	paymentHandler "github.com/MrJamesThe3rd/unimarket/internal/http/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/payment/paystack"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

const appURL = "http://app.test"

func passthrough(next http.Handler) http.Handler { return next }

func newServer(t *testing.T) (http.Handler, *payment.MockRepository, *payment.MockGateway) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := payment.NewMockRepository(ctrl)
	gw := payment.NewMockGateway(ctrl)
	checkout := payment.NewCheckout(repo, gw, payment.Config{Currency: "NGN"})

	r := chi.NewRouter()
	r.Route("/api/v1/payments", paymentHandler.NewHandler(checkout, appURL, passthrough).Routes)

	return r, repo, gw
}

func location(t *testing.T, rec *httptest.ResponseRecorder) *url.URL {
	t.Helper()

	require.Equal(t, http.StatusSeeOther, rec.Code)

	u, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	return u
}

func TestTarget(t *testing.T) {
	txID, listingID := uuid.New(), uuid.New()

	tests := []struct {
		name  string
		out   payment.Outcome
		path  string
		query url.Values
	}{
		{
			name:  "Paid",
			out:   payment.Outcome{Kind: payment.OutcomePaid, TransactionID: txID},
			path:  "/transactions/success",
			query: url.Values{"id": {txID.String()}},
		},
		{
			name:  "Failed",
			out:   payment.Outcome{Kind: payment.OutcomeFailed, Reference: "txn_1"},
			path:  "/transactions/error",
			query: url.Values{"reference": {"txn_1"}},
		},
		{
			name:  "Sponsored",
			out:   payment.Outcome{Kind: payment.OutcomeSponsored, ListingID: listingID},
			path:  "/listings/" + listingID.String(),
			query: url.Values{"sponsored": {"success"}},
		},
		{
			name:  "SponsorFailed",
			out:   payment.Outcome{Kind: payment.OutcomeSponsorFailed, ListingID: listingID},
			path:  "/listings/" + listingID.String(),
			query: url.Values{"sponsored": {"failed"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, query := paymentHandler.Target(&tt.out)
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.query, query)
		})
	}
}

func TestHandler_Verify(t *testing.T) {
	t.Run("AlreadyPaidRedirectsToSuccess", func(t *testing.T) {
		srv, repo, gw := newServer(t)

		txn := &transaction.Transaction{
			ID:            uuid.New(),
			PaymentMethod: transaction.MethodPaystack,
			PaymentStatus: transaction.PaymentPaid,
			Status:        transaction.StatusPending,
			EscrowEnabled: true,
		}

		gw.EXPECT().Verify(gomock.Any(), "txn_abc").Return(&payment.Verification{
			Reference: "txn_abc",
			Status:    payment.ChargeSuccess,
			Metadata:  payment.Metadata{Type: payment.KindTransaction},
		}, nil)
		repo.EXPECT().FindTransactionByReference(gomock.Any(), "txn_abc").Return(txn, nil)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify?reference=txn_abc", nil))

		u := location(t, rec)
		assert.Equal(t, "app.test", u.Host)
		assert.Equal(t, "/transactions/success", u.Path)
		assert.Equal(t, txn.ID.String(), u.Query().Get("id"))
	})

	t.Run("MissingReference", func(t *testing.T) {
		srv, _, _ := newServer(t)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify", nil))

		u := location(t, rec)
		assert.Equal(t, "/transactions/error", u.Path)
		assert.Equal(t, "Missing payment reference", u.Query().Get("message"))
	})

	t.Run("GatewayErrorIsNotLeaked", func(t *testing.T) {
		srv, _, gw := newServer(t)

		gw.EXPECT().Verify(gomock.Any(), "txn_abc").Return(nil, payment.ErrGateway)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify?reference=txn_abc", nil))

		u := location(t, rec)
		assert.Equal(t, "/transactions/error", u.Path)
		assert.Equal(t, "Payment verification failed", u.Query().Get("message"))
	})
}

func TestHandler_Webhook(t *testing.T) {
	t.Run("BadSignature", func(t *testing.T) {
		srv, _, gw := newServer(t)

		gw.EXPECT().ParseWebhook([]byte(`{"event":"charge.success"}`), "bad").Return(nil, payment.ErrInvalidSignature)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{"event":"charge.success"}`))
		req.Header.Set(paystack.SignatureHeader, "bad")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("IgnoredEvent", func(t *testing.T) {
		srv, _, gw := newServer(t)

		gw.EXPECT().ParseWebhook(gomock.Any(), "sig").Return(&payment.WebhookEvent{Event: "transfer.success"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{}`))
		req.Header.Set(paystack.SignatureHeader, "sig")

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
