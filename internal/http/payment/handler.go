package payment

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/payment/paystack"
)

const maxWebhookBody = 1 << 20

// Handler serves the gateway callbacks. The browser is always redirected back
// to the web app, never answered with JSON.
type Handler struct {
	checkout *payment.Checkout
	appURL   string
	limit    func(http.Handler) http.Handler
}

func NewHandler(checkout *payment.Checkout, appURL string, limit func(http.Handler) http.Handler) *Handler {
	return &Handler{checkout: checkout, appURL: appURL, limit: limit}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(h.limit).Get("/verify", h.verify)
	r.Post("/webhook", h.webhook)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")

	out, err := h.checkout.Verify(r.Context(), reference)
	if err != nil {
		msg := "Payment verification failed"
		if errors.Is(err, payment.ErrMissingReference) {
			msg = "Missing payment reference"
		}

		slog.ErrorContext(r.Context(), "payment verification failed", "reference", reference, "error", err)
		h.redirect(w, r, "/transactions/error", url.Values{"message": {msg}})

		return
	}

	path, q := Target(out)
	h.redirect(w, r, path, q)
}

// Target returns the web app path and query for a verification outcome.
func Target(out *payment.Outcome) (string, url.Values) {
	switch out.Kind {
	case payment.OutcomePaid:
		return "/transactions/success", url.Values{"id": {out.TransactionID.String()}}
	case payment.OutcomeSponsored:
		return "/listings/" + out.ListingID.String(), url.Values{"sponsored": {"success"}}
	case payment.OutcomeSponsorFailed:
		return "/listings/" + out.ListingID.String(), url.Values{"sponsored": {"failed"}}
	default:
		return "/transactions/error", url.Values{"reference": {out.Reference}}
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string, q url.Values) {
	http.Redirect(w, r, h.appURL+path+"?"+q.Encode(), http.StatusSeeOther)
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.checkout.HandleWebhook(r.Context(), body, r.Header.Get(paystack.SignatureHeader)); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
