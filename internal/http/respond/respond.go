// Package respond writes JSON responses and maps domain errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/unimarket/internal/auth"
	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
	"github.com/MrJamesThe3rd/unimarket/internal/notification"
	"github.com/MrJamesThe3rd/unimarket/internal/pagination"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

var statusByError = []struct {
	err    error
	status int
}{
	{auth.ErrInvalidToken, http.StatusUnauthorized},
	{transaction.ErrForbidden, http.StatusUnauthorized},
	{escrow.ErrForbidden, http.StatusUnauthorized},

	{transaction.ErrNotFound, http.StatusNotFound},
	{escrow.ErrNotFound, http.StatusNotFound},
	{listing.ErrNotFound, http.StatusNotFound},
	{listing.ErrUnavailable, http.StatusNotFound},
	{notification.ErrNotFound, http.StatusNotFound},
	{payment.ErrUnknownReference, http.StatusNotFound},

	{transaction.ErrInvalidState, http.StatusBadRequest},
	{transaction.ErrEscrowHeld, http.StatusBadRequest},
	{escrow.ErrInvalidState, http.StatusBadRequest},
	{transaction.ErrInvalidAction, http.StatusBadRequest},
	{escrow.ErrInvalidAction, http.StatusBadRequest},
	{listing.ErrInvalidTier, http.StatusBadRequest},
	{payment.ErrOwnListing, http.StatusBadRequest},
	{payment.ErrInvalidMethod, http.StatusBadRequest},
	{payment.ErrCashEscrow, http.StatusBadRequest},
	{payment.ErrMissingReference, http.StatusBadRequest},
	{payment.ErrInvalidSignature, http.StatusBadRequest},
	{pagination.ErrInvalidCursor, http.StatusBadRequest},
}

// Status returns the HTTP status for err. Unknown errors are 500.
func Status(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}

	return http.StatusInternalServerError
}

// Error writes err with its mapped status. Internal errors are logged and
// answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		Message(w, status, "Internal server error")

		return
	}

	if status == http.StatusUnauthorized {
		Message(w, status, "Unauthorized")
		return
	}

	Message(w, status, err.Error())
}
