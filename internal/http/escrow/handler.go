package escrow

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	"github.com/MrJamesThe3rd/unimarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
	"github.com/MrJamesThe3rd/unimarket/internal/metrics"
)

type Handler struct {
	svc *escrow.Service
}

func NewHandler(svc *escrow.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/", h.act)
	r.Get("/{transactionId}", h.get)
}

type actRequest struct {
	TransactionID uuid.UUID     `json:"transactionId"`
	Action        escrow.Action `json:"action"`
}

type actResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) act(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	var req actRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TransactionID == uuid.Nil || req.Action == "" {
		respond.Message(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	action := escrow.Action(strings.ToUpper(string(req.Action)))

	e, err := h.svc.Act(r.Context(), caller.ID, req.TransactionID, action)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.EscrowTransitions.WithLabelValues(string(e.Status), "buyer").Inc()

	respond.JSON(w, http.StatusOK, actResponse{Success: true})
}

type escrowResponse struct {
	ID            uuid.UUID     `json:"id"`
	TransactionID uuid.UUID     `json:"transactionId"`
	Amount        int64         `json:"amount"`
	Status        escrow.Status `json:"status"`
	ReleaseDue    time.Time     `json:"releaseDue"`
	ReleaseDate   *time.Time    `json:"releaseDate"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "transactionId"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	e, err := h.svc.GetByTransaction(r.Context(), caller.ID, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, escrowResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		Amount:        e.Amount,
		Status:        e.Status,
		ReleaseDue:    e.ReleaseDue,
		ReleaseDate:   e.ReleaseDate,
		CreatedAt:     e.CreatedAt,
	})
}
