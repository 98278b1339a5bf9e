package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
	"github.com/MrJamesThe3rd/unimarket/internal/pagination"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
	"github.com/MrJamesThe3rd/unimarket/internal/transaction"
)

type Handler struct {
	svc      *transaction.Service
	checkout *payment.Checkout
}

func NewHandler(svc *transaction.Service, checkout *payment.Checkout) *Handler {
	return &Handler{svc: svc, checkout: checkout}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.purchase)
	r.Get("/", h.list)
	r.Put("/", h.act)
	r.Get("/{id}", h.get)
}

type purchaseRequest struct {
	ListingID      uuid.UUID                 `json:"listingId"`
	PaymentMethod  transaction.PaymentMethod `json:"paymentMethod"`
	UseEscrow      bool                      `json:"useEscrow"`
	MeetupLocation string                    `json:"meetupLocation"`
	MeetupTime     *time.Time                `json:"meetupTime"`
}

type purchaseResponse struct {
	Transaction      transactionResponse `json:"transaction"`
	AuthorizationURL string              `json:"authorization_url,omitempty"`
}

func (h *Handler) purchase(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ListingID == uuid.Nil {
		respond.Message(w, http.StatusBadRequest, "listingId is required")
		return
	}

	res, err := h.checkout.Purchase(r.Context(), caller, payment.PurchaseParams{
		ListingID:      req.ListingID,
		PaymentMethod:  transaction.PaymentMethod(strings.ToUpper(string(req.PaymentMethod))),
		EscrowEnabled:  req.UseEscrow,
		MeetupLocation: req.MeetupLocation,
		MeetupTime:     req.MeetupTime,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, purchaseResponse{
		Transaction:      toResponse(res.Transaction),
		AuthorizationURL: res.AuthorizationURL,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())
	q := r.URL.Query()

	filter := transaction.ListFilter{UserID: caller.ID}

	switch role := transaction.Role(q.Get("type")); role {
	case transaction.RoleAny, transaction.RoleBuying, transaction.RoleSelling:
		filter.Role = role
	default:
		respond.Message(w, http.StatusBadRequest, "type must be buying or selling")
		return
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(strings.ToUpper(s)))
	}

	cursor, err := pagination.Decode(q.Get("cursor"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.Cursor = cursor

	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			respond.Message(w, http.StatusBadRequest, "limit must be a number")
			return
		}

		filter.Limit = limit
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.svc.Get(r.Context(), id, caller.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, singleResponse{Transaction: toResponse(t)})
}

type actRequest struct {
	TransactionID uuid.UUID          `json:"transactionId"`
	Action        transaction.Action `json:"action"`
}

func (h *Handler) act(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	var req actRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TransactionID == uuid.Nil || req.Action == "" {
		respond.Message(w, http.StatusBadRequest, "transactionId and action are required")
		return
	}

	t, err := h.svc.Act(r.Context(), caller.ID, req.TransactionID, req.Action)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, singleResponse{Transaction: toResponse(t)})
}
