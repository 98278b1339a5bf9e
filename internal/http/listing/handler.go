package listing

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/unimarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
	"github.com/MrJamesThe3rd/unimarket/internal/money"
	"github.com/MrJamesThe3rd/unimarket/internal/payment"
)

type Handler struct {
	svc      *listing.Service
	checkout *payment.Checkout
}

func NewHandler(svc *listing.Service, checkout *payment.Checkout) *Handler {
	return &Handler{svc: svc, checkout: checkout}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/sponsorship-plans", h.plans)
	r.Get("/{id}", h.get)
	r.Post("/{id}/sponsor", h.sponsor)
}

type listingResponse struct {
	ID             uuid.UUID      `json:"id"`
	OwnerID        uuid.UUID      `json:"ownerId"`
	Title          string         `json:"title"`
	Price          int64          `json:"price"`
	Status         listing.Status `json:"status"`
	IsAvailable    bool           `json:"isAvailable"`
	IsSponsored    bool           `json:"isSponsored"`
	SponsoredTier  *listing.Tier  `json:"sponsoredTier"`
	SponsoredUntil *time.Time     `json:"sponsoredUntil"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, listingResponse{
		ID:             l.ID,
		OwnerID:        l.OwnerID,
		Title:          l.Title,
		Price:          l.Price,
		Status:         l.Status,
		IsAvailable:    l.IsAvailable,
		IsSponsored:    l.IsSponsored,
		SponsoredTier:  l.SponsoredTier,
		SponsoredUntil: l.SponsoredUntil,
	})
}

type planResponse struct {
	TierID       listing.Tier `json:"tierId"`
	Name         string       `json:"name"`
	DurationDays int          `json:"durationDays"`
	Amount       int64        `json:"amount"`
}

func (h *Handler) plans(w http.ResponseWriter, _ *http.Request) {
	tiers := []listing.Tier{listing.TierBasic, listing.TierPremium, listing.TierFeatured}
	resp := make([]planResponse, 0, len(tiers))

	for _, t := range tiers {
		p, _ := listing.PlanFor(t)
		resp = append(resp, planResponse{
			TierID:       p.Tier,
			Name:         p.Name,
			DurationDays: int(p.Duration.Hours() / 24),
			Amount:       money.ToMinor(p.Price),
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}

type sponsorRequest struct {
	TierID listing.Tier `json:"tierId"`
}

type sponsorResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

func (h *Handler) sponsor(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req sponsorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	res, err := h.checkout.Sponsor(r.Context(), caller, id, req.TierID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, sponsorResponse{
		AuthorizationURL: res.AuthorizationURL,
		Reference:        res.Sponsorship.Reference,
	})
}
