package jobs

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/unimarket/internal/http/respond"
	"github.com/MrJamesThe3rd/unimarket/internal/jobs"
)

type Handler struct {
	sweeper *jobs.Sweeper
}

func NewHandler(sweeper *jobs.Sweeper) *Handler {
	return &Handler{sweeper: sweeper}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/cleanup-escrow", h.cleanupEscrow)
	r.Post("/cleanup-sponsorships", h.cleanupSponsorships)
}

type cleanupResponse struct {
	Success        bool  `json:"success"`
	ProcessedCount int64 `json:"processedCount"`
}

func (h *Handler) cleanupEscrow(w http.ResponseWriter, r *http.Request) {
	n, err := h.sweeper.SweepEscrows(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, cleanupResponse{Success: true, ProcessedCount: int64(n)})
}

func (h *Handler) cleanupSponsorships(w http.ResponseWriter, r *http.Request) {
	n, err := h.sweeper.SweepSponsorships(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, cleanupResponse{Success: true, ProcessedCount: n})
}
