package handlers

import (
	"net/http"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type DealHandler struct {
	Similar usecase.SimilarityService
}

func NewDealHandler(similar usecase.SimilarityService) *DealHandler {
	return &DealHandler{Similar: similar}
}

func (h *DealHandler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	var input usecase.SimilarDealsInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out := h.Similar.FindSimilarDeals(r.Context(), input)
	writeResult(w, out.Status, out.Code, out)
}
