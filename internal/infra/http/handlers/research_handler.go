package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type (
	CompanyResearcher interface {
		Execute(ctx context.Context, input usecase.CompanyResearchInput) usecase.ResearchResult
	}
	PersonResearcher interface {
		Execute(ctx context.Context, input usecase.PersonResearchInput) usecase.ResearchResult
	}
)

type ResearchHandler struct {
	Company     CompanyResearcher
	Person      PersonResearcher
	rateLimiter *RateLimiter
}

func NewResearchHandler(company CompanyResearcher, person PersonResearcher, limiter *RateLimiter) *ResearchHandler {
	if limiter == nil {
		limiter = NewRateLimiter(10, time.Minute) // 10 req/min por IP
	}
	return &ResearchHandler{Company: company, Person: person, rateLimiter: limiter}
}

func (h *ResearchHandler) ResearchCompany(w http.ResponseWriter, r *http.Request) {
	var input usecase.CompanyResearchInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out := h.Company.Execute(r.Context(), input)
	writeResult(w, out.Status, out.Code, out)
}

func (h *ResearchHandler) ResearchPerson(w http.ResponseWriter, r *http.Request) {
	var input usecase.PersonResearchInput
	if !decodeJSON(w, r, &input) {
		return
	}
	out := h.Person.Execute(r.Context(), input)
	writeResult(w, out.Status, out.Code, out)
}

func (h *ResearchHandler) Routes(r chi.Router) {
	r.Post("/research/company", h.rateLimiter.Limit(h.ResearchCompany))
	r.Post("/research/person", h.rateLimiter.Limit(h.ResearchPerson))
}
