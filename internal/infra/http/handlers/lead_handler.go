package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type (
	ProfileFinder interface {
		Execute(ctx context.Context, selected string) (*usecase.LeadProfileResult, error)
	}
	HistoryReader interface {
		Execute(ctx context.Context, leadID string) (*usecase.CommunicationHistory, error)
	}
	LeadUpdater interface {
		Execute(ctx context.Context, input usecase.UpdateLeadInput) usecase.UpdateResult
	}
	SummaryWriter interface {
		Execute(ctx context.Context, input usecase.CommunicationSummaryInput) usecase.DocumentResult
	}
	ReportWriter interface {
		Execute(ctx context.Context, input usecase.SalesReportInput) usecase.DocumentResult
	}
	MessageDrafter interface {
		Execute(ctx context.Context, input usecase.DraftMessageInput) usecase.DraftMessageResult
	}
	ActionRunner interface {
		Execute(ctx context.Context, input usecase.MessageActionInput) usecase.MessageActionResult
	}
)

type LeadHandler struct {
	Profile ProfileFinder
	History HistoryReader
	Update  LeadUpdater
	Summary SummaryWriter
	Report  ReportWriter
	Draft   MessageDrafter
	Action  ActionRunner

	// OnUpdate recebe o status de cada UpdateLead (métrica).
	OnUpdate func(status string)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Profile.Execute(r.Context(), "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Lookup resolves ?selected=First Last - Company, falling back to the
// lead chosen in the session.
func (h *LeadHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("selected")
	if selected == "" {
		if s, ok := usecase.SessionFrom(r.Context()); ok {
			selected = s.SelectedLead
		}
	}
	if selected == "" {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "selected is required")
		return
	}

	out, err := h.Profile.Execute(r.Context(), selected)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	out, err := h.History.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.RecordID = chi.URLParam(r, "id")

	out := h.Update.Execute(r.Context(), input)
	if h.OnUpdate != nil {
		h.OnUpdate(out.Status)
	}
	writeResult(w, out.Status, out.Code, out)
}

type communicationSummaryRequest struct {
	UploadedDocument string `json:"uploaded_document,omitempty"`
}

func (h *LeadHandler) CommunicationSummary(w http.ResponseWriter, r *http.Request) {
	var req communicationSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out := h.Summary.Execute(r.Context(), usecase.CommunicationSummaryInput{
		LeadID:           chi.URLParam(r, "id"),
		UploadedDocument: req.UploadedDocument,
	})
	writeResult(w, out.Status, out.Code, out)
}

func (h *LeadHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	out := h.Report.Execute(r.Context(), usecase.SalesReportInput{LeadID: chi.URLParam(r, "id")})
	writeResult(w, out.Status, out.Code, out)
}

func (h *LeadHandler) DraftMessage(w http.ResponseWriter, r *http.Request) {
	var input usecase.DraftMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	out := h.Draft.Execute(r.Context(), input)
	writeResult(w, out.Status, out.Code, out)
}

func (h *LeadHandler) ExecuteAction(w http.ResponseWriter, r *http.Request) {
	var input usecase.MessageActionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	out := h.Action.Execute(r.Context(), input)
	if out.CrmUpdate != nil && h.OnUpdate != nil {
		h.OnUpdate(out.CrmUpdate.Status)
	}
	writeResult(w, out.Status, out.Code, out)
}

func (h *LeadHandler) Routes(r chi.Router) {
	r.Get("/leads", h.List)
	r.Get("/leads/lookup", h.Lookup)
	r.Get("/leads/{id}/history", h.GetHistory)
	r.Post("/leads/{id}/update", h.UpdateLead)
	r.Post("/leads/{id}/communication-summary", h.CommunicationSummary)
	r.Post("/leads/{id}/report", h.SalesReport)
	r.Post("/leads/{id}/draft", h.DraftMessage)
	r.Post("/leads/{id}/actions", h.ExecuteAction)
}
