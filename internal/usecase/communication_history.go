package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

type HistoryLeadInfo struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	LeadScore int    `json:"lead_score"`
}

type CommunicationInfo struct {
	Notes                  string                   `json:"notes"`
	LastContactDate        *string                  `json:"last_contact_date"`
	InteractionCount       int                      `json:"interaction_count"`
	PreferredContactMethod string                   `json:"preferred_contact_method"`
	Timezone               string                   `json:"timezone"`
	MessageLog             []entity.MessageLogEntry `json:"message_log"`
}

type CommunicationHistory struct {
	Status            string            `json:"status"`
	LeadID            string            `json:"lead_id"`
	LeadInfo          HistoryLeadInfo   `json:"lead_info"`
	CommunicationInfo CommunicationInfo `json:"communication_info"`
}

type CommunicationHistoryUseCase struct {
	Store  CrmStore
	Logger *zap.Logger
}

func NewCommunicationHistoryUseCase(store CrmStore, logger *zap.Logger) *CommunicationHistoryUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunicationHistoryUseCase{Store: store, Logger: logger}
}

func (uc *CommunicationHistoryUseCase) Execute(ctx context.Context, leadID string) (*CommunicationHistory, error) {
	if strings.TrimSpace(leadID) == "" {
		return nil, NewValidationError("lead_id is required")
	}

	doc, err := uc.Store.Load(ctx)
	if err != nil {
		return nil, NewStorageError("failed to load crm document", err)
	}

	lead := doc.FindLead(leadID)
	if lead == nil {
		return nil, NewNotFoundError(fmt.Sprintf("lead with ID %s not found", leadID))
	}
	return historyOf(lead), nil
}

func historyOf(lead *entity.Lead) *CommunicationHistory {
	return &CommunicationHistory{
		Status: StatusSuccess,
		LeadID: lead.RecordID,
		LeadInfo: HistoryLeadInfo{
			Name:      lead.FirstName + " " + lead.LastName,
			Company:   lead.CompanyName,
			Title:     lead.JobTitle,
			Status:    lead.Status,
			LeadScore: lead.LeadScore,
		},
		CommunicationInfo: CommunicationInfo{
			Notes:                  lead.Notes,
			LastContactDate:        lead.LastContactDate,
			InteractionCount:       lead.InteractionCount,
			PreferredContactMethod: lead.PreferredContactMethod,
			Timezone:               lead.Timezone,
			MessageLog:             lead.MessageLog,
		},
	}
}

// String renders the history as indented JSON for prompts and artifacts.
func (h *CommunicationHistory) String() string {
	out, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *h)
	}
	return string(out)
}
