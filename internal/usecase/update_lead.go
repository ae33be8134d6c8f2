package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

// Result states returned across the tool boundary.
const (
	StatusSuccess  = "success"
	StatusNoUpdate = "no_update"
	StatusError    = "error"
)

const followUpDays = 7

type UpdateLeadInput struct {
	RecordID      string `json:"record_id"`
	EmailMessage  string `json:"email_message,omitempty"`
	EmailSentDate string `json:"email_sent_date,omitempty"`
	NextFollowUp  string `json:"next_follow_up,omitempty"`
}

type UpdateResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	RecordID string `json:"record_id,omitempty"`
	Code     string `json:"code,omitempty"`
}

type UpdateLeadUseCase struct {
	Store     CrmStore
	Publisher LeadEventPublisher
	Logger    *zap.Logger
}

func NewUpdateLeadUseCase(store CrmStore, publisher LeadEventPublisher, logger *zap.Logger) *UpdateLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateLeadUseCase{Store: store, Publisher: publisher, Logger: logger}
}

var errNoChange = errors.New("no fields updated")

// Execute applies at most one bounded mutation to a lead and persists the
// whole document. It never returns an error: failures are an error result.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, input UpdateLeadInput) UpdateResult {
	if strings.TrimSpace(input.RecordID) == "" {
		return uc.fail(input.RecordID, NewValidationError("record_id is required"))
	}

	var event entity.LeadUpdatedEvent
	err := uc.Store.Update(ctx, func(doc *entity.CrmDocument) (bool, error) {
		lead := doc.FindLead(input.RecordID)
		if lead == nil {
			return false, NewNotFoundError(fmt.Sprintf("record_id %s not found", input.RecordID))
		}
		if !ApplyLeadUpdate(lead, input) {
			return false, errNoChange
		}
		event = leadUpdatedEvent(lead)
		return true, nil
	})

	switch {
	case errors.Is(err, errNoChange):
		return UpdateResult{
			Status:   StatusNoUpdate,
			Message:  "No fields updated (missing or empty info)",
			RecordID: input.RecordID,
		}
	case IsDomainError(err):
		return uc.fail(input.RecordID, err)
	case err != nil:
		return uc.fail(input.RecordID, NewStorageError("failed to update crm document", err))
	}

	uc.Logger.Info("lead updated",
		zap.String("record_id", input.RecordID),
		zap.Int("interaction_count", event.InteractionCount))

	if uc.Publisher != nil {
		if err := uc.Publisher.PublishLeadUpdated(ctx, event); err != nil {
			// O CRM já foi gravado; o evento é só espelhamento.
			uc.Logger.Warn("lead updated but event publish failed",
				zap.String("record_id", input.RecordID), zap.Error(err))
		}
	}

	return UpdateResult{
		Status:   StatusSuccess,
		Message:  "Lead updated successfully",
		RecordID: input.RecordID,
	}
}

func (uc *UpdateLeadUseCase) fail(recordID string, err error) UpdateResult {
	uc.Logger.Warn("lead update failed", zap.String("record_id", recordID), zap.Error(err))
	return UpdateResult{
		Status:   StatusError,
		Message:  err.Error(),
		RecordID: recordID,
		Code:     ErrorCode(err),
	}
}

// ApplyLeadUpdate mutates lead in place and reports whether anything
// changed. interaction_count moves by exactly one per changing call.
func ApplyLeadUpdate(lead *entity.Lead, input UpdateLeadInput) bool {
	updated := false

	if input.EmailMessage != "" && input.EmailSentDate != "" {
		lead.AppendMessage(input.EmailMessage, input.EmailSentDate)
		sent := input.EmailSentDate
		lead.LastContactDate = &sent
		updated = true

		followUp := input.NextFollowUp
		if followUp == "" {
			// Data inválida: segue sem follow-up, sem erro.
			if t, ok := parseDate(input.EmailSentDate); ok {
				followUp = t.AddDate(0, 0, followUpDays).Format(entity.DateLayout)
			}
		}
		if followUp != "" {
			lead.NextFollowUp = &followUp
		}
	} else if input.NextFollowUp != "" {
		followUp := input.NextFollowUp
		lead.NextFollowUp = &followUp
		updated = true
	}

	if updated {
		lead.InteractionCount++
	}
	return updated
}

func leadUpdatedEvent(lead *entity.Lead) entity.LeadUpdatedEvent {
	ev := entity.LeadUpdatedEvent{
		RecordID:         lead.RecordID,
		CompanyName:      lead.CompanyName,
		Email:            lead.Email,
		Phone:            lead.Phone,
		InteractionCount: lead.InteractionCount,
		Origin:           "CRM_UPDATE",
	}
	if lead.LastContactDate != nil {
		ev.LastContactDate = *lead.LastContactDate
	}
	if lead.NextFollowUp != nil {
		ev.NextFollowUp = *lead.NextFollowUp
	}
	if n := len(lead.MessageLog); n > 0 {
		ev.LastMessage = lead.MessageLog[n-1].Message
	}
	return ev
}
