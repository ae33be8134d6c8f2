package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

const meetingDuration = 30 * time.Minute

type MessageActionInput struct {
	LeadID string `json:"lead_id"`
	// MessageFile is the artifact name; empty means the draft for the lead.
	MessageFile string `json:"message_file,omitempty"`
}

type MessageActionResult struct {
	Status        string         `json:"status"`
	EmailSent     bool           `json:"email_sent"`
	CrmUpdate     *UpdateResult  `json:"crm_update,omitempty"`
	NextAction    string         `json:"next_action,omitempty"`
	MeetingResult *MeetingResult `json:"meeting_result,omitempty"`
	Message       string         `json:"message,omitempty"`
	Code          string         `json:"code,omitempty"`
}

// MessageActionUseCase sends an approved draft and records the outcome.
type MessageActionUseCase struct {
	Store       CrmStore
	Artifacts   ArtifactStore
	Sender      EmailSender
	Scheduler   MeetingScheduler
	Synthesizer *Synthesizer
	UpdateLead  *UpdateLeadUseCase
	Logger      *zap.Logger
	Now         func() time.Time
}

func NewMessageActionUseCase(store CrmStore, artifacts ArtifactStore, sender EmailSender, scheduler MeetingScheduler,
	synth *Synthesizer, updateLead *UpdateLeadUseCase, logger *zap.Logger) *MessageActionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageActionUseCase{
		Store:       store,
		Artifacts:   artifacts,
		Sender:      sender,
		Scheduler:   scheduler,
		Synthesizer: synth,
		UpdateLead:  updateLead,
		Logger:      logger,
		Now:         time.Now,
	}
}

func (uc *MessageActionUseCase) Execute(ctx context.Context, input MessageActionInput) MessageActionResult {
	if strings.TrimSpace(input.LeadID) == "" {
		return uc.fail(NewValidationError("lead_id is required"))
	}

	doc, err := uc.Store.Load(ctx)
	if err != nil {
		return uc.fail(NewStorageError("failed to load crm document", err))
	}
	lead := doc.FindLead(input.LeadID)
	if lead == nil {
		return uc.fail(NewNotFoundError(fmt.Sprintf("lead with id %s not found", input.LeadID)))
	}

	file := input.MessageFile
	if file == "" {
		file = MessageArtifact(lead.CompanyName, lead.FullName())
	}
	content, err := uc.Artifacts.Read(file)
	if err != nil {
		return uc.fail(NewNotFoundError(fmt.Sprintf("message file %s: %v", file, err)))
	}
	subject, body := ParseMessageArtifact(content)

	recipient := Recipient{
		Name:   lead.FirstName + " " + lead.LastName,
		Email:  lead.Email,
		LeadID: lead.RecordID,
	}

	sent, err := uc.Sender.SendEmail(ctx, subject, body, recipient)
	if err != nil {
		return uc.fail(NewTransportError("failed to send email", err))
	}

	nextAction := uc.classify(ctx, body)

	now := uc.Now()
	update := uc.UpdateLead.Execute(ctx, UpdateLeadInput{
		RecordID:      lead.RecordID,
		EmailMessage:  body,
		EmailSentDate: now.Format(entity.DateLayout),
	})

	result := MessageActionResult{
		Status:     StatusSuccess,
		EmailSent:  sent,
		CrmUpdate:  &update,
		NextAction: nextAction,
	}

	if WantsMeeting(nextAction) && uc.Scheduler != nil {
		loc := meetingZone(lead.Timezone)
		meeting := uc.Scheduler.ScheduleMeeting(ctx, MeetingRequest{
			AttendeeEmail: recipient.Email,
			AttendeeName:  recipient.Name,
			Subject:       subject,
			Body:          body,
			Start:         meetingStart(now, loc),
			Duration:      meetingDuration,
			Timezone:      loc.String(),
		})
		result.MeetingResult = &meeting
	}

	uc.Logger.Info("message action executed",
		zap.String("lead_id", lead.RecordID),
		zap.Bool("email_sent", sent),
		zap.String("next_action", nextAction),
		zap.String("crm_update", update.Status))
	return result
}

// classify never fails the action: a provider error falls back to the
// default action.
func (uc *MessageActionUseCase) classify(ctx context.Context, body string) string {
	if uc.Synthesizer == nil {
		return DefaultNextAction
	}
	out, err := uc.Synthesizer.Synthesize(ctx, NextActionTask, NewEvidenceBag(Evidence{Label: LabelEmailBody, Value: body}))
	if err != nil {
		uc.Logger.Warn("next action classification failed", zap.Error(err))
		return DefaultNextAction
	}
	first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	if first = strings.TrimSpace(first); first == "" {
		return DefaultNextAction
	}
	return first
}

func (uc *MessageActionUseCase) fail(err error) MessageActionResult {
	uc.Logger.Warn("message action failed", zap.Error(err))
	return MessageActionResult{Status: StatusError, Message: err.Error(), Code: ErrorCode(err)}
}

// WantsMeeting reports whether a classified action asks for a meeting.
func WantsMeeting(action string) bool {
	a := strings.ToLower(action)
	return strings.Contains(a, "schedule") || strings.Contains(a, "meeting") || strings.Contains(a, "call")
}

// meetingZone resolves the lead's zone. Empty or unknown zones use the
// default one.
func meetingZone(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// meetingStart is the same wall-clock time tomorrow in loc.
func meetingStart(now time.Time, loc *time.Location) time.Time {
	return now.In(loc).AddDate(0, 0, 1).Truncate(time.Minute)
}
