package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

// CrmStore is the record store every use case reads the CRM through.
type CrmStore = entity.CrmDocumentRepository

type GenerationRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// TextGenerator is one configured LLM provider.
type TextGenerator interface {
	Provider() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type Recipient struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	LeadID string `json:"lead_id"`
}

type EmailSender interface {
	SendEmail(ctx context.Context, subject, body string, to Recipient) (bool, error)
}

type MeetingRequest struct {
	AttendeeEmail string        `json:"attendee_email"`
	AttendeeName  string        `json:"attendee_name"`
	Subject       string        `json:"subject"`
	Body          string        `json:"body"`
	Start         time.Time     `json:"start"`
	Duration      time.Duration `json:"duration"`
	Timezone      string        `json:"timezone"`
}

type MeetingResult struct {
	Status    string `json:"status"`
	Platform  string `json:"platform,omitempty"`
	EventLink string `json:"event_link,omitempty"`
	MeetLink  string `json:"meet_link,omitempty"`
	Message   string `json:"message,omitempty"`
}

// MeetingScheduler never returns an error: failures come back as
// MeetingResult{Status: "error"}.
type MeetingScheduler interface {
	ScheduleMeeting(ctx context.Context, req MeetingRequest) MeetingResult
}

type SimilarityService interface {
	FindSimilarDeals(ctx context.Context, input SimilarDealsInput) SimilarDealsResult
}

// ArtifactStore persists the plain-text hand-off files between stages.
type ArtifactStore interface {
	Write(name, content string) (path string, err error)
	Read(name string) (string, error)
	Path(name string) string
}

type LeadEventPublisher interface {
	PublishLeadUpdated(ctx context.Context, event entity.LeadUpdatedEvent) error
}
