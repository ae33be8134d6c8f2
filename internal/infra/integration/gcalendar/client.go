package gcalendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

const isoLocal = "2006-01-02T15:04:05"

// Client inserts events through the Calendar v3 REST API with an OAuth
// bearer token obtained out of band.
type Client struct {
	BaseURL    string
	Token      string
	CalendarID string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewClient(token, calendarID string, logger *zap.Logger, opts ...func(*Client)) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		BaseURL:    "https://www.googleapis.com/calendar/v3",
		Token:      token,
		CalendarID: calendarID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithBaseURL(baseURL string) func(*Client) {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.BaseURL = baseURL
		}
	}
}

// ScheduleMeeting never returns an error; failures are a result with
// status "error".
func (c *Client) ScheduleMeeting(ctx context.Context, req usecase.MeetingRequest) usecase.MeetingResult {
	if errs := usecase.ValidateMeetingRequest(req); len(errs) > 0 {
		return errorResult(fmt.Errorf("invalid meeting request: %v", errs))
	}
	if c.Token == "" {
		return errorResult(fmt.Errorf("google calendar token not configured"))
	}

	created, err := c.insertEvent(ctx, NewEvent(req, "meet-"+uuid.NewString()))
	if err != nil {
		c.Logger.Warn("📅 calendar event failed", zap.String("attendee", req.AttendeeEmail), zap.Error(err))
		return errorResult(err)
	}

	c.Logger.Info("📅 calendar event created", zap.String("attendee", req.AttendeeEmail), zap.String("event", created.HTMLLink))
	return usecase.MeetingResult{
		Status:    usecase.StatusSuccess,
		Platform:  "google",
		EventLink: created.HTMLLink,
		MeetLink:  created.MeetLink(),
	}
}

// NewEvent builds the insert payload. Times are wall-clock in req.Timezone.
func NewEvent(req usecase.MeetingRequest, requestID string) Event {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	start := req.Start
	if loc, err := time.LoadLocation(tz); err == nil {
		start = start.In(loc)
	}
	end := start.Add(req.Duration)

	return Event{
		Summary:     req.Subject,
		Description: req.Body,
		Start:       EventTime{DateTime: start.Format(isoLocal), TimeZone: tz},
		End:         EventTime{DateTime: end.Format(isoLocal), TimeZone: tz},
		Attendees:   []Attendee{{Email: req.AttendeeEmail, DisplayName: req.AttendeeName}},
		ConferenceData: &ConferenceData{
			CreateRequest: &CreateRequest{RequestID: requestID},
		},
	}
}

func (c *Client) insertEvent(ctx context.Context, event Event) (*CreatedEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", c.BaseURL, url.PathEscape(c.CalendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("calendar API error (status %d): %s", resp.StatusCode, string(body))
	}

	var created CreatedEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse calendar response: %w", err)
	}
	return &created, nil
}

func errorResult(err error) usecase.MeetingResult {
	return usecase.MeetingResult{Status: usecase.StatusError, Message: err.Error()}
}

// MockScheduler records the meeting without calling any provider.
type MockScheduler struct {
	Logger *zap.Logger
}

func NewMockScheduler(logger *zap.Logger) *MockScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockScheduler{Logger: logger}
}

func (m *MockScheduler) ScheduleMeeting(_ context.Context, req usecase.MeetingRequest) usecase.MeetingResult {
	if errs := usecase.ValidateMeetingRequest(req); len(errs) > 0 {
		return errorResult(fmt.Errorf("invalid meeting request: %v", errs))
	}
	id := uuid.NewString()
	m.Logger.Info("📅 mock meeting scheduled",
		zap.String("id", id), zap.String("attendee", req.AttendeeEmail), zap.Time("start", req.Start))
	return usecase.MeetingResult{
		Status:    usecase.StatusSuccess,
		Platform:  "mock",
		EventLink: "mock://calendar/events/" + id,
	}
}
