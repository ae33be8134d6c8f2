package gcalendar

type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type Attendee struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

type CreateRequest struct {
	RequestID string `json:"requestId"`
}

type ConferenceData struct {
	CreateRequest *CreateRequest `json:"createRequest,omitempty"`
	EntryPoints   []EntryPoint   `json:"entryPoints,omitempty"`
}

type EntryPoint struct {
	EntryPointType string `json:"entryPointType"`
	URI            string `json:"uri"`
}

type Event struct {
	Summary        string          `json:"summary"`
	Description    string          `json:"description"`
	Start          EventTime       `json:"start"`
	End            EventTime       `json:"end"`
	Attendees      []Attendee      `json:"attendees"`
	ConferenceData *ConferenceData `json:"conferenceData,omitempty"`
}

type CreatedEvent struct {
	ID             string          `json:"id"`
	HTMLLink       string          `json:"htmlLink"`
	ConferenceData *ConferenceData `json:"conferenceData,omitempty"`
}

// MeetLink is the first conference entry point, if any.
func (e *CreatedEvent) MeetLink() string {
	if e.ConferenceData == nil || len(e.ConferenceData.EntryPoints) == 0 {
		return ""
	}
	return e.ConferenceData.EntryPoints[0].URI
}
