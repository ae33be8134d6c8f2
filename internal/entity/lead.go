package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

const DateLayout = "2006-01-02"

// Segments aceitos em customer_segment.
const (
	SegmentEnterprise = "enterprise"
	SegmentMidMarket  = "mid-market"
	SegmentSMB        = "smb"
	SegmentOther      = "other"
)

// MessageLogEntry is one sent message. Entries loaded from disk that are not
// a plain {message, timestamp} pair keep their original bytes in Raw and are
// written back unchanged.
type MessageLogEntry struct {
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
	Raw       json.RawMessage `json:"-"`
}

type messageLogAlias struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (e *MessageLogEntry) UnmarshalJSON(data []byte) error {
	*e = MessageLogEntry{}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) == nil {
		msg, okMsg := jsonString(fields["message"])
		ts, okTs := jsonString(fields["timestamp"])
		e.Message, e.Timestamp = msg, ts
		if okMsg && okTs && len(fields) == 2 {
			return nil
		}
	}
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (e MessageLogEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(messageLogAlias{Message: e.Message, Timestamp: e.Timestamp})
}

func jsonString(v json.RawMessage) (string, bool) {
	var s string
	if len(v) == 0 || v[0] != '"' || json.Unmarshal(v, &s) != nil {
		return "", false
	}
	return s, true
}

// looseNumber aceita número JSON ou string numérica ("92").
func looseNumber(v json.RawMessage) (float64, bool) {
	var n json.Number
	if json.Unmarshal(v, &n) != nil || n == "" {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

// Lead is one prospect row of the CRM document. Keys the struct does not
// know are kept in Extra and written back untouched.
type Lead struct {
	RecordID               string            `json:"record_id"`
	FirstName              string            `json:"first_name"`
	LastName               string            `json:"last_name"`
	CompanyName            string            `json:"company_name"`
	Email                  string            `json:"email"`
	JobTitle               string            `json:"job_title,omitempty"`
	Phone                  string            `json:"phone,omitempty"`
	Status                 string            `json:"status,omitempty"`
	LinkedInURL            string            `json:"linkedin_url"`
	CompanyWebsite         string            `json:"company_website"`
	Industry               string            `json:"industry"`
	DealSize               *float64          `json:"deal_size"`
	LeadScore              int               `json:"lead_score"`
	CustomerSegment        string            `json:"customer_segment"`
	Timezone               string            `json:"timezone"`
	PreferredContactMethod string            `json:"preferred_contact_method"`
	Notes                  string            `json:"notes"`
	LastContactDate        *string           `json:"last_contact_date"`
	NextFollowUp           *string           `json:"next_follow_up"`
	InteractionCount       int               `json:"interaction_count"`
	MessageLog             []MessageLogEntry `json:"message_log"`

	Extra map[string]json.RawMessage `json:"-"`
}

// leadAlias evita recursão infinita no Marshal/Unmarshal customizado.
type leadAlias Lead

func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// AppendMessage adds an entry at the end of the log. Entries are never
// rewritten, so insertion order is chronological order.
func (l *Lead) AppendMessage(message, timestamp string) {
	l.MessageLog = append(l.MessageLog, MessageLogEntry{Message: message, Timestamp: timestamp})
}

func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// message_log: a list is kept element by element; any other shape is
	// treated as absent and recreated on the next append.
	var log []MessageLogEntry
	if v, ok := raw["message_log"]; ok {
		if t := bytes.TrimSpace(v); len(t) > 0 && t[0] == '[' {
			if err := json.Unmarshal(t, &log); err != nil {
				return err
			}
		}
		delete(raw, "message_log")
	}

	// seeds às vezes trazem números como string.
	count := 0
	if v, ok := raw["interaction_count"]; ok {
		if f, ok := looseNumber(v); ok {
			count = int(f)
		}
		delete(raw, "interaction_count")
	}
	score := 0
	if v, ok := raw["lead_score"]; ok {
		if f, ok := looseNumber(v); ok {
			score = int(f)
		}
		delete(raw, "lead_score")
	}
	var dealSize *float64
	if v, ok := raw["deal_size"]; ok {
		if f, ok := looseNumber(v); ok {
			dealSize = &f
		}
		delete(raw, "deal_size")
	}

	known, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var a leadAlias
	if err := json.Unmarshal(known, &a); err != nil {
		return err
	}
	a.MessageLog = log
	a.InteractionCount = count
	a.LeadScore = score
	a.DealSize = dealSize

	for _, k := range leadKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*l = Lead(a)
	return nil
}

func (l Lead) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(leadAlias(l))
	if err != nil {
		return nil, err
	}
	if len(l.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(l.Extra)+len(leadKeys))
	for k, v := range l.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

var leadKeys = []string{
	"record_id", "first_name", "last_name", "company_name", "email", "job_title",
	"phone", "status", "linkedin_url", "company_website", "industry", "deal_size",
	"lead_score", "customer_segment", "timezone", "preferred_contact_method",
	"notes", "last_contact_date", "next_follow_up", "interaction_count", "message_log",
}
