package entity

// LeadUpdatedEvent is published after a successful CRM mutation.
type LeadUpdatedEvent struct {
	RecordID         string `json:"record_id"`
	CompanyName      string `json:"company_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	InteractionCount int    `json:"interaction_count"`
	LastContactDate  string `json:"last_contact_date,omitempty"`
	NextFollowUp     string `json:"next_follow_up,omitempty"`
	LastMessage      string `json:"last_message,omitempty"`
	Origin           string `json:"origin"`
}
