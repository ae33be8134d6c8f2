package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

const defaultTimezone = "America/Los_Angeles"

type LeadInfo struct {
	LeadID          string `json:"lead_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CompanyName     string `json:"company_name"`
	Email           string `json:"email"`
	LinkedInURL     string `json:"linkedin_url"`
	Timezone        string `json:"timezone"`
	JobTitle        string `json:"job_title"`
	Phone           string `json:"phone"`
	LeadScore       int    `json:"lead_score"`
	CustomerSegment string `json:"customer_segment"`
}

// LeadProfileResult holds either one lead (LeadInfo) or the whole document
// (Leads and Deals) when no selection was given.
type LeadProfileResult struct {
	Status   string        `json:"status"`
	LeadInfo *LeadInfo     `json:"lead_info,omitempty"`
	Leads    []entity.Lead `json:"leads,omitempty"`
	Deals    []entity.Deal `json:"deals,omitempty"`
}

type LeadProfileUseCase struct {
	Store  CrmStore
	Logger *zap.Logger
}

func NewLeadProfileUseCase(store CrmStore, logger *zap.Logger) *LeadProfileUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadProfileUseCase{Store: store, Logger: logger}
}

// Execute resolves a "First Last - Company" selection. An empty selection
// returns every lead and deal.
func (uc *LeadProfileUseCase) Execute(ctx context.Context, selected string) (*LeadProfileResult, error) {
	var first, last, company string
	if strings.TrimSpace(selected) != "" {
		var err error
		first, last, company, err = ParseLeadSelection(selected)
		if err != nil {
			return nil, err
		}
	}

	doc, err := uc.Store.Load(ctx)
	if err != nil {
		return nil, NewStorageError("failed to load crm document", err)
	}

	if strings.TrimSpace(selected) == "" {
		return &LeadProfileResult{Status: StatusSuccess, Leads: doc.Leads, Deals: doc.Deals}, nil
	}

	lead := doc.FindLeadByName(first, last, company)
	if lead == nil {
		return nil, NewNotFoundError(fmt.Sprintf("could not find lead information for %s %s at %s", first, last, company))
	}

	info := toLeadInfo(lead)
	return &LeadProfileResult{Status: StatusSuccess, LeadInfo: &info}, nil
}

// ParseLeadSelection splits "First Last - Company". The last name may hold
// several words and may be empty.
func ParseLeadSelection(selected string) (first, last, company string, err error) {
	namePart, companyPart, ok := strings.Cut(selected, " - ")
	if !ok || strings.TrimSpace(namePart) == "" || strings.TrimSpace(companyPart) == "" {
		return "", "", "", NewValidationError(`selected lead must look like "First Last - Company"`)
	}
	first, last, _ = strings.Cut(strings.TrimSpace(namePart), " ")
	return first, strings.TrimSpace(last), strings.TrimSpace(companyPart), nil
}

func toLeadInfo(l *entity.Lead) LeadInfo {
	tz := l.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	return LeadInfo{
		LeadID:          l.RecordID,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		CompanyName:     l.CompanyName,
		Email:           l.Email,
		LinkedInURL:     l.LinkedInURL,
		Timezone:        tz,
		JobTitle:        l.JobTitle,
		Phone:           l.Phone,
		LeadScore:       l.LeadScore,
		CustomerSegment: l.CustomerSegment,
	}
}
