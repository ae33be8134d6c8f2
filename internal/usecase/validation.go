package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationFailure junta os erros de campo num único DomainError.
func validationFailure(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return NewValidationError("validation failed: " + strings.Join(parts, ", "))
}

func ValidateSimilarDealsInput(input SimilarDealsInput) []ValidationError {
	var errors []ValidationError
	if input.Criteria.DealSize != nil && *input.Criteria.DealSize < 0 {
		errors = append(errors, ValidationError{"criteria.deal_size", "must not be negative"})
	}
	return errors
}

func ValidateCompanyResearchInput(input CompanyResearchInput) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(input.CompanyName) == "" {
		errors = append(errors, ValidationError{"company_name", "is required"})
	} else if len(input.CompanyName) > 200 {
		errors = append(errors, ValidationError{"company_name", "must not exceed 200 characters"})
	}
	return errors
}

func ValidatePersonResearchInput(input PersonResearchInput) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if input.LinkedInURL != "" && !strings.Contains(input.LinkedInURL, "linkedin.com/in/") {
		errors = append(errors, ValidationError{"linkedin_url", "must be a linkedin.com/in/ profile URL"})
	}
	return errors
}

func ValidateDraftInput(input DraftMessageInput) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(input.CompanyName) == "" {
		errors = append(errors, ValidationError{"company_name", "is required"})
	}
	if strings.TrimSpace(input.ProspectName) == "" {
		errors = append(errors, ValidationError{"prospect_name", "is required"})
	}
	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	}
	return errors
}

func ValidateMeetingRequest(req MeetingRequest) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(req.AttendeeEmail) == "" {
		errors = append(errors, ValidationError{"attendee_email", "is required"})
	} else if _, err := mail.ParseAddress(req.AttendeeEmail); err != nil {
		errors = append(errors, ValidationError{"attendee_email", "is invalid"})
	}
	if req.Start.IsZero() {
		errors = append(errors, ValidationError{"start", "is required"})
	}
	if req.Duration <= 0 {
		errors = append(errors, ValidationError{"duration", "must be positive"})
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			errors = append(errors, ValidationError{"timezone", "is not a known IANA zone"})
		}
	}
	return errors
}

func isValidEmail(address string) bool {
	_, err := mail.ParseAddress(address)
	return err == nil
}

func parseDate(dateStr string) (time.Time, bool) {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
