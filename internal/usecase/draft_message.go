package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

type DraftMessageInput struct {
	CompanyName  string `json:"company_name"`
	ProspectName string `json:"prospect_name"`
	LeadID       string `json:"lead_id"`
}

type DraftMessageResult struct {
	Status     string `json:"status"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	Company    string `json:"company,omitempty"`
	OutputFile string `json:"output_file,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
}

type DraftMessageUseCase struct {
	Store       CrmStore
	Similar     SimilarityService
	Synthesizer *Synthesizer
	Artifacts   ArtifactStore
	Logger      *zap.Logger
}

func NewDraftMessageUseCase(store CrmStore, similar SimilarityService, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger) *DraftMessageUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DraftMessageUseCase{Store: store, Similar: similar, Synthesizer: synth, Artifacts: artifacts, Logger: logger}
}

func (uc *DraftMessageUseCase) Execute(ctx context.Context, input DraftMessageInput) DraftMessageResult {
	if errs := ValidateDraftInput(input); len(errs) > 0 {
		return uc.fail(validationFailure(errs))
	}

	report := readArtifactOrPlaceholder(uc.Artifacts, ReportArtifact(input.CompanyName, input.ProspectName))
	comm := readArtifactOrPlaceholder(uc.Artifacts, CommunicationArtifact(input.LeadID))

	doc, err := uc.Store.Load(ctx)
	if err != nil {
		return uc.fail(NewStorageError("failed to load crm document", err))
	}
	lead := doc.FindLead(input.LeadID)
	if lead == nil {
		return uc.fail(NewNotFoundError(fmt.Sprintf("lead with id %s not found", input.LeadID)))
	}

	bag := NewEvidenceBag(
		Evidence{Label: LabelProspect, Value: input.ProspectName},
		Evidence{Label: LabelCompany, Value: input.CompanyName},
		Evidence{Label: LabelReport, Value: report},
		Evidence{Label: LabelCommSummary, Value: comm},
		Evidence{Label: LabelSimilarDeal, Value: SimilarDealPhrase(uc.topSimilarDeal(ctx, lead))},
		Evidence{Label: LabelClientContext, Value: SegmentationContext(lead.LeadScore, lead.CustomerSegment)},
	)

	text, err := uc.Synthesizer.Synthesize(ctx, EmailDraftTask, bag)
	if err != nil {
		return uc.fail(err)
	}
	subject, body := SplitEmailDraft(text)

	name := MessageArtifact(input.CompanyName, input.ProspectName)
	path, err := uc.Artifacts.Write(name, FormatEmailDraft(subject, body))
	if err != nil {
		return uc.fail(NewStorageError("failed to write "+name, err))
	}

	uc.Logger.Info("✉️ message drafted",
		zap.String("lead_id", input.LeadID), zap.String("file", path))

	return DraftMessageResult{
		Status:     StatusSuccess,
		Subject:    subject,
		Body:       body,
		Recipient:  input.ProspectName,
		Company:    input.CompanyName,
		OutputFile: path,
		Provider:   uc.Synthesizer.ProviderName(),
	}
}

// topSimilarDeal uses the lead's industry, and its deal size only when set.
func (uc *DraftMessageUseCase) topSimilarDeal(ctx context.Context, lead *entity.Lead) *SimilarDeal {
	if uc.Similar == nil {
		return nil
	}
	var criteria SimilarityCriteria
	if lead.DealSize != nil && *lead.DealSize != 0 {
		criteria.DealSize = lead.DealSize
	}
	res := uc.Similar.FindSimilarDeals(ctx, SimilarDealsInput{Industry: lead.Industry, Criteria: criteria})
	if res.Status != StatusSuccess || len(res.Matches) == 0 {
		return nil
	}
	return &res.Matches[0]
}

func (uc *DraftMessageUseCase) fail(err error) DraftMessageResult {
	uc.Logger.Warn("message drafting failed", zap.Error(err))
	return DraftMessageResult{Status: StatusError, Message: err.Error(), Code: ErrorCode(err)}
}

// SimilarDealPhrase is empty when there is no similar deal.
func SimilarDealPhrase(deal *SimilarDeal) string {
	if deal == nil {
		return ""
	}
	company := deal.CompanyName
	if company == "" {
		company = "a peer company"
	}
	industry := deal.Industry
	if industry == "" {
		industry = "your industry"
	}
	metric := ""
	if roi, ok := deal.KeyMetrics["roi"]; ok && !isZeroMetric(roi) {
		metric = fmt.Sprintf(" (ROI: %v%%)", roi)
	}
	return fmt.Sprintf("Recently, we completed a successful project with %s in %s%s, which may be relevant to your goals.",
		company, industry, metric)
}

func isZeroMetric(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return t == 0
	case string:
		return t == ""
	case bool:
		return !t
	}
	return false
}

var (
	midMarketSegments = []string{"mid-market", "midmarket", "mid market"}
	smbSegments       = []string{"smb", "small business", "small & medium business"}
)

// ContextPhrase picks the positioning sentence for a lead from its score
// and segment. Checks run in order; the first match wins.
func ContextPhrase(leadScore int, segment string) string {
	seg := strings.ToLower(segment)
	switch {
	case seg == entity.SegmentEnterprise && leadScore >= 90:
		return "This is a flagship, high-priority client, a leader in their industry with significant influence and expectations. " +
			"They should be made to feel like a strategic partner and top priority. "
	case seg == entity.SegmentEnterprise && leadScore >= 80:
		return "This is a major enterprise player with strong potential for partnership and impact. " +
			"Highlight their scale, reputation, and readiness for innovation. "
	case oneOf(seg, midMarketSegments) && leadScore >= 85:
		return "This is a fast-growing, innovative brand in the mid-market segment, showing strong momentum and openness to new solutions. " +
			"Emphasize their growth, agility, and potential to become a market leader. "
	case oneOf(seg, midMarketSegments):
		return "This is a promising mid-market company with ambitions for growth and digital transformation. " +
			"Position our offer as a catalyst for their next stage of success. "
	case oneOf(seg, smbSegments):
		return "This is an emerging brand with entrepreneurial spirit and a focus on innovation. " +
			"Highlight how we can help them scale and compete with larger players. "
	default:
		return "This prospect represents a valuable opportunity, with unique strengths and potential for partnership. " +
			"Tailor the message to their business context and aspirations. "
	}
}

func SegmentationContext(leadScore int, segment string) string {
	return ContextPhrase(leadScore, segment) +
		"Weave this context into the message naturally, highlighting their leadership, innovation, or market position, but do NOT mention scoring, segmentation, or any internal labels."
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
