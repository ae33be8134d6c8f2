package usecase

import (
	"context"

	"go.uber.org/zap"
)

type SalesReportInput struct {
	LeadID string `json:"lead_id"`
}

// SalesReportUseCase combines the company and person research artifacts with
// the CRM history into report_<company>_<name>.txt.
type SalesReportUseCase struct {
	History     *CommunicationHistoryUseCase
	Synthesizer *Synthesizer
	Artifacts   ArtifactStore
	Logger      *zap.Logger
}

func NewSalesReportUseCase(history *CommunicationHistoryUseCase, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger) *SalesReportUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesReportUseCase{History: history, Synthesizer: synth, Artifacts: artifacts, Logger: logger}
}

func (uc *SalesReportUseCase) Execute(ctx context.Context, input SalesReportInput) DocumentResult {
	history, err := uc.History.Execute(ctx, input.LeadID)
	if err != nil {
		return documentFailure(uc.Logger, err)
	}
	name := history.LeadInfo.Name
	company := history.LeadInfo.Company

	bag := NewEvidenceBag(
		Evidence{Label: LabelProspect, Value: name},
		Evidence{Label: LabelCompany, Value: company},
		Evidence{Label: LabelCompanyResearch, Value: readArtifactOrPlaceholder(uc.Artifacts, CompanyArtifact(company))},
		Evidence{Label: LabelPersonResearch, Value: readArtifactOrPlaceholder(uc.Artifacts, PersonArtifact(name))},
		Evidence{Label: LabelHistory, Value: history},
	)

	return writeDocument(ctx, uc.Synthesizer, uc.Artifacts, uc.Logger,
		SalesReportTask, bag, ReportArtifact(company, name))
}
