package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// DocumentResult is returned by the use cases that synthesize one text
// artifact from stored data.
type DocumentResult struct {
	Status     string `json:"status"`
	Content    string `json:"content,omitempty"`
	OutputFile string `json:"output_file,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
}

type CommunicationSummaryInput struct {
	LeadID           string `json:"lead_id"`
	UploadedDocument string `json:"uploaded_document,omitempty"`
}

type CommunicationSummaryUseCase struct {
	History     *CommunicationHistoryUseCase
	Synthesizer *Synthesizer
	Artifacts   ArtifactStore
	Logger      *zap.Logger
}

func NewCommunicationSummaryUseCase(history *CommunicationHistoryUseCase, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger) *CommunicationSummaryUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommunicationSummaryUseCase{History: history, Synthesizer: synth, Artifacts: artifacts, Logger: logger}
}

// Execute summarizes the CRM history (plus an optional uploaded document)
// into comm_<lead_id>.txt.
func (uc *CommunicationSummaryUseCase) Execute(ctx context.Context, input CommunicationSummaryInput) DocumentResult {
	history, err := uc.History.Execute(ctx, input.LeadID)
	if err != nil {
		return documentFailure(uc.Logger, err)
	}

	bag := NewEvidenceBag(
		Evidence{Label: LabelProspect, Value: history.LeadInfo.Name},
		Evidence{Label: LabelCompany, Value: history.LeadInfo.Company},
		Evidence{Label: LabelHistory, Value: history},
	)
	if doc := strings.TrimSpace(input.UploadedDocument); doc != "" {
		bag = bag.With(LabelDocument, doc)
	}

	return writeDocument(ctx, uc.Synthesizer, uc.Artifacts, uc.Logger,
		CommunicationSummaryTask, bag, CommunicationArtifact(input.LeadID))
}

func writeDocument(ctx context.Context, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger,
	task Task, bag EvidenceBag, artifact string) DocumentResult {

	content, err := synth.Synthesize(ctx, task, bag)
	if err != nil {
		return documentFailure(logger, err)
	}
	path, err := artifacts.Write(artifact, content)
	if err != nil {
		return documentFailure(logger, NewStorageError("failed to write "+artifact, err))
	}
	logger.Info("document written", zap.String("task", task.Name), zap.String("file", path))

	return DocumentResult{
		Status:     StatusSuccess,
		Content:    content,
		OutputFile: path,
		Provider:   synth.ProviderName(),
	}
}

func documentFailure(logger *zap.Logger, err error) DocumentResult {
	logger.Warn("document generation failed", zap.Error(err))
	return DocumentResult{Status: StatusError, Message: err.Error(), Code: ErrorCode(err)}
}
