package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type CompanyResearchInput struct {
	CompanyName string `json:"company_name"`
}

type PersonResearchInput struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// ResearchResult is returned by both research use cases. Evidence carries
// the raw bag so callers can inspect what each source produced.
type ResearchResult struct {
	Status        string      `json:"status"`
	Summary       string      `json:"summary,omitempty"`
	OutputFile    string      `json:"output_file,omitempty"`
	Provider      string      `json:"provider,omitempty"`
	FailedSources []string    `json:"failed_sources,omitempty"`
	Evidence      EvidenceBag `json:"evidence"`
	Message       string      `json:"message,omitempty"`
	Code          string      `json:"code,omitempty"`
}

type CompanyResearchUseCase struct {
	Aggregator  *Aggregator
	Synthesizer *Synthesizer
	Artifacts   ArtifactStore
	Logger      *zap.Logger
}

func NewCompanyResearchUseCase(agg *Aggregator, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger) *CompanyResearchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyResearchUseCase{Aggregator: agg, Synthesizer: synth, Artifacts: artifacts, Logger: logger}
}

func (uc *CompanyResearchUseCase) Execute(ctx context.Context, input CompanyResearchInput) ResearchResult {
	if errs := ValidateCompanyResearchInput(input); len(errs) > 0 {
		return researchFailure(uc.Logger, validationFailure(errs))
	}
	company := strings.TrimSpace(input.CompanyName)

	bag := uc.Aggregator.Collect(ctx, Subject{CompanyName: company})
	return synthesizeAndStore(ctx, uc.Synthesizer, uc.Artifacts, uc.Logger,
		CompanySummaryTask, bag, CompanyArtifact(company))
}

type PersonResearchUseCase struct {
	Aggregator  *Aggregator
	Synthesizer *Synthesizer
	Artifacts   ArtifactStore
	Logger      *zap.Logger
}

func NewPersonResearchUseCase(agg *Aggregator, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger) *PersonResearchUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonResearchUseCase{Aggregator: agg, Synthesizer: synth, Artifacts: artifacts, Logger: logger}
}

func (uc *PersonResearchUseCase) Execute(ctx context.Context, input PersonResearchInput) ResearchResult {
	if errs := ValidatePersonResearchInput(input); len(errs) > 0 {
		return researchFailure(uc.Logger, validationFailure(errs))
	}
	name := strings.TrimSpace(input.Name)

	bag := uc.Aggregator.Collect(ctx, Subject{
		PersonName:  name,
		CompanyName: strings.TrimSpace(input.CompanyName),
		LinkedInURL: input.LinkedInURL,
	})
	return synthesizeAndStore(ctx, uc.Synthesizer, uc.Artifacts, uc.Logger,
		PersonSummaryTask, bag, PersonArtifact(name))
}

func synthesizeAndStore(ctx context.Context, synth *Synthesizer, artifacts ArtifactStore, logger *zap.Logger,
	task Task, bag EvidenceBag, artifact string) ResearchResult {

	summary, err := synth.Synthesize(ctx, task, bag)
	if err != nil {
		res := researchFailure(logger, err)
		res.Evidence = bag
		res.FailedSources = bag.Failed()
		return res
	}

	path, err := artifacts.Write(artifact, summary)
	if err != nil {
		res := researchFailure(logger, NewStorageError("failed to write "+artifact, err))
		res.Summary = summary
		res.Evidence = bag
		return res
	}

	logger.Info("research summary written",
		zap.String("task", task.Name),
		zap.String("file", path),
		zap.Strings("failed_sources", bag.Failed()))

	return ResearchResult{
		Status:        StatusSuccess,
		Summary:       summary,
		OutputFile:    path,
		Provider:      synth.ProviderName(),
		FailedSources: bag.Failed(),
		Evidence:      bag,
	}
}

func researchFailure(logger *zap.Logger, err error) ResearchResult {
	logger.Warn("research failed", zap.Error(err))
	return ResearchResult{Status: StatusError, Message: err.Error(), Code: ErrorCode(err)}
}
