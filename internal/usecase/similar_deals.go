package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

const (
	maxSimilarDeals    = 5
	exactIndustryScore = 1.0
	partialIndustry    = 0.9
	maxSizeBonus       = 0.2
)

// SimilarityCriteria holds the optional match criteria. Only deal_size is
// evaluated; other keys are accepted and ignored.
type SimilarityCriteria struct {
	DealSize *float64 `json:"deal_size,omitempty"`
}

type SimilarDealsInput struct {
	Industry string             `json:"industry"`
	Criteria SimilarityCriteria `json:"criteria"`
}

type SimilarDeal struct {
	DealID          string         `json:"deal_id"`
	CompanyName     string         `json:"company_name"`
	Industry        string         `json:"industry"`
	DealSize        *float64       `json:"deal_size"`
	DealDate        string         `json:"deal_date"`
	CompletionDate  string         `json:"completion_date"`
	KeyMetrics      map[string]any `json:"key_metrics"`
	SimilarityScore float64        `json:"similarity_score"`
}

type SimilarDealsResult struct {
	Status  string        `json:"status"`
	Matches []SimilarDeal `json:"matches,omitempty"`
	Message string        `json:"message,omitempty"`
	Code    string        `json:"code,omitempty"`
}

type SimilarDealsUseCase struct {
	Store  CrmStore
	Logger *zap.Logger
}

func NewSimilarDealsUseCase(store CrmStore, logger *zap.Logger) *SimilarDealsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimilarDealsUseCase{Store: store, Logger: logger}
}

// FindSimilarDeals ranks successful deals against the target industry and
// size. Store failures produce an error result, never a partial list.
func (uc *SimilarDealsUseCase) FindSimilarDeals(ctx context.Context, input SimilarDealsInput) SimilarDealsResult {
	if errs := ValidateSimilarDealsInput(input); len(errs) > 0 {
		return SimilarDealsResult{Status: StatusError, Message: validationFailure(errs).Error(), Code: CodeValidation}
	}

	doc, err := uc.Store.Load(ctx)
	if err != nil {
		uc.Logger.Error("similar deals: load crm document", zap.Error(err))
		return SimilarDealsResult{Status: StatusError, Message: NewStorageError("failed to load crm document", err).Error(), Code: CodeStorage}
	}

	matches := RankDeals(doc.Deals, input.Industry, input.Criteria)
	uc.Logger.Debug("similar deals ranked",
		zap.String("industry", input.Industry),
		zap.Int("matches", len(matches)))

	return SimilarDealsResult{Status: StatusSuccess, Matches: matches}
}

// RankDeals scores, filters, sorts (stable, descending) and truncates.
func RankDeals(deals []entity.Deal, industry string, criteria SimilarityCriteria) []SimilarDeal {
	scored := make([]SimilarDeal, 0, len(deals))
	for _, deal := range deals {
		if deal.Status != entity.DealStatusSuccessful {
			continue
		}
		score := SimilarityScore(deal, industry, criteria)
		if score <= 0 {
			continue
		}
		scored = append(scored, SimilarDeal{
			DealID:          deal.ID,
			CompanyName:     deal.Company,
			Industry:        deal.Industry,
			DealSize:        deal.DealSize,
			DealDate:        deal.StartDate,
			CompletionDate:  deal.CompletionDate,
			KeyMetrics:      deal.KeyMetrics,
			SimilarityScore: math.Round(score*100) / 100,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})

	if len(scored) > maxSimilarDeals {
		scored = scored[:maxSimilarDeals]
	}
	return scored
}

// SimilarityScore is the unrounded heuristic score in [0, 1.2].
func SimilarityScore(deal entity.Deal, industry string, criteria SimilarityCriteria) float64 {
	score := 0.0

	dealIndustry := strings.ToLower(deal.Industry)
	target := strings.ToLower(industry)

	// "" está contido em qualquer string, então indústria vazia casa com tudo.
	if strings.Contains(dealIndustry, target) || strings.Contains(target, dealIndustry) {
		score += exactIndustryScore
	} else if anyTokenIn(dealIndustry, strings.Fields(target)) {
		score += partialIndustry
	}

	if deal.DealSize != nil && criteria.DealSize != nil {
		score += SizeBonus(*deal.DealSize, *criteria.DealSize)
	}

	return score
}

// SizeBonus decays linearly from 0.2 at zero difference to 0 once the
// difference reaches the target size. Non-positive targets earn nothing.
func SizeBonus(dealSize, targetSize float64) float64 {
	if targetSize <= 0 {
		return 0
	}
	diff := math.Abs(dealSize - targetSize)
	return math.Max(0, maxSizeBonus-(diff/targetSize)*maxSizeBonus)
}

func anyTokenIn(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
