package usecase

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

type DueFollowUp struct {
	RecordID     string `json:"record_id"`
	Name         string `json:"name"`
	CompanyName  string `json:"company_name"`
	Email        string `json:"email"`
	NextFollowUp string `json:"next_follow_up"`
	DaysOverdue  int    `json:"days_overdue"`
}

type DueFollowUpsUseCase struct {
	Store  CrmStore
	Logger *zap.Logger
}

func NewDueFollowUpsUseCase(store CrmStore, logger *zap.Logger) *DueFollowUpsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DueFollowUpsUseCase{Store: store, Logger: logger}
}

// Execute lists leads whose next_follow_up is on or before today, oldest
// first. Unparseable dates are skipped.
func (uc *DueFollowUpsUseCase) Execute(ctx context.Context, today time.Time) ([]DueFollowUp, error) {
	doc, err := uc.Store.Load(ctx)
	if err != nil {
		return nil, NewStorageError("failed to load crm document", err)
	}
	return DueFollowUps(doc.Leads, today), nil
}

func DueFollowUps(leads []entity.Lead, today time.Time) []DueFollowUp {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var due []DueFollowUp
	for _, l := range leads {
		if l.NextFollowUp == nil {
			continue
		}
		t, ok := parseDate(*l.NextFollowUp)
		if !ok || t.After(day) {
			continue
		}
		due = append(due, DueFollowUp{
			RecordID:     l.RecordID,
			Name:         l.FullName(),
			CompanyName:  l.CompanyName,
			Email:        l.Email,
			NextFollowUp: *l.NextFollowUp,
			DaysOverdue:  int(day.Sub(t).Hours() / 24),
		})
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DaysOverdue > due[j].DaysOverdue
	})
	return due
}
