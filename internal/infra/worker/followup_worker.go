package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type FollowUpLister interface {
	Execute(ctx context.Context, today time.Time) ([]usecase.DueFollowUp, error)
}

// FollowUpWorker periodically logs the leads whose follow-up date has
// arrived. It never mutates the CRM.
type FollowUpWorker struct {
	lister       FollowUpLister
	tickInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
	onScan       func(due int)
}

func NewFollowUpWorker(lister FollowUpLister, interval time.Duration, logger *zap.Logger, onScan func(due int)) *FollowUpWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowUpWorker{
		lister:       lister,
		tickInterval: interval,
		logger:       logger,
		now:          time.Now,
		onScan:       onScan,
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 follow-up worker iniciado", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ follow-up worker encerrado")
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan runs one pass and returns what was due.
func (w *FollowUpWorker) Scan(ctx context.Context) []usecase.DueFollowUp {
	due, err := w.lister.Execute(ctx, w.now())
	if err != nil {
		w.logger.Error("❌ erro ao buscar follow-ups", zap.Error(err))
		return nil
	}

	for _, d := range due {
		w.logger.Info("⏱️ follow-up pendente",
			zap.String("record_id", d.RecordID),
			zap.String("company", d.CompanyName),
			zap.String("next_follow_up", d.NextFollowUp),
			zap.Int("days_overdue", d.DaysOverdue))
	}
	if w.onScan != nil {
		w.onScan(len(due))
	}
	return due
}
