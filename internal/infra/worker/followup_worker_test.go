package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLister struct {
	due   []usecase.DueFollowUp
	err   error
	calls atomic.Int32
}

func (f *fakeLister) Execute(_ context.Context, _ time.Time) ([]usecase.DueFollowUp, error) {
	f.calls.Add(1)
	return f.due, f.err
}

// TestFollowUpWorker_Scan - uma passada reporta a quantidade pendente
func TestFollowUpWorker_Scan(t *testing.T) {
	t.Run("reporta os pendentes", func(t *testing.T) {
		lister := &fakeLister{due: []usecase.DueFollowUp{
			{RecordID: "L001", NextFollowUp: "2024-01-05", DaysOverdue: 2},
			{RecordID: "L002", NextFollowUp: "2024-01-07"},
		}}
		got := -1
		w := NewFollowUpWorker(lister, time.Minute, nil, func(n int) { got = n })

		due := w.Scan(context.Background())

		assert.Len(t, due, 2)
		assert.Equal(t, 2, got)
	})

	t.Run("erro do store não chama o callback", func(t *testing.T) {
		lister := &fakeLister{err: errors.New("disco cheio")}
		called := false
		w := NewFollowUpWorker(lister, time.Minute, nil, func(int) { called = true })

		assert.Nil(t, w.Scan(context.Background()))
		assert.False(t, called)
	})
}

func TestNewFollowUpWorker_DefaultInterval(t *testing.T) {
	w := NewFollowUpWorker(&fakeLister{}, 0, nil, nil)
	assert.Equal(t, time.Hour, w.tickInterval)
}

// TestFollowUpWorker_Start - varre na partida e encerra com o contexto
func TestFollowUpWorker_Start(t *testing.T) {
	lister := &fakeLister{}
	w := NewFollowUpWorker(lister, time.Hour, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return lister.calls.Load() > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
