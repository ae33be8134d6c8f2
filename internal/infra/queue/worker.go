package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

// LeadMirror replicates CRM updates into an external CRM (Kommo).
type LeadMirror interface {
	MirrorLeadUpdate(ctx context.Context, event entity.LeadUpdatedEvent) error
}

type Worker struct {
	Channel *amqp.Channel
	Mirror  LeadMirror
	Logger  *zap.Logger

	// OnMirrorError conta falhas da integração (métrica).
	OnMirrorError func(service string)
}

func NewWorker(ch *amqp.Channel, mirror LeadMirror, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{Channel: ch, Mirror: mirror, Logger: logger}
}

// Start consumes QueueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		QueueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("🐇 worker aguardando na fila", zap.String("queue", QueueName))
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("⚠️ worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.Handle(ctx, d.Body, d.Acknowledger, d.DeliveryTag)
		}
	}
}

// Handle settles one delivery. Malformed payloads and mirror failures are
// rejected without requeue so they land on the DLQ.
func (w *Worker) Handle(ctx context.Context, body []byte, ack amqp.Acknowledger, tag uint64) {
	w.Logger.Debug("📥 mensagem recebida")

	var event entity.LeadUpdatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		w.Logger.Warn("❌ JSON inválido", zap.Error(err))
		_ = ack.Nack(tag, false, false)
		return
	}

	if err := w.process(ctx, event); err != nil {
		w.Logger.Error("❌ erro no espelhamento",
			zap.String("record_id", event.RecordID), zap.Error(err))
		if w.OnMirrorError != nil {
			w.OnMirrorError("kommo")
		}
		_ = ack.Nack(tag, false, false)
		return
	}

	w.Logger.Info("✅ lead espelhado", zap.String("record_id", event.RecordID))
	_ = ack.Ack(tag, false)
}

func (w *Worker) process(ctx context.Context, event entity.LeadUpdatedEvent) error {
	if w.Mirror == nil {
		// Sem CRM externo configurado: só registra e confirma.
		w.Logger.Info("lead.updated sem destino",
			zap.String("record_id", event.RecordID),
			zap.Int("interaction_count", event.InteractionCount))
		return nil
	}
	return w.Mirror.MirrorLeadUpdate(ctx, event)
}
