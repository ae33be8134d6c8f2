package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/lead-copilot/internal/entity"
)

// Publisher is the subset of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// EncodeLeadUpdated builds the persistent message for a lead.updated event.
func EncodeLeadUpdated(event entity.LeadUpdatedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("erro ao converter payload: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         "lead.updated",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Mensagem salva no disco
	}, nil
}

func (p *RabbitMQProducer) PublishLeadUpdated(ctx context.Context, event entity.LeadUpdatedEvent) error {
	msg, err := EncodeLeadUpdated(event)
	if err != nil {
		return err
	}

	if err := p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.crm
		RoutingKey,   // k.lead_updated
		false,        // Mandatory
		false,        // Immediate
		msg,
	); err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
