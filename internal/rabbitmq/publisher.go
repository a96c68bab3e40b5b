package rabbitmq

import (
	"github.com/streadway/amqp"

	librabbitmq "github.com/mrkexxx/tifo.vn/internal/lib/rabbitmq"
)

// Publisher публикует доменные события в обменник sales.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает новый экземпляр Publisher.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish отправляет сообщение с заданным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, message any) error {
	return librabbitmq.PublishMessage(p.ch, Exchange, routingKey, message)
}
