package premium

import (
	"github.com/streadway/amqp"

	"github.com/dijital-miras/premium-service/internal/lib/rabbitmq"
	"github.com/dijital-miras/premium-service/internal/models"
)

// AMQPEvents публикует доменные события движка в exchange уведомлений.
type AMQPEvents struct {
	ch *amqp.Channel
}

// NewAMQPEvents создает издателя поверх открытого канала RabbitMQ.
func NewAMQPEvents(ch *amqp.Channel) *AMQPEvents {
	return &AMQPEvents{ch: ch}
}

// PublishRewardGranted публикует событие о выданном бонусе.
func (e *AMQPEvents) PublishRewardGranted(event models.RewardGranted) error {
	return rabbitmq.PublishMessage(e.ch, rabbitmq.NotificationsExchange, "reward_granted", event)
}
