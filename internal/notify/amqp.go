// README: AMQP fanout publisher for notification events.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rabbitmq/amqp091-go"
)

type AMQPPublisher struct {
	mu       sync.Mutex
	ch       *amqp091.Channel
	exchange string
}

func NewAMQPPublisher(ch *amqp091.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

func (p *AMQPPublisher) Publish(ctx context.Context, n *Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		slog.Warn("notification publish failed", "type", n.Type, "user_id", n.UserID, "err", err)
	}
	return err
}
