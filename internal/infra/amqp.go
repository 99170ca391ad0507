// README: RabbitMQ connection helper with startup retry.
package infra

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// ConnectAMQP dials the broker, retrying while it comes up, and declares a
// fanout exchange for notification events.
func ConnectAMQP(url, exchange string) (*amqp091.Connection, *amqp091.Channel, error) {
	var conn *amqp091.Connection
	var ch *amqp091.Channel
	var err error

	for i := 0; i < 10; i++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			ch, err = conn.Channel()
			if err == nil {
				if err = ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
					return nil, nil, err
				}
				return conn, ch, nil
			}
		}
		slog.Warn("rabbitmq not ready, retrying", "attempt", i+1, "err", err)
		time.Sleep(3 * time.Second)
	}
	return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
}
