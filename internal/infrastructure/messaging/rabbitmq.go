package messaging

import (
	"fmt"

	"go-doctor-appointment/config"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// NewRabbitMQConnection dials the broker and declares the durable topic exchange
// that appointment events are published to.
func NewRabbitMQConnection(cfg config.RabbitMQConfig) (*amqp091.Connection, *amqp091.Channel, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logrus.Info("Successfully connected to RabbitMQ")

	return conn, ch, nil
}
