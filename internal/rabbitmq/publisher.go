package rabbitmq

import (
	"context"
	"fmt"
	"github.com/streadway/amqp"
	"imageLocator/internal/config"
	"log/slog"
	"sync"
	"time"
)

// Publisher sends task messages to a durable queue through the default exchange.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *slog.Logger

	mu sync.Mutex
}

func NewPublisher(cfg *config.RabbitMQ, log *slog.Logger) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"

	conn, channel, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Publisher{
		conn:    conn,
		channel: channel,
		queue:   cfg.Queue,
		log:     log,
	}, nil
}

func (p *Publisher) SendMessage(ctx context.Context, message []byte) error {
	const op = "rabbitmq.Publisher.SendMessage"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         message,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}

	p.mu.Lock()
	err := p.channel.Publish(
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		publishing,
	)
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("message sent to rabbitmq", slog.String("queue", p.queue))

	return nil
}

func (p *Publisher) Close() error {
	return closeAll(p.channel, p.conn)
}

func open(cfg *config.RabbitMQ) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return conn, channel, nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	var err error

	if channel != nil {
		err = channel.Close()
	}

	if conn != nil {
		if connErr := conn.Close(); connErr != nil && err == nil {
			err = connErr
		}
	}

	return err
}
