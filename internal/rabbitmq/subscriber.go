package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"github.com/streadway/amqp"
	"imageLocator/internal/config"
	"imageLocator/internal/lib/logger/sl"
	"log/slog"
)

// Subscriber consumes the task queue with manual acknowledgements.
type Subscriber struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *slog.Logger
}

func NewSubscriber(cfg *config.RabbitMQ, log *slog.Logger) (*Subscriber, error) {
	const op = "rabbitmq.NewSubscriber"

	conn, channel, err := open(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.Prefetch > 0 {
		if err = channel.Qos(cfg.Prefetch, 0, false); err != nil {
			_ = closeAll(channel, conn)
			return nil, fmt.Errorf("%s: qos: %w", op, err)
		}
	}

	return &Subscriber{
		conn:    conn,
		channel: channel,
		queue:   cfg.Queue,
		log:     log,
	}, nil
}

// Run feeds deliveries to handler until ctx is done or the channel closes.
// A delivery is acked after the handler returns, whatever the handler result.
func (s *Subscriber) Run(ctx context.Context, handler func(context.Context, []byte) error) error {
	const op = "rabbitmq.Subscriber.Run"

	deliveries, err := s.channel.Consume(
		s.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("rabbitmq subscriber started", slog.String("queue", s.queue))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("rabbitmq subscriber stopped")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: %w", op, errors.New("delivery channel closed"))
			}

			if err = handler(ctx, d.Body); err != nil {
				s.log.Error("error handling message", slog.Uint64("delivery_tag", d.DeliveryTag), sl.Err(err))
			}

			if err = d.Ack(false); err != nil {
				s.log.Error("failed to ack message", slog.Uint64("delivery_tag", d.DeliveryTag), sl.Err(err))
			}
		}
	}
}

func (s *Subscriber) Close() error {
	return closeAll(s.channel, s.conn)
}
