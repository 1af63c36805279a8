package producer

import (
	"context"
	"fmt"
	"github.com/segmentio/kafka-go"
	"imageLocator/internal/config"
	"imageLocator/internal/lib/logger/sl"
	"log/slog"
)

type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewProducer(kafkaCfg *config.Kafka, log *slog.Logger) (*Producer, error) {
	if len(kafkaCfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(kafkaCfg.Brokers...),
		Topic:        kafkaCfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}

	return &Producer{
		writer: writer,
		log:    log,
	}, nil
}

func (p *Producer) SendMessage(ctx context.Context, message []byte) error {
	const op = "kafka.producer.SendMessage"

	msg := kafka.Message{
		Value: message,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to send message to kafka", slog.String("topic", p.writer.Topic), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("message sent to kafka", slog.String("topic", p.writer.Topic))

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
