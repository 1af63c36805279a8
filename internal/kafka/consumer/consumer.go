package consumer

import (
	"context"
	"errors"
	"github.com/segmentio/kafka-go"
	"imageLocator/internal/config"
	"imageLocator/internal/lib/logger/sl"
	"log/slog"
	"time"
)

type Consumer struct {
	reader *kafka.Reader
	log    *slog.Logger
}

func NewConsumer(kafkaCfg *config.Kafka, log *slog.Logger) (*Consumer, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaCfg.Brokers,
		Topic:    kafkaCfg.Topic,
		GroupID:  kafkaCfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  1 * time.Second,
	})

	return &Consumer{
		reader: reader,
		log:    log,
	}, nil
}

// Run feeds messages to handler until ctx is done. The offset is committed
// after the handler returns, so a crash mid-message means redelivery.
// Handler errors are logged and the message is committed anyway.
func (c *Consumer) Run(ctx context.Context, handler func(context.Context, []byte) error) error {
	c.log.Info("kafka consumer started", slog.String("topic", c.reader.Config().Topic))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.log.Info("kafka consumer stopped")
				return nil
			}

			c.log.Error("error reading message from kafka", sl.Err(err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		c.log.Debug(
			"message received",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
		)

		if err = handler(ctx, m.Value); err != nil {
			c.log.Error("error handling message", slog.Int64("offset", m.Offset), sl.Err(err))
		}

		if err = c.reader.CommitMessages(context.WithoutCancel(ctx), m); err != nil {
			c.log.Error("failed to commit message", slog.Int64("offset", m.Offset), sl.Err(err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
