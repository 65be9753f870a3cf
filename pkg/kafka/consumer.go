package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/kafka-go"

	"yoyaku/pkg/logger"
)

// HandlerFunc processes one consumed message. A returned error triggers
// bounded redelivery; after the retry budget the message is logged and
// skipped so one poison message cannot wedge the group.
type HandlerFunc func(ctx context.Context, msg Message) error

type Consumer struct {
	reader     *kafka.Reader
	maxRetries int
	log        *logger.Logger
}

func NewConsumer(cfg *Config, topic string, log *logger.Logger) (*Consumer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.ConsumerGroup,
		Topic:   topic,
	})

	return &Consumer{
		reader:     reader,
		maxRetries: cfg.ConsumerMaxRetries,
		log:        log,
	}, nil
}

// Run consumes until ctx is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context, handler HandlerFunc) error {
	for {
		kmsg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		msg := fromKafkaMessage(kmsg)
		c.process(ctx, msg, handler)
	}
}

func (c *Consumer) process(ctx context.Context, msg Message, handler HandlerFunc) {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return
		}
		c.log.Warn("Message handling failed",
			"event_id", msg.Headers[HeaderEventID],
			"event_type", msg.EventType(),
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.log.Error("Message dropped after retry budget exhausted",
		"event_id", msg.Headers[HeaderEventID],
		"event_type", msg.EventType(),
		"error", err,
	)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func fromKafkaMessage(kmsg kafka.Message) Message {
	headers := make(map[string]string, len(kmsg.Headers))
	for _, h := range kmsg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Key:       string(kmsg.Key),
		Value:     kmsg.Value,
		Headers:   headers,
		Timestamp: kmsg.Time,
	}
}
