package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"yoyaku/internal/events"
	"yoyaku/pkg/config"
	"yoyaku/pkg/kafka"
	"yoyaku/pkg/logger"
)

const ServiceName = "notifier"

// The notifier consumes reservation lifecycle events and emits notification
// log lines. It stands in for a mail or chat integration: everything up to
// the actual delivery channel is wired.
func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg := kafka.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Fatal("Notifier requires Kafka brokers to be configured")
	}

	consumer, err := kafka.NewConsumer(kafkaCfg, events.TopicReservations, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notifier started", "topic", events.TopicReservations, "group", kafkaCfg.ConsumerGroup)
	if err := consumer.Run(ctx, notify(cfg.Log)); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped", "error", err)
	}
	cfg.Log.Info("Notifier shut down")
}

func notify(log *logger.Logger) kafka.HandlerFunc {
	return func(_ context.Context, msg kafka.Message) error {
		var event events.ReservationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}

		log.Info("Reservation notification",
			"event", msg.EventType(),
			"reservation_id", event.ReservationID,
			"user_id", event.UserID,
			"equipment_id", event.EquipmentID,
			"date", event.Date,
			"slots", event.TimeSlots,
		)
		return nil
	}
}
