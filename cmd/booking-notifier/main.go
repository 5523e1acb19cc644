package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bandsite/internal/booking/events"
	"bandsite/pkg/config"
	"bandsite/pkg/kafka"
)

const (
	ServiceName = "booking-notifier"
	GroupID     = "bandsite-booking-notifier"
)

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaConfigured() {
		cfg.Log.Fatal("KAFKA_BROKERS must be set for the booking notifier")
	}

	handler := events.NewBookingRequestedHandler(events.LogNotify(cfg.Log))
	consumer, err := kafka.NewConsumer(
		kafka.NewConfig(cfg.KafkaBrokers),
		cfg.BookingEventsTopic,
		GroupID,
		cfg.BookingEventsTopic+".dlq",
		handler,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}
	consumer.Use(kafka.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting booking notifier", "topic", cfg.BookingEventsTopic, "group", GroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Booking notifier stopped")
}
