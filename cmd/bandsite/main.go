package main

import (
	"context"

	"bandsite/internal/booking/events"
	bookinghandler "bandsite/internal/booking/handler"
	bookingservice "bandsite/internal/booking/service"
	contenthandler "bandsite/internal/content/handler"
	contentservice "bandsite/internal/content/service"
	systemhandler "bandsite/internal/system/handler"
	"bandsite/pkg/app"
	"bandsite/pkg/config"
	"bandsite/pkg/kafka"
	"bandsite/pkg/schema"
	"bandsite/pkg/store"
)

const ServiceName = "bandsite"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting band site API")

	registry, err := schema.Default()
	if err != nil {
		cfg.Log.Fatal("Invalid schema registry", "error", err)
	}

	conn := connectStore(cfg)
	docs := store.New(conn, store.Options{
		ReadTimeout:  cfg.StoreReadTimeout,
		WriteTimeout: cfg.StoreWriteTimeout,
	}, cfg.Log)

	publisher := initPublisher(cfg)

	contentService := contentservice.NewContentService(docs, registry, cfg)
	bookingService := bookingservice.NewBookingService(docs, registry, publisher, cfg)
	system := systemhandler.NewSystemHandler(docs, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown("store", conn.Close)
	serverApp.OnShutdown("booking-events", func(context.Context) error {
		return publisher.Close()
	})
	serverApp.SetApp(system,
		system,
		contenthandler.NewContentHandler(contentService, cfg.MaxListLimit, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

// connectStore never aborts startup: without MongoDB the site still serves
// static routes, empty lists and a diagnostic report.
func connectStore(cfg *config.Config) store.Connection {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	return store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabaseName, cfg.MongoConnTimeout, cfg.Log)
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaConfigured() {
		cfg.Log.Info("KAFKA_BROKERS not set, booking events disabled")
		return events.NewNoopPublisher()
	}

	publisher, err := events.NewKafkaPublisher(kafka.NewConfig(cfg.KafkaBrokers), cfg.BookingEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Error("Failed to create booking event publisher, events disabled", "error", err)
		return events.NewNoopPublisher()
	}
	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return publisher
}
