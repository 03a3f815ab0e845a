package main

import (
	"procal/internal/bookings/handler"
	"procal/internal/bookings/repository"
	"procal/internal/bookings/service"
	"procal/pkg/app"
	"procal/pkg/config"
	"procal/pkg/events"
	"procal/pkg/kafka"
	kafka_config "procal/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService, producer := initServices(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, *kafka.Producer) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)

	// Event publishing is best effort: without a broker the service still
	// runs, it just stops emitting lifecycle events.
	var publisher *events.BookingPublisher
	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Error("Failed to initialize Kafka producer, booking events disabled", "error", err)
	} else {
		publisher = events.NewBookingPublisher(producer, ServiceName, cfg.Log)
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		publisher,
		cfg,
	)

	cfg.Log.Info("Bookings service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, producer
}
