package main

import (
	"procal/internal/holds/handler"
	"procal/internal/holds/repository"
	"procal/internal/holds/service"
	"procal/internal/holds/validator"
	"procal/pkg/app"
	"procal/pkg/config"
	"procal/pkg/events"
	"procal/pkg/kafka"
	kafka_config "procal/pkg/kafka/config"
)

const ServiceName = "holds"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Holds service")
	holdService, producer := initServices(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewHoldHandler(holdService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.HoldService, *kafka.Producer) {
	holdValidator := validator.NewHoldValidator(cfg.Log)
	holdRepo := repository.NewMongoHoldRepository(cfg)

	// Event publishing is best effort: without a broker the service still
	// runs, it just stops emitting booking.created.
	var publisher *events.BookingPublisher
	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Error("Failed to initialize Kafka producer, booking events disabled", "error", err)
	} else {
		publisher = events.NewBookingPublisher(producer, ServiceName, cfg.Log)
	}

	holdService := service.NewHoldService(
		holdRepo,
		holdValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Holds service initialized", "database", cfg.MongoDatabaseName)
	return holdService, producer
}
