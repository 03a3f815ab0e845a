package main

import (
	"procal/internal/availability/handler"
	"procal/internal/availability/repository"
	"procal/internal/availability/service"
	calendarrepo "procal/internal/calendars/repository"
	"procal/pkg/app"
	"procal/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	calendarRepo := calendarrepo.NewMongoCalendarRepository(cfg)
	occupancyRepo := repository.NewMongoOccupancyRepository(cfg)
	availabilityService := service.NewAvailabilityService(
		calendarRepo,
		occupancyRepo,
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
