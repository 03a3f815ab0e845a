package main

import (
	"procal/internal/calendars/handler"
	"procal/internal/calendars/repository"
	"procal/internal/calendars/service"
	"procal/internal/calendars/validator"
	"procal/pkg/app"
	"procal/pkg/config"
)

const ServiceName = "calendars"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Calendars service")
	calendarService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCalendarHandler(calendarService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CalendarService {
	calendarValidator := validator.NewCalendarValidator(cfg.Log)
	calendarRepo := repository.NewMongoCalendarRepository(cfg)
	calendarService := service.NewCalendarService(
		calendarRepo,
		calendarValidator,
		cfg,
	)

	cfg.Log.Info("Calendars service initialized", "database", cfg.MongoDatabaseName)
	return calendarService
}
