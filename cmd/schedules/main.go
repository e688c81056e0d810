package main

import (
	"medsched/internal/schedules/handler"
	"medsched/internal/schedules/repository"
	"medsched/internal/schedules/service"
	"medsched/internal/schedules/validator"
	"medsched/pkg/app"
	"medsched/pkg/config"
)

const ServiceName = "schedules"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Schedules service")
	scheduleService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewScheduleHandler(scheduleService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ScheduleService {
	scheduleValidator := validator.NewScheduleValidator(cfg.Log)
	scheduleRepo := repository.NewMongoScheduleRepository(cfg)
	scheduleService := service.NewScheduleService(
		scheduleRepo,
		scheduleValidator,
		cfg,
	)

	cfg.Log.Info("Schedule service initialized", "database", cfg.MongoDatabaseName)
	return scheduleService
}
