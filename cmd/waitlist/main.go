package main

import (
	"medsched/internal/waitlist/handler"
	"medsched/internal/waitlist/repository"
	"medsched/internal/waitlist/service"
	"medsched/internal/waitlist/validator"
	"medsched/pkg/app"
	"medsched/pkg/config"
)

const ServiceName = "waitlist"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Waitlist service")
	waitlistService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewWaitlistHandler(waitlistService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.WaitlistService {
	waitlistValidator := validator.NewWaitlistValidator(cfg.Log)
	waitlistRepo := repository.NewMongoWaitlistRepository(cfg)
	waitlistService := service.NewWaitlistService(
		waitlistRepo,
		waitlistValidator,
		cfg,
	)

	cfg.Log.Info("Waitlist service initialized", "database", cfg.MongoDatabaseName)
	return waitlistService
}
