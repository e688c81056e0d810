package main

import (
	"medsched/internal/appointments/handler"
	"medsched/internal/appointments/repository"
	"medsched/internal/appointments/service"
	"medsched/internal/appointments/validator"
	"medsched/internal/events"
	"medsched/internal/policy"
	schedulerepository "medsched/internal/schedules/repository"
	waitlistrepository "medsched/internal/waitlist/repository"
	waitlistservice "medsched/internal/waitlist/service"
	"medsched/pkg/app"
	"medsched/pkg/config"
)

const ServiceName = "appointments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Appointments service")
	appointmentService, emitter := initServices(cfg)
	defer emitter.Close()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAppointmentHandler(appointmentService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.AppointmentService, events.Emitter) {
	emitter, err := events.New(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event emitter", "error", err)
	}

	appointmentValidator := validator.NewAppointmentValidator(cfg.Log)
	appointmentRepo := repository.NewMongoAppointmentRepository(cfg)
	holdRepo := repository.NewAppointmentHoldRepository(cfg)
	scheduleRepo := schedulerepository.NewMongoScheduleRepository(cfg)
	policyEngine := policy.NewEngine(cfg.CancelCutoffHours)

	waitlistRepo := waitlistrepository.NewMongoWaitlistRepository(cfg)
	matcher := waitlistservice.NewMatcher(waitlistRepo, emitter, cfg)

	appointmentService := service.NewAppointmentService(
		appointmentRepo,
		holdRepo,
		scheduleRepo,
		appointmentValidator,
		policyEngine,
		emitter,
		matcher,
		cfg,
	)

	cfg.Log.Info("Appointment service initialized", "database", cfg.MongoDatabaseName)
	return appointmentService, emitter
}
