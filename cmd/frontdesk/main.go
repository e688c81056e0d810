package main

import (
	"net/http"
	"os"

	"medsched/internal/frontdesk/api"
	"medsched/pkg/client"
	"medsched/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "frontdesk",
	})

	appointmentsURL := os.Getenv("APPOINTMENTS_URL")
	if appointmentsURL == "" {
		appointmentsURL = "http://localhost:8080"
	}

	schedulesURL := os.Getenv("SCHEDULES_URL")
	if schedulesURL == "" {
		schedulesURL = "http://localhost:8081"
	}

	waitlistURL := os.Getenv("WAITLIST_URL")
	if waitlistURL == "" {
		waitlistURL = "http://localhost:8082"
	}

	port := os.Getenv("FRONTDESK_PORT")
	if port == "" {
		port = "8090"
	}

	apiClient := client.NewClient()
	apiClient.SetAppointmentClient(appointmentsURL)
	apiClient.SetScheduleClient(schedulesURL)
	apiClient.SetWaitlistClient(waitlistURL)

	router := api.SetupRouter(apiClient, log)

	addr := ":" + port
	log.Info("Starting FrontDesk API server",
		"address", addr,
		"appointments_url", appointmentsURL,
		"schedules_url", schedulesURL,
		"waitlist_url", waitlistURL,
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
