package api

import (
	"net/http"

	"medsched/internal/frontdesk/handlers"
	"medsched/internal/frontdesk/service"
	"medsched/pkg/client"
	"medsched/pkg/logger"
)

func SetupRouter(client *client.Client, log *logger.Logger) *http.ServeMux {
	frontDeskService := service.NewFrontDeskService(client, log)
	flowHandler := handlers.NewFlowHandler(frontDeskService, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/frontdesk/execute", flowHandler.ExecuteFlow)
	mux.HandleFunc("/api/v1/frontdesk/flows", flowHandler.ListFlows)
	mux.HandleFunc("/api/v1/frontdesk/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}
