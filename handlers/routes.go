package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *PlayHandler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", HealthCheck).Methods("GET")
	r.HandleFunc("/play", h.HandlePlay).Methods("POST")
	r.HandleFunc("/detect", h.HandleDetect).Methods("POST")
	r.HandleFunc("/report", h.HandleReport).Methods("GET")
	r.HandleFunc("/games/{game_id}/reports", h.HandleGameReports).Methods("GET")
	r.HandleFunc("/games/{game_id}/finish", h.HandleFinishGame).Methods("POST")

	r.Path("/metrics").Handler(promhttp.Handler())

	var handler http.Handler = r
	handler = RequestID(handler)
	handler = Logging(handler)
	handler = Recovery(handler)
	return handler
}
