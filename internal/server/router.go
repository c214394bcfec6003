// Package server exposes the analytics read API over HTTP.
package server

import (
	"github.com/gorilla/mux"
)

// NewRouter wires the read API routes to the handler.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.health).Methods("GET")
	r.HandleFunc("/locations", h.listLocations).Methods("GET")
	r.HandleFunc("/locations/{id}/metrics", h.locationMetrics).Methods("GET")
	r.HandleFunc("/locations/{id}/issues", h.locationIssues).Methods("GET")
	r.HandleFunc("/locations/{id}/insights", h.locationInsights).Methods("GET")
	r.HandleFunc("/locations/{id}/devices", h.locationDevices).Methods("GET")

	return r
}
