package api

import (
	"net/http"
	"parcel-routing-service/internal/api/handlers"
	"parcel-routing-service/internal/platform/metrics"
	"parcel-routing-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires read-only query handlers over a finished plan and returns an http.Handler.
// locations may be nil, in which case responses carry indices only.
func NewRouter(dispatch *services.Dispatch, clock handlers.Clock, locations handlers.Locations) http.Handler {
	mux := http.NewServeMux()

	itemHandler := &handlers.ItemHandler{Dispatch: dispatch, Clock: clock}
	vehicleHandler := &handlers.VehicleHandler{Dispatch: dispatch, Clock: clock, Locations: locations}
	planHandler := &handlers.PlanHandler{Dispatch: dispatch, Locations: locations}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/items", itemHandler.List)
	mux.HandleFunc("/items/{id}", itemHandler.Get)
	mux.HandleFunc("/vehicles", vehicleHandler.List)
	mux.HandleFunc("/plans", planHandler.List)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
