package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdant-io/planttracker/internal/metrics"
	"github.com/verdant-io/planttracker/internal/plant"
	"github.com/verdant-io/planttracker/internal/user"
)

// NewServer creates an HTTP server with all routes configured. The JSON API
// lives under /api via huma; uploads, probes and metrics are plain handlers.
func NewServer(logger *slog.Logger, plants *plant.Service, users *user.Service, db Pinger) http.Handler {
	mux := chi.NewRouter()

	mux.Use(RequestID)
	mux.Use(Logging(logger))
	mux.Use(Recovery(logger))
	mux.Use(metrics.Metrics)

	humaAPI := humachi.New(mux, huma.DefaultConfig("planttracker", "1.0.0"))

	plantHandler := NewPlantHandler(plants, logger)
	registerPlantRoutes(humaAPI, plantHandler)
	registerLogRoutes(humaAPI, plantHandler)

	userHandler := NewUserHandler(users, logger)
	registerUserRoutes(humaAPI, userHandler)

	uploadHandler := NewUploadHandler(plants, logger)
	mux.Post("/api/plants/{id}/upload", uploadHandler.UploadPhoto)
	mux.Post("/api/plants/{id}/logs/upload", uploadHandler.UploadLogPhoto)

	healthHandler := NewHealthHandler(db, logger)
	mux.Get("/livez", healthHandler.Livez)
	mux.Get("/readyz", healthHandler.Readyz)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
