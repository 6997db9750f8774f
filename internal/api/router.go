package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/metrics"
	"github.com/hackgods/clinic-calendar/internal/reference"
)

type RouterConfig struct {
	Service        *appointment.Service
	Catalog        reference.Catalog
	Storage        Pinger
	Backend        string
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	AllowedOrigins []string
	Env            string
	Version        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(LoggingMiddleware(cfg.Logger, cfg.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	health := NewHealthHandler(cfg.Storage, cfg.Backend, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	r.Get("/reference", referenceHandler(cfg.Catalog))

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Service, cfg.Catalog))
		r.Post("/", createAppointmentHandler(cfg.Service, cfg.Catalog))
		r.Get("/{id}", getAppointmentHandler(cfg.Service, cfg.Catalog))
		r.Put("/{id}", updateAppointmentHandler(cfg.Service, cfg.Catalog))
		r.Delete("/{id}", deleteAppointmentHandler(cfg.Service))
	})

	r.Get("/calendar/{year}/{month}", monthHandler(cfg.Service, cfg.Catalog))

	r.Get("/backup", exportHandler(cfg.Service))
	r.Post("/backup", importHandler(cfg.Service))

	return r
}
