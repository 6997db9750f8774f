package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-calendar/internal/api"
	"github.com/hackgods/clinic-calendar/internal/appointment"
	"github.com/hackgods/clinic-calendar/internal/config"
	"github.com/hackgods/clinic-calendar/internal/logger"
	"github.com/hackgods/clinic-calendar/internal/metrics"
	"github.com/hackgods/clinic-calendar/internal/reference"
	"github.com/hackgods/clinic-calendar/internal/storage"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("storage", cfg.StorageBackend),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancelConnect := context.WithTimeout(rootCtx, 10*time.Second)
	kv, closeKV, err := storage.Open(connectCtx, cfg, lg)
	cancelConnect()
	if err != nil {
		lg.Fatal("storage connection error", zap.Error(err))
	}
	defer closeKV()

	catalog := reference.Default()
	if cfg.ReferenceData != "" {
		catalog, err = reference.LoadFile(cfg.ReferenceData)
		if err != nil {
			lg.Fatal("reference data error", zap.String("path", cfg.ReferenceData), zap.Error(err))
		}
	}
	lg.Info("reference data loaded",
		zap.Int("patients", len(catalog.Patients)),
		zap.Int("doctors", len(catalog.Doctors)),
	)

	collector := metrics.NewCollector()

	repo := storage.NewAppointmentRepository(kv, lg,
		storage.WithKey(cfg.StorageKey),
		storage.WithSampleData(cfg.SeedSampleData),
	)
	svc := appointment.NewService(repo, lg, appointment.WithMetrics(collector))

	loadCtx, cancelLoad := context.WithTimeout(rootCtx, 10*time.Second)
	n := svc.Load(loadCtx)
	cancelLoad()
	lg.Info("appointments loaded", zap.Int("count", n))

	router := api.NewRouter(api.RouterConfig{
		Service:        svc,
		Catalog:        catalog,
		Storage:        kv,
		Backend:        cfg.StorageBackend,
		Metrics:        collector,
		Logger:         lg,
		AllowedOrigins: cfg.AllowedOrigins,
		Env:            cfg.Env,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server error", zap.Error(err))
			stop()
		}
	}()
	lg.Info("listening", zap.String("addr", srv.Addr))

	<-rootCtx.Done()
	lg.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
