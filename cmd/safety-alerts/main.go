// main is the entry point of the safety-alerts service.
//
// STARTUP SEQUENCE:
//  1. Load configuration (.env, then YAML + env overrides)
//  2. Initialise the logger
//  3. Open the storage backend and load (or seed) the dataset
//  4. Register HTTP routes, middleware and /metrics
//  5. Serve in a goroutine until SIGINT/SIGTERM
//  6. Shut down gracefully, then close the backend
//
// RUNNING THE SERVER:
//
//	go run ./cmd/safety-alerts --config=config/local.yaml
//
// or:
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/safety-alerts
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aanand-mishra/safety-alerts/internal/age"
	"github.com/aanand-mishra/safety-alerts/internal/alerts"
	"github.com/aanand-mishra/safety-alerts/internal/config"
	"github.com/aanand-mishra/safety-alerts/internal/dataset"
	"github.com/aanand-mishra/safety-alerts/internal/http/middleware"
	"github.com/aanand-mishra/safety-alerts/internal/http/router"
	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/storage/driver"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting safety-alerts",
		slog.String("env", cfg.Env),
		slog.String("storage_driver", cfg.Storage.Driver),
	)

	// ── Storage ──────────────────────────────────────────────────────────
	// The driver hands back the storage.Storage interface; nothing below
	// this block knows which backend is in use.
	ctx := context.Background()
	backend, err := driver.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	store := dataset.New(backend, log)
	err = store.LoadOrSeed(ctx, cfg.Storage.SeedPath)
	switch {
	case errors.Is(err, storage.ErrEmpty):
		log.Warn("starting with an empty dataset", slog.String("reason", err.Error()))
	case err != nil:
		log.Error("failed to load dataset", slog.String("error", err.Error()))
		os.Exit(1)
	}

	views := alerts.NewService(store, age.NewCalculator(time.Now), log)

	metrics := middleware.NewMetrics()
	registerDatasetGauges(metrics.Registry(), store)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      router.New(store, views, metrics, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// registerDatasetGauges exposes the size of each collection.
func registerDatasetGauges(reg prometheus.Registerer, store *dataset.Store) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "safety_alerts",
			Name:      "persons",
			Help:      "Persons currently held in memory.",
		}, func() float64 { return float64(len(store.Persons())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "safety_alerts",
			Name:      "firestations",
			Help:      "Address to station mappings currently held in memory.",
		}, func() float64 { return float64(len(store.FireStations())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "safety_alerts",
			Name:      "medical_records",
			Help:      "Medical records currently held in memory.",
		}, func() float64 { return float64(len(store.MedicalRecords())) }),
	)
}

// setupLogger returns a text logger in dev and a JSON logger elsewhere.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
