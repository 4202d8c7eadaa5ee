package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/catalog"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/config"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/service"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/storage/postgres"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/transport/httpapi"
	"github.com/pribylovaa/go-crowdfunding/pkg/httpmw"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting campaigns-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.DB.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected")

	svc := service.New(store, *cfg)
	log.Info("service_initialized")

	httpClient := &http.Client{Timeout: cfg.Timeouts.Service}
	parser := catalog.New(httpClient, 0)
	go func() {
		if err := svc.StartIngest(rootCtx, parser); err != nil {
			log.Error("ingest_start_failed", slog.String("err", err.Error()))
		}
	}()

	router := chi.NewRouter()
	router.Use(
		httpmw.Recover(),
		httpmw.RequestID(),
		httpmw.Logging(log),
		httpmw.Metrics(prometheus.DefaultRegisterer, "campaigns-service"),
	)
	if cfg.Timeouts.Service > 0 {
		router.Use(httpmw.Timeout(cfg.Timeouts.Service))
	}
	httpapi.NewServer(svc).Routes(router)

	addr := cfg.HTTP.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("http_listen_start", slog.String("addr", addr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = server.Close()
	} else {
		log.Info("http_stopped")
	}

	shutdownCancel()
	rootCancel()
	store.Close()

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
