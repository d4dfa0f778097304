package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"prtlog/internal/config"
	"prtlog/internal/handler"
	"prtlog/internal/history"
	"prtlog/internal/ingestor"
	"prtlog/internal/metrics"
	"prtlog/internal/timetable"
	"prtlog/pkg/truetime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	logger.Info("starting arrival history collector",
		"log_level", cfg.LogLevel.String(),
		"http_addr", cfg.HTTPAddr,
		"stops", len(cfg.StopIDs),
		"poll_interval", cfg.PollInterval.String(),
	)

	// The timetable is rebuilt from the GTFS source on every run.
	source := timetable.NewFileSource(cfg.GTFSDir, logger)
	stopTimes, err := source.StopTimes()
	if err != nil {
		logger.Error("failed to read stop times", "error", err)
		os.Exit(1)
	}
	trips, err := source.Trips()
	if err != nil {
		logger.Error("failed to read trips", "error", err)
		os.Exit(1)
	}
	stops, err := source.Stops()
	if err != nil {
		logger.Error("failed to read stops", "error", err)
		os.Exit(1)
	}

	rows := timetable.NewBuilder(logger).Build(stopTimes, trips, stops)
	if err := timetable.WriteArtifact(cfg.TimetablePath, rows); err != nil {
		logger.Error("failed to write timetable artifact", "error", err)
		os.Exit(1)
	}
	index := timetable.NewIndex(rows)

	mcol := metrics.NewCollector(cfg.PollInterval)
	mcol.TimetableRows.Set(float64(len(rows)))

	histLog := history.NewLog(cfg.HistoryPath, logger)
	if err := histLog.EnsureHeader(); err != nil {
		logger.Error("failed to initialize history log", "error", err)
		os.Exit(1)
	}

	client := truetime.New(cfg.APIBaseURL, cfg.APIKey, cfg.Feed, cfg.StopIDs)
	ing := ingestor.New(client, histLog, index, cfg.PollInterval, logger, mcol)

	healthHandler := handler.NewHealthHandler(ing, runID)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", mcol.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Blocks until interrupted, then runs dedup and schedule matching over
	// the complete log before returning.
	if err := ing.Run(ctx); err != nil {
		logger.Error("finalization failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
