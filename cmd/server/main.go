// dsa90 - DSA in 90 Days study tracker server
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/ashureev/dsa90/internal/api"
	"github.com/ashureev/dsa90/internal/config"
	"github.com/ashureev/dsa90/internal/events"
	"github.com/ashureev/dsa90/internal/middleware"
	"github.com/ashureev/dsa90/internal/scheduler"
	"github.com/ashureev/dsa90/internal/store"
	"github.com/ashureev/dsa90/internal/tracker"
	"github.com/ashureev/dsa90/internal/youtube"
	"github.com/ashureev/dsa90/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "store", cfg.StoreDriver)

	// Initialize dependencies.
	kv, err := store.Open(cfg.StoreDriver, cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	if err := kv.Ping(context.Background()); err != nil {
		slog.Error("Store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Store connected", "path", cfg.DBPath)

	var primary youtube.Source
	if cfg.YouTube.APIKey != "" {
		primary = youtube.New(youtube.Options{
			APIKey:     cfg.YouTube.APIKey,
			PlaylistID: cfg.YouTube.PlaylistID,
			BaseURL:    cfg.YouTube.BaseURL,
			Timeout:    cfg.YouTube.RequestTimeout,
			Logger:     logger,
		})
	} else {
		slog.Warn("YouTube API key is missing, problems will use mock data")
	}
	source := youtube.NewFallbackSource(primary, logger)

	// Initialize services.
	hub := events.NewHub(logger)
	svc := tracker.New(kv, source, tracker.Options{
		Debounce:      cfg.SaveDebounce,
		RefreshSource: primary,
		Publisher:     hub,
		Logger:        logger,
	})

	if err := svc.Hydrate(context.Background()); err != nil {
		slog.Error("Failed to load tracker state", "error", err)
		os.Exit(1)
	}

	fetchCtx, cancelFetch := context.WithTimeout(context.Background(), cfg.YouTube.RequestTimeout)
	if err := svc.FetchProblems(fetchCtx); err != nil {
		slog.Error("Failed to fetch problems", "error", err)
	}
	cancelFetch()

	// Initialize handlers.
	baseHandler := api.NewHandler(svc)
	problemHandler := api.NewProblemHandler(baseHandler)
	healthHandler := api.NewHealthHandler(kv)
	wsHandler := events.NewHandler(hub, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	healthHandler.RegisterHealth(r)
	problemHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/events", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// WebSocket streams are long-lived, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refreshCron := cfg.RefreshCron
	if primary == nil && refreshCron != "" {
		slog.Warn("Scheduled feed refresh needs a YouTube API key, disabling")
		refreshCron = ""
	}
	refresher := scheduler.New(svc.Refresh, refreshCron, logger)
	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		if err := refresher.Run(ctx); err != nil {
			if errors.Is(err, scheduler.ErrDisabled) {
				slog.Info("Scheduled feed refresh disabled")
				return
			}
			slog.Error("Feed refresh scheduler failed", "error", err)
		}
	}()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-refreshDone

	if err := svc.Close(shutdownCtx); err != nil {
		slog.Error("Failed to save tracker state", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
