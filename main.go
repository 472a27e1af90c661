package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/gala-registration/cliparse"
	"github.com/danielhkuo/gala-registration/db"
	"github.com/danielhkuo/gala-registration/metrics"
	"github.com/danielhkuo/gala-registration/middleware"
	"github.com/danielhkuo/gala-registration/photos"
	"github.com/danielhkuo/gala-registration/router"
)

func main() {
	var err error

	// .env.local wins over .env; real environment variables win over both
	if err := cliparse.LoadEnvFiles(".env.local", ".env"); err != nil {
		slog.Error("Error loading env files", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD not set; admin login is disabled until a password is stored")
	}

	// Connect to the database (Open pings)
	dbConn, err := db.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	ctx := context.Background()

	store, err := photos.Open(ctx, cfg.PhotoBucketURL, cfg.PublicBaseURL, cfg.MaxPhotoBytes)
	if err != nil {
		slog.Error("photo bucket unavailable", "url", cfg.PhotoBucketURL, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New()

	stop := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	limiter.TrustedProxies = cfg.TrustedProxies
	limiter.StartCleanup(time.Minute, 10*time.Minute, stop)

	// Create router
	mux := router.NewRouter(dbConn, cfg, store, m, limiter)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		close(stop)

		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "photos", cfg.PhotoBucketURL)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
