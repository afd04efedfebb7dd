package main

import (
	"context"   // Startup and shutdown deadlines
	"errors"    // http.ErrServerClosed comparison
	"net/http"  // HTTP server
	"os"        // Signal channel
	"os/signal" // Interrupt handling
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"legal_practice/internal/api"     // HTTP handlers and router
	"legal_practice/internal/app"     // Shared wiring
	"legal_practice/internal/config"  // Configuration
	"legal_practice/internal/db"      // Indexes
	"legal_practice/internal/storage" // Document files

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := app.NewLogger(cfg) // Setup logger

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		cancel()
		log.Fatalf("failed to start: %v", err)
	}
	if err := db.EnsureIndexes(ctx, a.Mongo.Database()); err != nil {
		log.WithError(err).Warn("Index creation failed") // Serving still works without them
	}
	files, err := storage.New(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("failed to set up storage: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(&api.Deps{
		Auth:           a.Auth,
		Users:          a.Users,
		Cases:          a.Cases,
		Clients:        a.Clients,
		Documents:      a.Documents,
		Tasks:          a.Tasks,
		Cache:          a.Cache,
		CacheTTL:       cfg.CacheTTL,
		Files:          files,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Audit:          a.Audit,
		DB:             a.Mongo,
		Log:            log,
	})
	// Set trusted proxies for Gin
	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		log.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.AppPort, "storage": cfg.StorageType}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	a.Close(shutdownCtx)
}
