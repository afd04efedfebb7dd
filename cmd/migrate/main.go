package main

import (
	"context" // Deadline for index creation
	"time"    // Timeout

	"legal_practice/internal/app"    // Logger setup
	"legal_practice/internal/config" // Custom import path (Config)
	"legal_practice/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := app.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	manager := db.NewManager(cfg, log)
	if err := manager.Connect(ctx); err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer manager.Close(context.Background())

	if err := db.EnsureIndexes(ctx, manager.Database()); err != nil {
		log.Fatalf("index migration failed: %v", err)
	}

	// Audit table lives in MySQL and is optional
	if cfg.AuditDSN == "" {
		log.Info("AUDIT_DSN not set, skipping audit migration")
		return
	}
	if err := db.MigrateAudit(cfg.AuditDSN); err != nil {
		log.Fatalf("audit migration failed: %v", err)
	}
}
