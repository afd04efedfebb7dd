// Package app wires the process-wide dependencies shared by the server and
// the direct backend of legalctl.
package app

import (
	"context" // Startup and shutdown deadlines
	"fmt"     // Error wrapping
	"os"      // Log output

	"legal_practice/internal/audit"  // Audit trail
	"legal_practice/internal/auth"   // Token service
	"legal_practice/internal/config" // Configuration
	"legal_practice/internal/db"     // Mongo connection manager
	"legal_practice/internal/store"  // Entity stores
	"legal_practice/internal/utils"  // Cache

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// App holds the connected dependencies
type App struct {
	Config    *config.Config
	Log       *logrus.Logger
	Mongo     *db.Manager
	Redis     *redis.Client // Nil when REDIS_ADDR is empty
	Cache     utils.KV
	Audit     audit.Recorder
	Auth      *auth.Service
	Users     *store.UserStore
	Cases     *store.CaseStore
	Clients   *store.ClientStore
	Documents *store.DocumentStore
	Tasks     *store.TaskStore
}

// NewLogger builds the logrus logger for cfg: JSON in production, text otherwise
func NewLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.IsProd {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// Open connects to Mongo, Redis and the audit database and builds the stores
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	a.Mongo = db.NewManager(cfg, log)
	if err := a.Mongo.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if cfg.RedisAddr != "" {
		// Setup Redis client
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close(context.Background())
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.Cache = utils.NewRedisKV(a.Redis)
	} else {
		log.Warn("REDIS_ADDR not set, using in-process cache")
		a.Cache = utils.NewMemoryKV()
	}

	if cfg.AuditDSN != "" {
		recorder, err := audit.OpenMySQL(cfg.AuditDSN, log)
		if err != nil {
			a.Close(context.Background())
			return nil, err
		}
		a.Audit = recorder
	} else {
		a.Audit = audit.NewLogRecorder(log)
	}

	a.Users = store.NewUserStore(a.Mongo, log)
	a.Cases = store.NewCaseStore(a.Mongo, log)
	a.Clients = store.NewClientStore(a.Mongo, log)
	a.Documents = store.NewDocumentStore(a.Mongo, log)
	a.Tasks = store.NewTaskStore(a.Mongo, log)

	a.Auth = auth.NewService(a.Users, cfg.JWTSecret, cfg.TokenTTL(),
		auth.NewRevocations(a.Cache), auth.NewResetTokens(a.Cache, cfg.ResetTokenTTL), log)
	return a, nil
}

// Close releases the connections
func (a *App) Close(ctx context.Context) {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if err := a.Mongo.Close(ctx); err != nil {
		a.Log.WithError(err).Warn("Failed to close Mongo client")
	}
}
