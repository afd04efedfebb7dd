package config

import (
	"fmt"     // Error formatting
	"net/url" // Parsing the database name out of the Mongo URI
	"strconv" // Parsing day counts in expiry strings
	"strings" // String manipulation
	"time"    // Durations

	"github.com/ilyakaznacheev/cleanenv" // Env reader with defaults
	"github.com/joho/godotenv"           // For loading .env files
)

const defaultDatabase = "legal-b2b" // Used when the URI carries no database name

// Config holds the application configuration
type Config struct {
	AppPort  string `env:"APP_PORT" env-default:"3001"`  // Application port
	IsProd   bool   `env:"IS_PROD" env-default:"false"`  // Is production environment
	LogLevel string `env:"LOG_LEVEL" env-default:"info"` // logrus level name

	MongoURI                    string        `env:"MONGODB_URI" env-default:"mongodb://127.0.0.1:27017/legal-b2b"` // Mongo connection string
	MongoDatabase               string        `env:"MONGODB_DATABASE"`                                              // Overrides the URI database
	MongoMaxPoolSize            uint64        `env:"MONGODB_MAX_POOL_SIZE" env-default:"10"`                        // Shared pool size
	MongoServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" env-default:"5s"`             // Server selection timeout
	MongoSocketTimeout          time.Duration `env:"MONGODB_SOCKET_TIMEOUT" env-default:"45s"`                      // Per-operation timeout
	MongoConnectAttempts        int           `env:"MONGODB_CONNECT_ATTEMPTS" env-default:"3"`                      // Connect retry budget

	JWTSecret string `env:"JWT_SECRET" env-default:"your-secret-key"` // JWT secret key
	JWTExpiry string `env:"JWT_EXPIRY" env-default:"3d"`              // Token lifetime, Go duration or Nd

	RedisAddr string        `env:"REDIS_ADDR"`                  // Redis server address, empty for in-memory cache
	RedisPass string        `env:"REDIS_PASS"`                  // Redis password
	RedisDB   int           `env:"REDIS_DB" env-default:"0"`    // Redis database number
	CacheTTL  time.Duration `env:"CACHE_TTL" env-default:"60s"` // List cache lifetime

	StorageType      string `env:"STORAGE_TYPE" env-default:"local"`                 // local or s3
	StorageLocalPath string `env:"STORAGE_LOCAL_PATH" env-default:"./storage/files"` // Local storage root
	S3Bucket         string `env:"AWS_S3_BUCKET"`                                    // S3 bucket
	S3Region         string `env:"AWS_REGION" env-default:"us-east-1"`               // S3 region
	AWSAccessKey     string `env:"AWS_ACCESS_KEY_ID"`                                // Optional static credentials
	AWSSecretKey     string `env:"AWS_SECRET_ACCESS_KEY"`                            // Optional static credentials
	MaxUploadBytes   int64  `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`          // Upload size limit

	AuditDSN      string        `env:"AUDIT_DSN"`                        // MySQL DSN for the audit trail, empty logs only
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" env-default:"1h"` // Password reset token lifetime

	DataBackend string `env:"DATA_BACKEND" env-default:"direct"`           // direct or remote, used by legalctl
	APIURL      string `env:"API_URL" env-default:"http://localhost:3001"` // Remote backend base URL
}

// LoadConfig loads configuration from the environment, after an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := ParseExpiry(cfg.JWTExpiry); err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}
	if cfg.MongoConnectAttempts < 1 {
		cfg.MongoConnectAttempts = 1 // At least one attempt
	}
	return &cfg, nil
}

// TokenTTL returns the parsed JWT lifetime
func (c *Config) TokenTTL() time.Duration {
	d, err := ParseExpiry(c.JWTExpiry)
	if err != nil {
		return 72 * time.Hour // LoadConfig already rejected bad values
	}
	return d
}

// DatabaseName returns the Mongo database to use
func (c *Config) DatabaseName() string {
	if c.MongoDatabase != "" {
		return c.MongoDatabase
	}
	u, err := url.Parse(c.MongoURI)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}

// ParseExpiry parses a Go duration, also accepting a day suffix such as "3d"
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", s)
	}
	return d, nil
}
