package db

import (
	"context" // Cancellation for connect and close
	"sync"    // Guards the connection state
	"time"    // Retry intervals

	"legal_practice/internal/apperrors" // Connection error kind
	"legal_practice/internal/config"    // Mongo settings

	"github.com/cenkalti/backoff/v5"               // Connect retries
	"github.com/sirupsen/logrus"                   // Structured logging
	"go.mongodb.org/mongo-driver/v2/event"         // Heartbeat monitoring
	"go.mongodb.org/mongo-driver/v2/mongo"         // Mongo client
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Client options
	"golang.org/x/sync/singleflight"               // One in-flight connect
)

// State is the connection lifecycle state
type State int

const (
	Disconnected State = iota // No usable client
	Connecting                // A connect attempt is running
	Connected                 // Client verified with a ping
)

// String names the state for logs
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// DialFunc opens and verifies a client
type DialFunc func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)

// Option customizes a Manager
type Option func(*Manager)

// WithDialFunc replaces the default connect-and-ping dialer
func WithDialFunc(dial DialFunc) Option {
	return func(m *Manager) { m.dial = dial }
}

// WithBackOff replaces the retry schedule between connect attempts
func WithBackOff(b backoff.BackOff) Option {
	return func(m *Manager) { m.retry = func() backoff.BackOff { return b } }
}

// Manager owns the process-wide Mongo client and its lifecycle
type Manager struct {
	cfg    *config.Config         // Connection settings
	log    logrus.FieldLogger     // Component logger
	dial   DialFunc               // Opens a verified client
	retry  func() backoff.BackOff // Fresh schedule per logical connect
	group  singleflight.Group     // Collapses concurrent Connect calls
	mu     sync.RWMutex           // Guards the fields below
	state  State                  // Current lifecycle state
	client *mongo.Client          // Nil unless a connect succeeded
	db     *mongo.Database        // Database handle for the client
	closes uint64                 // Bumped by Close; older connects discard their client
}

const maxRetryInterval = 5 * time.Second // Longest pause between connect attempts

// NewManager builds a disconnected manager
func NewManager(cfg *config.Config, logger logrus.FieldLogger, opts ...Option) *Manager {
	m := &Manager{
		cfg:  cfg,
		log:  logger.WithField("component", "mongo"),
		dial: dialAndPing,
		retry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = maxRetryInterval
			return b
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func dialAndPing(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Database returns the database handle, nil until connected
func (m *Manager) Database() *mongo.Database {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Connect establishes the shared client. It returns at once when already
// connected; concurrent callers wait on the same attempt. The attempt runs
// detached from ctx, so a caller giving up does not fail the other waiters.
func (m *Manager) Connect(ctx context.Context) error {
	if m.State() == Connected {
		return nil
	}
	ch := m.group.DoChan("connect", func() (any, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.connectTimeout()) // Bounded by config, not by the first caller
		defer cancel()
		return nil, m.connect(cctx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return apperrors.Connection("MongoDB connect abandoned", ctx.Err())
	}
}

// connectTimeout caps one logical connect: every attempt may spend the full
// server selection timeout plus the longest retry pause.
func (m *Manager) connectTimeout() time.Duration {
	attempts := max(m.cfg.MongoConnectAttempts, 1)
	return time.Duration(attempts) * (m.cfg.MongoServerSelectionTimeout + maxRetryInterval)
}

// Collection connects if needed and returns the named collection
func (m *Manager) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if err := m.Connect(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil, apperrors.Connection("Database connection closed", nil)
	}
	return m.db.Collection(name), nil
}

func (m *Manager) connect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Connected {
		m.mu.Unlock()
		return nil
	}
	if m.client != nil {
		// Heartbeats marked us down; the driver reconnects on its own, so
		// a ping on the existing client decides whether we are back.
		client := m.client
		m.mu.Unlock()
		if err := client.Ping(ctx, nil); err != nil {
			return apperrors.Connection("MongoDB is unreachable", err)
		}
		m.mu.Lock()
		m.setStateLocked(Connected, nil)
		m.mu.Unlock()
		return nil
	}
	m.setStateLocked(Connecting, nil)
	closes := m.closes // Close after this point invalidates the attempt
	m.mu.Unlock()

	attempts := m.cfg.MongoConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	attempt := 0
	client, err := backoff.Retry(ctx, func() (*mongo.Client, error) {
		attempt++
		return m.dial(ctx, m.clientOptions())
	},
		backoff.WithBackOff(m.retry()),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			m.log.WithFields(logrus.Fields{
				"attempt":      attempt,
				"max_attempts": attempts,
				"retry_in":     next.String(),
				"error":        err.Error(),
			}).Warn("MongoDB connection attempt failed")
		}),
	)

	m.mu.Lock()
	if m.closes != closes {
		m.mu.Unlock()
		if client != nil {
			_ = client.Disconnect(context.Background()) // Closed while dialing
		}
		m.log.Debug("Discarded MongoDB client opened during close")
		return apperrors.Connection("Database connection closed", err)
	}
	defer m.mu.Unlock()
	if err != nil {
		m.setStateLocked(Disconnected, logrus.Fields{"attempts": attempt, "error": err.Error()})
		return apperrors.Connection("Failed to connect to MongoDB", err).
			WithDetails("gave up after %d attempts: %v", attempt, err)
	}
	m.client = client
	m.db = client.Database(m.cfg.DatabaseName())
	m.setStateLocked(Connected, logrus.Fields{"attempts": attempt, "database": m.cfg.DatabaseName()})
	return nil
}

// Close disconnects the client; calling it again is a no-op
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.db = nil
	m.closes++ // In-flight connects must not publish
	m.setStateLocked(Disconnected, nil)
	m.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (m *Manager) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(m.cfg.MongoURI).
		SetMaxPoolSize(m.cfg.MongoMaxPoolSize).
		SetServerSelectionTimeout(m.cfg.MongoServerSelectionTimeout).
		SetTimeout(m.cfg.MongoSocketTimeout).
		SetServerMonitor(&event.ServerMonitor{
			ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
				m.heartbeatFailed(e.Failure)
			},
			ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
				m.heartbeatSucceeded()
			},
		})
}

func (m *Manager) heartbeatFailed(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Connected {
		return
	}
	fields := logrus.Fields{}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.setStateLocked(Disconnected, fields)
}

func (m *Manager) heartbeatSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Disconnected || m.client == nil {
		return
	}
	m.setStateLocked(Connected, nil)
}

// setStateLocked records a transition and logs it once; callers hold mu
func (m *Manager) setStateLocked(next State, fields logrus.Fields) {
	prev := m.state
	if prev == next {
		return
	}
	m.state = next
	entry := m.log.WithFields(fields).WithField("from", prev.String()).WithField("to", next.String())
	switch {
	case next == Connected:
		entry.Info("MongoDB connected")
	case next == Connecting:
		entry.Debug("MongoDB connecting")
	case prev == Connecting:
		entry.Error("MongoDB connection failed")
	default:
		entry.Warn("MongoDB disconnected")
	}
}
