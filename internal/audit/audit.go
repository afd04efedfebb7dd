// Package audit appends account and entity mutations to an append-only trail.
package audit

import (
	"context" // Request context
	"fmt"     // Error wrapping
	"time"    // Event timestamps

	"legal_practice/internal/domain" // Audit model

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Actions recorded by the API
const (
	ActionRegister       = "register"
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionProfileUpdate  = "profile_update"
	ActionPasswordChange = "password_change"
	ActionEmailChange    = "email_change"
	ActionPasswordReset  = "password_reset"
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionUpload         = "upload"
)

// Event is one account or entity mutation
type Event struct {
	UserID   string // Acting account
	Action   string // One of the Action constants
	Entity   string // user, case, client, document or task
	EntityID string // Affected record
	Detail   string // Optional context
}

// Recorder appends audit events
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// LogRecorder writes events as log lines, used when no audit database is configured
type LogRecorder struct {
	log logrus.FieldLogger // Destination logger
}

// NewLogRecorder returns a recorder writing to log
func NewLogRecorder(log logrus.FieldLogger) *LogRecorder {
	return &LogRecorder{log: log}
}

// Record logs the event at info level
func (r *LogRecorder) Record(_ context.Context, e Event) error {
	r.log.WithFields(logrus.Fields{
		"audit":     true,       // Marks audit lines
		"user_id":   e.UserID,   // Acting account
		"action":    e.Action,   // Mutation
		"entity":    e.Entity,   // Entity type
		"entity_id": e.EntityID, // Affected record
		"detail":    e.Detail,   // Context
	}).Info("Audit event")
	return nil
}

// GormRecorder stores events in the SQL audit table
type GormRecorder struct {
	db  *gorm.DB           // Audit database
	log logrus.FieldLogger // Mirrors each event to the log
	now func() time.Time   // Clock
}

// NewGormRecorder wraps an open GORM handle
func NewGormRecorder(db *gorm.DB, log logrus.FieldLogger) *GormRecorder {
	return &GormRecorder{db: db, log: log, now: time.Now}
}

// OpenMySQL connects to the audit database behind dsn
func OpenMySQL(dsn string, log logrus.FieldLogger) (*GormRecorder, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the audit database
	if err != nil {
		return nil, fmt.Errorf("connect audit database: %w", err)
	}
	return NewGormRecorder(db, log), nil
}

// Record inserts the event
func (r *GormRecorder) Record(ctx context.Context, e Event) error {
	row := domain.AuditEvent{
		UserID:    e.UserID,            // Acting account
		Action:    e.Action,            // Mutation
		Entity:    e.Entity,            // Entity type
		EntityID:  e.EntityID,          // Affected record
		Detail:    e.Detail,            // Context
		CreatedAt: r.now().UnixMilli(), // Millisecond timestamp
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	r.log.WithFields(logrus.Fields{
		"action":    e.Action,   // Mutation
		"entity":    e.Entity,   // Entity type
		"entity_id": e.EntityID, // Affected record
	}).Debug("Audit event stored")
	return nil
}

