package db

import (
	"context" // Context for index creation
	"fmt"     // Error wrapping

	"legal_practice/internal/domain" // Audit model

	"github.com/sirupsen/logrus"                   // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson"          // Index keys
	"go.mongodb.org/mongo-driver/v2/mongo"         // Index models
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Index options
	"gorm.io/driver/mysql"                         // MySQL driver for GORM
	"gorm.io/gorm"                                 // GORM ORM library
)

// Collection names
const (
	UsersCollection     = "users"
	CasesCollection     = "cases"
	ClientsCollection   = "clients"
	DocumentsCollection = "documents"
	TasksCollection     = "tasks"
)

// indexes lists the indexes every collection needs
func indexes() map[string][]mongo.IndexModel {
	byOwner := func(sort ...bson.E) mongo.IndexModel {
		return mongo.IndexModel{Keys: append(bson.D{{Key: "userId", Value: 1}}, sort...)}
	}
	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_email"),
			},
		},
		CasesCollection: {
			byOwner(bson.E{Key: "createdAt", Value: -1}),
			{Keys: bson.D{{Key: "client", Value: 1}}},
		},
		ClientsCollection: {
			byOwner(bson.E{Key: "name", Value: 1}),
		},
		DocumentsCollection: {
			byOwner(bson.E{Key: "createdAt", Value: -1}),
			{Keys: bson.D{{Key: "caseId", Value: 1}}},
		},
		TasksCollection: {
			byOwner(bson.E{Key: "dueDate", Value: 1}, bson.E{Key: "priorityRank", Value: -1}),
		},
	}
}

// EnsureIndexes creates the unique email index and the owner listing indexes
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for name, models := range indexes() {
		created, err := database.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
		logrus.WithFields(logrus.Fields{
			"collection": name,
			"indexes":    created,
		}).Info("Indexes ensured")
	}
	return nil
}

// MigrateAudit creates or updates the audit table behind dsn
func MigrateAudit(dsn string) error {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the audit database
	if err != nil {
		return fmt.Errorf("connect audit database: %w", err)
	}
	// AutoMigrate will create tables, missing columns and indexes
	if err := gdb.AutoMigrate(&domain.AuditEvent{}); err != nil {
		return fmt.Errorf("audit migration: %w", err)
	}
	logrus.Info("Audit migration completed.")
	return nil
}
