package store

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/db"     // Connection manager
	"legal_practice/internal/domain" // Domain models

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

const msgTaskNotFound = "Task not found"

// TaskStore is the Mongo-backed task store
type TaskStore struct {
	base
}

// NewTaskStore builds a TaskStore over the shared connection
func NewTaskStore(conn Collections, log logrus.FieldLogger) *TaskStore {
	return &TaskStore{base: newBase(conn, db.TasksCollection, log)}
}

// Add normalizes status and priority, validates and inserts
func (s *TaskStore) Add(ctx context.Context, n domain.NewTask) (bson.ObjectID, error) {
	t, err := BuildTask(n, s.now(), s.log)
	if err != nil {
		return bson.NilObjectID, err
	}
	return s.insert(ctx, t) // Id assigned by the builder
}

// ListForOwner returns the owner's tasks by due date, most pressing first on ties
func (s *TaskStore) ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.TaskView, error) {
	pipeline := concat(
		ownerStages(owner, bson.D{
			{Key: "dueDate", Value: 1},
			{Key: "priorityRank", Value: -1}, // High before Medium before Low
			{Key: "createdAt", Value: 1},
		}),
		lookupOne(db.CasesCollection, "caseId", "caseInfo", owner),
		lookupOne(db.ClientsCollection, "clientId", "clientInfo", owner), // Client name only
	)
	return aggregate[domain.TaskView](ctx, s.base, pipeline)
}

// FindByID loads one task by id
func (s *TaskStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Task, error) {
	var t domain.Task
	if err := s.findByID(ctx, id, &t, msgTaskNotFound); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies the patch; an unknown id is not found
func (s *TaskStore) Update(ctx context.Context, id bson.ObjectID, p domain.TaskPatch) error {
	update, err := TaskChanges(p, s.now(), s.log) // $set and $unset for present fields
	if err != nil {
		return err
	}
	return s.updateByID(ctx, id, update, msgTaskNotFound)
}

// Delete removes one task
func (s *TaskStore) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.deleteByID(ctx, id, msgTaskNotFound)
}
