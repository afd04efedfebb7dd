package store

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/db"     // Connection manager
	"legal_practice/internal/domain" // Domain models

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

const msgCaseNotFound = "Case not found"

// CaseStore is the Mongo-backed case store
type CaseStore struct {
	base
}

// NewCaseStore builds a CaseStore over the shared connection
func NewCaseStore(conn Collections, log logrus.FieldLogger) *CaseStore {
	return &CaseStore{base: newBase(conn, db.CasesCollection, log)}
}

// Add validates and inserts a case
func (s *CaseStore) Add(ctx context.Context, n domain.NewCase) (bson.ObjectID, error) {
	c, err := BuildCase(n, s.now())
	if err != nil {
		return bson.NilObjectID, err
	}
	return s.insert(ctx, c) // Id assigned by the builder
}

// ListForOwner returns the owner's cases, newest first, with client name and email
func (s *CaseStore) ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.CaseView, error) {
	pipeline := concat(
		ownerStages(owner, bson.D{{Key: "createdAt", Value: -1}}),
		lookupOne(db.ClientsCollection, "client", "clientInfo", owner), // Deleted clients leave clientInfo absent
	)
	return aggregate[domain.CaseView](ctx, s.base, pipeline)
}

// FindByID loads one case by id
func (s *CaseStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Case, error) {
	var c domain.Case
	if err := s.findByID(ctx, id, &c, msgCaseNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies the patch; an unknown id is not found
func (s *CaseStore) Update(ctx context.Context, id bson.ObjectID, p domain.CasePatch) error {
	update, err := CaseChanges(p, s.now()) // $set and $unset for present fields
	if err != nil {
		return err
	}
	return s.updateByID(ctx, id, update, msgCaseNotFound)
}

// Delete removes one case
func (s *CaseStore) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.deleteByID(ctx, id, msgCaseNotFound)
}
