package store

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/db"     // Connection manager
	"legal_practice/internal/domain" // Domain models

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

const msgDocumentNotFound = "Document not found"

// DocumentStore is the Mongo-backed document metadata store
type DocumentStore struct {
	base
}

// NewDocumentStore builds a DocumentStore over the shared connection
func NewDocumentStore(conn Collections, log logrus.FieldLogger) *DocumentStore {
	return &DocumentStore{base: newBase(conn, db.DocumentsCollection, log)}
}

// Add applies the document fallbacks, validates and inserts
func (s *DocumentStore) Add(ctx context.Context, n domain.NewDocument) (bson.ObjectID, error) {
	d, err := BuildDocument(n, s.now(), s.log)
	if err != nil {
		return bson.NilObjectID, err
	}
	return s.insert(ctx, d) // Id assigned by the builder
}

// ListForOwner returns the owner's documents, newest first, with case title and client name
func (s *DocumentStore) ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.DocumentView, error) {
	pipeline := concat(
		ownerStages(owner, bson.D{{Key: "createdAt", Value: -1}}),
		lookupOne(db.CasesCollection, "caseId", "caseInfo", owner),
		lookupOne(db.ClientsCollection, "clientId", "clientInfo", owner), // Client name only
	)
	return aggregate[domain.DocumentView](ctx, s.base, pipeline)
}

// FindByID loads one document by id
func (s *DocumentStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Document, error) {
	var d domain.Document
	if err := s.findByID(ctx, id, &d, msgDocumentNotFound); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update applies the patch; an unknown id is not found
func (s *DocumentStore) Update(ctx context.Context, id bson.ObjectID, p domain.DocumentPatch) error {
	update, err := DocumentChanges(p, s.now(), s.log) // $set and $unset for present fields
	if err != nil {
		return err
	}
	return s.updateByID(ctx, id, update, msgDocumentNotFound)
}

// Delete removes one document
func (s *DocumentStore) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.deleteByID(ctx, id, msgDocumentNotFound)
}
