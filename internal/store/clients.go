package store

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/db"     // Connection manager
	"legal_practice/internal/domain" // Domain models

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

const msgClientNotFound = "Client not found"

// ClientStore is the Mongo-backed client store
type ClientStore struct {
	base
}

// NewClientStore builds a ClientStore over the shared connection
func NewClientStore(conn Collections, log logrus.FieldLogger) *ClientStore {
	return &ClientStore{base: newBase(conn, db.ClientsCollection, log)}
}

// Add validates and inserts a client
func (s *ClientStore) Add(ctx context.Context, n domain.NewClient) (bson.ObjectID, error) {
	c, err := BuildClient(n, s.now())
	if err != nil {
		return bson.NilObjectID, err
	}
	return s.insert(ctx, c) // Id assigned by the builder
}

// ListForOwner returns the owner's clients ordered by name
func (s *ClientStore) ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.Client, error) {
	return aggregate[domain.Client](ctx, s.base, ownerStages(owner, bson.D{{Key: "name", Value: 1}}))
}

// FindByID loads one client by id
func (s *ClientStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Client, error) {
	var c domain.Client
	if err := s.findByID(ctx, id, &c, msgClientNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies the patch; an unknown id is not found
func (s *ClientStore) Update(ctx context.Context, id bson.ObjectID, p domain.ClientPatch) error {
	update, err := ClientChanges(p, s.now()) // $set and $unset for present fields
	if err != nil {
		return err
	}
	return s.updateByID(ctx, id, update, msgClientNotFound)
}

// Delete removes the client only; cases, documents and tasks keep their reference
func (s *ClientStore) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.deleteByID(ctx, id, msgClientNotFound)
}
