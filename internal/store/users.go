package store

import (
	"context" // Cancellation and deadlines
	"errors"  // Error matching

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/db"        // Connection manager
	"legal_practice/internal/domain"    // Domain models

	"github.com/sirupsen/logrus"                   // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson"          // BSON documents and ObjectIDs
	"go.mongodb.org/mongo-driver/v2/mongo"         // Mongo driver
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Query options
)

const (
	msgUserNotFound   = "User not found"
	msgDuplicateEmail = "User with this email already exists"
)

// UserStore is the Mongo-backed identity store
type UserStore struct {
	base
}

// NewUserStore builds a UserStore over the shared connection
func NewUserStore(conn Collections, log logrus.FieldLogger) *UserStore {
	return &UserStore{base: newBase(conn, db.UsersCollection, log)}
}

// Create registers an account; a taken email yields a duplicate-key error
func (s *UserStore) Create(ctx context.Context, n domain.NewUser) (*domain.User, error) {
	user, err := BuildUser(n, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.insert(ctx, user); err != nil {
		// Unique email index
		if apperrors.Is(err, apperrors.KindDuplicateKey) {
			return nil, apperrors.Duplicate(msgDuplicateEmail, errors.Unwrap(err))
		}
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID.Hex(), "role": user.Role}).Info("User created")
	return user, nil
}

// FindByEmail looks an account up by its normalized email
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	coll, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var user domain.User
	err = coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&user) // Stored lowercased
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, classify("Failed to load user", err)
	}
	return &user, nil
}

// FindByID looks an account up by id
func (s *UserStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	var user domain.User
	if err := s.findByID(ctx, id, &user, msgUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies the patch and returns the account as stored afterwards
func (s *UserStore) Update(ctx context.Context, id bson.ObjectID, p domain.UserPatch) (*domain.User, error) {
	update, err := UserChanges(p, s.now())
	if err != nil {
		return nil, err
	}
	coll, err := s.coll(ctx)
	if err != nil {
		return nil, err
	}
	var user domain.User
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user) // Return the updated document
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, apperrors.NotFound(msgUserNotFound)
	case mongo.IsDuplicateKeyError(err):
		return nil, apperrors.Duplicate("Email already in use", err)
	case err != nil:
		return nil, classify("Failed to update user", err)
	}
	return &user, nil
}

// List pages through all accounts, newest first
func (s *UserStore) List(ctx context.Context, offset, limit int64) ([]domain.User, int64, error) {
	coll, err := s.coll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total, err := coll.CountDocuments(ctx, bson.M{}) // Total for pagination
	if err != nil {
		return nil, 0, classify("Failed to count users", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, classify("Failed to fetch users", err)
	}
	users := []domain.User{} // Empty page rather than null
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, classify("Failed to fetch users", err)
	}
	return users, total, nil
}
