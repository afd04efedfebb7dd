// Package store persists accounts and the per-owner domain records in
// MongoDB. The exported builders are shared with the in-memory fakes in
// storetest so both apply the same coercion and validation.
package store

import (
	"context" // Cancellation and deadlines
	"errors"  // Error matching
	"time"    // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/domain"    // Domain models

	"github.com/sirupsen/logrus"           // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson"  // BSON documents and ObjectIDs
	"go.mongodb.org/mongo-driver/v2/mongo" // Mongo driver
	"golang.org/x/crypto/bcrypt"           // Password hashing
)

// Collections hands out collections on a live connection; *db.Manager implements it
type Collections interface {
	Collection(ctx context.Context, name string) (*mongo.Collection, error)
}

// UserRepository is the identity store
type UserRepository interface {
	Create(ctx context.Context, n domain.NewUser) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error)
	Update(ctx context.Context, id bson.ObjectID, p domain.UserPatch) (*domain.User, error)
	List(ctx context.Context, offset, limit int64) ([]domain.User, int64, error)
}

// CaseRepository stores cases
type CaseRepository interface {
	Add(ctx context.Context, n domain.NewCase) (bson.ObjectID, error)
	ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.CaseView, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Case, error)
	Update(ctx context.Context, id bson.ObjectID, p domain.CasePatch) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// ClientRepository stores clients
type ClientRepository interface {
	Add(ctx context.Context, n domain.NewClient) (bson.ObjectID, error)
	ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.Client, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Client, error)
	Update(ctx context.Context, id bson.ObjectID, p domain.ClientPatch) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// DocumentRepository stores document metadata
type DocumentRepository interface {
	Add(ctx context.Context, n domain.NewDocument) (bson.ObjectID, error)
	ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.DocumentView, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Document, error)
	Update(ctx context.Context, id bson.ObjectID, p domain.DocumentPatch) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// TaskRepository stores tasks
type TaskRepository interface {
	Add(ctx context.Context, n domain.NewTask) (bson.ObjectID, error)
	ListForOwner(ctx context.Context, owner bson.ObjectID) ([]domain.TaskView, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Task, error)
	Update(ctx context.Context, id bson.ObjectID, p domain.TaskPatch) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// HashPassword returns the bcrypt hash of a plaintext password
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost) // Salted hash
	if err != nil {
		return "", apperrors.Wrap("Failed to hash password", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether candidate matches the user's stored hash
func VerifyPassword(user *domain.User, candidate string) bool {
	if user == nil || user.Password == "" {
		return false // No credential to compare
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// classify turns a driver error into an application error, leaving
// application errors untouched
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err // Already classified
	}
	switch {
	case mongo.IsDuplicateKeyError(err):
		return apperrors.Duplicate(msg, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return apperrors.Connection(msg, err)
	default:
		return apperrors.Wrap(msg, err)
	}
}

// base carries what every Mongo store needs
type base struct {
	conn       Collections        // Live connection
	collection string             // Collection name
	log        logrus.FieldLogger // Logger tagged with the collection
	now        func() time.Time   // Clock, millisecond precision like BSON dates
}

// newBase tags the logger with the collection name
func newBase(conn Collections, collection string, log logrus.FieldLogger) base {
	return base{
		conn:       conn,
		collection: collection,
		log:        log.WithField("collection", collection),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// coll connects if needed and returns the store's collection
func (b base) coll(ctx context.Context) (*mongo.Collection, error) {
	return b.conn.Collection(ctx, b.collection)
}

// insert stores doc and returns its new id
func (b base) insert(ctx context.Context, doc any) (bson.ObjectID, error) {
	coll, err := b.coll(ctx)
	if err != nil {
		return bson.NilObjectID, err
	}
	res, err := coll.InsertOne(ctx, doc) // Insert document
	if err != nil {
		return bson.NilObjectID, classify("Failed to save "+b.collection, err)
	}
	id, _ := res.InsertedID.(bson.ObjectID)
	return id, nil
}

// findByID decodes the record with the given id into dst
func (b base) findByID(ctx context.Context, id bson.ObjectID, dst any, notFound string) error {
	coll, err := b.coll(ctx)
	if err != nil {
		return err
	}
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(dst) // Query by primary key
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFound(notFound)
	}
	return classify("Failed to load "+b.collection, err)
}

// updateByID applies an update document built by one of the change builders
func (b base) updateByID(ctx context.Context, id bson.ObjectID, update bson.M, notFound string) error {
	coll, err := b.coll(ctx)
	if err != nil {
		return err
	}
	res, err := coll.UpdateByID(ctx, id, update)
	if err != nil {
		return classify("Failed to update "+b.collection, err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound(notFound) // Nothing with that id
	}
	return nil
}

// deleteByID removes one record, reporting notFound when nothing matched
func (b base) deleteByID(ctx context.Context, id bson.ObjectID, notFound string) error {
	coll, err := b.coll(ctx)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id}) // Delete by primary key
	if err != nil {
		return classify("Failed to delete "+b.collection, err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound(notFound)
	}
	return nil
}

// aggregate runs pipeline and decodes every result
func aggregate[T any](ctx context.Context, b base, pipeline mongo.Pipeline) ([]T, error) {
	coll, err := b.coll(ctx)
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify("Failed to fetch "+b.collection, err)
	}
	out := []T{} // Empty list rather than null
	if err := cursor.All(ctx, &out); err != nil {
		return nil, classify("Failed to fetch "+b.collection, err)
	}
	return out, nil
}

// ownerStages matches one owner's records and sorts them
func ownerStages(owner bson.ObjectID, sort bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: owner}}}},
		{{Key: "$sort", Value: sort}},
	}
}

// lookupOne expands a single reference into the as field. Only records of
// owner are joined; a missing or foreign record leaves the field absent.
func lookupOne(from, localField, as string, owner bson.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + localField}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$ref"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$userId", owner}}}, // Same account only
				}}}}}}},
			}},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// concat joins pipeline fragments in order
func concat(parts ...mongo.Pipeline) mongo.Pipeline {
	var out mongo.Pipeline
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	_ UserRepository     = (*UserStore)(nil)
	_ CaseRepository     = (*CaseStore)(nil)
	_ ClientRepository   = (*ClientStore)(nil)
	_ DocumentRepository = (*DocumentStore)(nil)
	_ TaskRepository     = (*TaskStore)(nil)
)
