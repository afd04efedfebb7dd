package backend

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/audit" // Audit trail
	"legal_practice/internal/auth"  // Auth service
	"legal_practice/internal/store" // Mongo stores
	"legal_practice/internal/utils" // Cache helpers
	"legal_practice/internal/wire"  // JSON shapes

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// Repositories are the entity stores a Direct backend writes to
type Repositories struct {
	Cases     store.CaseRepository     // Case records
	Clients   store.ClientRepository   // Client records
	Documents store.DocumentRepository // Document metadata
	Tasks     store.TaskRepository     // Task records
}

// Direct runs operations in process against the stores. Writes drop the
// owner's cached lists so a server sharing the cache does not serve stale data.
type Direct struct {
	auth  *auth.Service      // Token checks and credentials
	repos Repositories       // Entity stores
	cache utils.KV           // Optional
	audit audit.Recorder     // Optional
	log   logrus.FieldLogger // Component logger
}

// NewDirect builds a backend that calls the stores in process
func NewDirect(svc *auth.Service, repos Repositories, cache utils.KV, recorder audit.Recorder, log logrus.FieldLogger) *Direct {
	return &Direct{
		auth:  svc,
		repos: repos,
		cache: cache,
		audit: recorder,
		log:   log.WithField("component", "backend"),
	}
}

// Register creates an account and signs a token for it
func (d *Direct) Register(ctx context.Context, in wire.RegisterInput) (*Session, error) {
	user, token, err := d.auth.Register(ctx, in.ToNew()) // Names default in the domain
	if err != nil {
		return nil, err
	}
	d.record(ctx, user.ID, audit.ActionRegister, "user", user.ID)
	return &Session{User: wire.FromAuthUser(user), Token: token}, nil
}

// Login checks credentials and signs a token
func (d *Direct) Login(ctx context.Context, email, password string) (*Session, error) {
	user, token, err := d.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	d.record(ctx, user.ID, audit.ActionLogin, "user", user.ID)
	return &Session{User: wire.FromAuthUser(user), Token: token}, nil
}

// owner resolves token to its account id
func (d *Direct) owner(ctx context.Context, token string) (bson.ObjectID, error) {
	user, _, err := d.auth.Verify(ctx, token) // Rejects expired and revoked tokens
	if err != nil {
		return bson.NilObjectID, err
	}
	return user.ID, nil
}

// created drops the owner's cached lists and records the create
func (d *Direct) created(ctx context.Context, owner bson.ObjectID, entity string, id bson.ObjectID) string {
	if d.cache != nil {
		// Every list may embed the new record
		if err := utils.DeleteCache(ctx, d.cache, utils.ListKeys(owner.Hex())...); err != nil {
			d.log.WithError(err).Warn("Cache invalidation failed")
		}
	}
	d.record(ctx, owner, audit.ActionCreate, entity, id)
	return wire.FormatID(id)
}

// record writes an audit event tagged as a direct call
func (d *Direct) record(ctx context.Context, owner bson.ObjectID, action, entity string, id bson.ObjectID) {
	if d.audit == nil {
		return // Auditing disabled
	}
	e := audit.Event{UserID: owner.Hex(), Action: action, Entity: entity, EntityID: id.Hex(), Detail: "direct"}
	if err := d.audit.Record(ctx, e); err != nil {
		d.log.WithError(err).WithField("action", action).Warn("Audit event not recorded")
	}
}

// Cases lists the token owner's cases
func (d *Direct) Cases(ctx context.Context, token string) ([]wire.Case, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return nil, err
	}
	views, err := d.repos.Cases.ListForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return wire.Cases(views), nil // Wire shapes match the HTTP API
}

// CreateCase stores a case for the token owner
func (d *Direct) CreateCase(ctx context.Context, token string, in wire.CaseInput) (string, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return "", err
	}
	n, err := in.ToNew(owner) // Client id and filing date are parsed here
	if err != nil {
		return "", err
	}
	id, err := d.repos.Cases.Add(ctx, n)
	if err != nil {
		return "", err
	}
	return d.created(ctx, owner, "case", id), nil
}

// Clients lists the token owner's clients
func (d *Direct) Clients(ctx context.Context, token string) ([]wire.Client, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return nil, err
	}
	clients, err := d.repos.Clients.ListForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return wire.Clients(clients), nil
}

// CreateClient stores a client for the token owner
func (d *Direct) CreateClient(ctx context.Context, token string, in wire.ClientInput) (string, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return "", err
	}
	id, err := d.repos.Clients.Add(ctx, in.ToNew(owner))
	if err != nil {
		return "", err
	}
	return d.created(ctx, owner, "client", id), nil
}

// Documents lists the token owner's documents
func (d *Direct) Documents(ctx context.Context, token string) ([]wire.Document, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return nil, err
	}
	views, err := d.repos.Documents.ListForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return wire.Documents(views), nil
}

// CreateDocument stores document metadata for the token owner
func (d *Direct) CreateDocument(ctx context.Context, token string, in wire.DocumentInput) (string, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return "", err
	}
	id, err := d.repos.Documents.Add(ctx, in.ToNew(owner))
	if err != nil {
		return "", err
	}
	return d.created(ctx, owner, "document", id), nil
}

// Tasks lists the token owner's tasks
func (d *Direct) Tasks(ctx context.Context, token string) ([]wire.Task, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return nil, err
	}
	views, err := d.repos.Tasks.ListForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return wire.Tasks(views), nil
}

// CreateTask stores a task for the token owner
func (d *Direct) CreateTask(ctx context.Context, token string, in wire.TaskInput) (string, error) {
	owner, err := d.owner(ctx, token)
	if err != nil {
		return "", err
	}
	n, err := in.ToNew(owner) // Status and priority normalized here
	if err != nil {
		return "", err
	}
	id, err := d.repos.Tasks.Add(ctx, n)
	if err != nil {
		return "", err
	}
	return d.created(ctx, owner, "task", id), nil
}
