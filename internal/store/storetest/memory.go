// Package storetest provides in-memory repositories for tests. They apply
// the same builders and update documents as the Mongo stores.
package storetest

import (
	"context" // Cancellation and deadlines
	"sort"    // Ordering
	"sync"    // Guards shared state
	"time"    // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/domain"    // Domain models
	"legal_practice/internal/store"     // Mongo stores

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// DB holds every collection in memory
type DB struct {
	mu        sync.RWMutex                      // Guards the collections
	users     map[bson.ObjectID]domain.User     // Accounts
	cases     map[bson.ObjectID]domain.Case     // Cases
	clients   map[bson.ObjectID]domain.Client   // Clients
	documents map[bson.ObjectID]domain.Document // Document metadata
	tasks     map[bson.ObjectID]domain.Task     // Tasks
	log       logrus.FieldLogger                // Receives builder warnings
	clockMu   sync.Mutex                        // Guards clock
	clock     time.Time                         // Last issued timestamp
}

// New returns an empty database
func New() *DB {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel) // Quiet in tests
	return &DB{
		users:     map[bson.ObjectID]domain.User{},
		cases:     map[bson.ObjectID]domain.Case{},
		clients:   map[bson.ObjectID]domain.Client{},
		documents: map[bson.ObjectID]domain.Document{},
		tasks:     map[bson.ObjectID]domain.Task{},
		log:       logger,
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// now advances a fake clock so every write gets a distinct timestamp
func (d *DB) now() time.Time {
	d.clockMu.Lock()
	defer d.clockMu.Unlock()
	d.clock = d.clock.Add(time.Millisecond)
	return d.clock
}

// Users returns the identity store
func (d *DB) Users() *Users { return &Users{d} }

// Cases returns the case store
func (d *DB) Cases() *Cases { return &Cases{d} }

// Clients returns the client store
func (d *DB) Clients() *Clients { return &Clients{d} }

// Documents returns the document store
func (d *DB) Documents() *Documents { return &Documents{d} }

// Tasks returns the task store
func (d *DB) Tasks() *Tasks { return &Tasks{d} }

var (
	_ store.UserRepository     = (*Users)(nil)
	_ store.CaseRepository     = (*Cases)(nil)
	_ store.ClientRepository   = (*Clients)(nil)
	_ store.DocumentRepository = (*Documents)(nil)
	_ store.TaskRepository     = (*Tasks)(nil)
)

// Users is the in-memory identity store
type Users struct{ db *DB }

// emailTaken mirrors the unique email index
func (r *Users) emailTaken(email string, except bson.ObjectID) bool {
	for id, u := range r.db.users {
		if u.Email == email && id != except {
			return true
		}
	}
	return false
}

// Create registers an account, rejecting a taken email
func (r *Users) Create(_ context.Context, n domain.NewUser) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, err := store.BuildUser(n, r.db.now())
	if err != nil {
		return nil, err
	}
	if r.emailTaken(u.Email, bson.NilObjectID) {
		return nil, apperrors.Duplicate("User with this email already exists", nil)
	}
	r.db.users[u.ID] = *u
	return u, nil
}

// FindByEmail looks an account up by its normalized email
func (r *Users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	email = domain.NormalizeEmail(email)
	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

// FindByID loads one record by id
func (r *Users) FindByID(_ context.Context, id bson.ObjectID) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return &u, nil
}

// Update applies the same update document the Mongo store would send
func (r *Users) Update(_ context.Context, id bson.ObjectID, p domain.UserPatch) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	update, err := store.UserChanges(p, r.db.now())
	if err != nil {
		return nil, err
	}
	if err := store.ApplyUpdate(&u, update); err != nil {
		return nil, err
	}
	if r.emailTaken(u.Email, id) {
		return nil, apperrors.Duplicate("Email already in use", nil)
	}
	r.db.users[id] = u
	return &u, nil
}

// List pages through all accounts, newest first
func (r *Users) List(_ context.Context, offset, limit int64) ([]domain.User, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	all := values(r.db.users)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= total {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Cases is the in-memory case store
type Cases struct{ db *DB }

// Add builds and stores a record
func (r *Cases) Add(_ context.Context, n domain.NewCase) (bson.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, err := store.BuildCase(n, r.db.now())
	if err != nil {
		return bson.NilObjectID, err
	}
	r.db.cases[c.ID] = *c
	return c.ID, nil
}

// ListForOwner returns the owner's records in store order with references joined
func (r *Cases) ListForOwner(_ context.Context, owner bson.ObjectID) ([]domain.CaseView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.CaseView{}
	for _, c := range values(r.db.cases) {
		if c.UserID == owner {
			out = append(out, domain.CaseView{Case: c, ClientInfo: r.db.clientSummary(owner, &c.Client)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindByID loads one record by id
func (r *Cases) FindByID(_ context.Context, id bson.ObjectID) (*domain.Case, error) {
	return find(&r.db.mu, r.db.cases, id, "Case not found")
}

// Update applies the same update document the Mongo store would send
func (r *Cases) Update(_ context.Context, id bson.ObjectID, p domain.CasePatch) error {
	update, err := store.CaseChanges(p, r.db.now())
	if err != nil {
		return err
	}
	return apply(&r.db.mu, r.db.cases, id, update, "Case not found")
}

// Delete removes one record
func (r *Cases) Delete(_ context.Context, id bson.ObjectID) error {
	return remove(&r.db.mu, r.db.cases, id, "Case not found")
}

// Clients is the in-memory client store
type Clients struct{ db *DB }

// Add builds and stores a record
func (r *Clients) Add(_ context.Context, n domain.NewClient) (bson.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, err := store.BuildClient(n, r.db.now())
	if err != nil {
		return bson.NilObjectID, err
	}
	r.db.clients[c.ID] = *c
	return c.ID, nil
}

// ListForOwner returns the owner's records in store order with references joined
func (r *Clients) ListForOwner(_ context.Context, owner bson.ObjectID) ([]domain.Client, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.Client{}
	for _, c := range values(r.db.clients) {
		if c.UserID == owner {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// FindByID loads one record by id
func (r *Clients) FindByID(_ context.Context, id bson.ObjectID) (*domain.Client, error) {
	return find(&r.db.mu, r.db.clients, id, "Client not found")
}

// Update applies the same update document the Mongo store would send
func (r *Clients) Update(_ context.Context, id bson.ObjectID, p domain.ClientPatch) error {
	update, err := store.ClientChanges(p, r.db.now())
	if err != nil {
		return err
	}
	return apply(&r.db.mu, r.db.clients, id, update, "Client not found")
}

// Delete removes one record
func (r *Clients) Delete(_ context.Context, id bson.ObjectID) error {
	return remove(&r.db.mu, r.db.clients, id, "Client not found")
}

// Documents is the in-memory document store
type Documents struct{ db *DB }

// Add builds and stores a record
func (r *Documents) Add(_ context.Context, n domain.NewDocument) (bson.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	d, err := store.BuildDocument(n, r.db.now(), r.db.log)
	if err != nil {
		return bson.NilObjectID, err
	}
	r.db.documents[d.ID] = *d
	return d.ID, nil
}

// ListForOwner returns the owner's records in store order with references joined
func (r *Documents) ListForOwner(_ context.Context, owner bson.ObjectID) ([]domain.DocumentView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.DocumentView{}
	for _, d := range values(r.db.documents) {
		if d.UserID == owner {
			out = append(out, domain.DocumentView{
				Document:   d,
				CaseInfo:   r.db.caseSummary(owner, d.CaseID),
				ClientInfo: r.db.clientSummary(owner, d.ClientID),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// FindByID loads one record by id
func (r *Documents) FindByID(_ context.Context, id bson.ObjectID) (*domain.Document, error) {
	return find(&r.db.mu, r.db.documents, id, "Document not found")
}

// Update applies the same update document the Mongo store would send
func (r *Documents) Update(_ context.Context, id bson.ObjectID, p domain.DocumentPatch) error {
	update, err := store.DocumentChanges(p, r.db.now(), r.db.log)
	if err != nil {
		return err
	}
	return apply(&r.db.mu, r.db.documents, id, update, "Document not found")
}

// Delete removes one record
func (r *Documents) Delete(_ context.Context, id bson.ObjectID) error {
	return remove(&r.db.mu, r.db.documents, id, "Document not found")
}

// Tasks is the in-memory task store
type Tasks struct{ db *DB }

// Add builds and stores a record
func (r *Tasks) Add(_ context.Context, n domain.NewTask) (bson.ObjectID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, err := store.BuildTask(n, r.db.now(), r.db.log)
	if err != nil {
		return bson.NilObjectID, err
	}
	r.db.tasks[t.ID] = *t
	return t.ID, nil
}

// ListForOwner orders like Mongo: missing due dates first, then ascending
// due date, then descending priority
func (r *Tasks) ListForOwner(_ context.Context, owner bson.ObjectID) ([]domain.TaskView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.TaskView{}
	for _, t := range values(r.db.tasks) {
		if t.UserID == owner {
			out = append(out, domain.TaskView{
				Task:       t,
				CaseInfo:   r.db.caseSummary(owner, t.CaseID),
				ClientInfo: r.db.clientSummary(owner, t.ClientID),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return true
		case a.DueDate != nil && b.DueDate == nil:
			return false
		case a.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		case a.PriorityRank != b.PriorityRank:
			return a.PriorityRank > b.PriorityRank
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return out, nil
}

// FindByID loads one record by id
func (r *Tasks) FindByID(_ context.Context, id bson.ObjectID) (*domain.Task, error) {
	return find(&r.db.mu, r.db.tasks, id, "Task not found")
}

// Update applies the same update document the Mongo store would send
func (r *Tasks) Update(_ context.Context, id bson.ObjectID, p domain.TaskPatch) error {
	update, err := store.TaskChanges(p, r.db.now(), r.db.log)
	if err != nil {
		return err
	}
	return apply(&r.db.mu, r.db.tasks, id, update, "Task not found")
}

// Delete removes one record
func (r *Tasks) Delete(_ context.Context, id bson.ObjectID) error {
	return remove(&r.db.mu, r.db.tasks, id, "Task not found")
}

// clientSummary joins a client of owner, nil when missing or foreign
func (d *DB) clientSummary(owner bson.ObjectID, id *bson.ObjectID) *domain.ClientSummary {
	if id == nil {
		return nil
	}
	c, ok := d.clients[*id]
	if !ok || c.UserID != owner {
		return nil
	}
	return &domain.ClientSummary{ID: c.ID, Name: c.Name, Email: c.Email}
}

// caseSummary joins a case of owner, nil when missing or foreign
func (d *DB) caseSummary(owner bson.ObjectID, id *bson.ObjectID) *domain.CaseSummary {
	if id == nil {
		return nil
	}
	c, ok := d.cases[*id]
	if !ok || c.UserID != owner {
		return nil
	}
	return &domain.CaseSummary{ID: c.ID, Title: c.Title}
}

// values returns map values in id order, which is insertion order for ObjectIDs
func values[T any](m map[bson.ObjectID]T) []T {
	ids := make([]bson.ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func find[T any](mu *sync.RWMutex, m map[bson.ObjectID]T, id bson.ObjectID, notFound string) (*T, error) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := m[id]
	if !ok {
		return nil, apperrors.NotFound(notFound)
	}
	return &v, nil
}

func apply[T any](mu *sync.RWMutex, m map[bson.ObjectID]T, id bson.ObjectID, update bson.M, notFound string) error {
	mu.Lock()
	defer mu.Unlock()
	v, ok := m[id]
	if !ok {
		return apperrors.NotFound(notFound)
	}
	if err := store.ApplyUpdate(&v, update); err != nil {
		return err
	}
	m[id] = v
	return nil
}

func remove[T any](mu *sync.RWMutex, m map[bson.ObjectID]T, id bson.ObjectID, notFound string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := m[id]; !ok {
		return apperrors.NotFound(notFound)
	}
	delete(m, id)
	return nil
}
