// Package api holds the gin handlers. Every handler is a factory over
// *Deps and returns as soon as it has written a response.
package api

import (
	"context"  // Context for store and cache calls
	"errors"   // errors.As for binding errors
	"net/http" // HTTP status codes
	"reflect"  // Struct field tags for validator names
	"strings"  // String manipulation
	"time"     // Cache lifetimes

	"legal_practice/internal/apperrors"  // Error taxonomy
	"legal_practice/internal/audit"      // Audit trail
	"legal_practice/internal/auth"       // Account flows
	"legal_practice/internal/db"         // Connection state
	"legal_practice/internal/domain"     // Domain models
	"legal_practice/internal/middleware" // Context keys
	"legal_practice/internal/storage"    // Uploaded files
	"legal_practice/internal/store"      // Repositories
	"legal_practice/internal/utils"      // Cache helpers
	"legal_practice/internal/wire"       // JSON shapes

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Request binding
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson"    // ObjectID type
)

// HealthChecker reports the database connection state
type HealthChecker interface {
	State() db.State
}

// Deps is everything the handlers need
type Deps struct {
	Auth           *auth.Service            // Account flows and token signing
	Users          store.UserRepository     // Identity store
	Cases          store.CaseRepository     // Case store
	Clients        store.ClientRepository   // Client store
	Documents      store.DocumentRepository // Document store
	Tasks          store.TaskRepository     // Task store
	Cache          utils.KV                 // List and admin cache
	CacheTTL       time.Duration            // List cache lifetime
	Files          storage.Storage          // Uploaded document files
	MaxUploadBytes int64                    // Upload size limit
	Audit          audit.Recorder           // Audit trail
	DB             HealthChecker            // Connection state for /health
	Log            logrus.FieldLogger       // Handler logger
}

func init() {
	// Report validation failures under their JSON names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError writes the error body for err. Unclassified errors are
// reported under fallback with the cause as details.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind == apperrors.KindUnclassified {
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "message": fallback, "details": err.Error()})
		return
	}
	if appErr.Kind == apperrors.KindConnection {
		log.WithError(err).Warn("Database unavailable")
	}
	body := gin.H{"error": appErr.Message, "message": appErr.Message}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.HTTPStatus(), body)
}

// bindJSON binds the body into dst, turning binding failures into validation errors
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return apperrors.Validation(fieldMessage(verrs[0]), fields)
	}
	return apperrors.Validation("Invalid request body", nil).WithDetails("%s", err.Error())
}

// fieldMessage renders one validator failure
func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	if label == "" {
		label = "Field"
	}
	label = strings.ToUpper(label[:1]) + label[1:]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "gte":
		return label + " must be at least " + fe.Param()
	default:
		return label + " is invalid"
	}
}

// currentUser returns the authenticated account id, answering 401 when absent
func currentUser(c *gin.Context) (bson.ObjectID, bool) {
	id, ok := wire.ParseRef(c.GetString(middleware.CtxUserID))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return bson.NilObjectID, false
	}
	return id, true
}

// pathID parses the :id parameter, answering 404 with notFound when it is not an id
func pathID(c *gin.Context, name, notFound string) (bson.ObjectID, bool) {
	id, ok := wire.ParseRef(c.Param(name))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound, "message": notFound})
		return bson.NilObjectID, false
	}
	return id, true
}

// ownedOr404 answers 404 unless the record belongs to owner
func ownedOr404(c *gin.Context, owner, recordOwner bson.ObjectID, notFound string) bool {
	if owner != recordOwner {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound, "message": notFound})
		return false
	}
	return true
}

// List cache entities
const (
	casesList     = utils.CasesList
	clientsList   = utils.ClientsList
	documentsList = utils.DocumentsList
	tasksList     = utils.TasksList
)

func listKey(entity string, owner bson.ObjectID) string {
	return utils.ListKey(entity, owner.Hex())
}

// serveList answers from the cache when possible and fills it otherwise
func serveList[T any](c *gin.Context, d *Deps, entity string, owner bson.ObjectID, load func(ctx context.Context) ([]T, error), fallback string) {
	ctx := c.Request.Context()
	key := listKey(entity, owner)
	var cached []T
	found, err := utils.GetCache(ctx, d.Cache, key, &cached)
	if err != nil {
		d.Log.WithError(err).WithField("key", key).Warn("Cache read failed")
	} else if found {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, cached)
		return
	}
	items, err := load(ctx)
	if err != nil {
		respondError(c, d.Log, err, fallback)
		return
	}
	if err := utils.SetCache(ctx, d.Cache, key, items, d.CacheTTL); err != nil {
		d.Log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, items)
}

// invalidateLists drops every cached list of owner; lists embed each other's names and titles
func invalidateLists(ctx context.Context, d *Deps, owner bson.ObjectID) {
	if err := utils.DeleteCache(ctx, d.Cache, utils.ListKeys(owner.Hex())...); err != nil {
		d.Log.WithError(err).Warn("Cache invalidation failed")
	}
}

// record appends an audit event; failures are logged and never fail the request
func record(ctx context.Context, d *Deps, e audit.Event) {
	if err := d.Audit.Record(ctx, e); err != nil {
		d.Log.WithError(err).WithField("action", e.Action).Warn("Audit event not recorded")
	}
}

// mutated invalidates the owner's lists and records the event
func mutated(c *gin.Context, d *Deps, owner bson.ObjectID, action, entity string, id bson.ObjectID) {
	ctx := c.Request.Context()
	invalidateLists(ctx, d, owner)
	record(ctx, d, audit.Event{
		UserID:   owner.Hex(),
		Action:   action,
		Entity:   entity,
		EntityID: id.Hex(),
	})
	d.Log.WithFields(logrus.Fields{
		"user_id":   owner.Hex(),
		"action":    action,
		"entity":    entity,
		"entity_id": id.Hex(),
	}).Info("Entity changed")
}

// clientSummary loads the display fields of an owned client, nil when gone
func clientSummary(ctx context.Context, d *Deps, owner bson.ObjectID, id *bson.ObjectID) *domain.ClientSummary {
	if id == nil {
		return nil
	}
	cl, err := d.Clients.FindByID(ctx, *id)
	if err != nil || cl.UserID != owner {
		return nil
	}
	return &domain.ClientSummary{ID: cl.ID, Name: cl.Name, Email: cl.Email}
}

// caseSummary loads the title of an owned case, nil when gone
func caseSummary(ctx context.Context, d *Deps, owner bson.ObjectID, id *bson.ObjectID) *domain.CaseSummary {
	if id == nil {
		return nil
	}
	cs, err := d.Cases.FindByID(ctx, *id)
	if err != nil || cs.UserID != owner {
		return nil
	}
	return &domain.CaseSummary{ID: cs.ID, Title: cs.Title}
}
