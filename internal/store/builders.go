package store

import (
	"strings" // String helpers
	"time"    // Timestamps

	"legal_practice/internal/apperrors" // Typed errors
	"legal_practice/internal/domain"    // Domain models
	"legal_practice/internal/wire"      // JSON shapes

	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

// firstNonEmpty returns the first value that is not blank
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// BuildUser normalizes and validates the input, then hashes the password
func BuildUser(n domain.NewUser, now time.Time) (*domain.User, error) {
	n.Normalize() // Lowercase email, derive missing names
	if err := n.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(n.Password) // Never store plaintext
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:               bson.NewObjectID(),
		FirstName:        n.FirstName,
		LastName:         n.LastName,
		Email:            n.Email,
		Password:         hash,
		DisplayName:      n.DisplayName,
		PhotoURL:         strings.TrimSpace(n.PhotoURL),
		Phone:            strings.TrimSpace(n.Phone),
		Address:          strings.TrimSpace(n.Address),
		Website:          strings.TrimSpace(n.Website),
		BarCouncilNumber: strings.TrimSpace(n.BarCouncilNumber),
		PracticeType:     strings.TrimSpace(n.PracticeType),
		Role:             domain.Role(n.Role),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// BuildCase coerces the client reference and validates the case
func BuildCase(n domain.NewCase, now time.Time) (*domain.Case, error) {
	c := &domain.Case{
		ID:          bson.NewObjectID(),
		Title:       strings.TrimSpace(n.Title),
		Description: n.Description,
		CaseNumber:  strings.TrimSpace(n.CaseNumber),
		Court:       strings.TrimSpace(n.Court),
		Status:      domain.CaseStatus(n.Status),
		UserID:      n.OwnerID,
		FilingDate:  n.FilingDate,
		HearingDate: n.HearingDate,
		Notes:       n.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if st, ok := domain.ParseCaseStatus(n.Status); ok {
		c.Status = st // Canonical spelling
	}
	ref := strings.TrimSpace(n.ClientRef)
	if id, ok := wire.ParseRef(ref); ok {
		c.Client = id
	} else if ref != "" {
		return nil, apperrors.Validation("Client must be a valid client ID",
			map[string]string{"client": "Client must be a valid client ID"})
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// BuildClient validates a new client
func BuildClient(n domain.NewClient, now time.Time) (*domain.Client, error) {
	c := &domain.Client{
		ID:        bson.NewObjectID(),
		Name:      strings.TrimSpace(n.Name),
		Email:     domain.NormalizeEmail(n.Email),
		Phone:     strings.TrimSpace(n.Phone),
		Address:   strings.TrimSpace(n.Address),
		Company:   strings.TrimSpace(n.Company),
		Notes:     n.Notes,
		UserID:    n.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// BuildDocument applies the document fallbacks. Reference strings that are
// not ids are kept as "case:<v>" or "client:<v>" tags.
func BuildDocument(n domain.NewDocument, now time.Time, log logrus.FieldLogger) (*domain.Document, error) {
	d := &domain.Document{
		ID:          bson.NewObjectID(),
		Title:       firstNonEmpty(n.Title, domain.DefaultDocumentTitle),
		Description: n.Description,
		FileURL:     firstNonEmpty(n.FileURL, domain.DefaultDocumentURL),
		FileType:    firstNonEmpty(n.FileType, domain.DefaultDocumentType),
		FileSize:    n.FileSize,
		UserID:      n.OwnerID,
		Tags:        []string{},
		StorageKey:  n.StorageKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, tag := range n.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			d.AddTag(tag)
		}
	}

	caseRef := strings.TrimSpace(n.CaseRef)
	if caseRef == "" {
		caseRef = strings.TrimSpace(n.CaseLabel) // Legacy "case" field
	}
	if caseRef != "" && caseRef != domain.UnassignedCase {
		d.CaseID = tagUnlessRef(d, "case", caseRef, log)
	}
	if clientRef := strings.TrimSpace(n.ClientRef); clientRef != "" {
		d.ClientID = tagUnlessRef(d, "client", clientRef, log)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// tagUnlessRef parses ref as an id, or keeps it on the document as a kind:ref tag
func tagUnlessRef(d *domain.Document, kind, ref string, log logrus.FieldLogger) *bson.ObjectID {
	if id, ok := wire.ParseRef(ref); ok {
		return &id
	}
	log.WithFields(logrus.Fields{"field": kind, "value": ref}).Warn("Invalid reference, keeping it as a tag")
	d.AddTag(kind + ":" + ref)
	return nil
}

// BuildTask normalizes status and priority; invalid references are dropped
func BuildTask(n domain.NewTask, now time.Time, log logrus.FieldLogger) (*domain.Task, error) {
	priority := domain.NormalizeTaskPriority(n.Priority)
	t := &domain.Task{
		ID:           bson.NewObjectID(),
		Title:        strings.TrimSpace(n.Title),
		Description:  n.Description,
		Status:       domain.NormalizeTaskStatus(n.Status),
		Priority:     priority,
		PriorityRank: priority.Rank(),
		DueDate:      n.DueDate,
		CaseID:       optionalRef("caseId", n.CaseRef, log),
		ClientID:     optionalRef("clientId", n.ClientRef, log),
		Notes:        n.Notes,
		UserID:       n.OwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if strings.TrimSpace(t.Notes) == "" {
		t.Notes = n.Description // Notes mirror the description when absent
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// optionalRef parses ref, logging and dropping anything that is not an id
func optionalRef(field, ref string, log logrus.FieldLogger) *bson.ObjectID {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	id := wire.ParseOptionalRef(ref)
	if id == nil {
		log.WithFields(logrus.Fields{"field": field, "value": ref}).Warn("Invalid reference, skipping")
	}
	return id
}

// changes accumulates a $set/$unset update document
type changes struct {
	set    bson.M            // Fields to write
	unset  bson.M            // Fields to remove
	fields map[string]string // Validation failures by field
}

// newChanges always bumps updatedAt
func newChanges(now time.Time) *changes {
	return &changes{
		set:    bson.M{"updatedAt": now},
		unset:  bson.M{},
		fields: map[string]string{},
	}
}

// str sets a present value as given
func (c *changes) str(key string, v *string) {
	if v != nil {
		c.set[key] = *v
	}
}

// trimmed sets a present value without surrounding space
func (c *changes) trimmed(key string, v *string) {
	if v != nil {
		c.set[key] = strings.TrimSpace(*v)
	}
}

// required sets a present value, recording msg when it is blank
func (c *changes) required(key string, v *string, msg string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		c.set[key] = s
		return
	}
	c.fields[key] = msg
}

func (c *changes) date(key string, v *time.Time) {
	if v != nil {
		c.set[key] = *v
	}
}

// ref sets, clears or skips an optional reference; clear lists the values
// that mean "no reference"
func (c *changes) ref(key string, v *string, log logrus.FieldLogger, clear ...string) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		c.unset[key] = ""
		return
	}
	for _, none := range clear {
		if s == none {
			c.unset[key] = ""
			return
		}
	}
	if id, ok := wire.ParseRef(s); ok {
		c.set[key] = id
		return
	}
	log.WithFields(logrus.Fields{"field": key, "value": s}).Warn("Invalid reference, leaving it unchanged")
}

// build returns the update, or a validation error naming the failed fields
func (c *changes) build(msg string) (bson.M, error) {
	if len(c.fields) > 0 {
		if len(c.fields) == 1 {
			for _, m := range c.fields {
				msg = m // A single failure is the message
			}
		}
		return nil, apperrors.Validation(msg, c.fields)
	}
	update := bson.M{"$set": c.set}
	if len(c.unset) > 0 {
		update["$unset"] = c.unset
	}
	return update, nil
}

// UserChanges builds the update for an account, re-hashing a new password
func UserChanges(p domain.UserPatch, now time.Time) (bson.M, error) {
	c := newChanges(now)
	c.required("firstName", p.FirstName, "First name is required")
	c.trimmed("lastName", p.LastName)
	if p.Email != nil {
		if email := domain.NormalizeEmail(*p.Email); email != "" {
			c.set["email"] = email
		} else {
			c.fields["email"] = "Email is required"
		}
	}
	if p.Password != nil {
		if *p.Password == "" {
			c.fields["password"] = "Password is required"
		} else {
			hash, err := HashPassword(*p.Password)
			if err != nil {
				return nil, err
			}
			c.set["password"] = hash
		}
	}
	c.trimmed("displayName", p.DisplayName)
	c.trimmed("photoURL", p.PhotoURL)
	c.trimmed("phone", p.Phone)
	c.trimmed("address", p.Address)
	c.trimmed("website", p.Website)
	c.trimmed("barCouncilNumber", p.BarCouncilNumber)
	c.trimmed("practiceType", p.PracticeType)
	return c.build("User validation failed")
}

// CaseChanges builds the update for a case
func CaseChanges(p domain.CasePatch, now time.Time) (bson.M, error) {
	c := newChanges(now)
	c.required("title", p.Title, "Title is required")
	c.str("description", p.Description)
	c.trimmed("caseNumber", p.CaseNumber)
	c.trimmed("court", p.Court)
	c.str("notes", p.Notes)
	c.date("filingDate", p.FilingDate)
	c.date("hearingDate", p.HearingDate)
	if p.Status != nil {
		if st, ok := domain.ParseCaseStatus(*p.Status); ok {
			c.set["status"] = st
		} else {
			c.fields["status"] = "Status must be one of active, pending, closed, won, lost"
		}
	}
	if p.ClientRef != nil {
		if id, ok := wire.ParseRef(*p.ClientRef); ok {
			c.set["client"] = id
		} else {
			c.fields["client"] = "Client is required"
		}
	}
	return c.build("Case validation failed")
}

// ClientChanges builds the update for a client
func ClientChanges(p domain.ClientPatch, now time.Time) (bson.M, error) {
	c := newChanges(now)
	c.required("name", p.Name, "Name is required")
	if p.Email != nil {
		c.set["email"] = domain.NormalizeEmail(*p.Email)
	}
	c.trimmed("phone", p.Phone)
	c.trimmed("address", p.Address)
	c.trimmed("company", p.Company)
	c.str("notes", p.Notes)
	return c.build("Client validation failed")
}

// DocumentChanges builds the update for a document
func DocumentChanges(p domain.DocumentPatch, now time.Time, log logrus.FieldLogger) (bson.M, error) {
	c := newChanges(now)
	c.required("title", p.Title, "Title is required")
	c.str("description", p.Description)
	c.required("fileUrl", p.FileURL, "File URL is required")
	c.trimmed("fileType", p.FileType)
	if p.FileSize != nil {
		if *p.FileSize < 0 {
			c.fields["fileSize"] = "File size cannot be negative"
		} else {
			c.set["fileSize"] = *p.FileSize
		}
	}
	c.ref("caseId", p.CaseRef, log, domain.UnassignedCase)
	c.ref("clientId", p.ClientRef, log)
	if p.Tags != nil {
		d := domain.Document{Tags: []string{}}
		for _, tag := range *p.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				d.AddTag(tag)
			}
		}
		c.set["tags"] = d.Tags
	}
	return c.build("Document validation failed")
}

// TaskChanges builds the update for a task, keeping priorityRank in step
func TaskChanges(p domain.TaskPatch, now time.Time, log logrus.FieldLogger) (bson.M, error) {
	c := newChanges(now)
	c.required("title", p.Title, "Title is required")
	c.str("description", p.Description)
	c.str("notes", p.Notes)
	c.date("dueDate", p.DueDate)
	if p.Status != nil {
		c.set["status"] = domain.NormalizeTaskStatus(*p.Status)
	}
	if p.Priority != nil {
		priority := domain.NormalizeTaskPriority(*p.Priority)
		c.set["priority"] = priority
		c.set["priorityRank"] = priority.Rank() // Sort key for list ordering
	}
	c.ref("caseId", p.CaseRef, log)
	c.ref("clientId", p.ClientRef, log)
	return c.build("Task validation failed")
}

// ApplyUpdate applies a $set/$unset update document to a record in memory
func ApplyUpdate[T any](dst *T, update bson.M) error {
	raw, err := bson.Marshal(dst)
	if err != nil {
		return err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if set, ok := update["$set"].(bson.M); ok {
		for k, v := range set {
			doc[k] = v
		}
	}
	if unset, ok := update["$unset"].(bson.M); ok {
		for k := range unset {
			delete(doc, k)
		}
	}
	if raw, err = bson.Marshal(doc); err != nil {
		return err
	}
	var fresh T
	if err := bson.Unmarshal(raw, &fresh); err != nil {
		return err
	}
	*dst = fresh
	return nil
}
