package domain

import (
	"strings" // String helpers
	"time"    // Timestamps

	"go.mongodb.org/mongo-driver/v2/bson" // BSON documents and ObjectIDs
)

const (
	DefaultDocumentTitle = "Untitled Document" // Used when neither title nor name is sent
	DefaultDocumentURL   = "placeholder-url"   // Used when no file URL is sent
	DefaultDocumentType  = "application/pdf"   // Used when no file type is sent
	UnassignedCase       = "Unassigned"        // Case label meaning "no case"
)

// Document Model
type Document struct {
	ID          bson.ObjectID  `bson:"_id,omitempty"`
	Title       string         `bson:"title"`
	Description string         `bson:"description"`
	FileURL     string         `bson:"fileUrl"`
	FileType    string         `bson:"fileType"`
	FileSize    int64          `bson:"fileSize"`
	UserID      bson.ObjectID  `bson:"userId"`
	CaseID      *bson.ObjectID `bson:"caseId,omitempty"`
	ClientID    *bson.ObjectID `bson:"clientId,omitempty"`
	Tags        []string       `bson:"tags"`
	StorageKey  string         `bson:"storageKey,omitempty"` // Set for uploaded files only
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

// Validate checks required fields
func (d *Document) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(d.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(d.FileURL) == "" {
		fields["fileUrl"] = "File URL is required"
	}
	if d.FileSize < 0 {
		fields["fileSize"] = "File size cannot be negative"
	}
	if d.UserID.IsZero() {
		fields["userId"] = "Owner is required"
	}
	if len(fields) > 0 {
		return validationError("Document validation failed", fields)
	}
	return nil
}

// AddTag appends a tag unless already present
func (d *Document) AddTag(tag string) {
	for _, t := range d.Tags {
		if t == tag {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

// CaseSummary is the populated view of a referenced case
type CaseSummary struct {
	ID    bson.ObjectID `bson:"_id"`
	Title string        `bson:"title"`
}

// DocumentView is a document with case and client expanded
type DocumentView struct {
	Document   `bson:",inline"`
	CaseInfo   *CaseSummary   `bson:"caseInfo,omitempty"`
	ClientInfo *ClientSummary `bson:"clientInfo,omitempty"`
}

// NewDocument is the input for document creation
type NewDocument struct {
	OwnerID     bson.ObjectID
	Title       string
	Description string
	FileURL     string
	FileType    string
	FileSize    int64
	CaseRef     string // caseId as sent
	CaseLabel   string // Free-form case field, either an id or a label
	ClientRef   string // clientId as sent
	Tags        []string
	StorageKey  string
}

// DocumentPatch holds optional document updates
type DocumentPatch struct {
	Title       *string
	Description *string
	FileURL     *string
	FileType    *string
	FileSize    *int64
	CaseRef     *string
	ClientRef   *string
	Tags        *[]string
}
