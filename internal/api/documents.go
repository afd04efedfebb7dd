package api

import (
	"bytes"    // Re-reading sniffed bytes
	"context"  // Context for store calls
	"errors"   // Error matching
	"fmt"      // Header formatting
	"io"       // Upload streams
	"net/http" // HTTP status codes
	"strings"  // Tag splitting

	"legal_practice/internal/audit"   // Audit actions
	"legal_practice/internal/domain"  // Domain models
	"legal_practice/internal/storage" // Uploaded files
	"legal_practice/internal/wire"    // JSON shapes

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/google/uuid"              // File ids
	"github.com/sirupsen/logrus"          // Structured logging
	"go.mongodb.org/mongo-driver/v2/bson" // ObjectID type
)

const msgDocumentNotFound = "Document not found"

// multipartOverhead is the slack allowed over the file limit for form fields and boundaries
const multipartOverhead = 1 << 20

// ListDocumentsHandler returns the caller's documents, newest first
func ListDocumentsHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		serveList(c, d, documentsList, owner, func(ctx context.Context) ([]wire.Document, error) {
			views, err := d.Documents.ListForOwner(ctx, owner)
			if err != nil {
				return nil, err
			}
			return wire.Documents(views), nil
		}, "Failed to fetch documents")
	}
}

// ownedDocument loads :id and checks the owner, answering on failure
func ownedDocument(c *gin.Context, d *Deps, owner bson.ObjectID, fallback string) (*domain.Document, bool) {
	id, ok := pathID(c, "id", msgDocumentNotFound)
	if !ok {
		return nil, false
	}
	doc, err := d.Documents.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, d.Log, err, fallback)
		return nil, false
	}
	if !ownedOr404(c, owner, doc.UserID, msgDocumentNotFound) {
		return nil, false
	}
	return doc, true
}

// GetDocumentHandler returns one document with its case and client
func GetDocumentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, d, owner, "Failed to fetch document")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		view := domain.DocumentView{
			Document:   *doc,
			CaseInfo:   caseSummary(ctx, d, owner, doc.CaseID),
			ClientInfo: clientSummary(ctx, d, owner, doc.ClientID),
		}
		c.JSON(http.StatusOK, wire.FromDocument(view))
	}
}

// CreateDocumentHandler records document metadata for a file hosted elsewhere
func CreateDocumentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		var req wire.DocumentInput
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to create document")
			return
		}
		id, err := d.Documents.Add(c.Request.Context(), req.ToNew(owner))
		if err != nil {
			respondError(c, d.Log, err, "Failed to create document")
			return
		}
		mutated(c, d, owner, audit.ActionCreate, "document", id)
		c.JSON(http.StatusCreated, gin.H{"id": wire.FormatID(id)})
	}
}

// UploadDocumentHandler stores a multipart file and creates its document
func UploadDocumentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		tooLarge := fmt.Sprintf("File size exceeds maximum of %d bytes", d.MaxUploadBytes)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, d.MaxUploadBytes+multipartOverhead)
		fileHeader, err := c.FormFile("file") // Get file from form
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLarge, "message": tooLarge})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "message": "File is required"})
			return
		}
		// Validate file size
		if fileHeader.Size > d.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLarge, "message": tooLarge})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, d.Log, err, "Failed to read upload")
			return
		}
		defer file.Close()

		head := make([]byte, storage.SniffLen)
		read, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			respondError(c, d.Log, err, "Failed to read upload")
			return
		}
		head = head[:read]
		fileType := fileHeader.Header.Get("Content-Type")
		if fileType == "" || fileType == "application/octet-stream" {
			fileType = storage.DetectContentType(fileHeader.Filename, head) // Extension first, then content
		}
		ctx := c.Request.Context()
		body := io.MultiReader(bytes.NewReader(head), file) // Put the sniffed bytes back
		key, err := d.Files.Upload(ctx, uuid.New(), fileHeader.Filename, body)
		if err != nil {
			respondError(c, d.Log, err, "Failed to upload file")
			return
		}
		n := domain.NewDocument{
			OwnerID:     owner,
			Title:       c.DefaultPostForm("title", fileHeader.Filename),
			Description: c.PostForm("description"),
			FileType:    fileType,
			FileSize:    fileHeader.Size,
			CaseRef:     c.PostForm("caseId"),
			CaseLabel:   c.PostForm("case"),
			ClientRef:   c.PostForm("clientId"),
			Tags:        splitTags(c.PostForm("tags")),
			StorageKey:  key,
		}
		id, err := d.Documents.Add(ctx, n)
		if err != nil {
			// Clean up the stored file
			if delErr := d.Files.Delete(ctx, key); delErr != nil {
				d.Log.WithError(delErr).WithField("key", key).Warn("Failed to remove orphaned upload")
			}
			respondError(c, d.Log, err, "Failed to create document")
			return
		}
		mutated(c, d, owner, audit.ActionUpload, "document", id)
		c.JSON(http.StatusCreated, gin.H{"id": wire.FormatID(id), "fileUrl": wire.FileURL(id)})
	}
}

// splitTags parses a comma separated tag list
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// DownloadDocumentHandler streams an uploaded file
func DownloadDocumentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, d, owner, "Failed to fetch document")
		if !ok {
			return
		}
		if doc.StorageKey == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document has no stored file", "message": "Document has no stored file"})
			return
		}
		rc, err := d.Files.Download(c.Request.Context(), doc.StorageKey)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "message": "File not found"})
			return
		} else if err != nil {
			respondError(c, d.Log, err, "Failed to download file")
			return
		}
		defer rc.Close()

		size := doc.FileSize
		if size <= 0 {
			size = -1 // Unknown length
		}
		headers := map[string]string{"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Title)}
		c.DataFromReader(http.StatusOK, size, doc.FileType, rc, headers)
	}
}

// UpdateDocumentHandler applies a partial update to an owned document
func UpdateDocumentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		var req wire.DocumentPatchInput
		if err := bindJSON(c, &req); err != nil {
			respondError(c, d.Log, err, "Failed to update document")
			return
		}
		doc, ok := ownedDocument(c, d, owner, "Failed to update document")
		if !ok {
			return
		}
		if err := d.Documents.Update(c.Request.Context(), doc.ID, req.ToPatch()); err != nil {
			respondError(c, d.Log, err, "Failed to update document")
			return
		}
		mutated(c, d, owner, audit.ActionUpdate, "document", doc.ID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteDocumentHandler removes an owned document and its stored file
func DeleteDocumentHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := currentUser(c)
		if !ok {
			return
		}
		doc, ok := ownedDocument(c, d, owner, "Failed to delete document")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		if err := d.Documents.Delete(ctx, doc.ID); err != nil {
			respondError(c, d.Log, err, "Failed to delete document")
			return
		}
		if doc.StorageKey != "" {
			if err := d.Files.Delete(ctx, doc.StorageKey); err != nil {
				d.Log.WithError(err).WithFields(logrus.Fields{"document_id": doc.ID.Hex(), "key": doc.StorageKey}).Warn("Failed to remove stored file")
			}
		}
		mutated(c, d, owner, audit.ActionDelete, "document", doc.ID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
