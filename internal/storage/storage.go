// Package storage keeps uploaded document files on local disk or in S3.
package storage

import (
	"context"       // Cancellation for backend calls
	"errors"        // Sentinel errors
	"fmt"           // Key formatting
	"io"            // Streaming file bodies
	"mime"          // Extension to media type
	"net/http"      // Content sniffing
	"path/filepath" // Filename parts
	"strings"       // Name sanitizing

	"legal_practice/internal/config" // Storage settings

	"github.com/google/uuid" // File ids
)

// ErrNotFound is returned by Download when no file exists under the key
var ErrNotFound = errors.New("file not found")

// Storage stores document files under generated keys
type Storage interface {
	// Upload stores a file and returns its storage key
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download opens the file stored under key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the file stored under key, missing files are not an error
	Delete(ctx context.Context, key string) error
}

// Type is the storage backend
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// New builds the backend selected by STORAGE_TYPE
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch Type(strings.ToLower(cfg.StorageType)) {
	case TypeLocal, "":
		return NewLocalStorage(cfg.StorageLocalPath)
	case TypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.StorageType)
	}
}

// Key builds a storage key: a two-character shard, the file id and the sanitized name
func Key(fileID uuid.UUID, filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		base = "file"
	}
	id := fileID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, base, ext)
}

// SniffLen is how many leading bytes DetectContentType inspects
const SniffLen = 512

const octetStream = "application/octet-stream" // Unknown content

// Office formats are missing from the builtin table on most hosts
var officeTypes = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func init() {
	for ext, typ := range officeTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// ContentType guesses the MIME type of a filename, defaulting to octet-stream
func ContentType(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return octetStream
}

// DetectContentType prefers the extension and falls back to sniffing the
// first SniffLen bytes of the file.
func DetectContentType(filename string, head []byte) string {
	if t := ContentType(filename); t != octetStream || len(head) == 0 {
		return t
	}
	return http.DetectContentType(head) // Never empty; octet-stream when unsure
}
