package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal_practice/internal/config"
)

func TestKeySanitizesFilename(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")

	assert.Equal(t, "3f/3f2a9c1e-0000-4000-8000-000000000001_Retainer_letter.pdf", Key(id, "Retainer letter.pdf"))
	assert.Equal(t, "3f/3f2a9c1e-0000-4000-8000-000000000001_passwd", Key(id, "../../etc/passwd"))
	assert.Equal(t, "3f/3f2a9c1e-0000-4000-8000-000000000001_brief.docx", Key(id, `C:\cases\brief.docx`))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentType("Brief.PDF"))
	assert.Equal(t, "image/png", ContentType("exhibit.png"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ContentType("brief.DOCX"))
	assert.Equal(t, "application/msword", ContentType("old.doc"))
	assert.Equal(t, "application/octet-stream", ContentType("ledger.legalblob"))
	assert.Equal(t, "application/octet-stream", ContentType("README"))
}

func TestDetectContentTypeSniffsUnknownExtensions(t *testing.T) {
	pdf := []byte("%PDF-1.7\n1 0 obj")

	assert.Equal(t, "application/pdf", DetectContentType("scan", pdf))
	assert.Equal(t, "text/plain; charset=utf-8", DetectContentType("notes.legalblob", []byte("hearing moved to friday")))
	assert.Equal(t, "application/msword", DetectContentType("old.doc", pdf), "extension wins over content")
	assert.Equal(t, "application/octet-stream", DetectContentType("empty", nil))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, uuid.New(), "notes.txt", strings.NewReader("hearing moved"))
	require.NoError(t, err)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hearing moved", string(body))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting twice is fine")

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "../outside.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, &config.Config{StorageType: "local", StorageLocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(ctx, &config.Config{StorageType: "s3"})
	assert.ErrorContains(t, err, "AWS_S3_BUCKET")

	_, err = New(ctx, &config.Config{StorageType: "ftp"})
	assert.Error(t, err)
}
