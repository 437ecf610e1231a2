package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	uuidRe := `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

	p := ObjectPath("tenant-1", "Lease Agreement.PDF")
	assert.Regexp(t, regexp.MustCompile(`^tenant-1/`+uuidRe+`\.pdf$`), p)

	p = ObjectPath("", "roof.jpg")
	assert.Regexp(t, regexp.MustCompile(`^property/`+uuidRe+`\.jpg$`), p)

	p = ObjectPath("", "README")
	assert.Regexp(t, regexp.MustCompile(`^property/`+uuidRe+`$`), p)

	assert.NotEqual(t, ObjectPath("t", "a.txt"), ObjectPath("t", "a.txt"))
}

func TestExt(t *testing.T) {
	assert.Equal(t, "pdf", Ext("a.PDF"))
	assert.Equal(t, "gz", Ext("backup.tar.gz"))
	assert.Equal(t, "", Ext("noext"))
	assert.Equal(t, "docx", Ext(`C:\Users\me\lease.docx`))
}

func TestLocalStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "http://localhost:8080/files/")
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, "tenant-1/lease.txt", strings.NewReader("Monthly rent: 1200"), 18, "text/plain"))

	obj, err := s.Download(ctx, "tenant-1/lease.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	require.NoError(t, obj.Body.Close())
	assert.Equal(t, "Monthly rent: 1200", string(body))
	assert.Contains(t, obj.ContentType, "text/plain")
	assert.Equal(t, int64(18), obj.Size)

	assert.Equal(t, "http://localhost:8080/files/tenant-1/lease.txt", s.URL("tenant-1/lease.txt"))

	require.NoError(t, s.Delete(ctx, "tenant-1/lease.txt"))
	require.NoError(t, s.Delete(ctx, "tenant-1/lease.txt"))

	_, err = s.Download(ctx, "tenant-1/lease.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStore_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStore(root, "")
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, "../../escape.txt", strings.NewReader("x"), 1, ""))
	obj, err := s.Download(ctx, "escape.txt")
	require.NoError(t, err)
	obj.Body.Close()

	assert.Error(t, s.Upload(ctx, "/", strings.NewReader("x"), 1, ""))
}

func TestS3Store_URL(t *testing.T) {
	s, err := NewS3Store(S3Config{Endpoint: "s3.example.com", Bucket: "docs", UseSSL: true})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/docs/property/a.pdf", s.URL("property/a.pdf"))

	s, err = NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "docs", PublicURL: "https://cdn.example.com/docs/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/docs/t/b.png", s.URL("t/b.png"))
}

func TestWrapS3Error(t *testing.T) {
	err := wrapS3Error("download", minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	err = wrapS3Error("upload", minio.ErrorResponse{Code: "NoSuchBucket", Message: "The specified bucket does not exist"})
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "The specified bucket does not exist", se.ServiceMessage())
}
