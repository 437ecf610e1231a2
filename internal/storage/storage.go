// Package storage is the object storage boundary for uploaded documents.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// PropertyPrefix 物业级文档（无租客）的目录
const PropertyPrefix = "property"

var ErrObjectNotFound = errors.New("object not found")

// Object 下载结果，调用方负责 Close
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectStore 对象存储
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, objectPath string) (*Object, error)
	Delete(ctx context.Context, objectPath string) error
	// URL 对象的访问地址（写入 documents.file_url）
	URL(objectPath string) string
}

// ObjectPath returns "{tenantID|property}/{uuid}.{ext}" for an uploaded file.
func ObjectPath(tenantID, fileName string) string {
	prefix := tenantID
	if prefix == "" {
		prefix = PropertyPrefix
	}
	name := uuid.NewString()
	if ext := Ext(fileName); ext != "" {
		name += "." + ext
	}
	return prefix + "/" + name
}

// Ext 小写扩展名（不含点）
func Ext(fileName string) string {
	ext := path.Ext(strings.ReplaceAll(fileName, "\\", "/"))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Error carries a storage service message that may be shown to callers.
type Error struct {
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "storage " + e.Op + ": " + e.Err.Error()
	}
	return "storage " + e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ServiceMessage() string { return e.Message }
