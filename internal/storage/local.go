package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 本地文件系统存储（开发环境）
type LocalStore struct {
	root    string
	baseURL string
}

var _ ObjectStore = (*LocalStore)(nil)

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// resolve 拒绝逃出 root 的路径
func (s *LocalStore) resolve(objectPath string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(objectPath))
	if clean == string(filepath.Separator) {
		return "", &Error{Op: "resolve", Message: "Invalid object path"}
	}
	return filepath.Join(s.root, clean), nil
}

func (s *LocalStore) Upload(_ context.Context, objectPath string, r io.Reader, _ int64, _ string) error {
	full, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &Error{Op: "upload", Err: err}
	}
	f, err := os.Create(full)
	if err != nil {
		return &Error{Op: "upload", Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return &Error{Op: "upload", Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Op: "upload", Err: err}
	}
	return nil
}

func (s *LocalStore) Download(_ context.Context, objectPath string) (*Object, error) {
	full, err := s.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Op: "download", Message: "Object not found", Err: ErrObjectNotFound}
		}
		return nil, &Error{Op: "download", Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &Error{Op: "download", Err: err}
	}
	contentType := mime.TypeByExtension(filepath.Ext(full))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Object{Body: f, ContentType: contentType, Size: info.Size()}, nil
}

// Delete 对象不存在视为成功
func (s *LocalStore) Delete(_ context.Context, objectPath string) error {
	full, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "delete", Err: err}
	}
	return nil
}

func (s *LocalStore) URL(objectPath string) string {
	return s.baseURL + "/" + strings.TrimLeft(objectPath, "/")
}
