package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config S3 兼容存储配置（AWS S3 / MinIO / R2 等）
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// PublicURL 文件访问前缀，为空时使用 endpoint
	PublicURL string
}

// S3Store 基于 minio-go 的对象存储
type S3Store struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

var _ ObjectStore = (*S3Store)(nil)

// NewS3Store does not contact the server; call EnsureBucket at startup.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	return &S3Store{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: publicURL,
	}, nil
}

// EnsureBucket 桶不存在时创建
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return wrapS3Error("bucket exists", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return wrapS3Error("make bucket", err)
	}
	return nil
}

func (s *S3Store) Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return wrapS3Error("upload", err)
	}
	return nil
}

func (s *S3Store) Download(ctx context.Context, objectPath string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapS3Error("download", err)
	}
	// GetObject 是惰性的，Stat 才会真正请求
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, wrapS3Error("download", err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Object{Body: obj, ContentType: contentType, Size: info.Size}, nil
}

func (s *S3Store) Delete(ctx context.Context, objectPath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return wrapS3Error("delete", err)
	}
	return nil
}

func (s *S3Store) URL(objectPath string) string {
	return s.publicURL + "/" + strings.TrimLeft(objectPath, "/")
}

func wrapS3Error(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" {
		return &Error{Op: op, Message: "Object not found", Err: ErrObjectNotFound}
	}
	return &Error{Op: op, Message: resp.Message, Err: err}
}
