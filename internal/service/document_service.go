package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"unithub/internal/ai"
	"unithub/internal/apperr"
	"unithub/internal/domain"
	"unithub/internal/events"
	"unithub/internal/repository"
	"unithub/internal/storage"
)

// maxLeaseTextBytes 从存储读取租约文本的上限
const maxLeaseTextBytes = 1 << 20

// DocumentService 文档服务（元数据在数据库，文件在对象存储）
type DocumentService struct {
	Common
	documents repository.DocumentsRepository
	tenants   repository.TenantsRepository
	objects   storage.ObjectStore
	ai        ai.Generator
}

func NewDocumentService(c Common, documents repository.DocumentsRepository, tenants repository.TenantsRepository, objects storage.ObjectStore, gen ai.Generator) *DocumentService {
	return &DocumentService{
		Common:    c.withDefaults(),
		documents: documents,
		tenants:   tenants,
		objects:   objects,
		ai:        gen,
	}
}

// ListDocumentsRequest PropertyOnly 优先于 TenantID
type ListDocumentsRequest struct {
	OwnerID      string
	TenantID     string
	PropertyOnly bool
	Type         string
}

// UploadDocumentRequest TenantID 为空表示物业级文档
type UploadDocumentRequest struct {
	TenantID    string
	Title       string
	Type        string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DownloadResult 调用方负责关闭 Body
type DownloadResult struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

func normalizeDocumentInput(in *domain.DocumentInput) {
	trim(&in.TenantID)
	trim(&in.Title)
	trim(&in.Type)
	trim(&in.FileURL)
}

func (s *DocumentService) List(ctx context.Context, req ListDocumentsRequest) ([]*domain.Document, error) {
	if req.Type != "" && !domain.IsValidDocumentType(req.Type) {
		return nil, validationError("Invalid document type")
	}
	docs, err := s.documents.ListDocuments(ctx, req.OwnerID, repository.DocumentFilter{
		TenantID:     req.TenantID,
		PropertyOnly: req.PropertyOnly,
		Type:         req.Type,
	})
	if err != nil {
		return nil, s.fail(OpListDocuments, err)
	}
	return docs, nil
}

func (s *DocumentService) Get(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	d, err := s.documents.GetDocument(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpGetDocument, err)
	}
	return d, nil
}

// Upload 计算存储路径 -> 上传文件 -> 写入记录；写入失败时尽力删除已上传的文件
func (s *DocumentService) Upload(ctx context.Context, ownerID string, req UploadDocumentRequest) (*domain.Document, error) {
	trim(&req.FileName)
	trim(&req.ContentType)
	objectPath := storage.ObjectPath(strings.TrimSpace(req.TenantID), req.FileName)

	in := domain.DocumentInput{
		TenantID: req.TenantID,
		Title:    req.Title,
		Type:     req.Type,
		FileURL:  s.objects.URL(objectPath),
	}
	normalizeDocumentInput(&in)
	var msgs []string
	if req.Body == nil || req.FileName == "" {
		msgs = append(msgs, "File is required")
	}
	if err := s.Validator.Struct(&in); err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.Kind != apperr.KindValidation {
			return nil, err
		}
		msgs = append(msgs, ae.Messages...)
	}
	if len(msgs) > 0 {
		return nil, validationError(msgs...)
	}
	if in.TenantID != "" {
		if err := s.ensureTenant(ctx, s.tenants, OpUploadDocument, ownerID, in.TenantID); err != nil {
			return nil, err
		}
	}

	contentType := req.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(path.Ext(objectPath)); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/octet-stream"
		}
	}

	err := s.objects.Upload(ctx, objectPath, req.Body, req.Size, contentType)
	s.recordStorage("upload", err)
	if err != nil {
		return nil, s.fail(OpUploadDocument, err)
	}

	doc, err := s.documents.CreateDocument(ctx, ownerID, &repository.NewDocument{
		TenantID:    in.TenantID,
		Title:       in.Title,
		Type:        in.Type,
		FileURL:     in.FileURL,
		StoragePath: objectPath,
		FileName:    req.FileName,
		ContentType: contentType,
		FileSize:    req.Size,
	})
	if err != nil {
		derr := s.objects.Delete(ctx, objectPath)
		s.recordStorage("delete", derr)
		if derr != nil {
			s.Logger.Warn("Failed to remove orphaned upload", zap.String("storage_path", objectPath), zap.Error(derr))
		}
		return nil, s.fail(OpUploadDocument, err)
	}

	s.Logger.Info("Document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("storage_path", objectPath),
		zap.Int64("size", req.Size),
	)
	s.publish(ctx, events.EntityDocument, events.ActionCreated, ownerID, doc.ID, doc)
	return doc, nil
}

// Create 只写元数据（文件已在外部，FileURL 由调用方提供）
func (s *DocumentService) Create(ctx context.Context, ownerID string, in domain.DocumentInput) (*domain.Document, error) {
	normalizeDocumentInput(&in)
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if in.TenantID != "" {
		if err := s.ensureTenant(ctx, s.tenants, OpCreateDocument, ownerID, in.TenantID); err != nil {
			return nil, err
		}
	}
	doc, err := s.documents.CreateDocument(ctx, ownerID, &repository.NewDocument{
		TenantID: in.TenantID,
		Title:    in.Title,
		Type:     in.Type,
		FileURL:  in.FileURL,
	})
	if err != nil {
		return nil, s.fail(OpCreateDocument, err)
	}
	s.publish(ctx, events.EntityDocument, events.ActionCreated, ownerID, doc.ID, doc)
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, ownerID, id string, in domain.DocumentInput) (*domain.Document, error) {
	normalizeDocumentInput(&in)
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if in.TenantID != "" {
		if err := s.ensureTenant(ctx, s.tenants, OpUpdateDocument, ownerID, in.TenantID); err != nil {
			return nil, err
		}
	}
	doc, err := s.documents.UpdateDocument(ctx, ownerID, id, &in)
	if err != nil {
		return nil, s.fail(OpUpdateDocument, err)
	}
	s.publish(ctx, events.EntityDocument, events.ActionUpdated, ownerID, doc.ID, doc)
	return doc, nil
}

// Delete 先删记录再删文件；文件删除失败只记录日志，仍返回成功
func (s *DocumentService) Delete(ctx context.Context, ownerID, id string) error {
	doc, err := s.documents.GetDocument(ctx, ownerID, id)
	if err != nil {
		return s.fail(OpDeleteDocument, err)
	}
	if err := s.documents.DeleteDocument(ctx, ownerID, id); err != nil {
		return s.fail(OpDeleteDocument, err)
	}

	if doc.StoragePath != "" {
		err := s.objects.Delete(ctx, doc.StoragePath)
		s.recordStorage("delete", err)
		if err != nil {
			s.Logger.Warn("Failed to delete document object",
				zap.String("document_id", id),
				zap.String("storage_path", doc.StoragePath),
				zap.Error(err),
			)
		}
	}
	s.publish(ctx, events.EntityDocument, events.ActionDeleted, ownerID, id, nil)
	return nil
}

// Download 读取文档文件，附带下载文件名和内容类型
func (s *DocumentService) Download(ctx context.Context, ownerID, id string) (*DownloadResult, error) {
	doc, err := s.documents.GetDocument(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpDownloadDocument, err)
	}
	if doc.StoragePath == "" {
		return nil, apperr.NotFound("Document has no stored file")
	}

	obj, err := s.objects.Download(ctx, doc.StoragePath)
	s.recordStorage("download", err)
	if err != nil {
		return nil, s.fail(OpDownloadDocument, err)
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = obj.ContentType
	}
	size := obj.Size
	if size <= 0 {
		size = doc.FileSize
	}
	return &DownloadResult{
		Body:        obj.Body,
		FileName:    DownloadFileName(doc),
		ContentType: contentType,
		Size:        size,
	}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DownloadFileName 原始文件名优先，否则用标题 + 存储路径的扩展名
func DownloadFileName(doc *domain.Document) string {
	if doc.FileName != "" {
		return path.Base(strings.ReplaceAll(doc.FileName, "\\", "/"))
	}
	name := strings.Trim(unsafeFileChars.ReplaceAllString(doc.Title, "-"), "-.")
	if name == "" {
		name = "document"
	}
	if ext := storage.Ext(doc.StoragePath); ext != "" {
		name += "." + ext
	}
	return name
}

// ExtractLeaseData 从租约文本提取字段写入 extracted_data。
// text 为空时，纯文本文档直接读取存储中的文件内容。
func (s *DocumentService) ExtractLeaseData(ctx context.Context, ownerID, id, text string) (*domain.Document, error) {
	doc, err := s.documents.GetDocument(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpExtractLeaseData, err)
	}

	text = strings.TrimSpace(text)
	if text == "" && doc.StoragePath != "" && strings.HasPrefix(doc.ContentType, "text/plain") {
		text, err = s.readText(ctx, doc.StoragePath)
		if err != nil {
			return nil, s.fail(OpExtractLeaseData, err)
		}
	}
	if text == "" {
		return nil, validationError("Lease text is required")
	}

	fields, err := s.ai.ExtractLeaseFields(ctx, text)
	if err != nil {
		return nil, s.fail(OpExtractLeaseData, err)
	}
	updated, err := s.documents.SetExtractedData(ctx, ownerID, id, fields)
	if err != nil {
		return nil, s.fail(OpExtractLeaseData, err)
	}
	s.Logger.Info("Lease data extracted", zap.String("document_id", id), zap.Int("fields", len(fields)))
	s.publish(ctx, events.EntityDocument, events.ActionUpdated, ownerID, id, updated)
	return updated, nil
}

func (s *DocumentService) readText(ctx context.Context, objectPath string) (string, error) {
	obj, err := s.objects.Download(ctx, objectPath)
	s.recordStorage("download", err)
	if err != nil {
		return "", err
	}
	defer obj.Body.Close()
	b, err := io.ReadAll(io.LimitReader(obj.Body, maxLeaseTextBytes))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
