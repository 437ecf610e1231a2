package domain

import "time"

const (
	DocumentTypeLease      = "lease"
	DocumentTypeInspection = "inspection"
	DocumentTypePhoto      = "photo"
	DocumentTypeOther      = "other"
)

func IsValidDocumentType(s string) bool {
	switch s {
	case DocumentTypeLease, DocumentTypeInspection, DocumentTypePhoto, DocumentTypeOther:
		return true
	}
	return false
}

// Document 文档（对应 documents 表）
// TenantID 为空表示物业级文档（不属于任何租客）
type Document struct {
	ID            string         `json:"id"`
	TenantID      *string        `json:"tenantId"`
	TenantName    string         `json:"tenantName"`
	UnitNumber    string         `json:"unitNumber"`
	Title         string         `json:"title"`
	Type          string         `json:"type"`
	FileURL       string         `json:"fileUrl"`
	StoragePath   string         `json:"storagePath"`
	FileName      string         `json:"fileName"`
	ContentType   string         `json:"contentType"`
	FileSize      int64          `json:"fileSize"`
	ExtractedData map[string]any `json:"extractedData,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type DocumentInput struct {
	TenantID string `json:"tenantId"`
	Title    string `json:"title" validate:"required" msg:"Title is required"`
	Type     string `json:"type" validate:"oneof=lease inspection photo other" msg:"Invalid document type"`
	FileURL  string `json:"fileUrl" validate:"required" msg:"File URL is required"`
}
