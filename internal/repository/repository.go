package repository

import (
	"context"
	"errors"
	"time"

	"unithub/internal/domain"
)

// ErrNotFound 记录不存在，或不属于当前 owner
var ErrNotFound = errors.New("record not found")

// 所有 Repository 方法都以 ownerID（当前房东）作为作用域

type TenantsRepository interface {
	ListTenants(ctx context.Context, ownerID string) ([]*domain.Tenant, error)
	GetTenant(ctx context.Context, ownerID, id string) (*domain.Tenant, error)
	CreateTenant(ctx context.Context, ownerID string, in *domain.TenantInput) (*domain.Tenant, error)
	UpdateTenant(ctx context.Context, ownerID, id string, in *domain.TenantInput) (*domain.Tenant, error)
	// DeleteTenant 删除租客，外键级联删除租金/工单/文档/沟通记录
	DeleteTenant(ctx context.Context, ownerID, id string) error

	// 仪表盘聚合
	CountTenants(ctx context.Context, ownerID string) (int, error)
	ListRentAmounts(ctx context.Context, ownerID string) ([]string, error)
	ListRecentTenants(ctx context.Context, ownerID string, limit int) ([]*domain.Tenant, error)
}

// RentPaymentFilter 列表过滤（Statuses 为存储状态）
type RentPaymentFilter struct {
	TenantID string
	Statuses []string
}

type RentPaymentsRepository interface {
	ListRentPayments(ctx context.Context, ownerID string, filter RentPaymentFilter) ([]*domain.RentPayment, error)
	GetRentPayment(ctx context.Context, ownerID, id string) (*domain.RentPayment, error)
	CreateRentPayment(ctx context.Context, ownerID string, in *domain.RentPaymentInput) (*domain.RentPayment, error)
	UpdateRentPayment(ctx context.Context, ownerID, id string, in *domain.RentPaymentInput) (*domain.RentPayment, error)
	MarkRentPaymentPaid(ctx context.Context, ownerID, id, paidDate, paymentMethod string) (*domain.RentPayment, error)
	DeleteRentPayment(ctx context.Context, ownerID, id string) error

	CountRentPaymentsByStatus(ctx context.Context, ownerID string, statuses []string) (int, error)
	// ListUpcomingRentPayments pending/overdue 且 due_date <= until，按到期日升序
	ListUpcomingRentPayments(ctx context.Context, ownerID, until string, limit int) ([]*domain.RentPayment, error)
}

type MaintenanceFilter struct {
	TenantID string
	Status   string
	Priority string
}

type MaintenanceRequestsRepository interface {
	ListMaintenanceRequests(ctx context.Context, ownerID string, filter MaintenanceFilter) ([]*domain.MaintenanceRequest, error)
	GetMaintenanceRequest(ctx context.Context, ownerID, id string) (*domain.MaintenanceRequest, error)
	CreateMaintenanceRequest(ctx context.Context, ownerID string, in *domain.MaintenanceRequestInput) (*domain.MaintenanceRequest, error)
	// UpdateMaintenanceRequest completedAt 非空时写入 completed_at，否则清空
	UpdateMaintenanceRequest(ctx context.Context, ownerID, id string, in *domain.MaintenanceRequestInput, completedAt *time.Time) (*domain.MaintenanceRequest, error)
	DeleteMaintenanceRequest(ctx context.Context, ownerID, id string) error

	CountMaintenanceByStatus(ctx context.Context, ownerID string, statuses []string) (int, error)
	ListRecentMaintenanceByStatus(ctx context.Context, ownerID string, statuses []string, limit int) ([]*domain.MaintenanceRequest, error)
}

// DocumentFilter PropertyOnly=true 只返回物业级文档
type DocumentFilter struct {
	TenantID     string
	PropertyOnly bool
	Type         string
}

// NewDocument 上传完成后写入的文档记录
type NewDocument struct {
	TenantID    string
	Title       string
	Type        string
	FileURL     string
	StoragePath string
	FileName    string
	ContentType string
	FileSize    int64
}

type DocumentsRepository interface {
	ListDocuments(ctx context.Context, ownerID string, filter DocumentFilter) ([]*domain.Document, error)
	GetDocument(ctx context.Context, ownerID, id string) (*domain.Document, error)
	CreateDocument(ctx context.Context, ownerID string, doc *NewDocument) (*domain.Document, error)
	UpdateDocument(ctx context.Context, ownerID, id string, in *domain.DocumentInput) (*domain.Document, error)
	SetExtractedData(ctx context.Context, ownerID, id string, data map[string]any) (*domain.Document, error)
	DeleteDocument(ctx context.Context, ownerID, id string) error
	// ListStoragePaths 租客名下所有文档的存储路径（删除租客时清理对象存储）
	ListStoragePaths(ctx context.Context, ownerID, tenantID string) ([]string, error)
}

type CommunicationLogFilter struct {
	TenantID string
	Type     string
}

type CommunicationLogsRepository interface {
	ListCommunicationLogs(ctx context.Context, ownerID string, filter CommunicationLogFilter) ([]*domain.CommunicationLog, error)
	GetCommunicationLog(ctx context.Context, ownerID, id string) (*domain.CommunicationLog, error)
	CreateCommunicationLog(ctx context.Context, ownerID string, in *domain.CommunicationLogInput, timestamp time.Time) (*domain.CommunicationLog, error)
	UpdateCommunicationLog(ctx context.Context, ownerID, id string, in *domain.CommunicationLogInput, timestamp time.Time) (*domain.CommunicationLog, error)
	DeleteCommunicationLog(ctx context.Context, ownerID, id string) error
}
