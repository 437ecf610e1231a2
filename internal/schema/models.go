// Package schema describes the UnitHub tables as GORM models and migrates them.
// Runtime reads and writes go through internal/repository; these models are
// only used by `unithub migrate`.
package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Tenant 租客（owner_id 为房东）
type Tenant struct {
	ID               string          `gorm:"type:uuid;primaryKey"`
	OwnerID          string          `gorm:"type:text;not null;index"`
	Name             string          `gorm:"type:text;not null"`
	Email            string          `gorm:"type:text;not null"`
	Phone            string          `gorm:"type:text;not null"`
	UnitNumber       string          `gorm:"type:text;not null"`
	LeaseStartDate   datatypes.Date  `gorm:"not null"`
	LeaseEndDate     datatypes.Date  `gorm:"not null"`
	RentAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0;check:chk_tenants_rent_amount,rent_amount >= 0"`
	DepositAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0;check:chk_tenants_deposit_amount,deposit_amount >= 0"`
	EmergencyContact *string         `gorm:"type:text"`
	Notes            *string         `gorm:"type:text"`
	CreatedAt        time.Time       `gorm:"not null;index"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// RentPayment status 只存 paid/pending；overdue 在读取时派生，也允许直接写入
type RentPayment struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	OwnerID       string          `gorm:"type:text;not null;index"`
	TenantID      string          `gorm:"type:uuid;not null;index"`
	Tenant        *Tenant         `gorm:"constraint:OnDelete:CASCADE"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DueDate       datatypes.Date  `gorm:"not null;index"`
	PaidDate      *datatypes.Date
	Status        string    `gorm:"type:text;not null;default:pending;check:chk_rent_payments_status,status IN ('paid','pending','overdue')"`
	PaymentMethod *string   `gorm:"type:text"`
	Notes         *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

type MaintenanceRequest struct {
	ID             string           `gorm:"type:uuid;primaryKey"`
	OwnerID        string           `gorm:"type:text;not null;index"`
	TenantID       string           `gorm:"type:uuid;not null;index"`
	Tenant         *Tenant          `gorm:"constraint:OnDelete:CASCADE"`
	Title          string           `gorm:"type:text;not null"`
	Description    string           `gorm:"type:text;not null"`
	Category       string           `gorm:"type:text;not null"`
	Priority       string           `gorm:"type:text;not null;default:medium;check:chk_maintenance_priority,priority IN ('low','medium','high','urgent')"`
	Status         string           `gorm:"type:text;not null;default:open;check:chk_maintenance_status,status IN ('open','in-progress','completed','cancelled')"`
	EstimatedCost  *decimal.Decimal `gorm:"type:numeric(12,2)"`
	ActualCost     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	AssignedVendor *string          `gorm:"type:text"`
	Photos         datatypes.JSON   `gorm:"not null;default:'[]'"`
	CompletedAt    *time.Time
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// Document tenant_id 为空表示物业级文档
type Document struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	OwnerID       string  `gorm:"type:text;not null;index"`
	TenantID      *string `gorm:"type:uuid;index"`
	Tenant        *Tenant `gorm:"constraint:OnDelete:CASCADE"`
	Title         string  `gorm:"type:text;not null"`
	Type          string  `gorm:"type:text;not null;check:chk_documents_type,type IN ('lease','inspection','photo','other')"`
	FileURL       string  `gorm:"column:file_url;type:text;not null"`
	StoragePath   *string `gorm:"type:text"`
	FileName      *string `gorm:"type:text"`
	ContentType   *string `gorm:"type:text"`
	FileSize      *int64
	ExtractedData datatypes.JSON
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

type CommunicationLog struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   string    `gorm:"type:text;not null;index"`
	TenantID  string    `gorm:"type:uuid;not null;index"`
	Tenant    *Tenant   `gorm:"constraint:OnDelete:CASCADE"`
	Type      string    `gorm:"type:text;not null;check:chk_communication_logs_type,type IN ('email','phone','in-person','message')"`
	Subject   string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// Models 迁移顺序：被引用的表在前
func Models() []interface{} {
	return []interface{}{
		&Tenant{},
		&RentPayment{},
		&MaintenanceRequest{},
		&Document{},
		&CommunicationLog{},
	}
}
