package repository

import (
	"database/sql"
	"time"
)

// 行 DTO：与 SQL 查询的列一一对应
// NUMERIC 列以 ::text 读出，DATE 列以 ::text 读出（YYYY-MM-DD），
// LEFT JOIN tenants 的列可能为 NULL。

type TenantRow struct {
	ID               string
	Name             string
	Email            sql.NullString
	Phone            sql.NullString
	UnitNumber       string
	LeaseStartDate   sql.NullString
	LeaseEndDate     sql.NullString
	RentAmount       sql.NullString
	DepositAmount    sql.NullString
	EmergencyContact sql.NullString
	Notes            sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TenantJoin 关联的租客列（LEFT JOIN，租客缺失时全部为 NULL）
type TenantJoin struct {
	Name       sql.NullString
	UnitNumber sql.NullString
}

type RentPaymentRow struct {
	ID            string
	TenantID      string
	Tenant        TenantJoin
	Amount        sql.NullString
	DueDate       string
	PaidDate      sql.NullString
	Status        string
	PaymentMethod sql.NullString
	Notes         sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type MaintenanceRequestRow struct {
	ID             string
	TenantID       string
	Tenant         TenantJoin
	Title          string
	Description    sql.NullString
	Category       sql.NullString
	Priority       string
	Status         string
	EstimatedCost  sql.NullString
	ActualCost     sql.NullString
	AssignedVendor sql.NullString
	Photos         []byte // JSONB array
	CompletedAt    sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type DocumentRow struct {
	ID            string
	TenantID      sql.NullString
	Tenant        TenantJoin
	Title         string
	Type          string
	FileURL       string
	StoragePath   sql.NullString
	FileName      sql.NullString
	ContentType   sql.NullString
	FileSize      sql.NullInt64
	ExtractedData []byte // JSONB object
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CommunicationLogRow struct {
	ID        string
	TenantID  string
	Tenant    TenantJoin
	Type      string
	Subject   string
	Content   sql.NullString
	Timestamp time.Time
	CreatedAt time.Time
}
