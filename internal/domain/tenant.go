package domain

import "time"

// Tenant 租客（对应 tenants 表）
// 金额字段在库中为 NUMERIC，读出时以字符串扫描再转换（见 repository.MapTenant）
type Tenant struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	UnitNumber       string    `json:"unitNumber"`
	LeaseStartDate   string    `json:"leaseStartDate"` // YYYY-MM-DD
	LeaseEndDate     string    `json:"leaseEndDate"`   // YYYY-MM-DD
	RentAmount       float64   `json:"rentAmount"`
	DepositAmount    float64   `json:"depositAmount"`
	EmergencyContact string    `json:"emergencyContact"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TenantInput 创建/更新租客提交的字段
type TenantInput struct {
	Name             string  `json:"name" validate:"required" msg:"Name is required"`
	Email            string  `json:"email" validate:"required,email" msg:"Invalid email address"`
	Phone            string  `json:"phone" validate:"min=10" msg:"Phone number must be at least 10 digits"`
	UnitNumber       string  `json:"unitNumber" validate:"required" msg:"Unit number is required"`
	LeaseStartDate   string  `json:"leaseStartDate" validate:"required,datetime=2006-01-02" msg:"Lease start date is required" msg_datetime:"Invalid lease start date"`
	LeaseEndDate     string  `json:"leaseEndDate" validate:"required,datetime=2006-01-02" msg:"Lease end date is required" msg_datetime:"Invalid lease end date"`
	RentAmount       float64 `json:"rentAmount" validate:"gt=0" msg:"Rent amount must be greater than 0"`
	DepositAmount    float64 `json:"depositAmount" validate:"gte=0" msg:"Deposit amount must be 0 or greater"`
	EmergencyContact string  `json:"emergencyContact"`
	Notes            string  `json:"notes"`
}
