package domain

import "time"

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
	PaymentStatusOverdue = "overdue"
)

// OutstandingPaymentStatuses 仍需催收的状态
var OutstandingPaymentStatuses = []string{PaymentStatusPending, PaymentStatusOverdue}

func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusOverdue:
		return true
	}
	return false
}

// RentPayment 租金记录（对应 rent_payments 表，JOIN tenants 取姓名/单元号）
// Status 为展示状态：读取时由 DeriveRentStatus 计算，不回写数据库
type RentPayment struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	TenantName    string    `json:"tenantName"`
	UnitNumber    string    `json:"unitNumber"`
	Amount        float64   `json:"amount"`
	DueDate       string    `json:"dueDate"`
	PaidDate      *string   `json:"paidDate,omitempty"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"paymentMethod"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplyDerivedStatus replaces Status with the status displayed at now.
func (p *RentPayment) ApplyDerivedStatus(now time.Time) {
	p.Status = DeriveRentStatus(p.Status, p.DueDate, now)
}

type RentPaymentInput struct {
	TenantID      string  `json:"tenantId" validate:"required" msg:"Tenant is required"`
	Amount        float64 `json:"amount" validate:"gt=0" msg:"Amount must be greater than 0"`
	DueDate       string  `json:"dueDate" validate:"required,datetime=2006-01-02" msg:"Due date is required" msg_datetime:"Invalid due date"`
	PaidDate      string  `json:"paidDate" validate:"omitempty,datetime=2006-01-02" msg:"Invalid paid date"`
	Status        string  `json:"status" validate:"oneof=paid pending overdue" msg:"Invalid payment status"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
}
