package domain

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	MaintenanceStatusOpen       = "open"
	MaintenanceStatusInProgress = "in-progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

// ActiveMaintenanceStatuses 未关闭的工单状态
var ActiveMaintenanceStatuses = []string{MaintenanceStatusOpen, MaintenanceStatusInProgress}

func IsValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func IsValidMaintenanceStatus(s string) bool {
	switch s {
	case MaintenanceStatusOpen, MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}

// MaintenanceRequest 维修工单（对应 maintenance_requests 表）
type MaintenanceRequest struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenantId"`
	TenantName     string     `json:"tenantName"`
	UnitNumber     string     `json:"unitNumber"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	EstimatedCost  *float64   `json:"estimatedCost,omitempty"`
	ActualCost     *float64   `json:"actualCost,omitempty"`
	AssignedVendor string     `json:"assignedVendor"`
	Photos         []string   `json:"photos"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type MaintenanceRequestInput struct {
	TenantID       string   `json:"tenantId" validate:"required" msg:"Tenant is required"`
	Title          string   `json:"title" validate:"required" msg:"Title is required"`
	Description    string   `json:"description" validate:"required" msg:"Description is required"`
	Category       string   `json:"category" validate:"required" msg:"Category is required"`
	Priority       string   `json:"priority" validate:"oneof=low medium high urgent" msg:"Invalid priority"`
	Status         string   `json:"status" validate:"omitempty,oneof=open in-progress completed cancelled" msg:"Invalid status"`
	EstimatedCost  *float64 `json:"estimatedCost" validate:"omitempty,gte=0" msg:"Estimated cost must be 0 or greater"`
	ActualCost     *float64 `json:"actualCost" validate:"omitempty,gte=0" msg:"Actual cost must be 0 or greater"`
	AssignedVendor string   `json:"assignedVendor"`
	Photos         []string `json:"photos"`
}
