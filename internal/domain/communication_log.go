package domain

import "time"

const (
	CommunicationTypeEmail    = "email"
	CommunicationTypePhone    = "phone"
	CommunicationTypeInPerson = "in-person"
	CommunicationTypeMessage  = "message"
)

func IsValidCommunicationType(s string) bool {
	switch s {
	case CommunicationTypeEmail, CommunicationTypePhone, CommunicationTypeInPerson, CommunicationTypeMessage:
		return true
	}
	return false
}

// CommunicationLog 沟通记录（对应 communication_logs 表）
type CommunicationLog struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	TenantName string    `json:"tenantName"`
	UnitNumber string    `json:"unitNumber"`
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CommunicationLogInput struct {
	TenantID  string     `json:"tenantId" validate:"required" msg:"Tenant is required"`
	Type      string     `json:"type" validate:"oneof=email phone in-person message" msg:"Invalid communication type"`
	Subject   string     `json:"subject" validate:"required" msg:"Subject is required"`
	Content   string     `json:"content" validate:"required" msg:"Content is required"`
	Timestamp *time.Time `json:"timestamp"`
}
