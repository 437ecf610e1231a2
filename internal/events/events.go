// Package events publishes domain events (tenant created, payment marked paid,
// ...) for downstream consumers. Publishing is fire-and-forget.
package events

import (
	"context"
	"time"
)

// Entity names used in topics
const (
	EntityTenant           = "tenant"
	EntityRentPayment      = "rent_payment"
	EntityMaintenance      = "maintenance_request"
	EntityDocument         = "document"
	EntityCommunicationLog = "communication_log"
)

// Actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionPaid    = "paid"
)

// Event 领域事件
type Event struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	OwnerID    string    `json:"ownerId"`
	EntityID   string    `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Publisher 发布失败只记录日志，不返回给调用方
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// NopPublisher 未启用 MQTT 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
