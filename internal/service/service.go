// Package service implements the UnitHub operations on top of the
// repositories, the object store and the text-generation client.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"unithub/internal/ai"
	"unithub/internal/apperr"
	"unithub/internal/events"
	"unithub/internal/metrics"
	"unithub/internal/repository"
	"unithub/internal/storage"
	"unithub/internal/validation"
)

// Clock 当前时间；测试中固定
type Clock func() time.Time

// utcNow 默认时钟：日期比较（逾期、到期窗口）按 UTC 日历日
func utcNow() time.Time { return time.Now().UTC() }

// Common 各 service 共享的依赖，零值字段在 New*Service 时补默认值
type Common struct {
	Validator *validation.Validator
	Events    events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Clock     Clock
}

func (c Common) withDefaults() Common {
	if c.Validator == nil {
		c.Validator = validation.New()
	}
	if c.Events == nil {
		c.Events = events.NopPublisher{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = utcNow
	}
	return c
}

// fail classifies err for op. Errors already classified pass through;
// repository/storage misses become not-found; text-generation failures are
// internal; everything else is a backing-service error.
func (c Common) fail(op Op, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindBackend || ae.Kind == apperr.KindInternal {
			c.Logger.Error("Operation failed", zap.String("op", string(op)), zap.Error(err))
		}
		return err
	}
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, storage.ErrObjectNotFound) {
		return apperr.NotFound(op.NotFound())
	}
	if errors.Is(err, ai.ErrGeneration) {
		c.Logger.Error("Text generation failed", zap.String("op", string(op)), zap.Error(err))
		return apperr.Internal(string(op), err)
	}
	c.Logger.Error("Operation failed", zap.String("op", string(op)), zap.Error(err))
	return apperr.Backend(string(op), err)
}

func (c Common) publish(ctx context.Context, entity, action, ownerID, id string, data any) {
	c.Events.Publish(ctx, events.Event{
		Entity:     entity,
		Action:     action,
		OwnerID:    ownerID,
		EntityID:   id,
		OccurredAt: c.Clock().UTC(),
		Data:       data,
	})
}

func (c Common) recordStorage(op string, err error) {
	if c.Metrics != nil {
		c.Metrics.RecordStorageOp(op, err)
	}
}

// ensureTenant 子记录引用的租客必须属于当前 owner
func (c Common) ensureTenant(ctx context.Context, tenants repository.TenantsRepository, op Op, ownerID, tenantID string) error {
	if _, err := tenants.GetTenant(ctx, ownerID, tenantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation([]string{msgTenantNotFound})
		}
		return c.fail(op, err)
	}
	return nil
}

func validationError(messages ...string) error {
	return apperr.Validation(messages)
}

func trim(s *string) { *s = strings.TrimSpace(*s) }
