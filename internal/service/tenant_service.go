package service

import (
	"context"

	"go.uber.org/zap"

	"unithub/internal/domain"
	"unithub/internal/events"
	"unithub/internal/repository"
	"unithub/internal/storage"
)

// TenantService 租客服务
type TenantService struct {
	Common
	tenants   repository.TenantsRepository
	documents repository.DocumentsRepository
	objects   storage.ObjectStore
}

// NewTenantService documents/objects 用于删除租客时清理其文档文件
func NewTenantService(c Common, tenants repository.TenantsRepository, documents repository.DocumentsRepository, objects storage.ObjectStore) *TenantService {
	return &TenantService{
		Common:    c.withDefaults(),
		tenants:   tenants,
		documents: documents,
		objects:   objects,
	}
}

func normalizeTenantInput(in *domain.TenantInput) {
	trim(&in.Name)
	trim(&in.Email)
	trim(&in.Phone)
	trim(&in.UnitNumber)
	trim(&in.LeaseStartDate)
	trim(&in.LeaseEndDate)
	trim(&in.EmergencyContact)
	trim(&in.Notes)
}

func (s *TenantService) List(ctx context.Context, ownerID string) ([]*domain.Tenant, error) {
	tenants, err := s.tenants.ListTenants(ctx, ownerID)
	if err != nil {
		return nil, s.fail(OpListTenants, err)
	}
	return tenants, nil
}

func (s *TenantService) Get(ctx context.Context, ownerID, id string) (*domain.Tenant, error) {
	t, err := s.tenants.GetTenant(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpGetTenant, err)
	}
	return t, nil
}

// Create 校验后写入
func (s *TenantService) Create(ctx context.Context, ownerID string, in domain.TenantInput) (*domain.Tenant, error) {
	normalizeTenantInput(&in)
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	t, err := s.tenants.CreateTenant(ctx, ownerID, &in)
	if err != nil {
		return nil, s.fail(OpCreateTenant, err)
	}
	s.Logger.Info("Tenant created", zap.String("tenant_id", t.ID), zap.String("unit_number", t.UnitNumber))
	s.publish(ctx, events.EntityTenant, events.ActionCreated, ownerID, t.ID, t)
	return t, nil
}

func (s *TenantService) Update(ctx context.Context, ownerID, id string, in domain.TenantInput) (*domain.Tenant, error) {
	normalizeTenantInput(&in)
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	t, err := s.tenants.UpdateTenant(ctx, ownerID, id, &in)
	if err != nil {
		return nil, s.fail(OpUpdateTenant, err)
	}
	s.publish(ctx, events.EntityTenant, events.ActionUpdated, ownerID, t.ID, t)
	return t, nil
}

// Delete 删除租客（级联删除租金/工单/文档/沟通记录），之后尽力删除其文档文件
func (s *TenantService) Delete(ctx context.Context, ownerID, id string) error {
	paths, err := s.documents.ListStoragePaths(ctx, ownerID, id)
	if err != nil {
		return s.fail(OpDeleteTenant, err)
	}
	if err := s.tenants.DeleteTenant(ctx, ownerID, id); err != nil {
		return s.fail(OpDeleteTenant, err)
	}

	for _, p := range paths {
		err := s.objects.Delete(ctx, p)
		s.recordStorage("delete", err)
		if err != nil {
			// 行已删除，文件残留只记录日志
			s.Logger.Warn("Failed to delete tenant document object",
				zap.String("tenant_id", id),
				zap.String("storage_path", p),
				zap.Error(err),
			)
		}
	}
	s.Logger.Info("Tenant deleted", zap.String("tenant_id", id), zap.Int("objects", len(paths)))
	s.publish(ctx, events.EntityTenant, events.ActionDeleted, ownerID, id, nil)
	return nil
}
