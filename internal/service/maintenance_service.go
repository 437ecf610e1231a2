package service

import (
	"context"
	"time"

	"unithub/internal/ai"
	"unithub/internal/domain"
	"unithub/internal/events"
	"unithub/internal/repository"
)

// MaintenanceService 维修工单服务
type MaintenanceService struct {
	Common
	requests repository.MaintenanceRequestsRepository
	tenants  repository.TenantsRepository
	ai       ai.Generator
}

func NewMaintenanceService(c Common, requests repository.MaintenanceRequestsRepository, tenants repository.TenantsRepository, gen ai.Generator) *MaintenanceService {
	return &MaintenanceService{
		Common:   c.withDefaults(),
		requests: requests,
		tenants:  tenants,
		ai:       gen,
	}
}

type ListMaintenanceRequestsRequest struct {
	OwnerID  string
	TenantID string
	Status   string
	Priority string
}

// CategorizeRequest 工单自动分类输入（创建前的表单内容）
type CategorizeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SuggestVendorsRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

func normalizeMaintenanceInput(in *domain.MaintenanceRequestInput) {
	trim(&in.TenantID)
	trim(&in.Title)
	trim(&in.Description)
	trim(&in.Category)
	trim(&in.Priority)
	trim(&in.Status)
	trim(&in.AssignedVendor)
	if in.Photos == nil {
		in.Photos = []string{}
	}
}

func (s *MaintenanceService) List(ctx context.Context, req ListMaintenanceRequestsRequest) ([]*domain.MaintenanceRequest, error) {
	var msgs []string
	if req.Status != "" && !domain.IsValidMaintenanceStatus(req.Status) {
		msgs = append(msgs, "Invalid status")
	}
	if req.Priority != "" && !domain.IsValidPriority(req.Priority) {
		msgs = append(msgs, "Invalid priority")
	}
	if len(msgs) > 0 {
		return nil, validationError(msgs...)
	}

	requests, err := s.requests.ListMaintenanceRequests(ctx, req.OwnerID, repository.MaintenanceFilter{
		TenantID: req.TenantID,
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		return nil, s.fail(OpListMaintenanceRequests, err)
	}
	return requests, nil
}

func (s *MaintenanceService) Get(ctx context.Context, ownerID, id string) (*domain.MaintenanceRequest, error) {
	m, err := s.requests.GetMaintenanceRequest(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpGetMaintenanceRequest, err)
	}
	return m, nil
}

// Create status 默认为 open
func (s *MaintenanceService) Create(ctx context.Context, ownerID string, in domain.MaintenanceRequestInput) (*domain.MaintenanceRequest, error) {
	normalizeMaintenanceInput(&in)
	if in.Status == "" {
		in.Status = domain.MaintenanceStatusOpen
	}
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.ensureTenant(ctx, s.tenants, OpCreateMaintenanceRequest, ownerID, in.TenantID); err != nil {
		return nil, err
	}
	m, err := s.requests.CreateMaintenanceRequest(ctx, ownerID, &in)
	if err != nil {
		return nil, s.fail(OpCreateMaintenanceRequest, err)
	}
	s.publish(ctx, events.EntityMaintenance, events.ActionCreated, ownerID, m.ID, m)
	return m, nil
}

// Update 进入 completed 时记录 completedAt，离开 completed 时清空；status 为空则保持原值
func (s *MaintenanceService) Update(ctx context.Context, ownerID, id string, in domain.MaintenanceRequestInput) (*domain.MaintenanceRequest, error) {
	normalizeMaintenanceInput(&in)
	current, err := s.requests.GetMaintenanceRequest(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpUpdateMaintenanceRequest, err)
	}
	if in.Status == "" {
		in.Status = current.Status
	}
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.ensureTenant(ctx, s.tenants, OpUpdateMaintenanceRequest, ownerID, in.TenantID); err != nil {
		return nil, err
	}

	var completedAt *time.Time
	if in.Status == domain.MaintenanceStatusCompleted {
		if current.CompletedAt != nil {
			completedAt = current.CompletedAt
		} else {
			now := s.Clock().UTC()
			completedAt = &now
		}
	}

	m, err := s.requests.UpdateMaintenanceRequest(ctx, ownerID, id, &in, completedAt)
	if err != nil {
		return nil, s.fail(OpUpdateMaintenanceRequest, err)
	}
	s.publish(ctx, events.EntityMaintenance, events.ActionUpdated, ownerID, m.ID, m)
	return m, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.requests.DeleteMaintenanceRequest(ctx, ownerID, id); err != nil {
		return s.fail(OpDeleteMaintenanceRequest, err)
	}
	s.publish(ctx, events.EntityMaintenance, events.ActionDeleted, ownerID, id, nil)
	return nil
}

func (s *MaintenanceService) Categorize(ctx context.Context, req CategorizeRequest) (*ai.MaintenanceCategory, error) {
	trim(&req.Title)
	trim(&req.Description)
	var msgs []string
	if req.Title == "" {
		msgs = append(msgs, "Title is required")
	}
	if req.Description == "" {
		msgs = append(msgs, "Description is required")
	}
	if len(msgs) > 0 {
		return nil, validationError(msgs...)
	}

	out, err := s.ai.CategorizeMaintenance(ctx, req.Title, req.Description)
	if err != nil {
		return nil, s.fail(OpCategorizeMaintenance, err)
	}
	return out, nil
}

func (s *MaintenanceService) SuggestVendors(ctx context.Context, req SuggestVendorsRequest) (*ai.VendorSuggestions, error) {
	trim(&req.Category)
	trim(&req.Description)
	var msgs []string
	if req.Category == "" {
		msgs = append(msgs, "Category is required")
	}
	if req.Description == "" {
		msgs = append(msgs, "Description is required")
	}
	if len(msgs) > 0 {
		return nil, validationError(msgs...)
	}

	out, err := s.ai.SuggestVendorTypes(ctx, req.Category, req.Description)
	if err != nil {
		return nil, s.fail(OpSuggestVendors, err)
	}
	return out, nil
}
