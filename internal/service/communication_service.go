package service

import (
	"context"
	"time"

	"unithub/internal/domain"
	"unithub/internal/events"
	"unithub/internal/repository"
)

// CommunicationService 沟通记录服务
type CommunicationService struct {
	Common
	logs    repository.CommunicationLogsRepository
	tenants repository.TenantsRepository
}

func NewCommunicationService(c Common, logs repository.CommunicationLogsRepository, tenants repository.TenantsRepository) *CommunicationService {
	return &CommunicationService{
		Common:  c.withDefaults(),
		logs:    logs,
		tenants: tenants,
	}
}

type ListCommunicationLogsRequest struct {
	OwnerID  string
	TenantID string
	Type     string
}

func normalizeCommunicationLogInput(in *domain.CommunicationLogInput) {
	trim(&in.TenantID)
	trim(&in.Type)
	trim(&in.Subject)
	trim(&in.Content)
}

func (s *CommunicationService) List(ctx context.Context, req ListCommunicationLogsRequest) ([]*domain.CommunicationLog, error) {
	if req.Type != "" && !domain.IsValidCommunicationType(req.Type) {
		return nil, validationError("Invalid communication type")
	}
	logs, err := s.logs.ListCommunicationLogs(ctx, req.OwnerID, repository.CommunicationLogFilter{
		TenantID: req.TenantID,
		Type:     req.Type,
	})
	if err != nil {
		return nil, s.fail(OpListCommunicationLogs, err)
	}
	return logs, nil
}

func (s *CommunicationService) Get(ctx context.Context, ownerID, id string) (*domain.CommunicationLog, error) {
	l, err := s.logs.GetCommunicationLog(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpGetCommunicationLog, err)
	}
	return l, nil
}

// Create timestamp 默认为当前时间
func (s *CommunicationService) Create(ctx context.Context, ownerID string, in domain.CommunicationLogInput) (*domain.CommunicationLog, error) {
	normalizeCommunicationLogInput(&in)
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.ensureTenant(ctx, s.tenants, OpCreateCommunicationLog, ownerID, in.TenantID); err != nil {
		return nil, err
	}

	ts := s.Clock().UTC()
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	}
	l, err := s.logs.CreateCommunicationLog(ctx, ownerID, &in, ts)
	if err != nil {
		return nil, s.fail(OpCreateCommunicationLog, err)
	}
	s.publish(ctx, events.EntityCommunicationLog, events.ActionCreated, ownerID, l.ID, l)
	return l, nil
}

// Update timestamp 为空时保留原值
func (s *CommunicationService) Update(ctx context.Context, ownerID, id string, in domain.CommunicationLogInput) (*domain.CommunicationLog, error) {
	normalizeCommunicationLogInput(&in)
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.ensureTenant(ctx, s.tenants, OpUpdateCommunicationLog, ownerID, in.TenantID); err != nil {
		return nil, err
	}

	var ts time.Time
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	} else {
		current, err := s.logs.GetCommunicationLog(ctx, ownerID, id)
		if err != nil {
			return nil, s.fail(OpUpdateCommunicationLog, err)
		}
		ts = current.Timestamp
	}

	l, err := s.logs.UpdateCommunicationLog(ctx, ownerID, id, &in, ts)
	if err != nil {
		return nil, s.fail(OpUpdateCommunicationLog, err)
	}
	s.publish(ctx, events.EntityCommunicationLog, events.ActionUpdated, ownerID, l.ID, l)
	return l, nil
}

func (s *CommunicationService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.logs.DeleteCommunicationLog(ctx, ownerID, id); err != nil {
		return s.fail(OpDeleteCommunicationLog, err)
	}
	s.publish(ctx, events.EntityCommunicationLog, events.ActionDeleted, ownerID, id, nil)
	return nil
}
