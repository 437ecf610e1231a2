package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unithub/internal/ai"
	"unithub/internal/apperr"
	"unithub/internal/domain"
	"unithub/internal/events"
	"unithub/internal/export"
	"unithub/internal/repository"
)

// RentPaymentService 租金服务。读取路径上统一应用 DeriveRentStatus。
type RentPaymentService struct {
	Common
	payments repository.RentPaymentsRepository
	tenants  repository.TenantsRepository
	ai       ai.Generator
}

func NewRentPaymentService(c Common, payments repository.RentPaymentsRepository, tenants repository.TenantsRepository, gen ai.Generator) *RentPaymentService {
	return &RentPaymentService{
		Common:   c.withDefaults(),
		payments: payments,
		tenants:  tenants,
		ai:       gen,
	}
}

// ListRentPaymentsRequest Status 按展示状态过滤
type ListRentPaymentsRequest struct {
	OwnerID  string
	TenantID string
	Status   string
}

// MarkPaidRequest PaidDate 为空时取今天
type MarkPaidRequest struct {
	PaidDate      string `json:"paidDate"`
	PaymentMethod string `json:"paymentMethod"`
}

// storedStatusesFor 展示状态 -> 需要查询的存储状态
func storedStatusesFor(status string) []string {
	switch status {
	case domain.PaymentStatusOverdue:
		return domain.OutstandingPaymentStatuses
	case "":
		return nil
	default:
		return []string{status}
	}
}

func normalizeRentPaymentInput(in *domain.RentPaymentInput, now string) {
	trim(&in.TenantID)
	trim(&in.DueDate)
	trim(&in.PaidDate)
	trim(&in.Status)
	trim(&in.PaymentMethod)
	trim(&in.Notes)
	if in.Status == "" {
		in.Status = domain.PaymentStatusPending
	}
	if in.Status == domain.PaymentStatusPaid && in.PaidDate == "" {
		in.PaidDate = now
	}
}

func (s *RentPaymentService) List(ctx context.Context, req ListRentPaymentsRequest) ([]*domain.RentPayment, error) {
	if req.Status != "" && !domain.IsValidPaymentStatus(req.Status) {
		return nil, validationError("Invalid payment status")
	}
	payments, err := s.payments.ListRentPayments(ctx, req.OwnerID, repository.RentPaymentFilter{
		TenantID: req.TenantID,
		Statuses: storedStatusesFor(req.Status),
	})
	if err != nil {
		return nil, s.fail(OpListRentPayments, err)
	}

	now := s.Clock()
	out := make([]*domain.RentPayment, 0, len(payments))
	for _, p := range payments {
		p.ApplyDerivedStatus(now)
		if req.Status != "" && p.Status != req.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *RentPaymentService) Get(ctx context.Context, ownerID, id string) (*domain.RentPayment, error) {
	p, err := s.payments.GetRentPayment(ctx, ownerID, id)
	if err != nil {
		return nil, s.fail(OpGetRentPayment, err)
	}
	p.ApplyDerivedStatus(s.Clock())
	return p, nil
}

func (s *RentPaymentService) Create(ctx context.Context, ownerID string, in domain.RentPaymentInput) (*domain.RentPayment, error) {
	now := s.Clock()
	normalizeRentPaymentInput(&in, domain.Today(now))
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.ensureTenant(ctx, s.tenants, OpCreateRentPayment, ownerID, in.TenantID); err != nil {
		return nil, err
	}
	p, err := s.payments.CreateRentPayment(ctx, ownerID, &in)
	if err != nil {
		return nil, s.fail(OpCreateRentPayment, err)
	}
	p.ApplyDerivedStatus(now)
	s.publish(ctx, events.EntityRentPayment, events.ActionCreated, ownerID, p.ID, p)
	return p, nil
}

func (s *RentPaymentService) Update(ctx context.Context, ownerID, id string, in domain.RentPaymentInput) (*domain.RentPayment, error) {
	now := s.Clock()
	normalizeRentPaymentInput(&in, domain.Today(now))
	if err := s.Validator.Struct(&in); err != nil {
		return nil, err
	}
	if err := s.ensureTenant(ctx, s.tenants, OpUpdateRentPayment, ownerID, in.TenantID); err != nil {
		return nil, err
	}
	p, err := s.payments.UpdateRentPayment(ctx, ownerID, id, &in)
	if err != nil {
		return nil, s.fail(OpUpdateRentPayment, err)
	}
	p.ApplyDerivedStatus(now)
	s.publish(ctx, events.EntityRentPayment, events.ActionUpdated, ownerID, p.ID, p)
	return p, nil
}

// MarkPaid status=paid；PaidDate 为空取今天
func (s *RentPaymentService) MarkPaid(ctx context.Context, ownerID, id string, req MarkPaidRequest) (*domain.RentPayment, error) {
	now := s.Clock()
	trim(&req.PaidDate)
	trim(&req.PaymentMethod)
	if req.PaidDate == "" {
		req.PaidDate = domain.Today(now)
	} else if _, err := time.Parse(domain.DateLayout, req.PaidDate); err != nil {
		return nil, validationError("Invalid paid date")
	}

	p, err := s.payments.MarkRentPaymentPaid(ctx, ownerID, id, req.PaidDate, req.PaymentMethod)
	if err != nil {
		return nil, s.fail(OpMarkRentPaymentPaid, err)
	}
	p.ApplyDerivedStatus(now)
	s.Logger.Info("Rent payment marked paid", zap.String("payment_id", p.ID), zap.String("paid_date", req.PaidDate))
	s.publish(ctx, events.EntityRentPayment, events.ActionPaid, ownerID, p.ID, p)
	return p, nil
}

func (s *RentPaymentService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.payments.DeleteRentPayment(ctx, ownerID, id); err != nil {
		return s.fail(OpDeleteRentPayment, err)
	}
	s.publish(ctx, events.EntityRentPayment, events.ActionDeleted, ownerID, id, nil)
	return nil
}

// Export 按 List 的过滤条件导出 xlsx
func (s *RentPaymentService) Export(ctx context.Context, req ListRentPaymentsRequest) ([]byte, error) {
	payments, err := s.List(ctx, req)
	if err != nil {
		return nil, err
	}
	rows := make([]domain.RentPayment, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, *p)
	}
	data, err := export.RentPaymentsWorkbook(rows)
	if err != nil {
		return nil, s.fail(OpExportRentPayments, apperr.Internal(string(OpExportRentPayments), err))
	}
	return data, nil
}

// GenerateReminder 为未付租金起草催缴提醒
func (s *RentPaymentService) GenerateReminder(ctx context.Context, ownerID, id string) (*ai.RentReminder, error) {
	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.PaymentStatusPaid {
		return nil, validationError("Payment is already paid")
	}

	reminder, err := s.ai.GenerateRentReminder(ctx, ai.ReminderInput{
		TenantName:  p.TenantName,
		UnitNumber:  p.UnitNumber,
		Amount:      p.Amount,
		DueDate:     p.DueDate,
		DaysOverdue: domain.DaysOverdue(p.DueDate, s.Clock()),
	})
	if err != nil {
		return nil, s.fail(OpGenerateRentReminder, err)
	}
	return reminder, nil
}
