package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"unithub/internal/domain"
	"unithub/internal/repository"
)

const (
	defaultRecentLimit  = 5
	defaultUpcomingDays = 30
)

// DashboardService 仪表盘聚合。每个聚合独立读取，互不影响。
type DashboardService struct {
	Common
	tenants      repository.TenantsRepository
	payments     repository.RentPaymentsRepository
	maintenance  repository.MaintenanceRequestsRepository
	recentLimit  int
	upcomingDays int
}

// DashboardOptions 零值使用默认：最近 5 条，30 天内到期
type DashboardOptions struct {
	RecentLimit  int
	UpcomingDays int
}

func NewDashboardService(c Common, tenants repository.TenantsRepository, payments repository.RentPaymentsRepository, maintenance repository.MaintenanceRequestsRepository, opts DashboardOptions) *DashboardService {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = defaultRecentLimit
	}
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = defaultUpcomingDays
	}
	return &DashboardService{
		Common:       c.withDefaults(),
		tenants:      tenants,
		payments:     payments,
		maintenance:  maintenance,
		recentLimit:  opts.RecentLimit,
		upcomingDays: opts.UpcomingDays,
	}
}

// DashboardStats MonthlyIncome 为两位小数字符串
type DashboardStats struct {
	TotalTenants        int    `json:"totalTenants"`
	MonthlyIncome       string `json:"monthlyIncome"`
	OutstandingPayments int    `json:"outstandingPayments"`
	ActiveMaintenance   int    `json:"activeMaintenance"`
}

// DashboardOverview 失败的部分为 nil / 空列表
type DashboardOverview struct {
	Stats             *DashboardStats              `json:"stats"`
	RecentTenants     []*domain.Tenant             `json:"recentTenants"`
	UpcomingPayments  []*domain.RentPayment        `json:"upcomingPayments"`
	RecentMaintenance []*domain.MaintenanceRequest `json:"recentMaintenance"`
}

// Stats 四项统计，任一失败则整体失败
func (s *DashboardService) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	total, err := s.tenants.CountTenants(ctx, ownerID)
	if err != nil {
		return nil, s.fail(OpDashboardStats, err)
	}
	amounts, err := s.tenants.ListRentAmounts(ctx, ownerID)
	if err != nil {
		return nil, s.fail(OpDashboardStats, err)
	}
	outstanding, err := s.payments.CountRentPaymentsByStatus(ctx, ownerID, domain.OutstandingPaymentStatuses)
	if err != nil {
		return nil, s.fail(OpDashboardStats, err)
	}
	active, err := s.maintenance.CountMaintenanceByStatus(ctx, ownerID, domain.ActiveMaintenanceStatuses)
	if err != nil {
		return nil, s.fail(OpDashboardStats, err)
	}

	return &DashboardStats{
		TotalTenants:        total,
		MonthlyIncome:       MonthlyIncome(amounts),
		OutstandingPayments: outstanding,
		ActiveMaintenance:   active,
	}, nil
}

// MonthlyIncome sums rent amounts exactly; unparseable amounts count as 0.
func MonthlyIncome(amounts []string) string {
	sum := decimal.Zero
	for _, a := range amounts {
		d, err := decimal.NewFromString(a)
		if err != nil {
			continue
		}
		sum = sum.Add(d)
	}
	return sum.StringFixed(2)
}

func (s *DashboardService) RecentTenants(ctx context.Context, ownerID string) ([]*domain.Tenant, error) {
	tenants, err := s.tenants.ListRecentTenants(ctx, ownerID, s.recentLimit)
	if err != nil {
		return nil, s.fail(OpRecentTenants, err)
	}
	return tenants, nil
}

// UpcomingPayments pending/overdue 且在 upcomingDays 天内到期（含已逾期），按到期日升序
func (s *DashboardService) UpcomingPayments(ctx context.Context, ownerID string) ([]*domain.RentPayment, error) {
	now := s.Clock()
	until := domain.Today(domain.StartOfDay(now).AddDate(0, 0, s.upcomingDays))
	payments, err := s.payments.ListUpcomingRentPayments(ctx, ownerID, until, s.recentLimit)
	if err != nil {
		return nil, s.fail(OpUpcomingPayments, err)
	}
	for _, p := range payments {
		p.ApplyDerivedStatus(now)
	}
	return payments, nil
}

func (s *DashboardService) RecentMaintenance(ctx context.Context, ownerID string) ([]*domain.MaintenanceRequest, error) {
	requests, err := s.maintenance.ListRecentMaintenanceByStatus(ctx, ownerID, domain.ActiveMaintenanceStatuses, s.recentLimit)
	if err != nil {
		return nil, s.fail(OpRecentMaintenance, err)
	}
	return requests, nil
}

// Overview runs the four dashboard reads concurrently. Successful parts are
// always returned; the error is the first failure in the order stats,
// tenants, payments, maintenance.
func (s *DashboardService) Overview(ctx context.Context, ownerID string) (*DashboardOverview, error) {
	out := &DashboardOverview{
		RecentTenants:     []*domain.Tenant{},
		UpcomingPayments:  []*domain.RentPayment{},
		RecentMaintenance: []*domain.MaintenanceRequest{},
	}
	var errs [4]error

	// 不使用 WithContext：一项失败不取消其它读取
	var g errgroup.Group
	g.Go(func() error {
		out.Stats, errs[0] = s.Stats(ctx, ownerID)
		return nil
	})
	g.Go(func() error {
		if tenants, err := s.RecentTenants(ctx, ownerID); err != nil {
			errs[1] = err
		} else {
			out.RecentTenants = tenants
		}
		return nil
	})
	g.Go(func() error {
		if payments, err := s.UpcomingPayments(ctx, ownerID); err != nil {
			errs[2] = err
		} else {
			out.UpcomingPayments = payments
		}
		return nil
	})
	g.Go(func() error {
		if requests, err := s.RecentMaintenance(ctx, ownerID); err != nil {
			errs[3] = err
		} else {
			out.RecentMaintenance = requests
		}
		return nil
	})
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return out, err
		}
	}
	return out, nil
}
