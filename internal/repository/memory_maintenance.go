package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

type MemoryMaintenanceRepository struct {
	s *MemoryStore
}

var _ MaintenanceRequestsRepository = (*MemoryMaintenanceRepository)(nil)

func (r *MemoryMaintenanceRepository) mapped(m *memMaintenance) *domain.MaintenanceRequest {
	row := m.row
	row.Tenant = r.s.join(row.TenantID)
	return MapMaintenanceRequest(row)
}

func (r *MemoryMaintenanceRepository) sortedNewestFirst(all []*memMaintenance) []*domain.MaintenanceRequest {
	sort.Slice(all, func(i, j int) bool {
		return newerFirst(all[i].row.CreatedAt, all[j].row.CreatedAt, all[i].seq, all[j].seq)
	})
	out := make([]*domain.MaintenanceRequest, 0, len(all))
	for _, m := range all {
		out = append(out, r.mapped(m))
	}
	return out
}

func (r *MemoryMaintenanceRepository) ListMaintenanceRequests(_ context.Context, ownerID string, filter MaintenanceFilter) ([]*domain.MaintenanceRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := []*memMaintenance{}
	for _, m := range r.s.maintenance {
		if m.ownerID != ownerID {
			continue
		}
		if filter.TenantID != "" && m.row.TenantID != filter.TenantID {
			continue
		}
		if filter.Status != "" && m.row.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && m.row.Priority != filter.Priority {
			continue
		}
		all = append(all, m)
	}
	return r.sortedNewestFirst(all), nil
}

func (r *MemoryMaintenanceRepository) GetMaintenanceRequest(_ context.Context, ownerID, id string) (*domain.MaintenanceRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.maintenance[id]
	if !ok || m.ownerID != ownerID {
		return nil, ErrNotFound
	}
	return r.mapped(m), nil
}

func maintenanceRowFromInput(row *MaintenanceRequestRow, in *domain.MaintenanceRequestInput) {
	row.TenantID = in.TenantID
	row.Title = in.Title
	row.Description = nullString(in.Description)
	row.Category = nullString(in.Category)
	row.Priority = in.Priority
	if in.Status != "" {
		row.Status = in.Status
	}
	row.EstimatedCost = formatOptionalAmount(in.EstimatedCost)
	row.ActualCost = formatOptionalAmount(in.ActualCost)
	row.AssignedVendor = nullString(in.AssignedVendor)
	row.Photos = []byte(encodeStringList(in.Photos))
}

func (r *MemoryMaintenanceRepository) CreateMaintenanceRequest(_ context.Context, ownerID string, in *domain.MaintenanceRequestInput) (*domain.MaintenanceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	m := &memMaintenance{memMeta: r.s.nextMeta(ownerID)}
	m.row.ID = uuid.NewString()
	m.row.Status = domain.MaintenanceStatusOpen
	maintenanceRowFromInput(&m.row, in)
	m.row.CreatedAt = now
	m.row.UpdatedAt = now
	r.s.maintenance[m.row.ID] = m
	return r.mapped(m), nil
}

func (r *MemoryMaintenanceRepository) UpdateMaintenanceRequest(_ context.Context, ownerID, id string, in *domain.MaintenanceRequestInput, completedAt *time.Time) (*domain.MaintenanceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.maintenance[id]
	if !ok || m.ownerID != ownerID {
		return nil, ErrNotFound
	}
	maintenanceRowFromInput(&m.row, in)
	m.row.CompletedAt = sql.NullTime{}
	if completedAt != nil {
		m.row.CompletedAt = sql.NullTime{Time: *completedAt, Valid: true}
	}
	m.row.UpdatedAt = r.s.now()
	return r.mapped(m), nil
}

func (r *MemoryMaintenanceRepository) DeleteMaintenanceRequest(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.maintenance[id]
	if !ok || m.ownerID != ownerID {
		return ErrNotFound
	}
	delete(r.s.maintenance, id)
	return nil
}

func (r *MemoryMaintenanceRepository) CountMaintenanceByStatus(_ context.Context, ownerID string, statuses []string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, m := range r.s.maintenance {
		if m.ownerID == ownerID && containsString(statuses, m.row.Status) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryMaintenanceRepository) ListRecentMaintenanceByStatus(_ context.Context, ownerID string, statuses []string, limit int) ([]*domain.MaintenanceRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	all := []*memMaintenance{}
	for _, m := range r.s.maintenance {
		if m.ownerID == ownerID && containsString(statuses, m.row.Status) {
			all = append(all, m)
		}
	}
	out := r.sortedNewestFirst(all)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
