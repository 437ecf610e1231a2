package repository

import (
	"context"
	"sort"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

// MemoryTenantsRepository supports tenant management when DB is disabled.
type MemoryTenantsRepository struct {
	s *MemoryStore
}

var _ TenantsRepository = (*MemoryTenantsRepository)(nil)

func (r *MemoryTenantsRepository) owned(ownerID string) []*memTenant {
	out := []*memTenant{}
	for _, t := range r.s.tenants {
		if t.ownerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

func (r *MemoryTenantsRepository) ListTenants(_ context.Context, ownerID string) ([]*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.owned(ownerID)
	sort.Slice(all, func(i, j int) bool {
		return all[i].row.Name < all[j].row.Name
	})
	out := make([]*domain.Tenant, 0, len(all))
	for _, t := range all {
		out = append(out, MapTenant(t.row))
	}
	return out, nil
}

func (r *MemoryTenantsRepository) GetTenant(_ context.Context, ownerID, id string) (*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tenants[id]
	if !ok || t.ownerID != ownerID {
		return nil, ErrNotFound
	}
	return MapTenant(t.row), nil
}

func tenantRowFromInput(row *TenantRow, in *domain.TenantInput) {
	row.Name = in.Name
	row.Email = nullString(in.Email)
	row.Phone = nullString(in.Phone)
	row.UnitNumber = in.UnitNumber
	row.LeaseStartDate = nullString(in.LeaseStartDate)
	row.LeaseEndDate = nullString(in.LeaseEndDate)
	row.RentAmount = nullString(formatAmount(in.RentAmount))
	row.DepositAmount = nullString(formatAmount(in.DepositAmount))
	row.EmergencyContact = nullString(in.EmergencyContact)
	row.Notes = nullString(in.Notes)
}

func (r *MemoryTenantsRepository) CreateTenant(_ context.Context, ownerID string, in *domain.TenantInput) (*domain.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	t := &memTenant{memMeta: r.s.nextMeta(ownerID)}
	t.row.ID = uuid.NewString()
	tenantRowFromInput(&t.row, in)
	t.row.CreatedAt = now
	t.row.UpdatedAt = now
	r.s.tenants[t.row.ID] = t
	return MapTenant(t.row), nil
}

func (r *MemoryTenantsRepository) UpdateTenant(_ context.Context, ownerID, id string, in *domain.TenantInput) (*domain.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tenants[id]
	if !ok || t.ownerID != ownerID {
		return nil, ErrNotFound
	}
	tenantRowFromInput(&t.row, in)
	t.row.UpdatedAt = r.s.now()
	return MapTenant(t.row), nil
}

// DeleteTenant 级联删除关联记录（对应外键 ON DELETE CASCADE）
func (r *MemoryTenantsRepository) DeleteTenant(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tenants[id]
	if !ok || t.ownerID != ownerID {
		return ErrNotFound
	}
	delete(r.s.tenants, id)
	for k, p := range r.s.payments {
		if p.row.TenantID == id {
			delete(r.s.payments, k)
		}
	}
	for k, m := range r.s.maintenance {
		if m.row.TenantID == id {
			delete(r.s.maintenance, k)
		}
	}
	for k, d := range r.s.documents {
		if d.row.TenantID.Valid && d.row.TenantID.String == id {
			delete(r.s.documents, k)
		}
	}
	for k, c := range r.s.commLogs {
		if c.row.TenantID == id {
			delete(r.s.commLogs, k)
		}
	}
	return nil
}

func (r *MemoryTenantsRepository) CountTenants(_ context.Context, ownerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.owned(ownerID)), nil
}

func (r *MemoryTenantsRepository) ListRentAmounts(_ context.Context, ownerID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	amounts := []string{}
	for _, t := range r.owned(ownerID) {
		amount := "0"
		if t.row.RentAmount.Valid {
			amount = t.row.RentAmount.String
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}

func (r *MemoryTenantsRepository) ListRecentTenants(_ context.Context, ownerID string, limit int) ([]*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	all := r.owned(ownerID)
	sort.Slice(all, func(i, j int) bool {
		return newerFirst(all[i].row.CreatedAt, all[j].row.CreatedAt, all[i].seq, all[j].seq)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]*domain.Tenant, 0, len(all))
	for _, t := range all {
		out = append(out, MapTenant(t.row))
	}
	return out, nil
}
