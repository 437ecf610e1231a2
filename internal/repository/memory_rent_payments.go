package repository

import (
	"context"
	"database/sql"
	"sort"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

type MemoryRentPaymentsRepository struct {
	s *MemoryStore
}

var _ RentPaymentsRepository = (*MemoryRentPaymentsRepository)(nil)

// mapped 调用方需持有读锁
func (r *MemoryRentPaymentsRepository) mapped(p *memPayment) *domain.RentPayment {
	row := p.row
	row.Tenant = r.s.join(row.TenantID)
	return MapRentPayment(row)
}

func (r *MemoryRentPaymentsRepository) ListRentPayments(_ context.Context, ownerID string, filter RentPaymentFilter) ([]*domain.RentPayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := []*memPayment{}
	for _, p := range r.s.payments {
		if p.ownerID != ownerID {
			continue
		}
		if filter.TenantID != "" && p.row.TenantID != filter.TenantID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, p.row.Status) {
			continue
		}
		all = append(all, p)
	}
	// due_date DESC, created_at DESC
	sort.Slice(all, func(i, j int) bool {
		if all[i].row.DueDate != all[j].row.DueDate {
			return all[i].row.DueDate > all[j].row.DueDate
		}
		return newerFirst(all[i].row.CreatedAt, all[j].row.CreatedAt, all[i].seq, all[j].seq)
	})
	out := make([]*domain.RentPayment, 0, len(all))
	for _, p := range all {
		out = append(out, r.mapped(p))
	}
	return out, nil
}

func (r *MemoryRentPaymentsRepository) GetRentPayment(_ context.Context, ownerID, id string) (*domain.RentPayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payments[id]
	if !ok || p.ownerID != ownerID {
		return nil, ErrNotFound
	}
	return r.mapped(p), nil
}

func rentPaymentRowFromInput(row *RentPaymentRow, in *domain.RentPaymentInput) {
	row.TenantID = in.TenantID
	row.Amount = nullString(formatAmount(in.Amount))
	row.DueDate = in.DueDate
	row.PaidDate = nullString(in.PaidDate)
	row.Status = in.Status
	row.PaymentMethod = nullString(in.PaymentMethod)
	row.Notes = nullString(in.Notes)
}

func (r *MemoryRentPaymentsRepository) CreateRentPayment(_ context.Context, ownerID string, in *domain.RentPaymentInput) (*domain.RentPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	p := &memPayment{memMeta: r.s.nextMeta(ownerID)}
	p.row.ID = uuid.NewString()
	rentPaymentRowFromInput(&p.row, in)
	p.row.CreatedAt = now
	p.row.UpdatedAt = now
	r.s.payments[p.row.ID] = p
	return r.mapped(p), nil
}

func (r *MemoryRentPaymentsRepository) UpdateRentPayment(_ context.Context, ownerID, id string, in *domain.RentPaymentInput) (*domain.RentPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok || p.ownerID != ownerID {
		return nil, ErrNotFound
	}
	rentPaymentRowFromInput(&p.row, in)
	p.row.UpdatedAt = r.s.now()
	return r.mapped(p), nil
}

func (r *MemoryRentPaymentsRepository) MarkRentPaymentPaid(_ context.Context, ownerID, id, paidDate, paymentMethod string) (*domain.RentPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok || p.ownerID != ownerID {
		return nil, ErrNotFound
	}
	p.row.Status = domain.PaymentStatusPaid
	p.row.PaidDate = sql.NullString{String: paidDate, Valid: true}
	if paymentMethod != "" {
		p.row.PaymentMethod = nullString(paymentMethod)
	}
	p.row.UpdatedAt = r.s.now()
	return r.mapped(p), nil
}

func (r *MemoryRentPaymentsRepository) DeleteRentPayment(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.payments[id]
	if !ok || p.ownerID != ownerID {
		return ErrNotFound
	}
	delete(r.s.payments, id)
	return nil
}

func (r *MemoryRentPaymentsRepository) CountRentPaymentsByStatus(_ context.Context, ownerID string, statuses []string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, p := range r.s.payments {
		if p.ownerID == ownerID && containsString(statuses, p.row.Status) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRentPaymentsRepository) ListUpcomingRentPayments(_ context.Context, ownerID, until string, limit int) ([]*domain.RentPayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}
	all := []*memPayment{}
	for _, p := range r.s.payments {
		if p.ownerID != ownerID || !containsString(domain.OutstandingPaymentStatuses, p.row.Status) {
			continue
		}
		// YYYY-MM-DD 字符串可直接按字典序比较
		if p.row.DueDate > until {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].row.DueDate != all[j].row.DueDate {
			return all[i].row.DueDate < all[j].row.DueDate
		}
		return all[i].seq < all[j].seq
	})
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]*domain.RentPayment, 0, len(all))
	for _, p := range all {
		out = append(out, r.mapped(p))
	}
	return out, nil
}
