package repository

import (
	"context"
	"sort"
	"time"

	"unithub/internal/domain"

	"github.com/google/uuid"
)

type MemoryCommunicationLogsRepository struct {
	s *MemoryStore
}

var _ CommunicationLogsRepository = (*MemoryCommunicationLogsRepository)(nil)

func (r *MemoryCommunicationLogsRepository) mapped(c *memCommLog) *domain.CommunicationLog {
	row := c.row
	row.Tenant = r.s.join(row.TenantID)
	return MapCommunicationLog(row)
}

func (r *MemoryCommunicationLogsRepository) ListCommunicationLogs(_ context.Context, ownerID string, filter CommunicationLogFilter) ([]*domain.CommunicationLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := []*memCommLog{}
	for _, c := range r.s.commLogs {
		if c.ownerID != ownerID {
			continue
		}
		if filter.TenantID != "" && c.row.TenantID != filter.TenantID {
			continue
		}
		if filter.Type != "" && c.row.Type != filter.Type {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return newerFirst(all[i].row.Timestamp, all[j].row.Timestamp, all[i].seq, all[j].seq)
	})
	out := make([]*domain.CommunicationLog, 0, len(all))
	for _, c := range all {
		out = append(out, r.mapped(c))
	}
	return out, nil
}

func (r *MemoryCommunicationLogsRepository) GetCommunicationLog(_ context.Context, ownerID, id string) (*domain.CommunicationLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.commLogs[id]
	if !ok || c.ownerID != ownerID {
		return nil, ErrNotFound
	}
	return r.mapped(c), nil
}

func commLogRowFromInput(row *CommunicationLogRow, in *domain.CommunicationLogInput, timestamp time.Time) {
	row.TenantID = in.TenantID
	row.Type = in.Type
	row.Subject = in.Subject
	row.Content = nullString(in.Content)
	row.Timestamp = timestamp
}

func (r *MemoryCommunicationLogsRepository) CreateCommunicationLog(_ context.Context, ownerID string, in *domain.CommunicationLogInput, timestamp time.Time) (*domain.CommunicationLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := &memCommLog{memMeta: r.s.nextMeta(ownerID)}
	c.row.ID = uuid.NewString()
	commLogRowFromInput(&c.row, in, timestamp)
	c.row.CreatedAt = r.s.now()
	r.s.commLogs[c.row.ID] = c
	return r.mapped(c), nil
}

func (r *MemoryCommunicationLogsRepository) UpdateCommunicationLog(_ context.Context, ownerID, id string, in *domain.CommunicationLogInput, timestamp time.Time) (*domain.CommunicationLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.commLogs[id]
	if !ok || c.ownerID != ownerID {
		return nil, ErrNotFound
	}
	commLogRowFromInput(&c.row, in, timestamp)
	return r.mapped(c), nil
}

func (r *MemoryCommunicationLogsRepository) DeleteCommunicationLog(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.commLogs[id]
	if !ok || c.ownerID != ownerID {
		return ErrNotFound
	}
	delete(r.s.commLogs, id)
	return nil
}
