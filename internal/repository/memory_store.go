package repository

import (
	"database/sql"
	"sync"
	"time"
)

// MemoryStore 内存存储（DB 未启用时使用，也用于 service/handler 测试）
// 保存的是与 SQL 查询相同形状的行 DTO，读出时走同一套 Map* 函数。
// 外键级联：删除租客时同时删除其租金/工单/文档/沟通记录。
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	tenants     map[string]*memTenant
	payments    map[string]*memPayment
	maintenance map[string]*memMaintenance
	documents   map[string]*memDocument
	commLogs    map[string]*memCommLog
}

type memMeta struct {
	ownerID string
	seq     int64 // 创建顺序，created_at 相同时的排序依据
}

type memTenant struct {
	memMeta
	row TenantRow
}

type memPayment struct {
	memMeta
	row RentPaymentRow
}

type memMaintenance struct {
	memMeta
	row MaintenanceRequestRow
}

type memDocument struct {
	memMeta
	row DocumentRow
}

type memCommLog struct {
	memMeta
	row CommunicationLogRow
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:         time.Now,
		tenants:     map[string]*memTenant{},
		payments:    map[string]*memPayment{},
		maintenance: map[string]*memMaintenance{},
		documents:   map[string]*memDocument{},
		commLogs:    map[string]*memCommLog{},
	}
}

// WithClock 替换时间来源（测试用）
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Tenants() *MemoryTenantsRepository {
	return &MemoryTenantsRepository{s: s}
}

func (s *MemoryStore) RentPayments() *MemoryRentPaymentsRepository {
	return &MemoryRentPaymentsRepository{s: s}
}

func (s *MemoryStore) MaintenanceRequests() *MemoryMaintenanceRepository {
	return &MemoryMaintenanceRepository{s: s}
}

func (s *MemoryStore) Documents() *MemoryDocumentsRepository {
	return &MemoryDocumentsRepository{s: s}
}

func (s *MemoryStore) CommunicationLogs() *MemoryCommunicationLogsRepository {
	return &MemoryCommunicationLogsRepository{s: s}
}

// nextMeta 调用方需持有写锁
func (s *MemoryStore) nextMeta(ownerID string) memMeta {
	s.seq++
	return memMeta{ownerID: ownerID, seq: s.seq}
}

// join 模拟 LEFT JOIN tenants，调用方需持有读锁
func (s *MemoryStore) join(tenantID string) TenantJoin {
	t, ok := s.tenants[tenantID]
	if !ok {
		return TenantJoin{}
	}
	return TenantJoin{
		Name:       sql.NullString{String: t.row.Name, Valid: true},
		UnitNumber: sql.NullString{String: t.row.UnitNumber, Valid: true},
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// newerFirst created_at 降序，相同时后创建的在前
func newerFirst(a, b time.Time, seqA, seqB int64) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return seqA > seqB
}
