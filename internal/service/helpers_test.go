package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"unithub/internal/ai"
	"unithub/internal/domain"
	"unithub/internal/events"
	"unithub/internal/repository"
	"unithub/internal/storage"
)

const (
	testOwner  = "owner-1"
	otherOwner = "owner-2"
	testBase   = "http://files.test"
)

// 2024-03-15 10:00 UTC
var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type mockGenerator struct {
	mock.Mock
}

var _ ai.Generator = (*mockGenerator)(nil)

func (m *mockGenerator) CategorizeMaintenance(ctx context.Context, title, description string) (*ai.MaintenanceCategory, error) {
	args := m.Called(ctx, title, description)
	out, _ := args.Get(0).(*ai.MaintenanceCategory)
	return out, args.Error(1)
}

func (m *mockGenerator) ExtractLeaseFields(ctx context.Context, leaseText string) (map[string]any, error) {
	args := m.Called(ctx, leaseText)
	out, _ := args.Get(0).(map[string]any)
	return out, args.Error(1)
}

func (m *mockGenerator) GenerateRentReminder(ctx context.Context, in ai.ReminderInput) (*ai.RentReminder, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*ai.RentReminder)
	return out, args.Error(1)
}

func (m *mockGenerator) SuggestVendorTypes(ctx context.Context, category, description string) (*ai.VendorSuggestions, error) {
	args := m.Called(ctx, category, description)
	out, _ := args.Get(0).(*ai.VendorSuggestions)
	return out, args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Entity+"/"+e.Action)
	}
	return out
}

type testEnv struct {
	root    string
	store   *repository.MemoryStore
	objects *storage.LocalStore
	gen     *mockGenerator
	events  *recordingPublisher
	common  Common

	tenants       *TenantService
	payments      *RentPaymentService
	maintenance   *MaintenanceService
	documents     *DocumentService
	communication *CommunicationService
	dashboard     *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	st := repository.NewMemoryStore().WithClock(clock)
	root := t.TempDir()
	objects, err := storage.NewLocalStore(root, testBase)
	require.NoError(t, err)

	env := &testEnv{
		root:    root,
		store:   st,
		objects: objects,
		gen:     &mockGenerator{},
		events:  &recordingPublisher{},
	}
	env.common = Common{Events: env.events, Logger: zap.NewNop(), Clock: clock}
	env.wire(st.Tenants(), st.RentPayments(), st.MaintenanceRequests(), st.Documents(), objects)
	t.Cleanup(func() { env.gen.AssertExpectations(t) })
	return env
}

// wire 允许测试替换单个 repository 或对象存储
func (e *testEnv) wire(tenants repository.TenantsRepository, payments repository.RentPaymentsRepository,
	maintenance repository.MaintenanceRequestsRepository, documents repository.DocumentsRepository, objects storage.ObjectStore) {
	e.tenants = NewTenantService(e.common, tenants, documents, objects)
	e.payments = NewRentPaymentService(e.common, payments, tenants, e.gen)
	e.maintenance = NewMaintenanceService(e.common, maintenance, tenants, e.gen)
	e.documents = NewDocumentService(e.common, documents, tenants, objects, e.gen)
	e.communication = NewCommunicationService(e.common, e.store.CommunicationLogs(), tenants)
	e.dashboard = NewDashboardService(e.common, tenants, payments, maintenance, DashboardOptions{})
}

func tenantInput(name, unit string, rent float64) domain.TenantInput {
	return domain.TenantInput{
		Name:           name,
		Email:          "tenant@example.com",
		Phone:          "5551234567",
		UnitNumber:     unit,
		LeaseStartDate: "2024-01-01",
		LeaseEndDate:   "2024-12-31",
		RentAmount:     rent,
		DepositAmount:  500,
	}
}

func (e *testEnv) createTenant(t *testing.T, name, unit string, rent float64) *domain.Tenant {
	t.Helper()
	tenant, err := e.tenants.Create(context.Background(), testOwner, tenantInput(name, unit, rent))
	require.NoError(t, err)
	return tenant
}

func (e *testEnv) createPayment(t *testing.T, tenantID, dueDate, status string, amount float64) *domain.RentPayment {
	t.Helper()
	p, err := e.payments.Create(context.Background(), testOwner, domain.RentPaymentInput{
		TenantID: tenantID,
		Amount:   amount,
		DueDate:  dueDate,
		Status:   status,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) createMaintenance(t *testing.T, tenantID, title, status string) *domain.MaintenanceRequest {
	t.Helper()
	m, err := e.maintenance.Create(context.Background(), testOwner, domain.MaintenanceRequestInput{
		TenantID:    tenantID,
		Title:       title,
		Description: "Needs attention",
		Category:    "general",
		Priority:    domain.PriorityMedium,
		Status:      status,
	})
	require.NoError(t, err)
	return m
}

// filepathGlob 在本地存储根目录下匹配对象路径
func filepathGlob(t *testing.T, e *testEnv, pattern string) ([]string, error) {
	t.Helper()
	return filepath.Glob(filepath.Join(e.root, pattern))
}
