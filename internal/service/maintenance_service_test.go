package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unithub/internal/ai"
	"unithub/internal/apperr"
	"unithub/internal/domain"
)

func TestMaintenanceService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	_, err := env.maintenance.Create(context.Background(), testOwner, domain.MaintenanceRequestInput{
		TenantID: tenant.ID,
		Title:    "   ",
		Category: "plumbing",
		Priority: domain.PriorityHigh,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "Title is required\nDescription is required", err.Error())
}

func TestMaintenanceService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	m := env.createMaintenance(t, tenant.ID, "Leaking faucet", "")
	assert.Equal(t, domain.MaintenanceStatusOpen, m.Status)
	assert.Equal(t, []string{}, m.Photos)
	assert.Nil(t, m.CompletedAt)
	assert.Equal(t, "Alice", m.TenantName)
	assert.Equal(t, "1A", m.UnitNumber)
}

func TestMaintenanceService_CompletedAtTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenant := env.createTenant(t, "Alice", "1A", 1200)
	m := env.createMaintenance(t, tenant.ID, "Leaking faucet", "")

	in := domain.MaintenanceRequestInput{
		TenantID:    tenant.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Priority:    m.Priority,
		Status:      domain.MaintenanceStatusCompleted,
	}
	done, err := env.maintenance.Update(ctx, testOwner, m.ID, in)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(fixedNow))

	// 已完成的工单再次更新保留原完成时间
	later := fixedNow.Add(48 * time.Hour)
	env.common.Clock = func() time.Time { return later }
	env.maintenance = NewMaintenanceService(env.common, env.store.MaintenanceRequests(), env.store.Tenants(), env.gen)
	in.Status = ""
	in.AssignedVendor = "Ace Plumbing"
	again, err := env.maintenance.Update(ctx, testOwner, m.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.MaintenanceStatusCompleted, again.Status)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, again.CompletedAt.Equal(fixedNow))

	in.Status = domain.MaintenanceStatusInProgress
	reopened, err := env.maintenance.Update(ctx, testOwner, m.ID, in)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestMaintenanceService_ListFilterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.maintenance.List(context.Background(), ListMaintenanceRequestsRequest{
		OwnerID:  testOwner,
		Status:   "done",
		Priority: "critical",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid status\nInvalid priority", err.Error())
}

func TestMaintenanceService_UpdateMissing(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	_, err := env.maintenance.Update(context.Background(), testOwner, "7f1b7a5e-6d0c-4a8e-9a53-0a8f3b8a1c11", domain.MaintenanceRequestInput{
		TenantID: tenant.ID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Maintenance request not found", err.Error())
}

func TestMaintenanceService_Categorize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.maintenance.Categorize(ctx, CategorizeRequest{})
	require.Error(t, err)
	assert.Equal(t, "Title is required\nDescription is required", err.Error())

	want := &ai.MaintenanceCategory{Category: "plumbing", Priority: domain.PriorityHigh, Reasoning: "Water damage risk"}
	env.gen.On("CategorizeMaintenance", mock.Anything, "Leak", "Water under the sink").Return(want, nil).Once()

	got, err := env.maintenance.Categorize(ctx, CategorizeRequest{Title: " Leak ", Description: "Water under the sink"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMaintenanceService_SuggestVendors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.maintenance.SuggestVendors(ctx, SuggestVendorsRequest{Description: "No heat"})
	require.Error(t, err)
	assert.Equal(t, "Category is required", err.Error())

	want := &ai.VendorSuggestions{VendorTypes: []string{"HVAC technician"}}
	env.gen.On("SuggestVendorTypes", mock.Anything, "hvac", "No heat").Return(want, nil).Once()

	got, err := env.maintenance.SuggestVendors(ctx, SuggestVendorsRequest{Category: "hvac", Description: "No heat"})
	require.NoError(t, err)
	assert.Equal(t, []string{"HVAC technician"}, got.VendorTypes)
}
