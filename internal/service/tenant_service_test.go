package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unithub/internal/apperr"
	"unithub/internal/domain"
	"unithub/internal/storage"
)

func TestTenantService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tenants.Create(ctx, testOwner, domain.TenantInput{})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Len(t, strings.Split(err.Error(), "\n"), 7)

	// 校验失败不写入
	list, err := env.tenants.List(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, env.events.actions())
}

func TestTenantService_CreateTrimsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	in := tenantInput("  Alice  ", " 1A ", 1200)

	tenant, err := env.tenants.Create(context.Background(), testOwner, in)
	require.NoError(t, err)
	assert.Equal(t, "Alice", tenant.Name)
	assert.Equal(t, "1A", tenant.UnitNumber)
	assert.Equal(t, 1200.0, tenant.RentAmount)
	assert.Equal(t, []string{"tenant/created"}, env.events.actions())
}

func TestTenantService_OwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	_, err := env.tenants.Get(ctx, otherOwner, tenant.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Tenant not found", Message(OpGetTenant, err))

	_, err = env.tenants.Update(ctx, otherOwner, tenant.ID, tenantInput("Mallory", "1A", 1))
	assert.True(t, apperr.IsNotFound(err))
}

func TestTenantService_DeleteMissing(t *testing.T) {
	env := newTestEnv(t)

	err := env.tenants.Delete(context.Background(), testOwner, "7f1b7a5e-6d0c-4a8e-9a53-0a8f3b8a1c11")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	err = env.tenants.Delete(context.Background(), testOwner, "not-a-uuid")
	assert.True(t, apperr.IsNotFound(err))
}

func TestTenantService_DeleteCascadesAndRemovesObjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenant := env.createTenant(t, "Alice", "1A", 1200)
	env.createPayment(t, tenant.ID, "2024-04-01", "pending", 1200)
	env.createMaintenance(t, tenant.ID, "Leak", "")

	doc, err := env.documents.Upload(ctx, testOwner, UploadDocumentRequest{
		TenantID: tenant.ID,
		Title:    "Lease",
		Type:     domain.DocumentTypeLease,
		FileName: "lease.txt",
		Size:     5,
		Body:     strings.NewReader("lease"),
	})
	require.NoError(t, err)

	require.NoError(t, env.tenants.Delete(ctx, testOwner, tenant.ID))

	payments, err := env.payments.List(ctx, ListRentPaymentsRequest{OwnerID: testOwner})
	require.NoError(t, err)
	assert.Empty(t, payments)
	requests, err := env.maintenance.List(ctx, ListMaintenanceRequestsRequest{OwnerID: testOwner})
	require.NoError(t, err)
	assert.Empty(t, requests)

	_, err = env.objects.Download(ctx, doc.StoragePath)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	assert.Contains(t, env.events.actions(), "tenant/deleted")
}
