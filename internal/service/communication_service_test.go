package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unithub/internal/apperr"
	"unithub/internal/domain"
)

func TestCommunicationService_TimestampDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	in := domain.CommunicationLogInput{
		TenantID: tenant.ID,
		Type:     domain.CommunicationTypePhone,
		Subject:  "Lease renewal",
		Content:  "Discussed renewal terms",
	}
	l, err := env.communication.Create(ctx, testOwner, in)
	require.NoError(t, err)
	assert.True(t, l.Timestamp.Equal(fixedNow))
	assert.Equal(t, "Alice", l.TenantName)

	// 未提供 timestamp 时保留原值
	in.Subject = "Lease renewal follow-up"
	updated, err := env.communication.Update(ctx, testOwner, l.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Timestamp.Equal(fixedNow))
	assert.Equal(t, "Lease renewal follow-up", updated.Subject)

	explicit := time.Date(2024, 2, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	in.Timestamp = &explicit
	moved, err := env.communication.Update(ctx, testOwner, l.ID, in)
	require.NoError(t, err)
	assert.True(t, moved.Timestamp.Equal(explicit))
}

func TestCommunicationService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.communication.Create(ctx, testOwner, domain.CommunicationLogInput{Type: "fax"})
	require.Error(t, err)
	assert.Equal(t, "Tenant is required\nInvalid communication type\nSubject is required\nContent is required", err.Error())

	_, err = env.communication.List(ctx, ListCommunicationLogsRequest{OwnerID: testOwner, Type: "fax"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCommunicationService_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tenant := env.createTenant(t, "Alice", "1A", 1200)

	l, err := env.communication.Create(ctx, testOwner, domain.CommunicationLogInput{
		TenantID: tenant.ID,
		Type:     domain.CommunicationTypeEmail,
		Subject:  "Welcome",
		Content:  "Welcome to the building",
	})
	require.NoError(t, err)

	emails, err := env.communication.List(ctx, ListCommunicationLogsRequest{OwnerID: testOwner, Type: domain.CommunicationTypeEmail})
	require.NoError(t, err)
	assert.Len(t, emails, 1)

	require.NoError(t, env.communication.Delete(ctx, testOwner, l.ID))
	_, err = env.communication.Get(ctx, testOwner, l.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "Communication log not found", err.Error())
}
