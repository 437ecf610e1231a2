package repository

import (
	"context"
	"testing"
	"time"

	"unithub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLogID    = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c77"
	otherOwnerID = "owner-2"
)

var communicationLogCols = []string{
	"id", "tenant_id", "name", "unit_number", "type", "subject", "content", "timestamp", "created_at",
}

func TestPostgresCommunicationLogs_ListWithFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCommunicationLogsRepository(db)
	ts := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE c.owner_id = \$1 AND c.tenant_id = \$2::uuid AND c.type = \$3\s+ORDER BY c.timestamp DESC`).
		WithArgs(testOwner, testTenantID, "phone").
		WillReturnRows(sqlmock.NewRows(communicationLogCols).
			AddRow(testLogID, testTenantID, "Jane Doe", "4B", "phone", "Rent reminder", "Called about March", ts, ts).
			AddRow("2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d88", testTenantID, nil, nil, "phone", "Voicemail", nil, ts, ts))

	logs, err := repo.ListCommunicationLogs(context.Background(), testOwner, CommunicationLogFilter{
		TenantID: testTenantID,
		Type:     "phone",
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Jane Doe", logs[0].TenantName)
	assert.True(t, ts.Equal(logs[0].Timestamp))
	assert.Equal(t, "Unknown", logs[1].TenantName)
	assert.Equal(t, "", logs[1].Content)

	logs, err = repo.ListCommunicationLogs(context.Background(), testOwner, CommunicationLogFilter{TenantID: "nope"})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCommunicationLogs_CreateAndUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCommunicationLogsRepository(db)
	ctx := context.Background()
	ts := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	now := time.Now()

	in := &domain.CommunicationLogInput{
		TenantID: testTenantID,
		Type:     "email",
		Subject:  "Lease renewal",
		Content:  "Sent renewal offer",
	}
	mock.ExpectQuery(`WITH ins AS \(\s+INSERT INTO communication_logs`).
		WithArgs(sqlmock.AnyArg(), testOwner, testTenantID, "email", "Lease renewal", "Sent renewal offer", ts).
		WillReturnRows(sqlmock.NewRows(communicationLogCols).
			AddRow(testLogID, testTenantID, "Jane Doe", "4B", "email", "Lease renewal", "Sent renewal offer", ts, now))

	created, err := repo.CreateCommunicationLog(ctx, testOwner, in, ts)
	require.NoError(t, err)
	assert.Equal(t, testLogID, created.ID)
	assert.Equal(t, "4B", created.UnitNumber)

	in.Subject = "Lease renewal (follow-up)"
	mock.ExpectQuery(`UPDATE communication_logs SET.*timestamp = \$7\s+WHERE id = \$1::uuid AND owner_id = \$2`).
		WithArgs(testLogID, testOwner, testTenantID, "email", "Lease renewal (follow-up)", "Sent renewal offer", ts).
		WillReturnRows(sqlmock.NewRows(communicationLogCols))

	_, err = repo.UpdateCommunicationLog(ctx, testOwner, testLogID, in, ts)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCommunicationLogs_GetAndDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresCommunicationLogsRepository(db)
	ctx := context.Background()
	ts := time.Now()

	mock.ExpectQuery(`WHERE c.id = \$1::uuid AND c.owner_id = \$2`).
		WithArgs(testLogID, otherOwnerID).
		WillReturnRows(sqlmock.NewRows(communicationLogCols))
	mock.ExpectQuery(`WHERE c.id = \$1::uuid AND c.owner_id = \$2`).
		WithArgs(testLogID, testOwner).
		WillReturnRows(sqlmock.NewRows(communicationLogCols).
			AddRow(testLogID, testTenantID, "Jane Doe", "4B", "message", "Parking", "Asked about bay 3", ts, ts))
	mock.ExpectExec(`DELETE FROM communication_logs WHERE id = \$1::uuid AND owner_id = \$2`).
		WithArgs(testLogID, testOwner).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.GetCommunicationLog(ctx, otherOwnerID, testLogID)
	assert.ErrorIs(t, err, ErrNotFound)

	log, err := repo.GetCommunicationLog(ctx, testOwner, testLogID)
	require.NoError(t, err)
	assert.Equal(t, "Parking", log.Subject)

	require.NoError(t, repo.DeleteCommunicationLog(ctx, testOwner, testLogID))
	assert.ErrorIs(t, repo.DeleteCommunicationLog(ctx, testOwner, "not-a-uuid"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
