package repository

import (
	"context"
	"testing"
	"time"

	"unithub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPaymentID = "8a1d5c2e-7b3f-4e90-9c21-5f4a6b7c8d90"

var rentPaymentCols = []string{
	"id", "tenant_id", "name", "unit_number", "amount", "due_date", "paid_date",
	"status", "payment_method", "notes", "created_at", "updated_at",
}

func TestPostgresRentPayments_ListWithFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresRentPaymentsRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(rentPaymentCols).
		AddRow(testPaymentID, testTenantID, "Jane Doe", "4B", "1200.00", "2024-03-01", nil, "pending", nil, nil, now, now).
		AddRow("c3b0a7b2-1111-4e2f-9a55-0d3c2b1a0f99", testTenantID, nil, nil, "abc", "2024-02-01", "2024-02-02", "paid", "cash", "ok", now, now)

	mock.ExpectQuery(`LEFT JOIN tenants t ON t.id = p.tenant_id\s+WHERE p.owner_id = \$1 AND p.tenant_id = \$2::uuid AND p.status = ANY\(\$3\)`).
		WithArgs(testOwner, testTenantID, pq.Array([]string{"pending", "paid"})).
		WillReturnRows(rows)

	payments, err := repo.ListRentPayments(context.Background(), testOwner, RentPaymentFilter{
		TenantID: testTenantID,
		Statuses: []string{"pending", "paid"},
	})
	require.NoError(t, err)
	require.Len(t, payments, 2)

	assert.Equal(t, "Jane Doe", payments[0].TenantName)
	assert.Equal(t, 1200.0, payments[0].Amount)
	assert.Nil(t, payments[0].PaidDate)

	// 关联租客缺失 + 非法金额
	assert.Equal(t, "Unknown", payments[1].TenantName)
	assert.Equal(t, "N/A", payments[1].UnitNumber)
	assert.Equal(t, 0.0, payments[1].Amount)
	require.NotNil(t, payments[1].PaidDate)
	assert.Equal(t, "cash", payments[1].PaymentMethod)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRentPayments_ListWithInvalidTenantFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresRentPaymentsRepository(db)

	payments, err := repo.ListRentPayments(context.Background(), testOwner, RentPaymentFilter{TenantID: "nope"})
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRentPayments_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresRentPaymentsRepository(db)
	now := time.Now()

	mock.ExpectQuery(`WITH ins AS \(\s+INSERT INTO rent_payments`).
		WithArgs(sqlmock.AnyArg(), testOwner, testTenantID, "1200.00", "2024-03-01", "", "pending", "", "").
		WillReturnRows(sqlmock.NewRows(rentPaymentCols).
			AddRow(testPaymentID, testTenantID, "Jane Doe", "4B", "1200.00", "2024-03-01", nil, "pending", nil, nil, now, now))

	p, err := repo.CreateRentPayment(context.Background(), testOwner, &domain.RentPaymentInput{
		TenantID: testTenantID,
		Amount:   1200,
		DueDate:  "2024-03-01",
		Status:   "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, testPaymentID, p.ID)
	assert.Equal(t, "4B", p.UnitNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRentPayments_MarkPaid_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresRentPaymentsRepository(db)

	mock.ExpectQuery(`UPDATE rent_payments SET\s+status = 'paid'`).
		WithArgs(testPaymentID, testOwner, "2024-03-02", "").
		WillReturnRows(sqlmock.NewRows(rentPaymentCols))

	_, err := repo.MarkRentPaymentPaid(context.Background(), testOwner, testPaymentID, "2024-03-02", "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRentPayments_DashboardQueries(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostgresRentPaymentsRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rent_payments WHERE owner_id = \$1 AND status = ANY\(\$2\)`).
		WithArgs(testOwner, pq.Array(domain.OutstandingPaymentStatuses)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`p.due_date <= \$3::date\s+ORDER BY p.due_date ASC\s+LIMIT \$4`).
		WithArgs(testOwner, pq.Array(domain.OutstandingPaymentStatuses), "2024-04-14", 5).
		WillReturnRows(sqlmock.NewRows(rentPaymentCols).
			AddRow(testPaymentID, testTenantID, "Jane Doe", "4B", "1200.00", "2024-03-01", nil, "pending", nil, nil, now, now))

	n, err := repo.CountRentPaymentsByStatus(ctx, testOwner, domain.OutstandingPaymentStatuses)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	upcoming, err := repo.ListUpcomingRentPayments(ctx, testOwner, "2024-04-14", 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2024-03-01", upcoming[0].DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
