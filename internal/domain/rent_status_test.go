package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRentStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		stored  string
		dueDate string
		want    string
	}{
		{"pending past due", PaymentStatusPending, "2024-03-14", PaymentStatusOverdue},
		{"pending due today", PaymentStatusPending, "2024-03-15", PaymentStatusPending},
		{"pending due later", PaymentStatusPending, "2024-04-01", PaymentStatusPending},
		{"pending long ago", PaymentStatusPending, "2020-01-01", PaymentStatusOverdue},
		{"timestamp due date", PaymentStatusPending, "2024-03-14T23:59:59Z", PaymentStatusOverdue},
		{"paid past due", PaymentStatusPaid, "2020-01-01", PaymentStatusPaid},
		{"overdue in future", PaymentStatusOverdue, "2030-01-01", PaymentStatusOverdue},
		{"unparseable due date", PaymentStatusPending, "soon", PaymentStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRentStatus(tt.stored, tt.dueDate, now))
		})
	}
}

func TestDeriveRentStatus_Idempotent(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	once := DeriveRentStatus(PaymentStatusPending, "2024-01-01", now)
	assert.Equal(t, once, DeriveRentStatus(once, "2024-01-01", now))
}

func TestDeriveRentStatus_UsesCallerLocation(t *testing.T) {
	// 2024-03-15 01:00 in Auckland is still 2024-03-14 in UTC
	loc := time.FixedZone("NZDT", 13*3600)
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, loc)
	assert.Equal(t, PaymentStatusOverdue, DeriveRentStatus(PaymentStatusPending, "2024-03-14", now))
	assert.Equal(t, PaymentStatusPending, DeriveRentStatus(PaymentStatusPending, "2024-03-14", now.UTC()))
}

func TestApplyDerivedStatus(t *testing.T) {
	p := &RentPayment{Status: PaymentStatusPending, DueDate: "2020-01-01"}
	p.ApplyDerivedStatus(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, PaymentStatusOverdue, p.Status)
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysOverdue("2024-03-15", now))
	assert.Equal(t, 0, DaysOverdue("2024-03-20", now))
	assert.Equal(t, 5, DaysOverdue("2024-03-10", now))
	assert.Equal(t, 0, DaysOverdue("", now))
}

func TestEnums(t *testing.T) {
	assert.True(t, IsValidPaymentStatus("overdue"))
	assert.False(t, IsValidPaymentStatus("late"))
	assert.True(t, IsValidPriority("urgent"))
	assert.False(t, IsValidPriority("critical"))
	assert.True(t, IsValidMaintenanceStatus("in-progress"))
	assert.True(t, IsValidDocumentType("inspection"))
	assert.True(t, IsValidCommunicationType("in-person"))
	assert.False(t, IsValidCommunicationType("fax"))
}
