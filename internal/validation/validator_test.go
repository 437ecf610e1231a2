package validation

import (
	"testing"

	"unithub/internal/apperr"
	"unithub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, apperr.KindValidation, e.Kind)
	return e.Messages
}

func TestEmptyInputs_OneMessagePerRequiredField(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{
			name:  "tenant",
			input: &domain.TenantInput{},
			want: []string{
				"Name is required",
				"Invalid email address",
				"Phone number must be at least 10 digits",
				"Unit number is required",
				"Lease start date is required",
				"Lease end date is required",
				"Rent amount must be greater than 0",
			},
		},
		{
			name:  "rent payment",
			input: &domain.RentPaymentInput{},
			want: []string{
				"Tenant is required",
				"Amount must be greater than 0",
				"Due date is required",
				"Invalid payment status",
			},
		},
		{
			name:  "maintenance request",
			input: &domain.MaintenanceRequestInput{},
			want: []string{
				"Tenant is required",
				"Title is required",
				"Description is required",
				"Category is required",
				"Invalid priority",
			},
		},
		{
			name:  "communication log",
			input: &domain.CommunicationLogInput{},
			want: []string{
				"Tenant is required",
				"Invalid communication type",
				"Subject is required",
				"Content is required",
			},
		},
		{
			name:  "document",
			input: &domain.DocumentInput{},
			want: []string{
				"Title is required",
				"Invalid document type",
				"File URL is required",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validationMessages(t, v.Struct(tt.input)))
		})
	}
}

func TestTenantInput(t *testing.T) {
	v := New()
	valid := domain.TenantInput{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "0211234567",
		UnitNumber:     "4B",
		LeaseStartDate: "2024-01-01",
		LeaseEndDate:   "2024-12-31",
		RentAmount:     1200,
		DepositAmount:  0,
	}
	require.NoError(t, v.Struct(&valid))

	bad := valid
	bad.Email = "jane-at-example"
	bad.Phone = "12345"
	bad.DepositAmount = -1
	err := v.Struct(&bad)
	assert.Equal(t, []string{
		"Invalid email address",
		"Phone number must be at least 10 digits",
		"Deposit amount must be 0 or greater",
	}, validationMessages(t, err))
	assert.Equal(t, "Invalid email address\nPhone number must be at least 10 digits\nDeposit amount must be 0 or greater", err.Error())
}

func TestDateFields_RequireCalendarDate(t *testing.T) {
	v := New()

	tenant := domain.TenantInput{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "0211234567",
		UnitNumber:     "4B",
		LeaseStartDate: "2024-1-1",
		LeaseEndDate:   "12/31/2024",
		RentAmount:     1200,
	}
	assert.Equal(t, []string{"Invalid lease start date", "Invalid lease end date"}, validationMessages(t, v.Struct(&tenant)))

	payment := domain.RentPaymentInput{
		TenantID: "t-1",
		Amount:   900,
		DueDate:  "2024-03-01T00:00:00Z",
		PaidDate: "03/02/2024",
		Status:   domain.PaymentStatusPaid,
	}
	assert.Equal(t, []string{"Invalid due date", "Invalid paid date"}, validationMessages(t, v.Struct(&payment)))

	payment.DueDate = "2024-03-01"
	payment.PaidDate = "2024-03-02"
	require.NoError(t, v.Struct(&payment))
}

func TestMaintenanceRequestInput_MissingTitleAndDescription(t *testing.T) {
	v := New()
	in := domain.MaintenanceRequestInput{
		TenantID: "t-1",
		Category: "plumbing",
		Priority: domain.PriorityHigh,
	}
	msgs := validationMessages(t, v.Struct(&in))
	assert.Equal(t, []string{"Title is required", "Description is required"}, msgs)
}

func TestMaintenanceRequestInput_OptionalCosts(t *testing.T) {
	v := New()
	in := domain.MaintenanceRequestInput{
		TenantID:    "t-1",
		Title:       "Leaking tap",
		Description: "Kitchen tap drips",
		Category:    "plumbing",
		Priority:    domain.PriorityLow,
	}
	require.NoError(t, v.Struct(&in))

	zero := 0.0
	in.EstimatedCost = &zero
	require.NoError(t, v.Struct(&in))

	negative := -10.0
	in.EstimatedCost = &negative
	in.Status = "waiting"
	assert.Equal(t, []string{"Invalid status", "Estimated cost must be 0 or greater"}, validationMessages(t, v.Struct(&in)))
}

func TestDocumentInput_PropertyLevel(t *testing.T) {
	v := New()
	in := domain.DocumentInput{Title: "Building insurance", Type: domain.DocumentTypeOther, FileURL: "http://files/property/a.pdf"}
	assert.NoError(t, v.Struct(&in))
}
