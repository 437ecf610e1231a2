package service

import "unithub/internal/apperr"

// Op 操作名；用于日志、错误分类和对外的通用错误文案
type Op string

const (
	OpListTenants  Op = "list_tenants"
	OpGetTenant    Op = "get_tenant"
	OpCreateTenant Op = "create_tenant"
	OpUpdateTenant Op = "update_tenant"
	OpDeleteTenant Op = "delete_tenant"

	OpListRentPayments     Op = "list_rent_payments"
	OpGetRentPayment       Op = "get_rent_payment"
	OpCreateRentPayment    Op = "create_rent_payment"
	OpUpdateRentPayment    Op = "update_rent_payment"
	OpMarkRentPaymentPaid  Op = "mark_rent_payment_paid"
	OpDeleteRentPayment    Op = "delete_rent_payment"
	OpExportRentPayments   Op = "export_rent_payments"
	OpGenerateRentReminder Op = "generate_rent_reminder"

	OpListMaintenanceRequests  Op = "list_maintenance_requests"
	OpGetMaintenanceRequest    Op = "get_maintenance_request"
	OpCreateMaintenanceRequest Op = "create_maintenance_request"
	OpUpdateMaintenanceRequest Op = "update_maintenance_request"
	OpDeleteMaintenanceRequest Op = "delete_maintenance_request"
	OpCategorizeMaintenance    Op = "categorize_maintenance"
	OpSuggestVendors           Op = "suggest_vendors"

	OpListDocuments    Op = "list_documents"
	OpGetDocument      Op = "get_document"
	OpUploadDocument   Op = "upload_document"
	OpCreateDocument   Op = "create_document"
	OpUpdateDocument   Op = "update_document"
	OpDeleteDocument   Op = "delete_document"
	OpDownloadDocument Op = "download_document"
	OpExtractLeaseData Op = "extract_lease_data"

	OpListCommunicationLogs  Op = "list_communication_logs"
	OpGetCommunicationLog    Op = "get_communication_log"
	OpCreateCommunicationLog Op = "create_communication_log"
	OpUpdateCommunicationLog Op = "update_communication_log"
	OpDeleteCommunicationLog Op = "delete_communication_log"

	OpDashboardStats    Op = "dashboard_stats"
	OpRecentTenants     Op = "recent_tenants"
	OpUpcomingPayments  Op = "upcoming_payments"
	OpRecentMaintenance Op = "recent_maintenance"
)

const (
	msgTenantNotFound      = "Tenant not found"
	msgPaymentNotFound     = "Rent payment not found"
	msgMaintenanceNotFound = "Maintenance request not found"
	msgDocumentNotFound    = "Document not found"
	msgLogNotFound         = "Communication log not found"
	msgGenericFallback     = "Something went wrong"
)

type opMessages struct {
	fallback string
	notFound string
}

var opTable = map[Op]opMessages{
	OpListTenants:  {"Failed to fetch tenants", msgTenantNotFound},
	OpGetTenant:    {"Failed to fetch tenant", msgTenantNotFound},
	OpCreateTenant: {"Failed to create tenant", msgTenantNotFound},
	OpUpdateTenant: {"Failed to update tenant", msgTenantNotFound},
	OpDeleteTenant: {"Failed to delete tenant", msgTenantNotFound},

	OpListRentPayments:     {"Failed to fetch rent payments", msgPaymentNotFound},
	OpGetRentPayment:       {"Failed to fetch rent payment", msgPaymentNotFound},
	OpCreateRentPayment:    {"Failed to create rent payment", msgPaymentNotFound},
	OpUpdateRentPayment:    {"Failed to update rent payment", msgPaymentNotFound},
	OpMarkRentPaymentPaid:  {"Failed to mark payment as paid", msgPaymentNotFound},
	OpDeleteRentPayment:    {"Failed to delete rent payment", msgPaymentNotFound},
	OpExportRentPayments:   {"Failed to export rent payments", msgPaymentNotFound},
	OpGenerateRentReminder: {"Failed to generate reminder", msgPaymentNotFound},

	OpListMaintenanceRequests:  {"Failed to fetch maintenance requests", msgMaintenanceNotFound},
	OpGetMaintenanceRequest:    {"Failed to fetch maintenance request", msgMaintenanceNotFound},
	OpCreateMaintenanceRequest: {"Failed to create maintenance request", msgMaintenanceNotFound},
	OpUpdateMaintenanceRequest: {"Failed to update maintenance request", msgMaintenanceNotFound},
	OpDeleteMaintenanceRequest: {"Failed to delete maintenance request", msgMaintenanceNotFound},
	OpCategorizeMaintenance:    {"Failed to categorize maintenance request", msgMaintenanceNotFound},
	OpSuggestVendors:           {"Failed to suggest vendors", msgMaintenanceNotFound},

	OpListDocuments:    {"Failed to fetch documents", msgDocumentNotFound},
	OpGetDocument:      {"Failed to fetch document", msgDocumentNotFound},
	OpUploadDocument:   {"Failed to upload document", msgDocumentNotFound},
	OpCreateDocument:   {"Failed to create document", msgDocumentNotFound},
	OpUpdateDocument:   {"Failed to update document", msgDocumentNotFound},
	OpDeleteDocument:   {"Failed to delete document", msgDocumentNotFound},
	OpDownloadDocument: {"Failed to download document", msgDocumentNotFound},
	OpExtractLeaseData: {"Failed to extract lease data", msgDocumentNotFound},

	OpListCommunicationLogs:  {"Failed to fetch communication logs", msgLogNotFound},
	OpGetCommunicationLog:    {"Failed to fetch communication log", msgLogNotFound},
	OpCreateCommunicationLog: {"Failed to create communication log", msgLogNotFound},
	OpUpdateCommunicationLog: {"Failed to update communication log", msgLogNotFound},
	OpDeleteCommunicationLog: {"Failed to delete communication log", msgLogNotFound},

	OpDashboardStats:    {"Failed to fetch dashboard stats", ""},
	OpRecentTenants:     {"Failed to fetch recent tenants", msgTenantNotFound},
	OpUpcomingPayments:  {"Failed to fetch upcoming payments", msgPaymentNotFound},
	OpRecentMaintenance: {"Failed to fetch recent maintenance requests", msgMaintenanceNotFound},
}

// Fallback "Failed to {verb} {entity}"
func (o Op) Fallback() string {
	if m, ok := opTable[o]; ok {
		return m.fallback
	}
	return msgGenericFallback
}

func (o Op) NotFound() string {
	if m, ok := opTable[o]; ok && m.notFound != "" {
		return m.notFound
	}
	return "Not found"
}

// Message returns the error text a caller of op may see.
func Message(op Op, err error) string {
	return apperr.PublicMessage(err, op.Fallback())
}
