package repository

import (
	"database/sql"
	"encoding/json"

	"unithub/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	unknownTenantName = "Unknown"
	unknownUnitNumber = "N/A"
	propertyLevelName = "Property"
)

// parseAmount NUMERIC 文本 -> float64；NULL/空串/非法值一律为 0
func parseAmount(s sql.NullString) float64 {
	if !s.Valid || s.String == "" {
		return 0
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func parseOptionalAmount(s sql.NullString) *float64 {
	if !s.Valid {
		return nil
	}
	v := parseAmount(s)
	return &v
}

func joinedTenant(j TenantJoin) (name, unit string) {
	name, unit = unknownTenantName, unknownUnitNumber
	if j.Name.Valid && j.Name.String != "" {
		name = j.Name.String
	}
	if j.UnitNumber.Valid && j.UnitNumber.String != "" {
		unit = j.UnitNumber.String
	}
	return name, unit
}

// MapTenant TenantRow -> domain.Tenant
func MapTenant(row TenantRow) *domain.Tenant {
	return &domain.Tenant{
		ID:               row.ID,
		Name:             row.Name,
		Email:            row.Email.String,
		Phone:            row.Phone.String,
		UnitNumber:       row.UnitNumber,
		LeaseStartDate:   row.LeaseStartDate.String,
		LeaseEndDate:     row.LeaseEndDate.String,
		RentAmount:       parseAmount(row.RentAmount),
		DepositAmount:    parseAmount(row.DepositAmount),
		EmergencyContact: row.EmergencyContact.String,
		Notes:            row.Notes.String,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

// MapRentPayment 返回库中存储的状态；展示状态由 service 层推导
func MapRentPayment(row RentPaymentRow) *domain.RentPayment {
	name, unit := joinedTenant(row.Tenant)
	p := &domain.RentPayment{
		ID:            row.ID,
		TenantID:      row.TenantID,
		TenantName:    name,
		UnitNumber:    unit,
		Amount:        parseAmount(row.Amount),
		DueDate:       row.DueDate,
		Status:        row.Status,
		PaymentMethod: row.PaymentMethod.String,
		Notes:         row.Notes.String,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.PaidDate.Valid && row.PaidDate.String != "" {
		paid := row.PaidDate.String
		p.PaidDate = &paid
	}
	return p
}

func MapMaintenanceRequest(row MaintenanceRequestRow) *domain.MaintenanceRequest {
	name, unit := joinedTenant(row.Tenant)
	m := &domain.MaintenanceRequest{
		ID:             row.ID,
		TenantID:       row.TenantID,
		TenantName:     name,
		UnitNumber:     unit,
		Title:          row.Title,
		Description:    row.Description.String,
		Category:       row.Category.String,
		Priority:       row.Priority,
		Status:         row.Status,
		EstimatedCost:  parseOptionalAmount(row.EstimatedCost),
		ActualCost:     parseOptionalAmount(row.ActualCost),
		AssignedVendor: row.AssignedVendor.String,
		Photos:         decodeStringList(row.Photos),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.CompletedAt.Valid {
		completed := row.CompletedAt.Time
		m.CompletedAt = &completed
	}
	return m
}

// MapDocument 物业级文档（tenant_id 为 NULL）显示为 "Property"
func MapDocument(row DocumentRow) *domain.Document {
	d := &domain.Document{
		ID:            row.ID,
		Title:         row.Title,
		Type:          row.Type,
		FileURL:       row.FileURL,
		StoragePath:   row.StoragePath.String,
		FileName:      row.FileName.String,
		ContentType:   row.ContentType.String,
		FileSize:      row.FileSize.Int64,
		ExtractedData: decodeObject(row.ExtractedData),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.TenantID.Valid && row.TenantID.String != "" {
		tenantID := row.TenantID.String
		d.TenantID = &tenantID
		d.TenantName, d.UnitNumber = joinedTenant(row.Tenant)
	} else {
		d.TenantName, d.UnitNumber = propertyLevelName, unknownUnitNumber
	}
	return d
}

func MapCommunicationLog(row CommunicationLogRow) *domain.CommunicationLog {
	name, unit := joinedTenant(row.Tenant)
	return &domain.CommunicationLog{
		ID:         row.ID,
		TenantID:   row.TenantID,
		TenantName: name,
		UnitNumber: unit,
		Type:       row.Type,
		Subject:    row.Subject,
		Content:    row.Content.String,
		Timestamp:  row.Timestamp,
		CreatedAt:  row.CreatedAt,
	}
}

// decodeStringList JSONB 数组 -> []string，解析失败返回空切片
func decodeStringList(raw []byte) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func decodeObject(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// formatAmount float64 -> NUMERIC 文本（两位小数）
func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatOptionalAmount(v *float64) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatAmount(*v), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
