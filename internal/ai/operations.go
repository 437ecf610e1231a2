package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unithub/internal/domain"
)

// Operation names (metrics labels, cache keys)
const (
	OpCategorizeMaintenance = "categorize_maintenance"
	OpExtractLease          = "extract_lease"
	OpRentReminder          = "rent_reminder"
	OpSuggestVendors        = "suggest_vendors"
)

// MaintenanceCategories 提示词中给出的分类
var MaintenanceCategories = []string{
	"plumbing", "electrical", "hvac", "appliance", "structural",
	"pest-control", "landscaping", "cleaning", "security", "general",
}

// MaintenanceCategory 维修工单自动分类结果
type MaintenanceCategory struct {
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// ReminderInput 逾期催缴提醒的输入
type ReminderInput struct {
	TenantName  string
	UnitNumber  string
	Amount      float64
	DueDate     string
	DaysOverdue int
}

type RentReminder struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type VendorSuggestions struct {
	VendorTypes []string `json:"vendorTypes"`
	Notes       string   `json:"notes"`
}

const categorizePrompt = `You triage maintenance requests for a residential property manager.
Answer with a JSON object: {"category": string, "priority": string, "reasoning": string}.
category is one of: %s.
priority is one of: low, medium, high, urgent. Use urgent only for safety hazards or loss of essential service (water, heat, power).`

func (c *Client) CategorizeMaintenance(ctx context.Context, title, description string) (*MaintenanceCategory, error) {
	system := fmt.Sprintf(categorizePrompt, strings.Join(MaintenanceCategories, ", "))
	user := "Title: " + title + "\nDescription: " + description

	var out MaintenanceCategory
	err := c.generate(ctx, OpCategorizeMaintenance, system, user, &out, func() error {
		out.Category = strings.ToLower(strings.TrimSpace(out.Category))
		out.Priority = strings.ToLower(strings.TrimSpace(out.Priority))
		if out.Category == "" {
			return errors.New("missing category")
		}
		if !domain.IsValidPriority(out.Priority) {
			return fmt.Errorf("invalid priority %q", out.Priority)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

const extractLeasePrompt = `You extract structured fields from residential lease agreements.
Answer with a JSON object using these keys when present in the text:
tenantName, unitNumber, leaseStartDate (YYYY-MM-DD), leaseEndDate (YYYY-MM-DD),
rentAmount (number), depositAmount (number), paymentDueDay (number), lateFee (number),
petPolicy, utilitiesIncluded (array of strings), specialTerms (array of strings).
Omit keys that the lease does not state. Do not invent values.`

// ExtractLeaseFields 返回自由结构的字段（写入 documents.extracted_data，不做 schema 校验）
func (c *Client) ExtractLeaseFields(ctx context.Context, leaseText string) (map[string]any, error) {
	var out map[string]any
	err := c.generate(ctx, OpExtractLease, extractLeasePrompt, leaseText, &out, func() error {
		if len(out) == 0 {
			return errors.New("no fields extracted")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const reminderPrompt = `You write short, polite but firm rent reminders from a landlord to a tenant.
Answer with a JSON object: {"subject": string, "message": string}.
Mention the amount, the due date and how many days overdue the payment is. Plain text, no placeholders.`

func (c *Client) GenerateRentReminder(ctx context.Context, in ReminderInput) (*RentReminder, error) {
	user := fmt.Sprintf("Tenant: %s\nUnit: %s\nAmount due: %.2f\nDue date: %s\nDays overdue: %d",
		in.TenantName, in.UnitNumber, in.Amount, in.DueDate, in.DaysOverdue)

	var out RentReminder
	err := c.generate(ctx, OpRentReminder, reminderPrompt, user, &out, func() error {
		if strings.TrimSpace(out.Message) == "" {
			return errors.New("missing message")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

const vendorPrompt = `You advise a residential property manager which kinds of vendors to contact for a maintenance issue.
Answer with a JSON object: {"vendorTypes": [string], "notes": string}.
List one to five vendor types, most appropriate first.`

func (c *Client) SuggestVendorTypes(ctx context.Context, category, description string) (*VendorSuggestions, error) {
	user := "Category: " + category + "\nDescription: " + description

	var out VendorSuggestions
	err := c.generate(ctx, OpSuggestVendors, vendorPrompt, user, &out, func() error {
		if len(out.VendorTypes) == 0 {
			return errors.New("no vendor types")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Disabled 未配置 AI 时使用，所有操作返回 ErrDisabled
type Disabled struct{}

var _ Generator = Disabled{}

func (Disabled) CategorizeMaintenance(context.Context, string, string) (*MaintenanceCategory, error) {
	return nil, fmt.Errorf("%w: %w", ErrGeneration, ErrDisabled)
}

func (Disabled) ExtractLeaseFields(context.Context, string) (map[string]any, error) {
	return nil, fmt.Errorf("%w: %w", ErrGeneration, ErrDisabled)
}

func (Disabled) GenerateRentReminder(context.Context, ReminderInput) (*RentReminder, error) {
	return nil, fmt.Errorf("%w: %w", ErrGeneration, ErrDisabled)
}

func (Disabled) SuggestVendorTypes(context.Context, string, string) (*VendorSuggestions, error) {
	return nil, fmt.Errorf("%w: %w", ErrGeneration, ErrDisabled)
}
