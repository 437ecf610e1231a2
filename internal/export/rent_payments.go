// Package export renders spreadsheet exports.
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"unithub/internal/domain"
)

// RentPaymentsSheet 工作表名
const RentPaymentsSheet = "Rent Payments"

// RentPaymentsHeader 导出表头
var RentPaymentsHeader = []string{
	"Tenant",
	"Unit",
	"Amount",
	"Due Date",
	"Paid Date",
	"Status",
	"Payment Method",
	"Notes",
}

var rentPaymentsColWidths = []float64{24, 10, 14, 14, 14, 12, 18, 40}

// amountFmt 内置格式 4: #,##0.00
const amountFmt = 4

// RentPaymentsWorkbook 生成租金导出 Excel。payments 的 Status 应为展示状态（已派生 overdue）。
// 表尾两行：合计金额、未收金额（pending + overdue）。
func RentPaymentsWorkbook(payments []domain.RentPayment) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	index, err := f.NewSheet(RentPaymentsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	if err := writeRentPayments(f, payments); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRentPayments(f *excelize.File, payments []domain.RentPayment) error {
	sheet := RentPaymentsSheet

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountFmt})
	if err != nil {
		return fmt.Errorf("failed to create amount style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: amountFmt})
	if err != nil {
		return fmt.Errorf("failed to create total style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &RentPaymentsHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(RentPaymentsHeader))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	for i, w := range rentPaymentsColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	total := decimal.Zero
	outstanding := decimal.Zero
	for i, p := range payments {
		row := i + 2 // 第1行是表头
		paid := ""
		if p.PaidDate != nil {
			paid = *p.PaidDate
		}
		values := []interface{}{
			p.TenantName,
			p.UnitNumber,
			p.Amount,
			p.DueDate,
			paid,
			p.Status,
			p.PaymentMethod,
			p.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		amountCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellStyle(sheet, amountCell, amountCell, amountStyle); err != nil {
			return fmt.Errorf("failed to set amount style: %w", err)
		}

		amount := decimal.NewFromFloat(p.Amount)
		total = total.Add(amount)
		if p.Status != domain.PaymentStatusPaid {
			outstanding = outstanding.Add(amount)
		}
	}

	totalRow := len(payments) + 2
	if err := writeTotal(f, totalRow, "Total", total, totalStyle); err != nil {
		return err
	}
	if err := writeTotal(f, totalRow+1, "Outstanding", outstanding, totalStyle); err != nil {
		return err
	}

	// 冻结表头
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func writeTotal(f *excelize.File, row int, label string, sum decimal.Decimal, style int) error {
	labelCell, _ := excelize.CoordinatesToCellName(1, row)
	amountCell, _ := excelize.CoordinatesToCellName(3, row)
	if err := f.SetCellValue(RentPaymentsSheet, labelCell, label); err != nil {
		return fmt.Errorf("failed to write %s label: %w", label, err)
	}
	if err := f.SetCellValue(RentPaymentsSheet, amountCell, sum.InexactFloat64()); err != nil {
		return fmt.Errorf("failed to write %s amount: %w", label, err)
	}
	if err := f.SetCellStyle(RentPaymentsSheet, labelCell, amountCell, style); err != nil {
		return fmt.Errorf("failed to set %s style: %w", label, err)
	}
	return nil
}
