package ledger

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Ledger"
	headerRow = 3
)

// WriteXLSX renders the matrix as a single-sheet workbook: one column per
// month followed by a Total column. Months without data and attendance totals
// show ledger.Placeholder.
func WriteXLSX(w io.Writer, req ledger.LedgerRequest, m ledger.Matrix) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name ledger sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	title := fmt.Sprintf("Wage ledger (%s) for %s, %s to %s", req.Type, req.EmployeeID, req.Start, req.End)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(m.Months)+3)
	header = append(header, "Category", "Item")
	for _, month := range m.Months {
		header = append(header, month)
	}
	header = append(header, "Total")
	if err := setRow(f, headerRow, header); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(header), headerRow)
	if err := f.SetCellStyle(sheetName, first, last, bold); err != nil {
		return err
	}

	for i, row := range m.Rows {
		values := make([]interface{}, 0, len(header))
		values = append(values, categoryLabel(string(row.ItemType)), row.ItemName)
		for _, month := range m.Months {
			values = append(values, cellValue(row.Months[month]))
		}
		if total, ok := row.Total(); ok {
			values = append(values, total.InexactFloat64())
		} else {
			values = append(values, ledger.Placeholder)
		}
		if err := setRow(f, headerRow+1+i, values); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 28); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write ledger workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write ledger row %d: %w", row, err)
	}
	return nil
}

// cellValue writes numbers as numbers so spreadsheet formulas keep working.
func cellValue(c ledger.Cell) interface{} {
	if !c.HasData {
		return ledger.Placeholder
	}
	if d, ok := payslip.Numeric(c.Value); ok {
		return d.InexactFloat64()
	}
	if c.Value == nil {
		return ""
	}
	return fmt.Sprint(c.Value)
}

func categoryLabel(category string) string {
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
