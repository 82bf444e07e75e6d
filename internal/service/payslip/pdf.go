package payslip

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

var sectionTitles = []struct {
	category mapping.Category
	title    string
}{
	{mapping.CategoryIncome, "Income"},
	{mapping.CategoryDeduction, "Deductions"},
	{mapping.CategoryAttendance, "Attendance"},
	{mapping.CategoryTotal, "Totals"},
	{mapping.CategoryOther, "Other Items"},
}

// WritePDF renders a payslip (or bonus slip) for one classified document.
// Zero amounts are left out unless the item asks to show them.
func WritePDF(w io.Writer, doc payslip.Document, c payslip.Classified) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := "Payslip"
	if doc.Kind == mapping.KindBonus {
		title = "Bonus Slip"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Employee: %s", doc.EmployeeID)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", doc.MonthKey()))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Payment date: %s", doc.PaymentDate.Format("2006-01-02")))
	pdf.Ln(10)

	for _, section := range sectionTitles {
		items := visibleItems(c.Section(section.category))
		if len(items) == 0 {
			continue
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(170, 8, section.title, "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		for _, item := range items {
			pdf.CellFormat(110, 7, tr(item.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, tr(formatValue(item, section.category)), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return nil
}

func visibleItems(items []payslip.ClassifiedItem) []payslip.ClassifiedItem {
	out := make([]payslip.ClassifiedItem, 0, len(items))
	for _, item := range items {
		if !item.ShowZeroValue && payslip.IsZeroValue(item.Value) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// formatValue prints amounts with thousands separators. Attendance values
// such as "8:30" are printed as they were uploaded.
func formatValue(item payslip.ClassifiedItem, category mapping.Category) string {
	if category == mapping.CategoryAttendance {
		if s, ok := item.Value.(string); ok {
			return s
		}
	}
	d, ok := payslip.Numeric(item.Value)
	if !ok {
		return fmt.Sprint(item.Value)
	}
	if category == mapping.CategoryAttendance {
		return d.String()
	}
	return FormatAmount(d)
}

// FormatAmount groups the integer part of d by thousands: 1234567.5 → "1,234,567.5".
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
