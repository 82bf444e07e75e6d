package payslip

import (
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
)

// Source records which document family produced a value.
type Source string

const (
	SourceSalary     Source = "salary"
	SourceBonus      Source = "bonus"
	SourceIntegrated Source = "integrated"
)

// SourceOf returns the source tag for documents of the given kind.
func SourceOf(kind mapping.Kind) Source {
	if kind == mapping.KindBonus {
		return SourceBonus
	}
	return SourceSalary
}

// Document is one uploaded CSV row: a salary or bonus statement for one
// employee and one pay period. Items keep the raw cell values keyed by header.
type Document struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Kind        mapping.Kind
	PaymentDate time.Time
	Items       map[string]any
	// Columns is the CSV header order, used when no mapping config exists.
	Columns []string
	// OriginalMapping is the config frozen when the document was imported.
	OriginalMapping *mapping.Config
	SourceFile      string
	CreatedAt       time.Time
}

// MonthKey returns the "YYYY-MM" pay period of the document.
func (d Document) MonthKey() string {
	return d.PaymentDate.Format("2006-01")
}

// ClassifiedItem is one rendered payslip line.
type ClassifiedItem struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          mapping.Category `json:"type"`
	Value         any              `json:"value"`
	Order         float64          `json:"order"`
	Source        Source           `json:"source"`
	ShowZeroValue bool             `json:"show_zero_value"`
}

// Classified is a document split into its payslip sections.
type Classified struct {
	Income     []ClassifiedItem `json:"income"`
	Deduction  []ClassifiedItem `json:"deduction"`
	Attendance []ClassifiedItem `json:"attendance"`
	Total      []ClassifiedItem `json:"total"`
	Other      []ClassifiedItem `json:"other,omitempty"`
}

// Section returns the items of one category.
func (c Classified) Section(category mapping.Category) []ClassifiedItem {
	switch category {
	case mapping.CategoryIncome:
		return c.Income
	case mapping.CategoryDeduction:
		return c.Deduction
	case mapping.CategoryAttendance:
		return c.Attendance
	case mapping.CategoryTotal:
		return c.Total
	case mapping.CategoryOther:
		return c.Other
	default:
		return nil
	}
}

// All flattens the sections in rendering order.
func (c Classified) All() []ClassifiedItem {
	out := make([]ClassifiedItem, 0, len(c.Income)+len(c.Deduction)+len(c.Attendance)+len(c.Total)+len(c.Other))
	out = append(out, c.Income...)
	out = append(out, c.Deduction...)
	out = append(out, c.Attendance...)
	out = append(out, c.Total...)
	out = append(out, c.Other...)
	return out
}
