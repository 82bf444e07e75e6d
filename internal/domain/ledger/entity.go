package ledger

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/shopspring/decimal"
)

// Type selects which documents feed a wage ledger.
type Type string

const (
	TypeSalary     Type = "salary"
	TypeBonus      Type = "bonus"
	TypeIntegrated Type = "integrated"
)

func (t Type) IsValid() bool {
	return t == TypeSalary || t == TypeBonus || t == TypeIntegrated
}

// MaxMonths is the longest period a ledger may cover.
const MaxMonths = 12

// Placeholder is rendered for cells without data and for attendance totals.
const Placeholder = "–"

// Period is an inclusive range of calendar months.
type Period struct {
	StartYear  int
	StartMonth int
	EndYear    int
	EndMonth   int
}

// ParsePeriod parses two "YYYY-MM" month keys.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse("2006-01", start)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start %q is not YYYY-MM", ErrInvalidPeriod, start)
	}
	e, err := time.Parse("2006-01", end)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end %q is not YYYY-MM", ErrInvalidPeriod, end)
	}
	return Period{
		StartYear:  s.Year(),
		StartMonth: int(s.Month()),
		EndYear:    e.Year(),
		EndMonth:   int(e.Month()),
	}, nil
}

// Len is the number of months covered, counting both ends.
func (p Period) Len() int {
	return (p.EndYear*12 + p.EndMonth) - (p.StartYear*12 + p.StartMonth) + 1
}

// Validate rejects malformed ranges and ranges longer than MaxMonths.
func (p Period) Validate() error {
	if p.StartMonth < 1 || p.StartMonth > 12 || p.EndMonth < 1 || p.EndMonth > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidPeriod)
	}
	if p.Len() < 1 {
		return fmt.Errorf("%w: end is before start", ErrInvalidPeriod)
	}
	if p.Len() > MaxMonths {
		return fmt.Errorf("%w: %d months requested, at most %d allowed", ErrRangeTooLarge, p.Len(), MaxMonths)
	}
	return nil
}

// Months enumerates the "YYYY-MM" keys of the period in order.
func (p Period) Months() []string {
	n := p.Len()
	if n < 1 {
		return nil
	}
	months := make([]string, 0, n)
	cur := p.Start()
	for i := 0; i < n; i++ {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// Start is the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.StartYear, time.Month(p.StartMonth), 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant after the period in UTC.
func (p Period) End() time.Time {
	return time.Date(p.EndYear, time.Month(p.EndMonth), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d..%04d-%02d", p.StartYear, p.StartMonth, p.EndYear, p.EndMonth)
}

// Cell is one item's value in one month.
type Cell struct {
	Value   any            `json:"value"`
	HasData bool           `json:"has_data"`
	Source  payslip.Source `json:"source_type,omitempty"`
}

// Row is one ledger line across the period, keyed by display name and category.
type Row struct {
	ItemName      string           `json:"item_name"`
	ItemType      mapping.Category `json:"item_type"`
	ShowZeroValue bool             `json:"show_zero_value"`
	Order         float64          `json:"order"`
	Months        map[string]Cell  `json:"months"`
}

// Total sums the numeric cells that carry data. Attendance rows have no total.
func (r Row) Total() (decimal.Decimal, bool) {
	if r.ItemType == mapping.CategoryAttendance {
		return decimal.Zero, false
	}
	total := decimal.Zero
	for _, cell := range r.Months {
		if !cell.HasData {
			continue
		}
		total = total.Add(payslip.NumericOrZero(cell.Value))
	}
	return total, true
}

// Matrix is the item-by-month view of a ledger.
type Matrix struct {
	Months []string `json:"months"`
	Rows   []Row    `json:"rows"`
}

func (m Matrix) Empty() bool {
	return len(m.Rows) == 0
}
