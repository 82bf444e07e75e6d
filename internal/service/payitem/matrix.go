package payitem

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/shopspring/decimal"
)

// MatrixConfig carries everything BuildMatrix needs besides the documents.
// Nil configs are allowed and mean "classify without a mapping".
type MatrixConfig struct {
	Type        ledger.Type
	Salary      *mapping.Config
	Bonus       *mapping.Config
	Integration *mapping.IntegrationConfig
}

// BuildMatrix produces the item-by-month ledger for a period.
//
// The period is validated before any document is looked at. Every month of
// the period appears in every row; months without a value hold a zero cell
// with HasData false. Rows are keyed by display name and category, and the
// first occurrence across the period fixes a row's order and ShowZeroValue.
// A row whose ShowZeroValue is false is dropped when all its cells are empty
// or zero. Documents outside the period are ignored.
func BuildMatrix(period ledger.Period, docs []payslip.Document, cfg MatrixConfig) (ledger.Matrix, error) {
	if err := period.Validate(); err != nil {
		return ledger.Matrix{}, err
	}
	if !cfg.Type.IsValid() {
		return ledger.Matrix{}, fmt.Errorf("%w: %q", ledger.ErrInvalidType, cfg.Type)
	}

	months := period.Months()
	byMonth := groupByMonth(months, docs, cfg.Type)

	rows := newRowSet()
	for _, month := range months {
		group, ok := byMonth[month]
		if !ok {
			continue
		}

		var items []payslip.ClassifiedItem
		switch cfg.Type {
		case ledger.TypeSalary:
			items = classifyGroup(group.salary, cfg.Salary).All()
		case ledger.TypeBonus:
			items = classifyGroup(group.bonus, cfg.Bonus).All()
		case ledger.TypeIntegrated:
			salary := classifyGroup(group.salary, cfg.Salary)
			bonus := classifyGroup(group.bonus, cfg.Bonus)
			items = MergeMonth(salary, bonus, cfg.Integration).All()
		}

		for _, item := range items {
			rows.add(month, item)
		}
	}

	return ledger.Matrix{
		Months: months,
		Rows:   rows.build(months),
	}, nil
}

type monthGroup struct {
	salary []payslip.Document
	bonus  []payslip.Document
}

func groupByMonth(months []string, docs []payslip.Document, t ledger.Type) map[string]*monthGroup {
	inRange := make(map[string]bool, len(months))
	for _, m := range months {
		inRange[m] = true
	}

	groups := make(map[string]*monthGroup)
	for _, doc := range docs {
		month := doc.MonthKey()
		if !inRange[month] {
			continue
		}
		wantSalary := doc.Kind == mapping.KindSalary && (t == ledger.TypeSalary || t == ledger.TypeIntegrated)
		wantBonus := doc.Kind == mapping.KindBonus && (t == ledger.TypeBonus || t == ledger.TypeIntegrated)
		if !wantSalary && !wantBonus {
			continue
		}

		g, ok := groups[month]
		if !ok {
			g = &monthGroup{}
			groups[month] = g
		}
		if wantSalary {
			g.salary = append(g.salary, doc)
		} else {
			g.bonus = append(g.bonus, doc)
		}
	}

	for _, g := range groups {
		sortDocuments(g.salary)
		sortDocuments(g.bonus)
	}
	return groups
}

// sortDocuments fixes the processing order of documents sharing a month so
// the caller's fetch order cannot change the result.
func sortDocuments(docs []payslip.Document) {
	slices.SortStableFunc(docs, func(a, b payslip.Document) int {
		if c := a.PaymentDate.Compare(b.PaymentDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// classifyGroup classifies the documents of one kind in one month and
// concatenates their sections. Usually there is a single document.
func classifyGroup(docs []payslip.Document, cfg *mapping.Config) payslip.Classified {
	var out payslip.Classified
	for _, doc := range docs {
		c := Classify(doc, cfg)
		out.Income = append(out.Income, c.Income...)
		out.Deduction = append(out.Deduction, c.Deduction...)
		out.Attendance = append(out.Attendance, c.Attendance...)
		out.Total = append(out.Total, c.Total...)
		out.Other = append(out.Other, c.Other...)
	}
	return out
}

type rowEntry struct {
	row ledger.Row
	seq int
}

type rowSet struct {
	entries map[itemKey]*rowEntry
	order   []*rowEntry
}

func newRowSet() *rowSet {
	return &rowSet{entries: make(map[itemKey]*rowEntry)}
}

func (s *rowSet) add(month string, item payslip.ClassifiedItem) {
	k := itemKey{item.Name, item.Type}
	e, ok := s.entries[k]
	if !ok {
		e = &rowEntry{
			row: ledger.Row{
				ItemName:      item.Name,
				ItemType:      item.Type,
				ShowZeroValue: item.ShowZeroValue,
				Order:         item.Order,
				Months:        make(map[string]ledger.Cell),
			},
			seq: len(s.order),
		}
		s.entries[k] = e
		s.order = append(s.order, e)
	}

	cell, exists := e.row.Months[month]
	if !exists {
		e.row.Months[month] = ledger.Cell{Value: item.Value, HasData: true, Source: item.Source}
		return
	}

	// Two values for the same row in one month: sum when both are numeric,
	// otherwise the first one stays.
	a, aok := payslip.Numeric(cell.Value)
	b, bok := payslip.Numeric(item.Value)
	if aok && bok {
		cell.Value = a.Add(b)
		if cell.Source != item.Source {
			cell.Source = payslip.SourceIntegrated
		}
		e.row.Months[month] = cell
	}
}

func (s *rowSet) build(months []string) []ledger.Row {
	kept := make([]*rowEntry, 0, len(s.order))
	for _, e := range s.order {
		for _, month := range months {
			if _, ok := e.row.Months[month]; !ok {
				e.row.Months[month] = ledger.Cell{Value: decimal.Zero, HasData: false}
			}
		}
		if !e.row.ShowZeroValue && allEmpty(e.row) {
			continue
		}
		kept = append(kept, e)
	}

	slices.SortStableFunc(kept, func(a, b *rowEntry) int {
		if c := cmp.Compare(a.row.ItemType.Rank(), b.row.ItemType.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.row.Order, b.row.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	rows := make([]ledger.Row, 0, len(kept))
	for _, e := range kept {
		rows = append(rows, e.row)
	}
	return rows
}

func allEmpty(row ledger.Row) bool {
	for _, cell := range row.Months {
		if cell.HasData && !payslip.IsZeroValue(cell.Value) {
			return false
		}
	}
	return true
}
