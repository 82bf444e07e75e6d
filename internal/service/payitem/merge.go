package payitem

import (
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
)

// BonusOrderOffset pushes rows created from bonus items below every salary
// row of the same category, including rules sorted at MalformedOrder.
const BonusOrderOffset = 1000

type itemKey struct {
	name     string
	category mapping.Category
}

type itemPos struct {
	category mapping.Category
	index    int
}

// MergeMonth folds one calendar month's classified bonus items into the same
// month's classified salary items. Callers pass a single month; nothing is
// carried between calls.
//
// Per bonus item, looked up by header name in the integration config:
//   - show separately: a new row named prefix+name with source bonus, kept
//     apart from any salary item that already carries that name.
//   - merge with salary: summed into the salary item with the same display
//     name and category, which becomes source integrated. Without such an
//     item a new row named after the bonus item is added with source bonus.
//   - anything else is hidden.
//
// Matching is by display name, so renaming a salary item silently turns a
// merge into a separate row. Rows created here that share a name and
// category accumulate, so the result does not depend on bonus item order.
func MergeMonth(salary, bonus payslip.Classified, integration *mapping.IntegrationConfig) payslip.Classified {
	merged := cloneClassified(salary)

	salaryIndex := make(map[itemKey]itemPos)
	for _, category := range sectionOrder {
		for i, item := range merged.Section(category) {
			k := itemKey{item.Name, item.Type}
			if _, ok := salaryIndex[k]; !ok {
				salaryIndex[k] = itemPos{category: category, index: i}
			}
		}
	}
	// Rows added for bonus items. Separate rows never join a salary item,
	// even when the prefixed name happens to match one.
	created := make(map[itemKey]itemPos)

	for _, b := range bonus.All() {
		item := b
		item.Source = payslip.SourceBonus
		k := itemKey{b.Name, b.Type}

		switch integration.Disposition(b.ID) {
		case mapping.DispositionSeparate:
			item.Name = integration.Prefix() + b.Name
			k.name = item.Name
		case mapping.DispositionMerge:
			if pos, ok := salaryIndex[k]; ok {
				section := sectionOf(&merged, pos.category)
				(*section)[pos.index] = accumulate((*section)[pos.index], item)
				continue
			}
		default:
			continue
		}

		if pos, ok := created[k]; ok {
			section := sectionOf(&merged, pos.category)
			existing := (*section)[pos.index]
			existing.Order = min(existing.Order, b.Order+BonusOrderOffset)
			(*section)[pos.index] = accumulate(existing, item)
			continue
		}

		item.Order = b.Order + BonusOrderOffset
		section := sectionOf(&merged, item.Type)
		*section = append(*section, item)
		created[k] = itemPos{category: item.Type, index: len(*section) - 1}
	}

	return merged
}

// accumulate adds incoming to existing. Missing and non-numeric values count
// as zero once two values meet.
func accumulate(existing, incoming payslip.ClassifiedItem) payslip.ClassifiedItem {
	sum := payslip.NumericOrZero(existing.Value).Add(payslip.NumericOrZero(incoming.Value))
	existing.Value = sum
	if existing.Source != incoming.Source {
		existing.Source = payslip.SourceIntegrated
	}
	return existing
}

var sectionOrder = []mapping.Category{
	mapping.CategoryIncome,
	mapping.CategoryDeduction,
	mapping.CategoryAttendance,
	mapping.CategoryTotal,
	mapping.CategoryOther,
}

func sectionOf(c *payslip.Classified, category mapping.Category) *[]payslip.ClassifiedItem {
	switch category {
	case mapping.CategoryIncome:
		return &c.Income
	case mapping.CategoryDeduction:
		return &c.Deduction
	case mapping.CategoryAttendance:
		return &c.Attendance
	case mapping.CategoryTotal:
		return &c.Total
	default:
		return &c.Other
	}
}

func cloneClassified(c payslip.Classified) payslip.Classified {
	clone := func(items []payslip.ClassifiedItem) []payslip.ClassifiedItem {
		out := make([]payslip.ClassifiedItem, len(items))
		copy(out, items)
		return out
	}
	return payslip.Classified{
		Income:     clone(c.Income),
		Deduction:  clone(c.Deduction),
		Attendance: clone(c.Attendance),
		Total:      clone(c.Total),
		Other:      clone(c.Other),
	}
}
