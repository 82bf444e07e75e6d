// Package payitem turns raw payroll documents into payslip sections and
// multi-month wage ledgers. Everything here is pure: callers fetch configs and
// documents and pass them in, and identical inputs give identical output.
package payitem

import (
	"slices"
	"sort"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
)

// Classify splits a document into its payslip sections.
//
// A mapping frozen on the document at import time takes precedence over cfg.
// With no mapping at all, every raw item is passed through under
// CategoryOther and named after its header, null values included.
func Classify(doc payslip.Document, cfg *mapping.Config) payslip.Classified {
	if doc.OriginalMapping != nil {
		cfg = doc.OriginalMapping
	}
	source := payslip.SourceOf(doc.Kind)

	out := payslip.Classified{
		Income:     []payslip.ClassifiedItem{},
		Deduction:  []payslip.ClassifiedItem{},
		Attendance: []payslip.ClassifiedItem{},
		Total:      []payslip.ClassifiedItem{},
	}
	if cfg == nil {
		out.Other = passThrough(doc, source)
		return out
	}

	out.Income = classifyRules(doc.Items, cfg.IncomeItems, mapping.CategoryIncome, source)
	out.Deduction = classifyRules(doc.Items, cfg.DeductionItems, mapping.CategoryDeduction, source)
	out.Attendance = classifyRules(doc.Items, cfg.AttendanceItems, mapping.CategoryAttendance, source)
	out.Total = classifyRules(doc.Items, cfg.TotalItems, mapping.CategoryTotal, source)
	return out
}

func classifyRules(items map[string]any, rules []mapping.ItemRule, category mapping.Category, source payslip.Source) []payslip.ClassifiedItem {
	type ranked struct {
		rule mapping.ItemRule
		key  float64
	}

	ordered := make([]ranked, len(rules))
	for i, rule := range rules {
		ordered[i] = ranked{rule: rule, key: SortKey(rule, i)}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].key < ordered[j].key
	})

	out := make([]payslip.ClassifiedItem, 0, len(rules))
	for _, r := range ordered {
		if !r.rule.Visible() {
			continue
		}
		raw, ok := items[r.rule.HeaderName]
		if !ok || raw == nil {
			continue
		}
		out = append(out, payslip.ClassifiedItem{
			ID:            r.rule.HeaderName,
			Name:          r.rule.DisplayName(),
			Type:          category,
			Value:         normalizeValue(raw),
			Order:         r.key,
			Source:        source,
			ShowZeroValue: r.rule.ShowZeroValue,
		})
	}
	return out
}

// SortKey is display_order when numeric, else column_index when numeric,
// else the rule's position in its list. A hint that is present but not a
// finite number sorts at MalformedOrder.
func SortKey(rule mapping.ItemRule, position int) float64 {
	if v, ok := rule.DisplayOrder.Float(); ok {
		return v
	}
	if v, ok := rule.ColumnIndex.Float(); ok {
		return v
	}
	if rule.DisplayOrder.IsSet() || rule.ColumnIndex.IsSet() {
		return mapping.MalformedOrder
	}
	return float64(position)
}

// passThrough keeps CSV header order where known, then the remaining keys
// sorted so map iteration order never leaks into output.
func passThrough(doc payslip.Document, source payslip.Source) []payslip.ClassifiedItem {
	keys := make([]string, 0, len(doc.Items))
	seen := make(map[string]bool, len(doc.Items))
	for _, col := range doc.Columns {
		if _, ok := doc.Items[col]; ok && !seen[col] {
			keys = append(keys, col)
			seen[col] = true
		}
	}
	rest := make([]string, 0, len(doc.Items)-len(keys))
	for key := range doc.Items {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	keys = append(keys, rest...)

	out := make([]payslip.ClassifiedItem, 0, len(keys))
	for i, key := range keys {
		out = append(out, payslip.ClassifiedItem{
			ID:     key,
			Name:   key,
			Type:   mapping.CategoryOther,
			Value:  normalizeValue(doc.Items[key]),
			Order:  float64(i),
			Source: source,
		})
	}
	return out
}

// normalizeValue turns numeric cells into decimals and leaves text as-is.
func normalizeValue(raw any) any {
	if d, ok := payslip.Numeric(raw); ok {
		return d
	}
	return raw
}
