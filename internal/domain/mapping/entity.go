package mapping

import (
	"slices"
	"strings"
	"time"
)

// Kind identifies which document family a mapping config applies to.
type Kind string

const (
	KindSalary Kind = "salary"
	KindBonus  Kind = "bonus"
)

func (k Kind) IsValid() bool {
	return k == KindSalary || k == KindBonus
}

// Category is the payslip section an item is rendered in.
type Category string

const (
	CategoryIncome     Category = "income"
	CategoryDeduction  Category = "deduction"
	CategoryAttendance Category = "attendance"
	CategoryTotal      Category = "total"
	// CategoryOther is only produced when a document is classified without a config.
	CategoryOther Category = "other"
)

// Categories lists the configurable categories in rendering order.
var Categories = []Category{CategoryIncome, CategoryDeduction, CategoryAttendance, CategoryTotal}

// Rank returns the rendering position of a category. Unknown categories sort last.
func (c Category) Rank() int {
	switch c {
	case CategoryIncome:
		return 0
	case CategoryDeduction:
		return 1
	case CategoryAttendance:
		return 2
	case CategoryTotal:
		return 3
	default:
		return 4
	}
}

// ItemRule maps one raw CSV header onto a named payslip item.
type ItemRule struct {
	HeaderName    string     `json:"header_name" yaml:"header_name"`
	ItemName      string     `json:"item_name,omitempty" yaml:"item_name,omitempty"`
	DisplayOrder  OrderValue `json:"display_order" yaml:"display_order,omitempty"`
	ColumnIndex   OrderValue `json:"column_index" yaml:"column_index,omitempty"`
	IsVisible     *bool      `json:"is_visible,omitempty" yaml:"is_visible,omitempty"`
	ShowZeroValue bool       `json:"show_zero_value" yaml:"show_zero_value,omitempty"`
}

// Visible reports whether the rule should be rendered. Rules default to visible.
func (r ItemRule) Visible() bool {
	return r.IsVisible == nil || *r.IsVisible
}

// DisplayName returns the trimmed item name, falling back to the header name.
func (r ItemRule) DisplayName() string {
	if name := strings.TrimSpace(r.ItemName); name != "" {
		return name
	}
	return r.HeaderName
}

// Config is a company's mapping for one document kind.
type Config struct {
	CompanyID       string     `json:"company_id,omitempty" yaml:"company_id,omitempty"`
	Kind            Kind       `json:"kind" yaml:"kind"`
	IncomeItems     []ItemRule `json:"income_items" yaml:"income_items"`
	DeductionItems  []ItemRule `json:"deduction_items" yaml:"deduction_items"`
	AttendanceItems []ItemRule `json:"attendance_items" yaml:"attendance_items"`
	TotalItems      []ItemRule `json:"total_items" yaml:"total_items"`
	UpdatedAt       time.Time  `json:"updated_at,omitempty" yaml:"-"`
}

// Rules returns the rule list configured for a category.
func (c *Config) Rules(category Category) []ItemRule {
	switch category {
	case CategoryIncome:
		return c.IncomeItems
	case CategoryDeduction:
		return c.DeductionItems
	case CategoryAttendance:
		return c.AttendanceItems
	case CategoryTotal:
		return c.TotalItems
	default:
		return nil
	}
}

// Clone returns a deep copy so a snapshot cannot be mutated through the live config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.IncomeItems = cloneRules(c.IncomeItems)
	out.DeductionItems = cloneRules(c.DeductionItems)
	out.AttendanceItems = cloneRules(c.AttendanceItems)
	out.TotalItems = cloneRules(c.TotalItems)
	return &out
}

func cloneRules(rules []ItemRule) []ItemRule {
	if rules == nil {
		return nil
	}
	out := slices.Clone(rules)
	for i := range out {
		if out[i].IsVisible != nil {
			v := *out[i].IsVisible
			out[i].IsVisible = &v
		}
	}
	return out
}

// Disposition is what happens to a bonus item in an integrated ledger.
type Disposition string

const (
	DispositionHidden   Disposition = "hidden"
	DispositionSeparate Disposition = "separate"
	DispositionMerge    Disposition = "merge"
)

// DefaultSeparatePrefix labels bonus rows shown beside salary rows.
const DefaultSeparatePrefix = "Bonus "

// IntegrationConfig decides how bonus items enter the integrated ledger.
// Entries are bonus header names.
type IntegrationConfig struct {
	CompanyID       string    `json:"company_id,omitempty" yaml:"company_id,omitempty"`
	ShowSeparately  []string  `json:"show_separately" yaml:"show_separately"`
	MergeWithSalary []string  `json:"merge_with_salary" yaml:"merge_with_salary"`
	SeparatePrefix  string    `json:"separate_prefix,omitempty" yaml:"separate_prefix,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// Disposition looks up a bonus header name. A nil config hides everything.
func (c *IntegrationConfig) Disposition(headerName string) Disposition {
	if c == nil {
		return DispositionHidden
	}
	if slices.Contains(c.ShowSeparately, headerName) {
		return DispositionSeparate
	}
	if slices.Contains(c.MergeWithSalary, headerName) {
		return DispositionMerge
	}
	return DispositionHidden
}

// Prefix returns the label prepended to separately shown bonus rows.
func (c *IntegrationConfig) Prefix() string {
	if c == nil || c.SeparatePrefix == "" {
		return DefaultSeparatePrefix
	}
	return c.SeparatePrefix
}
