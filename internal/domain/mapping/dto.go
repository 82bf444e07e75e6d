package mapping

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/validator"
)

// ========== MAPPING CONFIG DTOs ==========

type UpsertConfigRequest struct {
	Kind            Kind       `json:"-"`
	IncomeItems     []ItemRule `json:"income_items"`
	DeductionItems  []ItemRule `json:"deduction_items"`
	AttendanceItems []ItemRule `json:"attendance_items"`
	TotalItems      []ItemRule `json:"total_items"`
}

func (r *UpsertConfigRequest) Validate() error {
	return r.ToConfig("").Validate()
}

func (r *UpsertConfigRequest) ToConfig(companyID string) *Config {
	return &Config{
		CompanyID:       companyID,
		Kind:            r.Kind,
		IncomeItems:     r.IncomeItems,
		DeductionItems:  r.DeductionItems,
		AttendanceItems: r.AttendanceItems,
		TotalItems:      r.TotalItems,
	}
}

// Validate checks a config before it is stored. Ordering hints are decoded
// leniently, but new writes must carry numbers.
func (c *Config) Validate() error {
	var errs validator.ValidationErrors

	if !c.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of: salary, bonus"})
	}

	for _, category := range Categories {
		// Header names are unique within a category. The same column may feed
		// several categories, e.g. gross pay as both income and total.
		seen := make(map[string]string)
		for i, rule := range c.Rules(category) {
			field := fmt.Sprintf("%s_items[%d]", category, i)

			if validator.IsEmpty(rule.HeaderName) {
				errs = append(errs, validator.ValidationError{Field: field + ".header_name", Message: "header_name is required"})
				continue
			}
			if prev, ok := seen[rule.HeaderName]; ok {
				errs = append(errs, validator.ValidationError{Field: field + ".header_name", Message: "duplicates " + prev})
			} else {
				seen[rule.HeaderName] = field
			}
			if rule.DisplayOrder.IsSet() && !rule.DisplayOrder.Valid() {
				errs = append(errs, validator.ValidationError{Field: field + ".display_order", Message: "must be a number"})
			}
			if rule.ColumnIndex.IsSet() && !rule.ColumnIndex.Valid() {
				errs = append(errs, validator.ValidationError{Field: field + ".column_index", Message: "must be a number"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== INTEGRATION CONFIG DTOs ==========

type UpsertIntegrationRequest struct {
	ShowSeparately  []string `json:"show_separately"`
	MergeWithSalary []string `json:"merge_with_salary"`
	SeparatePrefix  string   `json:"separate_prefix,omitempty"`
}

func (r *UpsertIntegrationRequest) Validate() error {
	return r.ToConfig("").Validate()
}

func (r *UpsertIntegrationRequest) ToConfig(companyID string) *IntegrationConfig {
	return &IntegrationConfig{
		CompanyID:       companyID,
		ShowSeparately:  r.ShowSeparately,
		MergeWithSalary: r.MergeWithSalary,
		SeparatePrefix:  r.SeparatePrefix,
	}
}

// Validate enforces that every bonus header has at most one disposition.
func (c *IntegrationConfig) Validate() error {
	var errs validator.ValidationErrors

	separate := make(map[string]bool, len(c.ShowSeparately))
	for i, name := range c.ShowSeparately {
		field := fmt.Sprintf("show_separately[%d]", i)
		switch {
		case validator.IsEmpty(name):
			errs = append(errs, validator.ValidationError{Field: field, Message: "header name is required"})
		case separate[name]:
			errs = append(errs, validator.ValidationError{Field: field, Message: "duplicate header name " + name})
		default:
			separate[name] = true
		}
	}

	merged := make(map[string]bool, len(c.MergeWithSalary))
	for i, name := range c.MergeWithSalary {
		field := fmt.Sprintf("merge_with_salary[%d]", i)
		switch {
		case validator.IsEmpty(name):
			errs = append(errs, validator.ValidationError{Field: field, Message: "header name is required"})
		case merged[name]:
			errs = append(errs, validator.ValidationError{Field: field, Message: "duplicate header name " + name})
		case separate[name]:
			errs = append(errs, validator.ValidationError{Field: field, Message: name + " is already listed in show_separately"})
		default:
			merged[name] = true
		}
	}

	if len(c.SeparatePrefix) > 0 && strings.TrimSpace(c.SeparatePrefix) == "" {
		errs = append(errs, validator.ValidationError{Field: "separate_prefix", Message: "must not be blank"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
