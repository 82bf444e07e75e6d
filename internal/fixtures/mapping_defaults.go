package fixtures

import (
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func boolPtr(b bool) *bool { return &b }

func item(header, name string, order float64) mapping.ItemRule {
	return mapping.ItemRule{HeaderName: header, ItemName: name, DisplayOrder: mapping.Order(order)}
}

// itemZero is an item that stays on the payslip even when it is zero.
func itemZero(header, name string, order float64) mapping.ItemRule {
	r := item(header, name, order)
	r.ShowZeroValue = true
	return r
}

// ==========================================
// DEFAULT SALARY MAPPING
// ==========================================

// GetDefaultSalaryMapping returns the mapping for the standard payroll export
// columns. New companies start from it and rename or hide items as needed.
func GetDefaultSalaryMapping(companyID string) *mapping.Config {
	return &mapping.Config{
		CompanyID: companyID,
		Kind:      mapping.KindSalary,
		IncomeItems: []mapping.ItemRule{
			itemZero("BASE_SALARY", "Base Pay", 1),
			item("POSITION_ALLOWANCE", "Position Allowance", 2),
			item("HOUSING_ALLOWANCE", "Housing Allowance", 3),
			item("FAMILY_ALLOWANCE", "Family Allowance", 4),
			item("COMMUTE_ALLOWANCE", "Commuting Allowance", 5),
			item("OVERTIME_PAY", "Overtime Pay", 6),
			item("NIGHT_SHIFT_PAY", "Night Shift Pay", 7),
			item("HOLIDAY_PAY", "Holiday Work Pay", 8),
		},
		DeductionItems: []mapping.ItemRule{
			item("HEALTH_INSURANCE", "Health Insurance", 1),
			item("PENSION_INSURANCE", "Pension Insurance", 2),
			item("EMPLOYMENT_INSURANCE", "Employment Insurance", 3),
			itemZero("INCOME_TAX", "Income Tax", 4),
			item("RESIDENT_TAX", "Resident Tax", 5),
			item("LATE_DEDUCTION", "Late Deduction", 6),
			item("ABSENCE_DEDUCTION", "Absence Deduction", 7),
		},
		AttendanceItems: []mapping.ItemRule{
			itemZero("WORKING_DAYS", "Working Days", 1),
			item("ABSENT_DAYS", "Absent Days", 2),
			item("PAID_LEAVE_DAYS", "Paid Leave Days", 3),
			item("REMAINING_LEAVE", "Remaining Paid Leave", 4),
			item("OVERTIME_HOURS", "Overtime Hours", 5),
			item("LATE_MINUTES", "Late Minutes", 6),
		},
		TotalItems: []mapping.ItemRule{
			itemZero("GROSS_PAY", "Gross Pay", 1),
			itemZero("TOTAL_DEDUCTION", "Total Deductions", 2),
			itemZero("NET_PAY", "Net Pay", 3),
			{HeaderName: "BANK_TRANSFER", ItemName: "Bank Transfer", DisplayOrder: mapping.Order(4), IsVisible: boolPtr(false)},
		},
	}
}

// ==========================================
// DEFAULT BONUS MAPPING
// ==========================================

// GetDefaultBonusMapping returns the mapping for the standard bonus export.
// Item names line up with the salary mapping so integrated ledgers can merge.
func GetDefaultBonusMapping(companyID string) *mapping.Config {
	return &mapping.Config{
		CompanyID: companyID,
		Kind:      mapping.KindBonus,
		IncomeItems: []mapping.ItemRule{
			itemZero("BONUS_BASE", "Base Pay", 1),
			item("BONUS_PERFORMANCE", "Performance Award", 2),
			item("BONUS_SPECIAL", "Special Bonus", 3),
		},
		DeductionItems: []mapping.ItemRule{
			item("BONUS_HEALTH_INSURANCE", "Health Insurance", 1),
			item("BONUS_PENSION_INSURANCE", "Pension Insurance", 2),
			item("BONUS_EMPLOYMENT_INSURANCE", "Employment Insurance", 3),
			itemZero("BONUS_INCOME_TAX", "Income Tax", 4),
		},
		AttendanceItems: []mapping.ItemRule{},
		TotalItems: []mapping.ItemRule{
			itemZero("BONUS_GROSS", "Gross Bonus", 1),
			itemZero("BONUS_NET", "Net Bonus", 2),
		},
	}
}

// GetDefaultMapping returns the default config for a kind, or nil for an
// unknown kind.
func GetDefaultMapping(companyID string, kind mapping.Kind) *mapping.Config {
	switch kind {
	case mapping.KindSalary:
		return GetDefaultSalaryMapping(companyID)
	case mapping.KindBonus:
		return GetDefaultBonusMapping(companyID)
	default:
		return nil
	}
}

// ==========================================
// DEFAULT INTEGRATION
// ==========================================

// GetDefaultIntegration folds the bonus base amount and statutory deductions
// into the matching salary rows and keeps award payments visible on their own.
func GetDefaultIntegration(companyID string) *mapping.IntegrationConfig {
	return &mapping.IntegrationConfig{
		CompanyID: companyID,
		MergeWithSalary: []string{
			"BONUS_BASE",
			"BONUS_HEALTH_INSURANCE",
			"BONUS_PENSION_INSURANCE",
			"BONUS_EMPLOYMENT_INSURANCE",
			"BONUS_INCOME_TAX",
		},
		ShowSeparately: []string{
			"BONUS_PERFORMANCE",
			"BONUS_SPECIAL",
		},
		SeparatePrefix: mapping.DefaultSeparatePrefix,
	}
}
