package payitem

import (
	"math/rand"
	"testing"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func period(t *testing.T, start, end string) ledger.Period {
	t.Helper()
	p, err := ledger.ParsePeriod(start, end)
	require.NoError(t, err)
	return p
}

func rowNames(m ledger.Matrix) []string {
	out := make([]string, 0, len(m.Rows))
	for _, r := range m.Rows {
		out = append(out, r.ItemName)
	}
	return out
}

func findRow(t *testing.T, m ledger.Matrix, name string) ledger.Row {
	t.Helper()
	for _, r := range m.Rows {
		if r.ItemName == name {
			return r
		}
	}
	require.Failf(t, "row not found", "no row named %q in %v", name, rowNames(m))
	return ledger.Row{}
}

func basePayConfigs() MatrixConfig {
	return MatrixConfig{
		Type: ledger.TypeIntegrated,
		Salary: &mapping.Config{
			Kind:            mapping.KindSalary,
			IncomeItems:     []mapping.ItemRule{rule("BASE", "Base Pay", 1)},
			DeductionItems:  []mapping.ItemRule{rule("TAX", "Income Tax", 1)},
			AttendanceItems: []mapping.ItemRule{rule("DAYS", "Working Days", 1)},
		},
		Bonus: &mapping.Config{
			Kind:        mapping.KindBonus,
			IncomeItems: []mapping.ItemRule{rule("BONUS_BASE", "Base Pay", 1), rule("BONUS_SPECIAL", "Special", 2)},
		},
		Integration: &mapping.IntegrationConfig{
			MergeWithSalary: []string{"BONUS_BASE"},
			ShowSeparately:  []string{"BONUS_SPECIAL"},
		},
	}
}

func TestBuildMatrix_IntegratedMergeIsolatedPerMonth(t *testing.T) {
	docs := []payslip.Document{
		salaryDoc("2024-06-25", map[string]any{"BASE": 300000, "TAX": 10000, "DAYS": 20}),
		salaryDoc("2024-07-25", map[string]any{"BASE": 300000, "TAX": 10000, "DAYS": 21}),
		bonusDoc("2024-06-30", map[string]any{"BONUS_BASE": 50000, "BONUS_SPECIAL": 20000}),
	}

	m, err := BuildMatrix(period(t, "2024-06", "2024-07"), docs, basePayConfigs())
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-06", "2024-07"}, m.Months)
	assert.Equal(t, []string{"Base Pay", "Bonus Special", "Income Tax", "Working Days"}, rowNames(m))

	base := findRow(t, m, "Base Pay")
	assertAmount(t, "350000", base.Months["2024-06"].Value)
	assert.Equal(t, payslip.SourceIntegrated, base.Months["2024-06"].Source)
	assertAmount(t, "300000", base.Months["2024-07"].Value)
	assert.Equal(t, payslip.SourceSalary, base.Months["2024-07"].Source)

	special := findRow(t, m, "Bonus Special")
	assert.True(t, special.Months["2024-06"].HasData)
	assert.Equal(t, payslip.SourceBonus, special.Months["2024-06"].Source)
	assert.False(t, special.Months["2024-07"].HasData)
}

func TestBuildMatrix_RejectsThirteenMonths(t *testing.T) {
	docs := []payslip.Document{salaryDoc("2024-06-25", map[string]any{"BASE": 1})}

	m, err := BuildMatrix(ledger.Period{StartYear: 2024, StartMonth: 1, EndYear: 2025, EndMonth: 1}, docs, basePayConfigs())

	require.ErrorIs(t, err, ledger.ErrRangeTooLarge)
	assert.Empty(t, m.Months)
	assert.Empty(t, m.Rows)
}

func TestBuildMatrix_RejectsInvalidPeriodAndType(t *testing.T) {
	_, err := BuildMatrix(ledger.Period{StartYear: 2024, StartMonth: 5, EndYear: 2024, EndMonth: 4}, nil, basePayConfigs())
	require.ErrorIs(t, err, ledger.ErrInvalidPeriod)

	_, err = BuildMatrix(period(t, "2024-01", "2024-12"), nil, MatrixConfig{Type: "weekly"})
	require.ErrorIs(t, err, ledger.ErrInvalidType)
}

func TestBuildMatrix_TwelveMonthsAcrossYearBoundary(t *testing.T) {
	m, err := BuildMatrix(period(t, "2024-04", "2025-03"), nil, basePayConfigs())
	require.NoError(t, err)

	require.Len(t, m.Months, 12)
	assert.Equal(t, "2024-04", m.Months[0])
	assert.Equal(t, "2024-12", m.Months[8])
	assert.Equal(t, "2025-01", m.Months[9])
	assert.Equal(t, "2025-03", m.Months[11])
	assert.NotNil(t, m.Rows)
	assert.Empty(t, m.Rows)
	assert.True(t, m.Empty())
}

func TestBuildMatrix_DenseMonths(t *testing.T) {
	cfg := basePayConfigs()
	cfg.Type = ledger.TypeSalary
	docs := []payslip.Document{salaryDoc("2024-02-25", map[string]any{"BASE": 300000})}

	m, err := BuildMatrix(period(t, "2024-01", "2024-03"), docs, cfg)
	require.NoError(t, err)

	base := findRow(t, m, "Base Pay")
	require.Len(t, base.Months, 3)
	for _, month := range []string{"2024-01", "2024-03"} {
		cell := base.Months[month]
		assert.False(t, cell.HasData, month)
		assertAmount(t, "0", cell.Value)
	}
	assert.True(t, base.Months["2024-02"].HasData)
}

func TestBuildMatrix_ZeroRowSuppression(t *testing.T) {
	cfg := MatrixConfig{
		Type: ledger.TypeSalary,
		Salary: &mapping.Config{
			Kind: mapping.KindSalary,
			IncomeItems: []mapping.ItemRule{
				rule("BASE", "Base Pay", 1),
				rule("ZERO", "Always Zero", 2),
				{HeaderName: "KEEP", ItemName: "Shown Even If Zero", DisplayOrder: mapping.Order(3), ShowZeroValue: true},
				rule("ONCE", "Paid Once", 4),
				rule("BLANK", "Blank", 5),
			},
		},
	}
	docs := []payslip.Document{
		salaryDoc("2024-01-25", map[string]any{"BASE": 1, "ZERO": 0, "KEEP": "0", "ONCE": 0, "BLANK": ""}),
		salaryDoc("2024-02-25", map[string]any{"BASE": 1, "ZERO": "0", "KEEP": 0, "ONCE": 500, "BLANK": " "}),
	}

	m, err := BuildMatrix(period(t, "2024-01", "2024-03"), docs, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Base Pay", "Shown Even If Zero", "Paid Once"}, rowNames(m))
}

func TestBuildMatrix_ShowZeroValueKeepsRowWithoutData(t *testing.T) {
	cfg := MatrixConfig{
		Type: ledger.TypeSalary,
		Salary: &mapping.Config{
			Kind:        mapping.KindSalary,
			IncomeItems: []mapping.ItemRule{{HeaderName: "KEEP", ItemName: "Keep", ShowZeroValue: true}},
		},
	}
	docs := []payslip.Document{salaryDoc("2024-01-25", map[string]any{"KEEP": 0})}

	m, err := BuildMatrix(period(t, "2024-01", "2024-02"), docs, cfg)
	require.NoError(t, err)

	row := findRow(t, m, "Keep")
	total, ok := row.Total()
	require.True(t, ok)
	assert.True(t, total.IsZero())
}

func TestBuildMatrix_FirstOccurrenceDefinesRow(t *testing.T) {
	june := salaryDoc("2024-06-25", map[string]any{"BASE": 0})
	june.OriginalMapping = &mapping.Config{
		Kind:        mapping.KindSalary,
		IncomeItems: []mapping.ItemRule{{HeaderName: "BASE", ItemName: "Base Pay", DisplayOrder: mapping.Order(1), ShowZeroValue: true}},
	}
	july := salaryDoc("2024-07-25", map[string]any{"BASE": 0})
	july.OriginalMapping = &mapping.Config{
		Kind:        mapping.KindSalary,
		IncomeItems: []mapping.ItemRule{{HeaderName: "BASE", ItemName: "Base Pay", DisplayOrder: mapping.Order(9)}},
	}

	m, err := BuildMatrix(period(t, "2024-06", "2024-07"), []payslip.Document{july, june}, MatrixConfig{Type: ledger.TypeSalary})
	require.NoError(t, err)

	row := findRow(t, m, "Base Pay")
	assert.True(t, row.ShowZeroValue)
	assert.Equal(t, float64(1), row.Order)
}

func TestBuildMatrix_Totals(t *testing.T) {
	cfg := basePayConfigs()
	cfg.Type = ledger.TypeSalary
	docs := []payslip.Document{
		salaryDoc("2024-01-25", map[string]any{"BASE": "300,000", "TAX": 10000, "DAYS": 20}),
		salaryDoc("2024-03-25", map[string]any{"BASE": 310000, "TAX": "n/a", "DAYS": 22}),
	}

	m, err := BuildMatrix(period(t, "2024-01", "2024-03"), docs, cfg)
	require.NoError(t, err)

	total, ok := findRow(t, m, "Base Pay").Total()
	require.True(t, ok)
	assertAmount(t, "610000", total)

	total, ok = findRow(t, m, "Income Tax").Total()
	require.True(t, ok)
	assertAmount(t, "10000", total)

	_, ok = findRow(t, m, "Working Days").Total()
	assert.False(t, ok)
}

func TestBuildMatrix_LedgerTypeSelectsDocuments(t *testing.T) {
	docs := []payslip.Document{
		salaryDoc("2024-06-25", map[string]any{"BASE": 300000}),
		bonusDoc("2024-06-30", map[string]any{"BONUS_BASE": 50000}),
	}

	cfg := basePayConfigs()
	cfg.Type = ledger.TypeSalary
	m, err := BuildMatrix(period(t, "2024-06", "2024-06"), docs, cfg)
	require.NoError(t, err)
	assertAmount(t, "300000", findRow(t, m, "Base Pay").Months["2024-06"].Value)

	cfg.Type = ledger.TypeBonus
	m, err = BuildMatrix(period(t, "2024-06", "2024-06"), docs, cfg)
	require.NoError(t, err)
	cell := findRow(t, m, "Base Pay").Months["2024-06"]
	assertAmount(t, "50000", cell.Value)
	assert.Equal(t, payslip.SourceBonus, cell.Source)
}

func TestBuildMatrix_BonusOnlyMonthInIntegratedLedger(t *testing.T) {
	docs := []payslip.Document{bonusDoc("2024-12-10", map[string]any{"BONUS_BASE": 50000})}

	m, err := BuildMatrix(period(t, "2024-12", "2024-12"), docs, basePayConfigs())
	require.NoError(t, err)

	cell := findRow(t, m, "Base Pay").Months["2024-12"]
	assertAmount(t, "50000", cell.Value)
	assert.Equal(t, payslip.SourceBonus, cell.Source)
}

func TestBuildMatrix_IgnoresDocumentsOutsidePeriod(t *testing.T) {
	cfg := basePayConfigs()
	cfg.Type = ledger.TypeSalary
	docs := []payslip.Document{
		salaryDoc("2023-12-25", map[string]any{"BASE": 1}),
		salaryDoc("2025-01-25", map[string]any{"BASE": 1}),
	}

	m, err := BuildMatrix(period(t, "2024-01", "2024-12"), docs, cfg)
	require.NoError(t, err)
	assert.Empty(t, m.Rows)
}

func TestBuildMatrix_SameMonthDocumentsAccumulate(t *testing.T) {
	cfg := basePayConfigs()
	cfg.Type = ledger.TypeSalary
	first := salaryDoc("2024-06-10", map[string]any{"BASE": 100000})
	second := salaryDoc("2024-06-25", map[string]any{"BASE": 200000})

	m, err := BuildMatrix(period(t, "2024-06", "2024-06"), []payslip.Document{second, first}, cfg)
	require.NoError(t, err)

	assertAmount(t, "300000", findRow(t, m, "Base Pay").Months["2024-06"].Value)
}

func TestBuildMatrix_PassThroughWithoutConfig(t *testing.T) {
	docs := []payslip.Document{salaryDoc("2024-06-25", map[string]any{"Basic": 300000, "Tax": 0})}

	m, err := BuildMatrix(period(t, "2024-06", "2024-06"), docs, MatrixConfig{Type: ledger.TypeSalary})
	require.NoError(t, err)

	assert.Equal(t, []string{"Basic"}, rowNames(m))
	assert.Equal(t, mapping.CategoryOther, m.Rows[0].ItemType)
}

func TestBuildMatrix_Deterministic(t *testing.T) {
	docs := []payslip.Document{
		salaryDoc("2024-01-25", map[string]any{"BASE": 300000, "TAX": 1, "DAYS": 20}),
		salaryDoc("2024-02-25", map[string]any{"BASE": 300000, "TAX": 2, "DAYS": 19}),
		salaryDoc("2024-03-25", map[string]any{"BASE": 305000, "TAX": 3, "DAYS": 21}),
		bonusDoc("2024-02-28", map[string]any{"BONUS_BASE": 40000, "BONUS_SPECIAL": 10}),
		bonusDoc("2024-03-28", map[string]any{"BONUS_SPECIAL": 20}),
	}
	p := period(t, "2024-01", "2024-06")

	want, err := BuildMatrix(p, docs, basePayConfigs())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]payslip.Document(nil), docs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := BuildMatrix(p, shuffled, basePayConfigs())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
