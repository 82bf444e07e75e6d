package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMappingInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	salary := filepath.Join(dir, "salary.yaml")
	integration := filepath.Join(dir, "integration.yaml")

	_, err := run(t, "mapping", "init", "--kind", "salary", "-o", salary)
	require.NoError(t, err)
	_, err = run(t, "mapping", "init", "--integration", "-o", integration)
	require.NoError(t, err)

	data, err := os.ReadFile(salary)
	require.NoError(t, err)
	assert.Contains(t, string(data), "header_name: BASE_SALARY")

	out, err := run(t, "mapping", "validate", salary, integration)
	require.NoError(t, err)
	assert.Contains(t, out, salary+": ok")
	assert.Contains(t, out, integration+": ok")
}

func TestMappingInit_UnknownKind(t *testing.T) {
	_, err := run(t, "mapping", "init", "--kind", "overtime")
	assert.Error(t, err)
}

func TestMappingValidate_ReportsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	overlap := writeFile(t, dir, "integration.yaml", "show_separately: [BONUS_BASE]\nmerge_with_salary: [BONUS_BASE]\n")
	badOrder := writeFile(t, dir, "salary.yaml", "kind: salary\nincome_items:\n  - header_name: BASE\n    display_order: first\n")

	out, err := run(t, "mapping", "validate", overlap, badOrder)

	require.Error(t, err)
	assert.Contains(t, out, "already listed in show_separately")
	assert.Contains(t, out, "income_items[0].display_order: must be a number")
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	mappingFile := writeFile(t, dir, "salary.yaml", `kind: salary
income_items:
  - header_name: BASE
    item_name: Base Pay
    display_order: 1
attendance_items:
  - header_name: HOURS
    item_name: Overtime Hours
    display_order: 1
`)
	csv := writeFile(t, dir, "june.csv", "employee_id,BASE,HOURS\nE001,300000,8:30\nE002,250000,0:00\n")

	out, err := run(t, "classify", "--mapping", mappingFile, "--csv", csv, "--payment-date", "2024-06-25", "--employee", "E001")
	require.NoError(t, err)

	var got []struct {
		EmployeeID string `json:"employee_id"`
		Period     string `json:"period"`
		Income     []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"income"`
		Attendance []struct {
			Value string `json:"value"`
		} `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "E001", got[0].EmployeeID)
	assert.Equal(t, "2024-06", got[0].Period)
	require.Len(t, got[0].Income, 1)
	assert.Equal(t, "Base Pay", got[0].Income[0].Name)
	assert.Equal(t, "300000", got[0].Income[0].Value)
	assert.Equal(t, "8:30", got[0].Attendance[0].Value)
}

func TestLedger_JSONAndXLSX(t *testing.T) {
	dir := t.TempDir()
	salaryMapping := writeFile(t, dir, "salary.yaml", "kind: salary\nincome_items:\n  - header_name: BASE\n    item_name: Base Pay\n    display_order: 1\n")
	bonusMapping := writeFile(t, dir, "bonus.yaml", "kind: bonus\nincome_items:\n  - header_name: BONUS_BASE\n    item_name: Base Pay\n    display_order: 1\n")
	integration := writeFile(t, dir, "integration.yaml", "merge_with_salary: [BONUS_BASE]\n")
	june := writeFile(t, dir, "june.csv", "employee_id,BASE\nE001,300000\nE002,1\n")
	july := writeFile(t, dir, "july.csv", "employee_id,BASE\nE001,300000\n")
	bonus := writeFile(t, dir, "bonus.csv", "employee_id,BONUS_BASE\nE001,50000\n")

	args := []string{
		"ledger", "--employee", "E001", "--type", "integrated", "--start", "2024-06", "--end", "2024-07",
		"--salary-mapping", salaryMapping, "--bonus-mapping", bonusMapping, "--integration", integration,
		"--salary-csv", "2024-06-25=" + june, "--salary-csv", "2024-07-25=" + july,
		"--bonus-csv", "2024-06-30=" + bonus,
	}

	out, err := run(t, args...)
	require.NoError(t, err)

	var resp ledger.LedgerResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"2024-06", "2024-07"}, resp.Months)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Base Pay", resp.Rows[0].ItemName)
	require.NotNil(t, resp.Rows[0].Total)
	assert.Equal(t, "650000", resp.Rows[0].Total.String())

	xlsx := filepath.Join(dir, "ledger.xlsx")
	_, err = run(t, append(args, "-o", xlsx)...)
	require.NoError(t, err)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue("Ledger", "C4")
	require.NoError(t, err)
	assert.Equal(t, "350000", value)
}

func TestLedger_RejectsThirteenMonths(t *testing.T) {
	_, err := run(t, "ledger", "--employee", "E001", "--start", "2024-01", "--end", "2025-01")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "period must not exceed 12 months")
}

func TestParseDatedFile(t *testing.T) {
	date, path, err := parseDatedFile("2024-06-25=exports/june.csv")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-25", date)
	assert.Equal(t, "exports/june.csv", path)

	_, _, err = parseDatedFile("exports/june.csv")
	assert.Error(t, err)
}
