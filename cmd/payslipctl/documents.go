package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/csvimport"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/validator"
)

// readDocuments turns every row of a payroll export into a document, the
// same way the API import does. Rows without an employee id are skipped.
func readDocuments(path string, kind mapping.Kind, paymentDate, employeeColumn string) ([]payslip.Document, error) {
	paid, ok := validator.IsValidDate(paymentDate)
	if !ok {
		return nil, fmt.Errorf("payment date %q must be YYYY-MM-DD", paymentDate)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := csvimport.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := table.RequireColumn(employeeColumn); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	columns := table.ItemColumns(employeeColumn)
	docs := make([]payslip.Document, 0, len(table.Rows))
	for _, row := range table.Rows {
		employeeID := strings.TrimSpace(row.Values[employeeColumn])
		if employeeID == "" {
			continue
		}
		docs = append(docs, payslip.Document{
			ID:          fmt.Sprintf("%s:%d", path, row.Line),
			EmployeeID:  employeeID,
			Kind:        kind,
			PaymentDate: paid,
			Items:       row.Items(employeeColumn),
			Columns:     columns,
			SourceFile:  path,
		})
	}
	return docs, nil
}

// parseDatedFile splits a "YYYY-MM-DD=path" flag value.
func parseDatedFile(value string) (date, path string, err error) {
	date, path, ok := strings.Cut(value, "=")
	if !ok || date == "" || path == "" {
		return "", "", fmt.Errorf("%q must look like YYYY-MM-DD=FILE", value)
	}
	return date, path, nil
}
