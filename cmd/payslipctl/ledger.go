package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	ledgerService "github.com/cmlabs-hris/payslip-ledger-go/internal/service/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/service/payitem"
	"github.com/spf13/cobra"
)

func newLedgerCmd() *cobra.Command {
	var (
		req             ledger.LedgerRequest
		ledgerType      string
		salaryMapping   string
		bonusMapping    string
		integrationFile string
		salaryCSVs      []string
		bonusCSVs       []string
		employeeColumn  string
		output          string
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Build an employee's wage ledger from payroll exports",
		Example: `  payslipctl ledger --employee E001 --type integrated --start 2024-01 --end 2024-12 \
    --salary-mapping salary.yaml --bonus-mapping bonus.yaml --integration integration.yaml \
    --salary-csv 2024-06-25=june.csv --bonus-csv 2024-06-30=summer_bonus.csv -o ledger.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Type = ledger.Type(ledgerType)
			period, err := req.Validate()
			if err != nil {
				return err
			}

			cfg := payitem.MatrixConfig{Type: req.Type}
			if cfg.Salary, err = loadMapping(salaryMapping, mapping.KindSalary); err != nil {
				return err
			}
			if cfg.Bonus, err = loadMapping(bonusMapping, mapping.KindBonus); err != nil {
				return err
			}
			if cfg.Integration, err = loadIntegration(integrationFile); err != nil {
				return err
			}

			var docs []payslip.Document
			for _, files := range []struct {
				kind   mapping.Kind
				values []string
			}{
				{mapping.KindSalary, salaryCSVs},
				{mapping.KindBonus, bonusCSVs},
			} {
				for _, value := range files.values {
					date, path, err := parseDatedFile(value)
					if err != nil {
						return err
					}
					fileDocs, err := readDocuments(path, files.kind, date, employeeColumn)
					if err != nil {
						return err
					}
					for _, doc := range fileDocs {
						if doc.EmployeeID == req.EmployeeID {
							docs = append(docs, doc)
						}
					}
				}
			}

			matrix, err := payitem.BuildMatrix(period, docs, cfg)
			if err != nil {
				return err
			}
			return writeLedger(cmd.OutOrStdout(), output, req, matrix)
		},
	}

	cmd.Flags().StringVar(&req.EmployeeID, "employee", "", "Employee id")
	cmd.Flags().StringVar(&ledgerType, "type", string(ledger.TypeSalary), "Ledger type: salary, bonus or integrated")
	cmd.Flags().StringVar(&req.Start, "start", "", "First month, YYYY-MM")
	cmd.Flags().StringVar(&req.End, "end", "", "Last month, YYYY-MM")
	cmd.Flags().StringVar(&salaryMapping, "salary-mapping", "", "Salary mapping YAML file")
	cmd.Flags().StringVar(&bonusMapping, "bonus-mapping", "", "Bonus mapping YAML file")
	cmd.Flags().StringVar(&integrationFile, "integration", "", "Integration YAML file")
	cmd.Flags().StringArrayVar(&salaryCSVs, "salary-csv", nil, "Salary export as PAYMENT_DATE=FILE (repeatable)")
	cmd.Flags().StringArrayVar(&bonusCSVs, "bonus-csv", nil, "Bonus export as PAYMENT_DATE=FILE (repeatable)")
	cmd.Flags().StringVar(&employeeColumn, "employee-column", payslip.DefaultEmployeeColumn, "CSV column holding the employee id")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to FILE; .xlsx files get a spreadsheet, anything else JSON")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func writeLedger(stdout io.Writer, output string, req ledger.LedgerRequest, matrix ledger.Matrix) error {
	w := stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if strings.EqualFold(filepath.Ext(output), ".xlsx") {
		if err := ledgerService.WriteXLSX(w, req, matrix); err != nil {
			return err
		}
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ledger.NewLedgerResponse(req, matrix)); err != nil {
			return err
		}
	}

	if w != stdout {
		fmt.Fprintf(stdout, "wrote %s\n", output)
	}
	return nil
}
