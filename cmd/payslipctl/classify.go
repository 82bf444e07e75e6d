package main

import (
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/service/payitem"
	"github.com/spf13/cobra"
)

type classifiedPayslip struct {
	EmployeeID  string       `json:"employee_id"`
	Kind        mapping.Kind `json:"kind"`
	PaymentDate string       `json:"payment_date"`
	Period      string       `json:"period"`
	payslip.Classified
}

func newClassifyCmd() *cobra.Command {
	var (
		mappingFile    string
		csvFile        string
		kind           string
		paymentDate    string
		employeeColumn string
		employeeID     string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the classified payslips of a payroll export as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := mapping.Kind(kind)
			if !k.IsValid() {
				return fmt.Errorf("%w: %q", mapping.ErrInvalidKind, kind)
			}
			cfg, err := loadMapping(mappingFile, k)
			if err != nil {
				return err
			}
			docs, err := readDocuments(csvFile, k, paymentDate, employeeColumn)
			if err != nil {
				return err
			}

			out := make([]classifiedPayslip, 0, len(docs))
			for _, doc := range docs {
				if employeeID != "" && doc.EmployeeID != employeeID {
					continue
				}
				out = append(out, classifiedPayslip{
					EmployeeID:  doc.EmployeeID,
					Kind:        doc.Kind,
					PaymentDate: doc.PaymentDate.Format("2006-01-02"),
					Period:      doc.MonthKey(),
					Classified:  payitem.Classify(doc, cfg),
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&mappingFile, "mapping", "", "Mapping YAML file (raw headers are shown when omitted)")
	cmd.Flags().StringVar(&csvFile, "csv", "", "Payroll export CSV file")
	cmd.Flags().StringVar(&kind, "kind", string(mapping.KindSalary), "Document kind: salary or bonus")
	cmd.Flags().StringVar(&paymentDate, "payment-date", "", "Payment date, YYYY-MM-DD")
	cmd.Flags().StringVar(&employeeColumn, "employee-column", payslip.DefaultEmployeeColumn, "CSV column holding the employee id")
	cmd.Flags().StringVar(&employeeID, "employee", "", "Only print this employee")
	_ = cmd.MarkFlagRequired("csv")
	_ = cmd.MarkFlagRequired("payment-date")
	return cmd
}
