// Command payslipctl classifies payroll exports and builds wage ledgers
// offline, from CSV files and YAML mapping files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
