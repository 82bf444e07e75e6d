package payslip

import "errors"

var (
	ErrDocumentNotFound      = errors.New("payslip document not found")
	ErrDocumentAlreadyExists = errors.New("payslip document already exists for this employee and period")
	ErrEmptyImport           = errors.New("csv file has no data rows")
	ErrEmployeeColumnMissing = errors.New("employee column not found in csv header")
	ErrForbidden             = errors.New("payslip belongs to another employee")
)
