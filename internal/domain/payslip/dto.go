package payslip

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/validator"
)

// DefaultEmployeeColumn is the CSV header holding the employee id when the
// upload does not name one.
const DefaultEmployeeColumn = "employee_id"

// ArchivePrefix is the storage prefix under which uploaded exports are kept.
const ArchivePrefix = "imports"

// ========== IMPORT DTOs ==========

type ImportRequest struct {
	Kind           mapping.Kind          `json:"kind"`
	PaymentDate    string                `json:"payment_date"`
	EmployeeColumn string                `json:"employee_column,omitempty"`
	File           multipart.File        `json:"-"`
	FileHeader     *multipart.FileHeader `json:"-"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of: salary, bonus"})
	}
	if validator.IsEmpty(r.PaymentDate) {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "payment_date is required"})
	} else if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.File == nil || r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "file is required"})
	} else if ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename)); ext != ".csv" {
		errs = append(errs, validator.ValidationError{Field: "file", Message: "only .csv files are accepted"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Column returns the employee id header for this upload.
func (r *ImportRequest) Column() string {
	if c := strings.TrimSpace(r.EmployeeColumn); c != "" {
		return c
	}
	return DefaultEmployeeColumn
}

type SkippedRow struct {
	Row        int    `json:"row"`
	EmployeeID string `json:"employee_id,omitempty"`
	Reason     string `json:"reason"`
}

type ImportResponse struct {
	Kind        mapping.Kind `json:"kind"`
	PaymentDate string       `json:"payment_date"`
	SourceFile  string       `json:"source_file"`
	Imported    int          `json:"imported"`
	Skipped     []SkippedRow `json:"skipped"`
	// FrozenMapping is false when no config existed and documents will be
	// shown with the raw column names.
	FrozenMapping bool `json:"frozen_mapping"`
}

// ========== QUERY DTOs ==========

type DocumentFilter struct {
	EmployeeID *string
	Kind       *mapping.Kind
	From       *string // YYYY-MM
	To         *string // YYYY-MM
	Page       int
	Limit      int
}

func (f *DocumentFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Kind != nil && !f.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be one of: salary, bonus"})
	}
	if f.From != nil && !validator.IsValidMonth(*f.From) {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "must be in YYYY-MM format"})
	}
	if f.To != nil && !validator.IsValidMonth(*f.To) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "must be in YYYY-MM format"})
	}
	if f.From != nil && f.To != nil && *f.To < *f.From {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "must not be before from"})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "must be positive"})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize fills paging defaults.
func (f *DocumentFilter) Normalize() {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
}

type DocumentResponse struct {
	ID          string       `json:"id"`
	EmployeeID  string       `json:"employee_id"`
	Kind        mapping.Kind `json:"kind"`
	PaymentDate string       `json:"payment_date"`
	Period      string       `json:"period"`
	SourceFile  string       `json:"source_file,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ListDocumentsResponse struct {
	Documents  []DocumentResponse `json:"documents"`
	TotalItems int64              `json:"total_items"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

type ClassifiedResponse struct {
	DocumentResponse
	Classified
}

func NewDocumentResponse(d Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		Kind:        d.Kind,
		PaymentDate: d.PaymentDate.Format("2006-01-02"),
		Period:      d.MonthKey(),
		SourceFile:  d.SourceFile,
		CreatedAt:   d.CreatedAt,
	}
}
