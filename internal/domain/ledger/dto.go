package ledger

import (
	"errors"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type LedgerRequest struct {
	EmployeeID string `json:"employee_id"`
	Type       Type   `json:"type"`
	Start      string `json:"start"` // YYYY-MM
	End        string `json:"end"`   // YYYY-MM
}

// Validate checks the request and returns the parsed period.
func (r *LedgerRequest) Validate() (Period, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !r.Type.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of: salary, bonus, integrated"})
	}
	if !validator.IsValidMonth(r.Start) {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "must be in YYYY-MM format"})
	}
	if !validator.IsValidMonth(r.End) {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "must be in YYYY-MM format"})
	}
	if len(errs) > 0 {
		return Period{}, errs
	}

	period, err := ParsePeriod(r.Start, r.End)
	if err == nil {
		err = period.Validate()
	}
	if err != nil {
		msg := "end must not be before start"
		if errors.Is(err, ErrRangeTooLarge) {
			msg = "period must not exceed 12 months"
		}
		return Period{}, validator.ValidationErrors{{Field: "end", Message: msg}}
	}
	return period, nil
}

type RowResponse struct {
	ItemName      string           `json:"item_name"`
	ItemType      mapping.Category `json:"item_type"`
	ShowZeroValue bool             `json:"show_zero_value"`
	Months        map[string]Cell  `json:"months"`
	Total         *decimal.Decimal `json:"total"`
}

type LedgerResponse struct {
	EmployeeID string        `json:"employee_id"`
	Type       Type          `json:"type"`
	Start      string        `json:"start"`
	End        string        `json:"end"`
	Months     []string      `json:"months"`
	Rows       []RowResponse `json:"rows"`
}

func NewLedgerResponse(req LedgerRequest, m Matrix) LedgerResponse {
	rows := make([]RowResponse, 0, len(m.Rows))
	for _, row := range m.Rows {
		rr := RowResponse{
			ItemName:      row.ItemName,
			ItemType:      row.ItemType,
			ShowZeroValue: row.ShowZeroValue,
			Months:        row.Months,
		}
		if total, ok := row.Total(); ok {
			rr.Total = &total
		}
		rows = append(rows, rr)
	}
	return LedgerResponse{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		Start:      req.Start,
		End:        req.End,
		Months:     m.Months,
		Rows:       rows,
	}
}
