package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/csvimport"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaim):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, jwt.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Mapping domain errors
	case errors.Is(err, mapping.ErrMappingConfigNotFound):
		NotFound(w, "Mapping config not found")
	case errors.Is(err, mapping.ErrIntegrationConfigNotFound):
		NotFound(w, "Integration config not found")
	case errors.Is(err, mapping.ErrInvalidKind):
		BadRequest(w, "Kind must be salary or bonus", nil)

	// Payslip domain errors
	case errors.Is(err, payslip.ErrDocumentNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payslip.ErrDocumentAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payslip.ErrForbidden):
		Forbidden(w, "You can only view your own payslips")
	case errors.Is(err, payslip.ErrEmptyImport):
		BadRequest(w, "CSV file has no data rows", nil)
	case errors.Is(err, payslip.ErrEmployeeColumnMissing):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, csvimport.ErrDuplicateHeader), errors.Is(err, csvimport.ErrMissingColumn):
		BadRequest(w, err.Error(), nil)

	// Ledger domain errors
	case errors.Is(err, ledger.ErrForbidden):
		Forbidden(w, "You can only view your own wage ledger")
	case errors.Is(err, ledger.ErrRangeTooLarge):
		BadRequest(w, "Period must not exceed 12 months", nil)
	case errors.Is(err, ledger.ErrInvalidPeriod), errors.Is(err, ledger.ErrInvalidType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
