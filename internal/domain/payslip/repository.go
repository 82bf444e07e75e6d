package payslip

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
)

// DocumentRepository defines data access for imported payroll documents.
// All methods include companyID to prevent cross-company access.
type DocumentRepository interface {
	Create(ctx context.Context, doc Document) (Document, error)
	GetByID(ctx context.Context, id string, companyID string) (Document, error)
	List(ctx context.Context, companyID string, filter DocumentFilter) ([]Document, int64, error)
	Delete(ctx context.Context, id string, companyID string) error

	// ListForEmployee returns documents of one kind whose payment date falls in
	// [from, to), ordered by payment date.
	ListForEmployee(ctx context.Context, companyID, employeeID string, kind mapping.Kind, from, to time.Time) ([]Document, error)
}
