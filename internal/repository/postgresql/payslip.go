package postgresql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type documentRepository struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) payslip.DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `
	id, company_id, employee_id, kind, payment_date, items, columns, original_mapping, COALESCE(source_file, ''), created_at
`

// documentRow holds the JSONB columns until they are decoded.
type documentRow struct {
	doc             payslip.Document
	items           []byte
	originalMapping []byte
}

func (d *documentRow) targets() []any {
	return []any{
		&d.doc.ID, &d.doc.CompanyID, &d.doc.EmployeeID, &d.doc.Kind, &d.doc.PaymentDate,
		&d.items, &d.doc.Columns, &d.originalMapping, &d.doc.SourceFile, &d.doc.CreatedAt,
	}
}

// decode keeps numbers as json.Number so amounts never pass through float64.
func (d *documentRow) decode() (payslip.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(d.items))
	dec.UseNumber()
	if err := dec.Decode(&d.doc.Items); err != nil {
		return payslip.Document{}, fmt.Errorf("failed to decode document items: %w", err)
	}

	if len(d.originalMapping) > 0 && !bytes.Equal(d.originalMapping, []byte("null")) {
		var cfg mapping.Config
		if err := json.Unmarshal(d.originalMapping, &cfg); err != nil {
			return payslip.Document{}, fmt.Errorf("failed to decode original mapping: %w", err)
		}
		d.doc.OriginalMapping = &cfg
	}
	return d.doc, nil
}

func (r *documentRepository) Create(ctx context.Context, doc payslip.Document) (payslip.Document, error) {
	q := GetQuerier(ctx, r.db)

	items, err := json.Marshal(doc.Items)
	if err != nil {
		return payslip.Document{}, fmt.Errorf("failed to encode document items: %w", err)
	}
	var originalMapping []byte
	if doc.OriginalMapping != nil {
		if originalMapping, err = json.Marshal(doc.OriginalMapping); err != nil {
			return payslip.Document{}, fmt.Errorf("failed to encode original mapping: %w", err)
		}
	}
	columns := doc.Columns
	if columns == nil {
		columns = []string{}
	}
	var sourceFile *string
	if doc.SourceFile != "" {
		sourceFile = &doc.SourceFile
	}

	// A duplicate period returns no row instead of aborting the surrounding transaction.
	query := `
		INSERT INTO payroll_documents (company_id, employee_id, kind, payment_date, period, items, columns, original_mapping, source_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT ON CONSTRAINT uk_payroll_document_period DO NOTHING
		RETURNING id, created_at
	`

	created := doc
	err = q.QueryRow(ctx, query,
		doc.CompanyID, doc.EmployeeID, doc.Kind, doc.PaymentDate, doc.MonthKey(), items, columns, originalMapping, sourceFile,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Document{}, payslip.ErrDocumentAlreadyExists
		}
		return payslip.Document{}, fmt.Errorf("failed to create payroll document: %w", err)
	}

	return created, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string, companyID string) (payslip.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + documentColumns + `
		FROM payroll_documents
		WHERE id = $1 AND company_id = $2
	`

	var row documentRow
	if err := q.QueryRow(ctx, query, id, companyID).Scan(row.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Document{}, payslip.ErrDocumentNotFound
		}
		return payslip.Document{}, fmt.Errorf("failed to get payroll document: %w", err)
	}

	return row.decode()
}

func (r *documentRepository) List(ctx context.Context, companyID string, filter payslip.DocumentFilter) ([]payslip.Document, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_documents
		WHERE company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Kind != nil {
		baseQuery += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.From != nil {
		baseQuery += fmt.Sprintf(" AND period >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		baseQuery += fmt.Sprintf(" AND period <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll documents: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`SELECT %s %s
		ORDER BY payment_date DESC, employee_id, kind
		LIMIT $%d OFFSET $%d
	`, documentColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll documents: %w", err)
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, totalCount, nil
}

func (r *documentRepository) ListForEmployee(ctx context.Context, companyID, employeeID string, kind mapping.Kind, from, to time.Time) ([]payslip.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + documentColumns + `
		FROM payroll_documents
		WHERE company_id = $1 AND employee_id = $2 AND kind = $3
		  AND payment_date >= $4 AND payment_date < $5
		ORDER BY payment_date, id
	`

	rows, err := q.Query(ctx, query, companyID, employeeID, kind, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (r *documentRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_documents WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payslip.ErrDocumentNotFound
	}
	return nil
}

func scanDocuments(rows pgx.Rows) ([]payslip.Document, error) {
	docs := []payslip.Document{}
	for rows.Next() {
		var row documentRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, fmt.Errorf("failed to scan payroll document: %w", err)
		}
		doc, err := row.decode()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll documents: %w", err)
	}
	return docs, nil
}
