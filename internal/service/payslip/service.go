package payslip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/csvimport"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/service/payitem"
	"github.com/google/uuid"
)

type PayslipServiceImpl struct {
	txManager   database.TxManager
	docRepo     payslip.DocumentRepository
	mappingRepo mapping.MappingRepository
	fileStorage storage.FileStorage
}

func NewPayslipService(
	txManager database.TxManager,
	docRepo payslip.DocumentRepository,
	mappingRepo mapping.MappingRepository,
	fileStorage storage.FileStorage,
) payslip.PayslipService {
	return &PayslipServiceImpl{
		txManager:   txManager,
		docRepo:     docRepo,
		mappingRepo: mappingRepo,
		fileStorage: fileStorage,
	}
}

// ========== IMPORT ==========

// Import turns every data row of an uploaded export into a document. The
// live mapping config is frozen onto each document so later config edits do
// not change how already issued payslips render.
func (s *PayslipServiceImpl) Import(ctx context.Context, req payslip.ImportRequest) (payslip.ImportResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.ImportResponse{}, err
	}
	paymentDate, _ := validator.IsValidDate(req.PaymentDate)

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.ImportResponse{}, err
	}

	data, err := io.ReadAll(req.File)
	if err != nil {
		return payslip.ImportResponse{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	table, err := csvimport.Parse(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, csvimport.ErrEmptyFile) {
			return payslip.ImportResponse{}, payslip.ErrEmptyImport
		}
		return payslip.ImportResponse{}, err
	}
	if len(table.Rows) == 0 {
		return payslip.ImportResponse{}, payslip.ErrEmptyImport
	}
	column := req.Column()
	if err := table.RequireColumn(column); err != nil {
		return payslip.ImportResponse{}, fmt.Errorf("%w: %s", payslip.ErrEmployeeColumnMissing, column)
	}

	live, err := s.mappingRepo.GetConfig(ctx, claims.CompanyID, req.Kind)
	if err != nil && !errors.Is(err, mapping.ErrMappingConfigNotFound) {
		return payslip.ImportResponse{}, err
	}

	key := fmt.Sprintf("%s/%s/%s/%s.csv", payslip.ArchivePrefix, claims.CompanyID, req.Kind, uuid.New().String())
	sourceFile, err := s.fileStorage.Upload(ctx, bytes.NewReader(data), key, "text/csv")
	if err != nil {
		return payslip.ImportResponse{}, fmt.Errorf("failed to archive uploaded file: %w", err)
	}

	resp := payslip.ImportResponse{
		Kind:          req.Kind,
		PaymentDate:   req.PaymentDate,
		SourceFile:    sourceFile,
		Skipped:       []payslip.SkippedRow{},
		FrozenMapping: live != nil,
	}
	columns := table.ItemColumns(column)

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, row := range table.Rows {
			employeeID := strings.TrimSpace(row.Values[column])
			if employeeID == "" {
				resp.Skipped = append(resp.Skipped, payslip.SkippedRow{Row: row.Line, Reason: "employee id is empty"})
				continue
			}
			if !validator.IsValidEmployeeCode(employeeID) {
				resp.Skipped = append(resp.Skipped, payslip.SkippedRow{Row: row.Line, EmployeeID: employeeID, Reason: "employee id has invalid characters"})
				continue
			}

			doc := payslip.Document{
				CompanyID:   claims.CompanyID,
				EmployeeID:  employeeID,
				Kind:        req.Kind,
				PaymentDate: paymentDate,
				Items:       row.Items(column),
				Columns:     columns,
				SourceFile:  sourceFile,
			}
			if live != nil {
				doc.OriginalMapping = live.Clone()
			}

			if _, err := s.docRepo.Create(ctx, doc); err != nil {
				if errors.Is(err, payslip.ErrDocumentAlreadyExists) {
					resp.Skipped = append(resp.Skipped, payslip.SkippedRow{Row: row.Line, EmployeeID: employeeID, Reason: "document already exists for this period"})
					continue
				}
				return fmt.Errorf("row %d: %w", row.Line, err)
			}
			resp.Imported++
		}
		return nil
	})
	if err != nil {
		if delErr := s.fileStorage.Delete(ctx, sourceFile); delErr != nil {
			slog.Warn("failed to remove archived import after rollback", "key", sourceFile, "error", delErr)
		}
		return payslip.ImportResponse{}, err
	}

	slog.Info("payroll export imported",
		"company_id", claims.CompanyID,
		"kind", req.Kind,
		"payment_date", req.PaymentDate,
		"imported", resp.Imported,
		"skipped", len(resp.Skipped),
		"frozen_mapping", resp.FrozenMapping,
	)
	return resp, nil
}

// ========== QUERIES ==========

func (s *PayslipServiceImpl) List(ctx context.Context, filter payslip.DocumentFilter) (payslip.ListDocumentsResponse, error) {
	if err := filter.Validate(); err != nil {
		return payslip.ListDocumentsResponse{}, err
	}
	filter.Normalize()

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.ListDocumentsResponse{}, err
	}
	// Employees only ever see their own payslips.
	if !claims.IsAdmin {
		if claims.EmployeeID == nil {
			return payslip.ListDocumentsResponse{}, payslip.ErrForbidden
		}
		filter.EmployeeID = claims.EmployeeID
	}

	docs, total, err := s.docRepo.List(ctx, claims.CompanyID, filter)
	if err != nil {
		return payslip.ListDocumentsResponse{}, err
	}

	resp := payslip.ListDocumentsResponse{
		Documents:  make([]payslip.DocumentResponse, 0, len(docs)),
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, payslip.NewDocumentResponse(d))
	}
	return resp, nil
}

func (s *PayslipServiceImpl) GetClassified(ctx context.Context, id string) (payslip.ClassifiedResponse, error) {
	doc, err := s.getAccessible(ctx, id)
	if err != nil {
		return payslip.ClassifiedResponse{}, err
	}

	classified, err := s.classify(ctx, doc)
	if err != nil {
		return payslip.ClassifiedResponse{}, err
	}

	return payslip.ClassifiedResponse{
		DocumentResponse: payslip.NewDocumentResponse(doc),
		Classified:       classified,
	}, nil
}

func (s *PayslipServiceImpl) RenderPDF(ctx context.Context, id string, w io.Writer) (string, error) {
	doc, err := s.getAccessible(ctx, id)
	if err != nil {
		return "", err
	}

	classified, err := s.classify(ctx, doc)
	if err != nil {
		return "", err
	}

	if err := WritePDF(w, doc, classified); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%s.pdf", doc.Kind, doc.EmployeeID, doc.MonthKey()), nil
}

func (s *PayslipServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return payslip.ErrDocumentNotFound
	}

	if err := s.docRepo.Delete(ctx, id, claims.CompanyID); err != nil {
		return err
	}

	slog.Info("payroll document deleted", "company_id", claims.CompanyID, "document_id", id)
	return nil
}

// classify falls back to the live config only for documents imported before
// the company had one.
func (s *PayslipServiceImpl) classify(ctx context.Context, doc payslip.Document) (payslip.Classified, error) {
	if doc.OriginalMapping != nil {
		return payitem.Classify(doc, nil), nil
	}

	live, err := s.mappingRepo.GetConfig(ctx, doc.CompanyID, doc.Kind)
	if err != nil && !errors.Is(err, mapping.ErrMappingConfigNotFound) {
		return payslip.Classified{}, err
	}
	return payitem.Classify(doc, live), nil
}

// getAccessible loads a document of the caller's company and checks that a
// non-admin caller owns it.
func (s *PayslipServiceImpl) getAccessible(ctx context.Context, id string) (payslip.Document, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payslip.Document{}, err
	}
	if !validator.IsValidUUID(id) {
		return payslip.Document{}, payslip.ErrDocumentNotFound
	}

	doc, err := s.docRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return payslip.Document{}, err
	}
	if !claims.CanAccessEmployee(doc.EmployeeID) {
		return payslip.Document{}, payslip.ErrForbidden
	}
	return doc, nil
}
