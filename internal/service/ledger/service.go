package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/service/payitem"
	"golang.org/x/sync/errgroup"
)

type LedgerServiceImpl struct {
	docRepo     payslip.DocumentRepository
	mappingRepo mapping.MappingRepository
}

func NewLedgerService(docRepo payslip.DocumentRepository, mappingRepo mapping.MappingRepository) ledger.LedgerService {
	return &LedgerServiceImpl{
		docRepo:     docRepo,
		mappingRepo: mappingRepo,
	}
}

func (s *LedgerServiceImpl) GetLedger(ctx context.Context, req ledger.LedgerRequest) (ledger.LedgerResponse, error) {
	matrix, err := s.build(ctx, req)
	if err != nil {
		return ledger.LedgerResponse{}, err
	}
	return ledger.NewLedgerResponse(req, matrix), nil
}

func (s *LedgerServiceImpl) ExportLedger(ctx context.Context, req ledger.LedgerRequest, w io.Writer) (string, error) {
	matrix, err := s.build(ctx, req)
	if err != nil {
		return "", err
	}

	if err := WriteXLSX(w, req, matrix); err != nil {
		return "", err
	}

	slog.Info("ledger exported",
		"employee_id", req.EmployeeID,
		"type", req.Type,
		"start", req.Start,
		"end", req.End,
		"rows", len(matrix.Rows),
	)
	return fmt.Sprintf("ledger_%s_%s_%s_%s.xlsx", req.Type, req.EmployeeID, req.Start, req.End), nil
}

// build validates the request before touching the database, then loads the
// configs and documents the ledger type needs in parallel.
func (s *LedgerServiceImpl) build(ctx context.Context, req ledger.LedgerRequest) (ledger.Matrix, error) {
	period, err := req.Validate()
	if err != nil {
		return ledger.Matrix{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return ledger.Matrix{}, err
	}
	if !claims.CanAccessEmployee(req.EmployeeID) {
		return ledger.Matrix{}, ledger.ErrForbidden
	}

	needSalary := req.Type == ledger.TypeSalary || req.Type == ledger.TypeIntegrated
	needBonus := req.Type == ledger.TypeBonus || req.Type == ledger.TypeIntegrated

	var (
		cfg        = payitem.MatrixConfig{Type: req.Type}
		salaryDocs []payslip.Document
		bonusDocs  []payslip.Document
	)

	g, gCtx := errgroup.WithContext(ctx)

	if needSalary {
		g.Go(func() error {
			c, err := s.optionalConfig(gCtx, claims.CompanyID, mapping.KindSalary)
			cfg.Salary = c
			return err
		})
		g.Go(func() error {
			docs, err := s.docRepo.ListForEmployee(gCtx, claims.CompanyID, req.EmployeeID, mapping.KindSalary, period.Start(), period.End())
			salaryDocs = docs
			return err
		})
	}

	if needBonus {
		g.Go(func() error {
			c, err := s.optionalConfig(gCtx, claims.CompanyID, mapping.KindBonus)
			cfg.Bonus = c
			return err
		})
		g.Go(func() error {
			docs, err := s.docRepo.ListForEmployee(gCtx, claims.CompanyID, req.EmployeeID, mapping.KindBonus, period.Start(), period.End())
			bonusDocs = docs
			return err
		})
	}

	if req.Type == ledger.TypeIntegrated {
		g.Go(func() error {
			integration, err := s.mappingRepo.GetIntegration(gCtx, claims.CompanyID)
			if errors.Is(err, mapping.ErrIntegrationConfigNotFound) {
				return nil
			}
			cfg.Integration = integration
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return ledger.Matrix{}, err
	}

	docs := make([]payslip.Document, 0, len(salaryDocs)+len(bonusDocs))
	docs = append(docs, salaryDocs...)
	docs = append(docs, bonusDocs...)

	return payitem.BuildMatrix(period, docs, cfg)
}

func (s *LedgerServiceImpl) optionalConfig(ctx context.Context, companyID string, kind mapping.Kind) (*mapping.Config, error) {
	c, err := s.mappingRepo.GetConfig(ctx, companyID, kind)
	if errors.Is(err, mapping.ErrMappingConfigNotFound) {
		return nil, nil
	}
	return c, err
}
