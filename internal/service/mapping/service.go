package mapping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/fixtures"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/jwt"
)

type MappingServiceImpl struct {
	mappingRepo mapping.MappingRepository
}

func NewMappingService(mappingRepo mapping.MappingRepository) mapping.MappingService {
	return &MappingServiceImpl{mappingRepo: mappingRepo}
}

// ========== MAPPING CONFIG ==========

func (s *MappingServiceImpl) GetConfig(ctx context.Context, kind mapping.Kind) (*mapping.Config, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", mapping.ErrInvalidKind, kind)
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return s.mappingRepo.GetConfig(ctx, claims.CompanyID, kind)
}

func (s *MappingServiceImpl) UpsertConfig(ctx context.Context, req mapping.UpsertConfigRequest) (*mapping.Config, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.mappingRepo.UpsertConfig(ctx, *req.ToConfig(claims.CompanyID))
	if err != nil {
		return nil, err
	}

	slog.Info("mapping config saved",
		"company_id", claims.CompanyID,
		"kind", req.Kind,
		"rules", len(req.IncomeItems)+len(req.DeductionItems)+len(req.AttendanceItems)+len(req.TotalItems),
	)
	return saved, nil
}

func (s *MappingServiceImpl) ResetToDefaults(ctx context.Context, kind mapping.Kind) (*mapping.Config, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", mapping.ErrInvalidKind, kind)
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.mappingRepo.UpsertConfig(ctx, *fixtures.GetDefaultMapping(claims.CompanyID, kind))
	if err != nil {
		return nil, err
	}

	slog.Info("mapping config reset to defaults", "company_id", claims.CompanyID, "kind", kind)
	return saved, nil
}

// ========== INTEGRATION CONFIG ==========

func (s *MappingServiceImpl) GetIntegration(ctx context.Context) (*mapping.IntegrationConfig, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return s.mappingRepo.GetIntegration(ctx, claims.CompanyID)
}

func (s *MappingServiceImpl) UpsertIntegration(ctx context.Context, req mapping.UpsertIntegrationRequest) (*mapping.IntegrationConfig, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := s.mappingRepo.UpsertIntegration(ctx, *req.ToConfig(claims.CompanyID))
	if err != nil {
		return nil, err
	}

	slog.Info("integration config saved",
		"company_id", claims.CompanyID,
		"show_separately", len(req.ShowSeparately),
		"merge_with_salary", len(req.MergeWithSalary),
	)
	return saved, nil
}
