package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type mappingRepository struct {
	db *database.DB
}

func NewMappingRepository(db *database.DB) mapping.MappingRepository {
	return &mappingRepository{db: db}
}

// ========== MAPPING CONFIGS ==========

type ruleColumns struct {
	income, deduction, attendance, total []byte
}

func encodeRules(cfg mapping.Config) (ruleColumns, error) {
	var cols ruleColumns
	var err error
	encode := func(rules []mapping.ItemRule) []byte {
		if err != nil {
			return nil
		}
		if rules == nil {
			rules = []mapping.ItemRule{}
		}
		var b []byte
		b, err = json.Marshal(rules)
		return b
	}
	cols.income = encode(cfg.IncomeItems)
	cols.deduction = encode(cfg.DeductionItems)
	cols.attendance = encode(cfg.AttendanceItems)
	cols.total = encode(cfg.TotalItems)
	return cols, err
}

func (c ruleColumns) decodeInto(cfg *mapping.Config) error {
	targets := []struct {
		raw  []byte
		dest *[]mapping.ItemRule
	}{
		{c.income, &cfg.IncomeItems},
		{c.deduction, &cfg.DeductionItems},
		{c.attendance, &cfg.AttendanceItems},
		{c.total, &cfg.TotalItems},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			*t.dest = []mapping.ItemRule{}
			continue
		}
		if err := json.Unmarshal(t.raw, t.dest); err != nil {
			return fmt.Errorf("failed to decode item rules: %w", err)
		}
	}
	return nil
}

func (r *mappingRepository) GetConfig(ctx context.Context, companyID string, kind mapping.Kind) (*mapping.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, kind, income_items, deduction_items, attendance_items, total_items, updated_at
		FROM mapping_configs
		WHERE company_id = $1 AND kind = $2
	`

	var cfg mapping.Config
	var cols ruleColumns
	err := q.QueryRow(ctx, query, companyID, kind).Scan(
		&cfg.CompanyID, &cfg.Kind, &cols.income, &cols.deduction, &cols.attendance, &cols.total, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mapping.ErrMappingConfigNotFound
		}
		return nil, fmt.Errorf("failed to get mapping config: %w", err)
	}
	if err := cols.decodeInto(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (r *mappingRepository) UpsertConfig(ctx context.Context, cfg mapping.Config) (*mapping.Config, error) {
	q := GetQuerier(ctx, r.db)

	cols, err := encodeRules(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item rules: %w", err)
	}

	query := `
		INSERT INTO mapping_configs (company_id, kind, income_items, deduction_items, attendance_items, total_items)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, kind) DO UPDATE SET
			income_items = EXCLUDED.income_items,
			deduction_items = EXCLUDED.deduction_items,
			attendance_items = EXCLUDED.attendance_items,
			total_items = EXCLUDED.total_items,
			updated_at = NOW()
		RETURNING company_id, kind, income_items, deduction_items, attendance_items, total_items, updated_at
	`

	var saved mapping.Config
	var out ruleColumns
	err = q.QueryRow(ctx, query,
		cfg.CompanyID, cfg.Kind, cols.income, cols.deduction, cols.attendance, cols.total,
	).Scan(
		&saved.CompanyID, &saved.Kind, &out.income, &out.deduction, &out.attendance, &out.total, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert mapping config: %w", err)
	}
	if err := out.decodeInto(&saved); err != nil {
		return nil, err
	}

	return &saved, nil
}

// ========== INTEGRATION CONFIG ==========

func (r *mappingRepository) GetIntegration(ctx context.Context, companyID string) (*mapping.IntegrationConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, show_separately, merge_with_salary, separate_prefix, updated_at
		FROM integration_configs
		WHERE company_id = $1
	`

	var cfg mapping.IntegrationConfig
	err := q.QueryRow(ctx, query, companyID).Scan(
		&cfg.CompanyID, &cfg.ShowSeparately, &cfg.MergeWithSalary, &cfg.SeparatePrefix, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mapping.ErrIntegrationConfigNotFound
		}
		return nil, fmt.Errorf("failed to get integration config: %w", err)
	}

	return &cfg, nil
}

func (r *mappingRepository) UpsertIntegration(ctx context.Context, cfg mapping.IntegrationConfig) (*mapping.IntegrationConfig, error) {
	q := GetQuerier(ctx, r.db)

	if cfg.ShowSeparately == nil {
		cfg.ShowSeparately = []string{}
	}
	if cfg.MergeWithSalary == nil {
		cfg.MergeWithSalary = []string{}
	}
	if cfg.SeparatePrefix == "" {
		cfg.SeparatePrefix = mapping.DefaultSeparatePrefix
	}

	query := `
		INSERT INTO integration_configs (company_id, show_separately, merge_with_salary, separate_prefix)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE SET
			show_separately = EXCLUDED.show_separately,
			merge_with_salary = EXCLUDED.merge_with_salary,
			separate_prefix = EXCLUDED.separate_prefix,
			updated_at = NOW()
		RETURNING company_id, show_separately, merge_with_salary, separate_prefix, updated_at
	`

	var saved mapping.IntegrationConfig
	err := q.QueryRow(ctx, query,
		cfg.CompanyID, cfg.ShowSeparately, cfg.MergeWithSalary, cfg.SeparatePrefix,
	).Scan(
		&saved.CompanyID, &saved.ShowSeparately, &saved.MergeWithSalary, &saved.SeparatePrefix, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert integration config: %w", err)
	}

	return &saved, nil
}
