package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyA = "0192a7c4-0000-7000-8000-00000000000a"
	companyB = "0192a7c4-0000-7000-8000-00000000000b"
)

func TestMappingRepository_ConfigRoundTrip(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewMappingRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.GetConfig(ctx, companyA, mapping.KindSalary)
	assert.ErrorIs(t, err, mapping.ErrMappingConfigNotFound)

	hidden := false
	cfg := mapping.Config{
		CompanyID: companyA,
		Kind:      mapping.KindSalary,
		IncomeItems: []mapping.ItemRule{
			{HeaderName: "BASE", ItemName: "Base Pay", DisplayOrder: mapping.Order(1), ShowZeroValue: true},
			{HeaderName: "BROKEN", DisplayOrder: mapping.MalformedOrderValue("abc")},
		},
		DeductionItems: []mapping.ItemRule{
			{HeaderName: "BANK", IsVisible: &hidden},
		},
	}

	saved, err := repo.UpsertConfig(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := repo.GetConfig(ctx, companyA, mapping.KindSalary)
	require.NoError(t, err)
	require.Len(t, got.IncomeItems, 2)
	assert.Equal(t, "Base Pay", got.IncomeItems[0].ItemName)
	assert.True(t, got.IncomeItems[0].ShowZeroValue)
	assert.True(t, got.IncomeItems[1].DisplayOrder.IsSet())
	assert.False(t, got.IncomeItems[1].DisplayOrder.Valid())
	require.Len(t, got.DeductionItems, 1)
	require.NotNil(t, got.DeductionItems[0].IsVisible)
	assert.False(t, *got.DeductionItems[0].IsVisible)
	assert.Empty(t, got.AttendanceItems)

	// Configs are isolated per company and per kind.
	_, err = repo.GetConfig(ctx, companyB, mapping.KindSalary)
	assert.ErrorIs(t, err, mapping.ErrMappingConfigNotFound)
	_, err = repo.GetConfig(ctx, companyA, mapping.KindBonus)
	assert.ErrorIs(t, err, mapping.ErrMappingConfigNotFound)

	cfg.IncomeItems = cfg.IncomeItems[:1]
	_, err = repo.UpsertConfig(ctx, cfg)
	require.NoError(t, err)
	got, err = repo.GetConfig(ctx, companyA, mapping.KindSalary)
	require.NoError(t, err)
	assert.Len(t, got.IncomeItems, 1)
}

func TestMappingRepository_IntegrationRoundTrip(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewMappingRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.GetIntegration(ctx, companyA)
	assert.ErrorIs(t, err, mapping.ErrIntegrationConfigNotFound)

	_, err = repo.UpsertIntegration(ctx, mapping.IntegrationConfig{
		CompanyID:       companyA,
		ShowSeparately:  []string{"BONUS_SPECIAL"},
		MergeWithSalary: []string{"BONUS_BASE", "BONUS_INCOME_TAX"},
		SeparatePrefix:  "Summer Bonus: ",
	})
	require.NoError(t, err)

	got, err := repo.GetIntegration(ctx, companyA)
	require.NoError(t, err)
	assert.Equal(t, []string{"BONUS_SPECIAL"}, got.ShowSeparately)
	assert.Equal(t, []string{"BONUS_BASE", "BONUS_INCOME_TAX"}, got.MergeWithSalary)
	assert.Equal(t, "Summer Bonus: ", got.SeparatePrefix)
}
