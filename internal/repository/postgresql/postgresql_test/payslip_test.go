package postgresql_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newDocument(employeeID string, kind mapping.Kind, paid string) payslip.Document {
	return payslip.Document{
		CompanyID:   companyA,
		EmployeeID:  employeeID,
		Kind:        kind,
		PaymentDate: date(paid),
		Items:       map[string]any{"BASE": "300,000", "HOURS": "8:30", "DAYS": 21},
		Columns:     []string{"BASE", "HOURS", "DAYS"},
		SourceFile:  "imports/test.csv",
	}
}

func TestDocumentRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewDocumentRepository(setup.DB)
	ctx := context.Background()

	doc := newDocument("E001", mapping.KindSalary, "2024-06-25")
	doc.OriginalMapping = &mapping.Config{
		Kind:        mapping.KindSalary,
		IncomeItems: []mapping.ItemRule{{HeaderName: "BASE", ItemName: "Base Pay", DisplayOrder: mapping.Order(1)}},
	}

	created, err := repo.Create(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID, companyA)
	require.NoError(t, err)
	assert.Equal(t, "E001", got.EmployeeID)
	assert.Equal(t, "2024-06", got.MonthKey())
	assert.Equal(t, []string{"BASE", "HOURS", "DAYS"}, got.Columns)
	assert.Equal(t, "300,000", got.Items["BASE"])
	assert.Equal(t, json.Number("21"), got.Items["DAYS"])
	require.NotNil(t, got.OriginalMapping)
	assert.Equal(t, "Base Pay", got.OriginalMapping.IncomeItems[0].ItemName)

	_, err = repo.GetByID(ctx, created.ID, companyB)
	assert.ErrorIs(t, err, payslip.ErrDocumentNotFound)
}

func TestDocumentRepository_OnePerEmployeeKindAndMonth(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewDocumentRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, newDocument("E001", mapping.KindSalary, "2024-06-25"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newDocument("E001", mapping.KindSalary, "2024-06-28"))
	assert.ErrorIs(t, err, payslip.ErrDocumentAlreadyExists)

	// A bonus in the same month is a different document.
	_, err = repo.Create(ctx, newDocument("E001", mapping.KindBonus, "2024-06-30"))
	assert.NoError(t, err)
}

func TestDocumentRepository_ListForEmployee(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewDocumentRepository(setup.DB)
	ctx := context.Background()

	for _, paid := range []string{"2024-05-25", "2024-07-25", "2024-06-25", "2024-09-01"} {
		_, err := repo.Create(ctx, newDocument("E001", mapping.KindSalary, paid))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newDocument("E002", mapping.KindSalary, "2024-06-25"))
	require.NoError(t, err)

	docs, err := repo.ListForEmployee(ctx, companyA, "E001", mapping.KindSalary, date("2024-06-01"), date("2024-09-01"))
	require.NoError(t, err)

	months := make([]string, 0, len(docs))
	for _, d := range docs {
		months = append(months, d.MonthKey())
	}
	assert.Equal(t, []string{"2024-06", "2024-07"}, months)
}

func TestDocumentRepository_ListAndDelete(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewDocumentRepository(setup.DB)
	ctx := context.Background()

	first, err := repo.Create(ctx, newDocument("E001", mapping.KindSalary, "2024-06-25"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newDocument("E002", mapping.KindSalary, "2024-06-25"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newDocument("E001", mapping.KindBonus, "2024-06-30"))
	require.NoError(t, err)

	employee := "E001"
	kind := mapping.KindSalary
	docs, total, err := repo.List(ctx, companyA, payslip.DocumentFilter{EmployeeID: &employee, Kind: &kind, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, docs, 1)
	assert.Equal(t, first.ID, docs[0].ID)

	_, total, err = repo.List(ctx, companyA, payslip.DocumentFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	require.NoError(t, repo.Delete(ctx, first.ID, companyA))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID, companyA), payslip.ErrDocumentNotFound)
}
