package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceRepository_UniquenessAndOverdue(t *testing.T) {
	setup := NewTestDatabase(t)
	calcRepo := postgresql.NewCalculationRepository(setup.DB)
	repo := postgresql.NewInvoiceRepository(setup.DB)
	ctx := context.Background()

	teacherID := setup.CreateTeacher(t, "00000000-0000-0000-0000-000000000001", "EMP001", "Sarah Ahmed")
	calc, err := calcRepo.UpsertCalculation(ctx, salary.MonthlySalaryCalculation{
		TeacherID:   teacherID,
		Month:       1,
		Year:        2024,
		BasicSalary: decimal.NewFromInt(30000),
		NetSalary:   decimal.NewFromInt(30000),
	})
	require.NoError(t, err)

	inv := invoice.Invoice{
		InvoiceNumber: invoice.FormatNumber(2024, 1, 1),
		TeacherID:     teacherID,
		CalculationID: calc.ID,
		Month:         1,
		Year:          2024,
		InvoiceDate:   date(2024, time.February, 1),
		DueDate:       date(2024, time.March, 2),
		Status:        invoice.StatusDraft,
		Items: []invoice.Item{{
			Description: "Basic Monthly Salary",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(30000),
			Amount:      decimal.NewFromInt(30000),
			Category:    invoice.CategorySalary,
		}},
		Subtotal:    decimal.NewFromInt(30000),
		NetAmount:   decimal.NewFromInt(30000),
		TotalAmount: decimal.NewFromInt(30000),
	}

	created, err := repo.Create(ctx, inv)
	require.NoError(t, err)

	_, err = repo.Create(ctx, inv)
	assert.ErrorIs(t, err, invoice.ErrInvoiceExists)

	count, err := repo.CountInMonth(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetByCalculationID(ctx, calc.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Sarah Ahmed", *got.TeacherName)

	n, err := repo.MarkOverdue(ctx, date(2024, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	overdue := invoice.StatusOverdue
	list, err := repo.List(ctx, invoice.InvoiceFilter{Status: &overdue})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	paid := string(invoice.StatusPaid)
	require.NoError(t, repo.Update(ctx, invoice.UpdateInvoiceRequest{ID: created.ID, Status: &paid}))
	n, err = repo.MarkOverdue(ctx, date(2024, time.April, 1))
	require.NoError(t, err)
	assert.Zero(t, n)
}
