package invoice

import (
	"testing"

	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func approvedCalc() salary.MonthlySalaryCalculation {
	name := "Sarah Ahmed"
	return salary.MonthlySalaryCalculation{
		ID:              "calc-1",
		TeacherID:       "t1",
		TeacherName:     &name,
		Month:           1,
		Year:            2024,
		BasicSalary:     d(30000),
		PerDaySalary:    d(1000),
		TotalDeductions: d(2500),
		Bonuses:         d(1000),
		NetSalary:       d(28500),
		IsApproved:      true,
		Details: salary.CalculationDetails{
			DeductionsByRule: map[string]decimal.Decimal{
				"Late arrival": d(500),
				"Absent":       d(2000),
				"Half Day":     decimal.Zero,
			},
			AttendanceSummary: salary.AttendanceSummary{
				Present: 18, Absent: 2, HalfDay: 0, Late: 3, TotalAttendanceDays: 23,
			},
		},
	}
}

func descriptions(items []invoice.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Description)
	}
	return out
}

func TestBuildItems_Detailed(t *testing.T) {
	items := BuildItems(approvedCalc(), invoice.TemplateDetailed)

	assert.Equal(t, []string{
		"Basic Monthly Salary",
		"Attendance: 18 Present, 2 Absent, 0 Half Day, 3 Late",
		"Deduction: Absent",
		"Deduction: Late arrival",
		"Bonuses",
	}, descriptions(items))

	assert.Equal(t, invoice.CategorySalary, items[0].Category)
	assert.True(t, items[1].Amount.IsZero())
	assert.Equal(t, invoice.CategoryAttendance, items[1].Category)
	assert.True(t, d(-2000).Equal(items[2].Amount))
	assert.True(t, d(-2000).Equal(items[2].UnitPrice))
	assert.Equal(t, 1, items[2].Quantity)
	assert.Equal(t, invoice.CategoryBonus, items[4].Category)
}

func TestBuildItems_DetailedWithoutBreakdown(t *testing.T) {
	calc := approvedCalc()
	calc.Details.DeductionsByRule = nil
	calc.Details.AttendanceSummary = salary.AttendanceSummary{}
	calc.Bonuses = decimal.Zero

	items := BuildItems(calc, invoice.TemplateDetailed)

	assert.Equal(t, []string{"Basic Monthly Salary", "Total Deductions"}, descriptions(items))
	assert.True(t, d(-2500).Equal(items[1].Amount))
}

func TestBuildItems_Simple(t *testing.T) {
	items := BuildItems(approvedCalc(), invoice.TemplateSimple)

	assert.Equal(t, []string{"Basic Monthly Salary", "Deductions", "Bonuses"}, descriptions(items))
	assert.True(t, d(-2500).Equal(items[1].Amount))
}

func TestBuildItems_NothingButSalary(t *testing.T) {
	calc := approvedCalc()
	calc.TotalDeductions = decimal.Zero
	calc.Bonuses = decimal.Zero
	calc.Details = salary.CalculationDetails{}

	for _, tmpl := range []invoice.Template{invoice.TemplateDetailed, invoice.TemplateSimple} {
		items := BuildItems(calc, tmpl)
		require.Len(t, items, 1, string(tmpl))
	}
}

func TestSynthesize_Totals(t *testing.T) {
	inv := Synthesize(approvedCalc(), invoice.TemplateDetailed)

	assert.True(t, d(30000).Equal(inv.Subtotal))
	assert.True(t, d(2500).Equal(inv.Deductions))
	assert.True(t, d(1000).Equal(inv.Bonuses))
	assert.True(t, inv.Tax.IsZero())
	assert.True(t, d(28500).Equal(inv.NetAmount))
	assert.True(t, inv.TotalAmount.Equal(inv.NetAmount.Add(inv.Tax)))
	assert.Equal(t, "calc-1", inv.CalculationID)
	assert.Equal(t, "Sarah Ahmed", *inv.TeacherName)
}
