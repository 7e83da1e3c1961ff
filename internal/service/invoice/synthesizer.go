package invoice

import (
	"fmt"
	"sort"

	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// Synthesize builds the line items and totals of an invoice for calc.
// Number, dates and status are left to the caller.
func Synthesize(calc salary.MonthlySalaryCalculation, tmpl invoice.Template) invoice.Invoice {
	return invoice.Invoice{
		TeacherID:     calc.TeacherID,
		TeacherName:   calc.TeacherName,
		CalculationID: calc.ID,
		Month:         calc.Month,
		Year:          calc.Year,
		Items:         BuildItems(calc, tmpl),
		Subtotal:      calc.BasicSalary,
		Deductions:    calc.TotalDeductions,
		Bonuses:       calc.Bonuses,
		Tax:           decimal.Zero,
		NetAmount:     calc.NetSalary,
		TotalAmount:   calc.NetSalary,
	}
}

// BuildItems lists the salary first, then attendance and deduction detail
// for the detailed template, then bonuses.
func BuildItems(calc salary.MonthlySalaryCalculation, tmpl invoice.Template) []invoice.Item {
	items := []invoice.Item{line("Basic Monthly Salary", calc.BasicSalary, invoice.CategorySalary)}

	if tmpl == invoice.TemplateSimple {
		if calc.TotalDeductions.IsPositive() {
			items = append(items, line("Deductions", calc.TotalDeductions.Neg(), invoice.CategoryDeduction))
		}
	} else {
		summary := calc.Details.AttendanceSummary
		if summary.TotalAttendanceDays > 0 {
			desc := fmt.Sprintf("Attendance: %d Present, %d Absent, %d Half Day, %d Late",
				summary.Present, summary.Absent, summary.HalfDay, summary.Late)
			items = append(items, line(desc, decimal.Zero, invoice.CategoryAttendance))
		}

		byRule := calc.Details.DeductionsByRule
		if len(byRule) > 0 {
			keys := make([]string, 0, len(byRule))
			for k := range byRule {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if amount := byRule[k]; amount.IsPositive() {
					items = append(items, line("Deduction: "+k, amount.Neg(), invoice.CategoryDeduction))
				}
			}
		} else if calc.TotalDeductions.IsPositive() {
			items = append(items, line("Total Deductions", calc.TotalDeductions.Neg(), invoice.CategoryDeduction))
		}
	}

	if calc.Bonuses.IsPositive() {
		items = append(items, line("Bonuses", calc.Bonuses, invoice.CategoryBonus))
	}
	return items
}

func line(desc string, amount decimal.Decimal, category invoice.ItemCategory) invoice.Item {
	return invoice.Item{
		Description: desc,
		Quantity:    1,
		UnitPrice:   amount,
		Amount:      amount,
		Category:    category,
	}
}
