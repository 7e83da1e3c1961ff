package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes one teacher-month. It only reads.
type Calculator struct {
	resolver   *Resolver
	ruleRepo   salary.RuleRepository
	configRepo salary.ConfigRepository
}

func NewCalculator(resolver *Resolver, ruleRepo salary.RuleRepository, configRepo salary.ConfigRepository) *Calculator {
	return &Calculator{
		resolver:   resolver,
		ruleRepo:   ruleRepo,
		configRepo: configRepo,
	}
}

// Calculate fails only when no salary figures can be determined.
func (c *Calculator) Calculate(ctx context.Context, in salary.CalculateInput) (salary.CalculationResult, error) {
	if in.Month < 1 || in.Month > 12 {
		return salary.CalculationResult{}, salary.ErrInvalidMonth
	}

	basic, perDay, err := c.salaryFigures(ctx, in)
	if err != nil {
		return salary.CalculationResult{}, err
	}

	workingDays := WorkingDays(in.Year, in.Month)
	if perDay.IsZero() && workingDays > 0 {
		perDay = basic.Div(decimal.NewFromInt(int64(workingDays)))
	}

	events := c.resolver.Resolve(ctx, in.TeacherID, in.Month, in.Year, in.UseBiometric, in.FallbackToRegular)

	var summary salary.AttendanceSummary
	for _, ev := range events {
		switch ev.Status {
		case salary.StatusPresent:
			summary.Present++
		case salary.StatusAbsent:
			summary.Absent++
		case salary.StatusHalfDay:
			summary.HalfDay++
		case salary.StatusLate:
			summary.Late++
		case salary.StatusEarlyDeparture:
		}
	}
	summary.TotalAttendanceDays = len(events)
	summary.AttendancePercentage = decimal.Zero
	if workingDays > 0 {
		summary.AttendancePercentage = decimal.NewFromInt(int64(summary.Present)).
			Div(decimal.NewFromInt(int64(workingDays))).
			Mul(hundred).
			Round(2)
	}

	rules, err := c.ruleRepo.ListRules(ctx, true)
	if err != nil {
		slog.Warn("Failed to load deduction rules, calculating without rules", "teacher_id", in.TeacherID, "error", err)
		rules = nil
	}
	deductions := NewRuleEngine(rules).Apply(events, perDay)

	net := basic.Sub(deductions.Total).Add(in.Bonuses).Add(in.Allowances)

	return salary.CalculationResult{
		TeacherID:        in.TeacherID,
		Month:            in.Month,
		Year:             in.Year,
		BasicSalary:      basic,
		PerDaySalary:     perDay,
		TotalWorkingDays: workingDays,
		PresentDays:      summary.Present,
		AbsentDays:       summary.Absent,
		HalfDays:         summary.HalfDay,
		LateDays:         summary.Late,
		TotalDeductions:  deductions.Total,
		Bonuses:          in.Bonuses,
		Allowances:       in.Allowances,
		NetSalary:        net,
		Details: salary.CalculationDetails{
			AttendanceRecordsCount: len(events),
			DeductionRulesApplied:  len(rules),
			DeductionsByRule:       deductions.ByRule,
			AttendanceSummary:      summary,
		},
	}, nil
}

// salaryFigures fills whichever of basic/per-day the caller left out from
// the active configuration.
func (c *Calculator) salaryFigures(ctx context.Context, in salary.CalculateInput) (decimal.Decimal, decimal.Decimal, error) {
	if in.BasicSalary != nil && in.PerDaySalary != nil {
		return *in.BasicSalary, *in.PerDaySalary, nil
	}

	cfg, err := c.configRepo.GetActiveConfig(ctx, in.TeacherID)
	if err != nil {
		if errors.Is(err, salary.ErrSalaryConfigNotFound) {
			return decimal.Zero, decimal.Zero, fmt.Errorf("teacher %s: %w", in.TeacherID, salary.ErrSalaryConfigNotFound)
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to load salary config: %w", err)
	}

	basic, perDay := cfg.BasicMonthlySalary, cfg.PerDaySalary
	if in.BasicSalary != nil {
		basic = *in.BasicSalary
	}
	if in.PerDaySalary != nil {
		perDay = *in.PerDaySalary
	}
	return basic, perDay, nil
}
