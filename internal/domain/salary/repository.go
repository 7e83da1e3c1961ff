package salary

import (
	"context"
	"time"
)

type RuleRepository interface {
	// ListRules returns rules ordered by rule_type, created_at.
	ListRules(ctx context.Context, activeOnly bool) ([]DeductionRule, error)
	GetRuleByID(ctx context.Context, id string) (DeductionRule, error)
	CreateRule(ctx context.Context, rule DeductionRule) (DeductionRule, error)
	UpdateRule(ctx context.Context, req UpdateRuleRequest) error
}

type ConfigRepository interface {
	GetActiveConfig(ctx context.Context, teacherID string) (TeacherSalaryConfig, error)
	GetConfigByID(ctx context.Context, id string) (TeacherSalaryConfig, error)
	ListConfigs(ctx context.Context, teacherID *string) ([]TeacherSalaryConfig, error)
	CreateConfig(ctx context.Context, cfg TeacherSalaryConfig) (TeacherSalaryConfig, error)
	// DeactivateConfigs closes every active row of the teacher at effectiveTo.
	DeactivateConfigs(ctx context.Context, teacherID string, effectiveTo time.Time) error
	UpdateConfig(ctx context.Context, id string, effectiveTo *time.Time, isActive *bool) error
}

type CalculationRepository interface {
	// UpsertCalculation is keyed on (teacher_id, month, year) and resets approval.
	UpsertCalculation(ctx context.Context, calc MonthlySalaryCalculation) (MonthlySalaryCalculation, error)
	GetCalculationByID(ctx context.Context, id string) (MonthlySalaryCalculation, error)
	ListCalculations(ctx context.Context, filter CalculationFilter) ([]MonthlySalaryCalculation, error)
	ApproveCalculation(ctx context.Context, id string, approvedBy *string, approvedAt time.Time) error
}
