package salary

import "context"

type SalaryService interface {
	// Calculations
	Calculate(ctx context.Context, in CalculateInput) (CalculationResult, error)
	CalculateAndSave(ctx context.Context, req CalculateSalaryRequest) (CalculateSalaryResponse, error)
	Preview(ctx context.Context, req PreviewSalaryRequest) (CalculationResponse, error)
	Recalculate(ctx context.Context, id string) (CalculationResponse, error)
	GetCalculation(ctx context.Context, id string) (CalculationResponse, error)
	ListCalculations(ctx context.Context, filter CalculationFilter) ([]CalculationResponse, error)
	Approve(ctx context.Context, id string) (CalculationResponse, error)
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkApproveResponse, error)

	// Rules
	ListRules(ctx context.Context, activeOnly bool) ([]RuleResponse, error)
	CreateRule(ctx context.Context, req CreateRuleRequest) (RuleResponse, error)
	UpdateRule(ctx context.Context, req UpdateRuleRequest) (RuleResponse, error)

	// Salary configs
	ListConfigs(ctx context.Context, teacherID *string) ([]ConfigResponse, error)
	CreateConfig(ctx context.Context, req CreateConfigRequest) (ConfigResponse, error)
	UpdateConfig(ctx context.Context, req UpdateConfigRequest) (ConfigResponse, error)
}
