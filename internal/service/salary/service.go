package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/domain/user"
	"github.com/schoolms/sms-backend-go/internal/pkg/jwt"
	"github.com/schoolms/sms-backend-go/internal/pkg/metrics"
	"github.com/schoolms/sms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type SalaryServiceImpl struct {
	tx              postgresql.Transactor
	calculator      *Calculator
	ruleRepo        salary.RuleRepository
	configRepo      salary.ConfigRepository
	calculationRepo salary.CalculationRepository
	teacherRepo     teacher.TeacherRepository
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewSalaryService(
	tx postgresql.Transactor,
	calculator *Calculator,
	ruleRepo salary.RuleRepository,
	configRepo salary.ConfigRepository,
	calculationRepo salary.CalculationRepository,
	teacherRepo teacher.TeacherRepository,
	m *metrics.Metrics,
) salary.SalaryService {
	return &SalaryServiceImpl{
		tx:              tx,
		calculator:      calculator,
		ruleRepo:        ruleRepo,
		configRepo:      configRepo,
		calculationRepo: calculationRepo,
		teacherRepo:     teacherRepo,
		metrics:         m,
		now:             time.Now,
	}
}

// ========== CALCULATIONS ==========

func (s *SalaryServiceImpl) Calculate(ctx context.Context, in salary.CalculateInput) (salary.CalculationResult, error) {
	return s.calculator.Calculate(ctx, in)
}

func (s *SalaryServiceImpl) CalculateAndSave(ctx context.Context, req salary.CalculateSalaryRequest) (salary.CalculateSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.CalculateSalaryResponse{}, err
	}

	var teachers []teacher.Teacher
	var err error
	if len(req.TeacherIDs) > 0 {
		teachers, err = s.teacherRepo.GetByIDs(ctx, req.TeacherIDs)
	} else {
		teachers, err = s.teacherRepo.List(ctx)
	}
	if err != nil {
		return salary.CalculateSalaryResponse{}, fmt.Errorf("failed to load teachers: %w", err)
	}
	if len(teachers) == 0 {
		return salary.CalculateSalaryResponse{}, salary.ErrNoTeachers
	}

	resp := salary.CalculateSalaryResponse{Calculations: make([]salary.CalculationResponse, 0, len(teachers))}
	for _, t := range teachers {
		result, err := s.calculator.Calculate(ctx, salary.CalculateInput{
			TeacherID:         t.ID,
			Month:             req.Month,
			Year:              req.Year,
			UseBiometric:      true,
			FallbackToRegular: true,
		})
		if err != nil {
			s.metrics.Calculation(metrics.ModeSave, metrics.OutcomeSkipped)
			slog.Warn("Skipping salary calculation", "teacher_id", t.ID, "month", req.Month, "year", req.Year, "error", err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", t.FullName, err))
			continue
		}

		saved, err := s.calculationRepo.UpsertCalculation(ctx, salary.FromResult(result))
		if err != nil {
			s.metrics.Calculation(metrics.ModeSave, metrics.OutcomeError)
			slog.Error("Failed to save salary calculation", "teacher_id", t.ID, "error", err)
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: failed to save calculation", t.FullName))
			continue
		}

		s.metrics.Calculation(metrics.ModeSave, metrics.OutcomeSuccess)
		name := t.FullName
		saved.TeacherName = &name
		resp.Calculations = append(resp.Calculations, mapToCalculationResponse(saved))
	}

	if len(resp.Calculations) == 0 {
		return salary.CalculateSalaryResponse{}, &salary.BatchError{Errors: firstN(resp.Errors, 5)}
	}

	slog.Info("Salary calculations saved", "month", req.Month, "year", req.Year, "saved", len(resp.Calculations), "skipped", len(resp.Errors))
	return resp, nil
}

func (s *SalaryServiceImpl) Preview(ctx context.Context, req salary.PreviewSalaryRequest) (salary.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.CalculationResponse{}, err
	}

	if _, err := s.teacherRepo.GetByID(ctx, req.TeacherID); err != nil {
		return salary.CalculationResponse{}, err
	}

	result, err := s.calculator.Calculate(ctx, req.Input())
	if err != nil {
		s.metrics.Calculation(metrics.ModePreview, metrics.OutcomeError)
		return salary.CalculationResponse{}, err
	}
	s.metrics.Calculation(metrics.ModePreview, metrics.OutcomeSuccess)

	return mapToCalculationResponse(salary.FromResult(result)), nil
}

func (s *SalaryServiceImpl) Recalculate(ctx context.Context, id string) (salary.CalculationResponse, error) {
	existing, err := s.calculationRepo.GetCalculationByID(ctx, id)
	if err != nil {
		return salary.CalculationResponse{}, err
	}

	result, err := s.calculator.Calculate(ctx, salary.CalculateInput{
		TeacherID:         existing.TeacherID,
		Month:             existing.Month,
		Year:              existing.Year,
		Bonuses:           existing.Bonuses,
		Allowances:        existing.Allowances,
		UseBiometric:      true,
		FallbackToRegular: true,
	})
	if err != nil {
		s.metrics.Calculation(metrics.ModeRecalculate, metrics.OutcomeError)
		return salary.CalculationResponse{}, err
	}

	saved, err := s.calculationRepo.UpsertCalculation(ctx, salary.FromResult(result))
	if err != nil {
		s.metrics.Calculation(metrics.ModeRecalculate, metrics.OutcomeError)
		return salary.CalculationResponse{}, err
	}
	s.metrics.Calculation(metrics.ModeRecalculate, metrics.OutcomeSuccess)
	saved.TeacherName = existing.TeacherName

	slog.Info("Salary recalculated", "calculation_id", saved.ID, "teacher_id", saved.TeacherID, "was_approved", existing.IsApproved)
	return mapToCalculationResponse(saved), nil
}

func (s *SalaryServiceImpl) GetCalculation(ctx context.Context, id string) (salary.CalculationResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.CalculationResponse{}, err
	}

	calc, err := s.calculationRepo.GetCalculationByID(ctx, id)
	if err != nil {
		return salary.CalculationResponse{}, err
	}

	if !claims.IsManager() {
		own, err := s.teacherRepo.GetByUserID(ctx, claims.UserID)
		if err != nil || own.ID != calc.TeacherID {
			return salary.CalculationResponse{}, salary.ErrCalculationNotFound
		}
	}

	return mapToCalculationResponse(calc), nil
}

func (s *SalaryServiceImpl) ListCalculations(ctx context.Context, filter salary.CalculationFilter) ([]salary.CalculationResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !claims.IsManager() {
		own, err := s.teacherRepo.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, teacher.ErrTeacherNotFound) {
				return []salary.CalculationResponse{}, nil
			}
			return nil, err
		}
		filter.TeacherID = &own.ID
	}

	calcs, err := s.calculationRepo.ListCalculations(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]salary.CalculationResponse, 0, len(calcs))
	for _, c := range calcs {
		result = append(result, mapToCalculationResponse(c))
	}
	return result, nil
}

func (s *SalaryServiceImpl) Approve(ctx context.Context, id string) (salary.CalculationResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.CalculationResponse{}, err
	}
	if !claims.IsManager() {
		return salary.CalculationResponse{}, user.ErrManagerAccessRequired
	}

	calc, err := s.calculationRepo.GetCalculationByID(ctx, id)
	if err != nil {
		return salary.CalculationResponse{}, err
	}
	if calc.IsApproved {
		return salary.CalculationResponse{}, salary.ErrCalculationAlreadyApproved
	}

	now := s.now()
	if err := s.calculationRepo.ApproveCalculation(ctx, id, &claims.UserID, now); err != nil {
		return salary.CalculationResponse{}, err
	}

	calc.IsApproved = true
	calc.ApprovedBy = &claims.UserID
	calc.ApprovedAt = &now

	slog.Info("Salary calculation approved", "calculation_id", id, "approved_by", claims.UserID)
	return mapToCalculationResponse(calc), nil
}

func (s *SalaryServiceImpl) BulkApprove(ctx context.Context, req salary.BulkApproveRequest) (salary.BulkApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.BulkApproveResponse{}, err
	}

	resp := salary.BulkApproveResponse{TotalCount: len(req.CalculationIDs)}
	for _, id := range req.CalculationIDs {
		if _, err := s.Approve(ctx, id); err != nil {
			if errors.Is(err, user.ErrManagerAccessRequired) || errors.Is(err, user.ErrMissingClaims) {
				return salary.BulkApproveResponse{}, err
			}
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		resp.ApprovedCount++
	}

	return resp, nil
}

// ========== RULES ==========

func (s *SalaryServiceImpl) ListRules(ctx context.Context, activeOnly bool) ([]salary.RuleResponse, error) {
	rules, err := s.ruleRepo.ListRules(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]salary.RuleResponse, 0, len(rules))
	for _, r := range rules {
		result = append(result, mapToRuleResponse(r))
	}
	return result, nil
}

func (s *SalaryServiceImpl) CreateRule(ctx context.Context, req salary.CreateRuleRequest) (salary.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.RuleResponse{}, err
	}

	ruleType, _ := salary.ParseRuleType(req.RuleType)
	deductionType, _ := salary.ParseDeductionType(req.DeductionType)

	rule := salary.DeductionRule{
		RuleName:             req.RuleName,
		RuleType:             ruleType,
		ConditionDescription: req.ConditionDescription,
		DeductionType:        deductionType,
		DeductionValue:       req.DeductionValue,
		MaxLateCount:         salary.DefaultMaxLateCount,
		IsActive:             true,
	}
	if req.GraceMinutes != nil {
		rule.GraceMinutes = *req.GraceMinutes
	}
	if req.MaxLateCount != nil {
		rule.MaxLateCount = *req.MaxLateCount
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	created, err := s.ruleRepo.CreateRule(ctx, rule)
	if err != nil {
		return salary.RuleResponse{}, err
	}
	return mapToRuleResponse(created), nil
}

func (s *SalaryServiceImpl) UpdateRule(ctx context.Context, req salary.UpdateRuleRequest) (salary.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.RuleResponse{}, err
	}

	if _, err := s.ruleRepo.GetRuleByID(ctx, req.ID); err != nil {
		return salary.RuleResponse{}, err
	}
	if err := s.ruleRepo.UpdateRule(ctx, req); err != nil {
		return salary.RuleResponse{}, err
	}

	updated, err := s.ruleRepo.GetRuleByID(ctx, req.ID)
	if err != nil {
		return salary.RuleResponse{}, err
	}
	return mapToRuleResponse(updated), nil
}

// ========== SALARY CONFIGS ==========

func (s *SalaryServiceImpl) ListConfigs(ctx context.Context, teacherID *string) ([]salary.ConfigResponse, error) {
	configs, err := s.configRepo.ListConfigs(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	result := make([]salary.ConfigResponse, 0, len(configs))
	for _, c := range configs {
		result = append(result, mapToConfigResponse(c))
	}
	return result, nil
}

// CreateConfig closes the teacher's current configuration and opens a new
// one in a single transaction. Existing rows keep their amounts.
func (s *SalaryServiceImpl) CreateConfig(ctx context.Context, req salary.CreateConfigRequest) (salary.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.ConfigResponse{}, err
	}
	effectiveFrom, _ := time.Parse("2006-01-02", req.EffectiveFrom)

	t, err := s.teacherRepo.GetByID(ctx, req.TeacherID)
	if err != nil {
		return salary.ConfigResponse{}, err
	}

	var created salary.TeacherSalaryConfig
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if err := s.configRepo.DeactivateConfigs(txCtx, req.TeacherID, effectiveFrom); err != nil {
			return err
		}
		var err error
		created, err = s.configRepo.CreateConfig(txCtx, salary.TeacherSalaryConfig{
			TeacherID:          req.TeacherID,
			BasicMonthlySalary: req.BasicMonthlySalary,
			PerDaySalary:       req.PerDaySalary,
			EffectiveFrom:      effectiveFrom,
			IsActive:           true,
		})
		return err
	})
	if err != nil {
		return salary.ConfigResponse{}, err
	}

	reason := ""
	if req.AdjustmentReason != nil {
		reason = *req.AdjustmentReason
	}
	slog.Info("Teacher salary config created",
		"teacher_id", req.TeacherID,
		"basic_monthly_salary", req.BasicMonthlySalary.String(),
		"per_day_salary", req.PerDaySalary.String(),
		"effective_from", req.EffectiveFrom,
		"adjustment_reason", reason,
	)

	created.TeacherName = &t.FullName
	return mapToConfigResponse(created), nil
}

func (s *SalaryServiceImpl) UpdateConfig(ctx context.Context, req salary.UpdateConfigRequest) (salary.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.ConfigResponse{}, err
	}

	if _, err := s.configRepo.GetConfigByID(ctx, req.ID); err != nil {
		return salary.ConfigResponse{}, err
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != nil {
		d, _ := time.Parse("2006-01-02", *req.EffectiveTo)
		effectiveTo = &d
	}
	if err := s.configRepo.UpdateConfig(ctx, req.ID, effectiveTo, req.IsActive); err != nil {
		return salary.ConfigResponse{}, err
	}

	updated, err := s.configRepo.GetConfigByID(ctx, req.ID)
	if err != nil {
		return salary.ConfigResponse{}, err
	}
	return mapToConfigResponse(updated), nil
}

// ========== MAPPERS ==========

func mapToCalculationResponse(c salary.MonthlySalaryCalculation) salary.CalculationResponse {
	byRule := c.Details.DeductionsByRule
	if byRule == nil {
		byRule = map[string]decimal.Decimal{}
	}

	resp := salary.CalculationResponse{
		ID:                   c.ID,
		TeacherID:            c.TeacherID,
		TeacherName:          c.TeacherName,
		Month:                c.Month,
		Year:                 c.Year,
		BasicSalary:          c.BasicSalary,
		PerDaySalary:         c.PerDaySalary,
		TotalWorkingDays:     c.TotalWorkingDays,
		PresentDays:          c.PresentDays,
		AbsentDays:           c.AbsentDays,
		HalfDays:             c.HalfDays,
		LateDays:             c.LateDays,
		TotalDeductions:      c.TotalDeductions,
		Bonuses:              c.Bonuses,
		Allowances:           c.Allowances,
		NetSalary:            c.NetSalary,
		AttendancePercentage: c.Details.AttendanceSummary.AttendancePercentage,
		DeductionsByRule:     byRule,
		CalculationDetails:   c.Details,
		IsApproved:           c.IsApproved,
		ApprovedBy:           c.ApprovedBy,
		ApprovedAt:           c.ApprovedAt,
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = &c.CreatedAt
		resp.UpdatedAt = &c.UpdatedAt
	}
	return resp
}

func mapToRuleResponse(r salary.DeductionRule) salary.RuleResponse {
	return salary.RuleResponse{
		ID:                   r.ID,
		RuleName:             r.RuleName,
		RuleType:             r.RuleType,
		ConditionDescription: r.ConditionDescription,
		DeductionType:        r.DeductionType,
		DeductionValue:       r.DeductionValue,
		GraceMinutes:         r.GraceMinutes,
		MaxLateCount:         r.MaxLateCount,
		IsActive:             r.IsActive,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func mapToConfigResponse(c salary.TeacherSalaryConfig) salary.ConfigResponse {
	resp := salary.ConfigResponse{
		ID:                 c.ID,
		TeacherID:          c.TeacherID,
		TeacherName:        c.TeacherName,
		BasicMonthlySalary: c.BasicMonthlySalary,
		PerDaySalary:       c.PerDaySalary,
		EffectiveFrom:      c.EffectiveFrom.Format("2006-01-02"),
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if c.EffectiveTo != nil {
		to := c.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &to
	}
	return resp
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
