package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/pkg/database"
)

type salaryRepository struct {
	db *database.DB
}

// The three salary repositories share one implementation over the same pool.

func NewRuleRepository(db *database.DB) salary.RuleRepository {
	return &salaryRepository{db: db}
}

func NewConfigRepository(db *database.DB) salary.ConfigRepository {
	return &salaryRepository{db: db}
}

func NewCalculationRepository(db *database.DB) salary.CalculationRepository {
	return &salaryRepository{db: db}
}

// ========== RULES ==========

const ruleColumns = `id, rule_name, rule_type, condition_description, deduction_type, deduction_value,
	grace_minutes, max_late_count, is_active, created_at, updated_at`

func scanRule(row pgx.Row) (salary.DeductionRule, error) {
	var r salary.DeductionRule
	err := row.Scan(
		&r.ID, &r.RuleName, &r.RuleType, &r.ConditionDescription, &r.DeductionType, &r.DeductionValue,
		&r.GraceMinutes, &r.MaxLateCount, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *salaryRepository) ListRules(ctx context.Context, activeOnly bool) ([]salary.DeductionRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM attendance_rules`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY rule_type, created_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction rules: %w", err)
	}
	defer rows.Close()

	var rules []salary.DeductionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deduction rules: %w", err)
	}
	return rules, nil
}

func (r *salaryRepository) GetRuleByID(ctx context.Context, id string) (salary.DeductionRule, error) {
	q := GetQuerier(ctx, r.db)

	rule, err := scanRule(q.QueryRow(ctx, `SELECT `+ruleColumns+` FROM attendance_rules WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.DeductionRule{}, salary.ErrRuleNotFound
		}
		return salary.DeductionRule{}, fmt.Errorf("failed to get deduction rule: %w", err)
	}
	return rule, nil
}

func (r *salaryRepository) CreateRule(ctx context.Context, rule salary.DeductionRule) (salary.DeductionRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_rules (
			rule_name, rule_type, condition_description, deduction_type, deduction_value,
			grace_minutes, max_late_count, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + ruleColumns

	created, err := scanRule(q.QueryRow(ctx, query,
		rule.RuleName, rule.RuleType, rule.ConditionDescription, rule.DeductionType, rule.DeductionValue,
		rule.GraceMinutes, rule.MaxLateCount, rule.IsActive,
	))
	if err != nil {
		return salary.DeductionRule{}, fmt.Errorf("failed to create deduction rule: %w", err)
	}
	return created, nil
}

func (r *salaryRepository) UpdateRule(ctx context.Context, req salary.UpdateRuleRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID}
	argIdx := 2

	add := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	if req.RuleName != nil {
		add("rule_name", *req.RuleName)
	}
	if req.RuleType != nil {
		add("rule_type", *req.RuleType)
	}
	if req.ConditionDescription != nil {
		add("condition_description", *req.ConditionDescription)
	}
	if req.DeductionType != nil {
		add("deduction_type", *req.DeductionType)
	}
	if req.DeductionValue != nil {
		add("deduction_value", *req.DeductionValue)
	}
	if req.GraceMinutes != nil {
		add("grace_minutes", *req.GraceMinutes)
	}
	if req.MaxLateCount != nil {
		add("max_late_count", *req.MaxLateCount)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	query := fmt.Sprintf(`UPDATE attendance_rules SET %s WHERE id = $1`, strings.Join(setParts, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update deduction rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrRuleNotFound
	}
	return nil
}

// ========== CONFIGS ==========

const configColumns = `c.id, c.teacher_id, c.basic_monthly_salary, c.per_day_salary, c.effective_from,
	c.effective_to, c.is_active, c.created_at, c.updated_at, t.full_name`

func scanConfig(row pgx.Row) (salary.TeacherSalaryConfig, error) {
	var c salary.TeacherSalaryConfig
	err := row.Scan(
		&c.ID, &c.TeacherID, &c.BasicMonthlySalary, &c.PerDaySalary, &c.EffectiveFrom,
		&c.EffectiveTo, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.TeacherName,
	)
	return c, err
}

func (r *salaryRepository) GetActiveConfig(ctx context.Context, teacherID string) (salary.TeacherSalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM teacher_salary_config c
		LEFT JOIN teachers t ON t.id = c.teacher_id
		WHERE c.teacher_id = $1 AND c.is_active = TRUE
		ORDER BY c.effective_from DESC, c.created_at DESC
		LIMIT 1
	`

	cfg, err := scanConfig(q.QueryRow(ctx, query, teacherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.TeacherSalaryConfig{}, salary.ErrSalaryConfigNotFound
		}
		return salary.TeacherSalaryConfig{}, fmt.Errorf("failed to get salary config: %w", err)
	}
	return cfg, nil
}

func (r *salaryRepository) GetConfigByID(ctx context.Context, id string) (salary.TeacherSalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM teacher_salary_config c
		LEFT JOIN teachers t ON t.id = c.teacher_id
		WHERE c.id = $1
	`

	cfg, err := scanConfig(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.TeacherSalaryConfig{}, salary.ErrSalaryConfigNotFound
		}
		return salary.TeacherSalaryConfig{}, fmt.Errorf("failed to get salary config: %w", err)
	}
	return cfg, nil
}

func (r *salaryRepository) ListConfigs(ctx context.Context, teacherID *string) ([]salary.TeacherSalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configColumns + `
		FROM teacher_salary_config c
		LEFT JOIN teachers t ON t.id = c.teacher_id
		WHERE 1 = 1
	`
	var args []interface{}
	if teacherID != nil {
		query += ` AND c.teacher_id = $1`
		args = append(args, *teacherID)
	}
	query += ` ORDER BY c.effective_from DESC, c.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary configs: %w", err)
	}
	defer rows.Close()

	var configs []salary.TeacherSalaryConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary configs: %w", err)
	}
	return configs, nil
}

func (r *salaryRepository) CreateConfig(ctx context.Context, cfg salary.TeacherSalaryConfig) (salary.TeacherSalaryConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teacher_salary_config (
			teacher_id, basic_monthly_salary, per_day_salary, effective_from, effective_to, is_active
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		cfg.TeacherID, cfg.BasicMonthlySalary, cfg.PerDaySalary, cfg.EffectiveFrom, cfg.EffectiveTo, cfg.IsActive,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return salary.TeacherSalaryConfig{}, fmt.Errorf("failed to create salary config: %w", err)
	}
	return cfg, nil
}

func (r *salaryRepository) DeactivateConfigs(ctx context.Context, teacherID string, effectiveTo time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE teacher_salary_config
		SET is_active = FALSE, effective_to = $2, updated_at = NOW()
		WHERE teacher_id = $1 AND is_active = TRUE
	`

	if _, err := q.Exec(ctx, query, teacherID, effectiveTo); err != nil {
		return fmt.Errorf("failed to deactivate salary configs: %w", err)
	}
	return nil
}

func (r *salaryRepository) UpdateConfig(ctx context.Context, id string, effectiveTo *time.Time, isActive *bool) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argIdx := 2

	if effectiveTo != nil {
		setParts = append(setParts, fmt.Sprintf("effective_to = $%d", argIdx))
		args = append(args, *effectiveTo)
		argIdx++
	}
	if isActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *isActive)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE teacher_salary_config SET %s WHERE id = $1`, strings.Join(setParts, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrSalaryConfigNotFound
	}
	return nil
}

// ========== CALCULATIONS ==========

const calculationColumns = `m.id, m.teacher_id, m.month, m.year, m.basic_salary, m.per_day_salary,
	m.total_working_days, m.present_days, m.absent_days, m.half_days, m.late_days,
	m.total_deductions, m.bonuses, m.allowances, m.net_salary, m.calculation_details,
	m.is_approved, m.approved_by, m.approved_at, m.created_at, m.updated_at`

func scanCalculation(row pgx.Row, withName bool) (salary.MonthlySalaryCalculation, error) {
	var c salary.MonthlySalaryCalculation
	var details []byte
	dest := []interface{}{
		&c.ID, &c.TeacherID, &c.Month, &c.Year, &c.BasicSalary, &c.PerDaySalary,
		&c.TotalWorkingDays, &c.PresentDays, &c.AbsentDays, &c.HalfDays, &c.LateDays,
		&c.TotalDeductions, &c.Bonuses, &c.Allowances, &c.NetSalary, &details,
		&c.IsApproved, &c.ApprovedBy, &c.ApprovedAt, &c.CreatedAt, &c.UpdatedAt,
	}
	if withName {
		dest = append(dest, &c.TeacherName)
	}
	if err := row.Scan(dest...); err != nil {
		return salary.MonthlySalaryCalculation{}, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &c.Details); err != nil {
			return salary.MonthlySalaryCalculation{}, fmt.Errorf("failed to decode calculation details: %w", err)
		}
	}
	return c, nil
}

func (r *salaryRepository) UpsertCalculation(ctx context.Context, calc salary.MonthlySalaryCalculation) (salary.MonthlySalaryCalculation, error) {
	q := GetQuerier(ctx, r.db)

	details, err := json.Marshal(calc.Details)
	if err != nil {
		return salary.MonthlySalaryCalculation{}, fmt.Errorf("failed to encode calculation details: %w", err)
	}

	query := `
		INSERT INTO monthly_salary_calculations AS m (
			teacher_id, month, year, basic_salary, per_day_salary,
			total_working_days, present_days, absent_days, half_days, late_days,
			total_deductions, bonuses, allowances, net_salary, calculation_details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (teacher_id, month, year) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			per_day_salary = EXCLUDED.per_day_salary,
			total_working_days = EXCLUDED.total_working_days,
			present_days = EXCLUDED.present_days,
			absent_days = EXCLUDED.absent_days,
			half_days = EXCLUDED.half_days,
			late_days = EXCLUDED.late_days,
			total_deductions = EXCLUDED.total_deductions,
			bonuses = EXCLUDED.bonuses,
			allowances = EXCLUDED.allowances,
			net_salary = EXCLUDED.net_salary,
			calculation_details = EXCLUDED.calculation_details,
			is_approved = FALSE,
			approved_by = NULL,
			approved_at = NULL,
			updated_at = NOW()
		RETURNING ` + calculationColumns

	saved, err := scanCalculation(q.QueryRow(ctx, query,
		calc.TeacherID, calc.Month, calc.Year, calc.BasicSalary, calc.PerDaySalary,
		calc.TotalWorkingDays, calc.PresentDays, calc.AbsentDays, calc.HalfDays, calc.LateDays,
		calc.TotalDeductions, calc.Bonuses, calc.Allowances, calc.NetSalary, details,
	), false)
	if err != nil {
		return salary.MonthlySalaryCalculation{}, fmt.Errorf("failed to save salary calculation: %w", err)
	}
	saved.TeacherName = calc.TeacherName
	return saved, nil
}

func (r *salaryRepository) GetCalculationByID(ctx context.Context, id string) (salary.MonthlySalaryCalculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + calculationColumns + `, t.full_name
		FROM monthly_salary_calculations m
		LEFT JOIN teachers t ON t.id = m.teacher_id
		WHERE m.id = $1
	`

	calc, err := scanCalculation(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.MonthlySalaryCalculation{}, salary.ErrCalculationNotFound
		}
		return salary.MonthlySalaryCalculation{}, fmt.Errorf("failed to get salary calculation: %w", err)
	}
	return calc, nil
}

func (r *salaryRepository) ListCalculations(ctx context.Context, filter salary.CalculationFilter) ([]salary.MonthlySalaryCalculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + calculationColumns + `, t.full_name
		FROM monthly_salary_calculations m
		LEFT JOIN teachers t ON t.id = m.teacher_id
		WHERE 1 = 1
	`
	var args []interface{}
	argIdx := 1

	if filter.Month != nil {
		query += fmt.Sprintf(" AND m.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		query += fmt.Sprintf(" AND m.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.TeacherID != nil {
		query += fmt.Sprintf(" AND m.teacher_id = $%d", argIdx)
		args = append(args, *filter.TeacherID)
		argIdx++
	}
	if filter.IsApproved != nil {
		query += fmt.Sprintf(" AND m.is_approved = $%d", argIdx)
		args = append(args, *filter.IsApproved)
		argIdx++
	}
	query += " ORDER BY m.year DESC, m.month DESC, t.full_name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary calculations: %w", err)
	}
	defer rows.Close()

	var calcs []salary.MonthlySalaryCalculation
	for rows.Next() {
		calc, err := scanCalculation(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary calculation: %w", err)
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary calculations: %w", err)
	}
	return calcs, nil
}

func (r *salaryRepository) ApproveCalculation(ctx context.Context, id string, approvedBy *string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_salary_calculations
		SET is_approved = TRUE, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, approvedBy, approvedAt)
	if err != nil {
		return fmt.Errorf("failed to approve salary calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrCalculationNotFound
	}
	return nil
}
