package salary

import (
	"time"

	"github.com/schoolms/sms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CALCULATION DTOs ==========

// CalculateInput drives a single computation. Nil salary figures are
// taken from the teacher's active configuration.
type CalculateInput struct {
	TeacherID         string
	Month             int
	Year              int
	BasicSalary       *decimal.Decimal
	PerDaySalary      *decimal.Decimal
	Bonuses           decimal.Decimal
	Allowances        decimal.Decimal
	UseBiometric      bool
	FallbackToRegular bool
}

type CalculateSalaryRequest struct {
	Month      int      `json:"month"`
	Year       int      `json:"year"`
	TeacherIDs []string `json:"teacher_ids,omitempty"`
}

func (r *CalculateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = append(errs, validatePeriod(r.Month, r.Year)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewSalaryRequest struct {
	TeacherID         string           `json:"teacher_id"`
	Month             int              `json:"month"`
	Year              int              `json:"year"`
	BasicSalary       *decimal.Decimal `json:"basic_salary,omitempty"`
	PerDaySalary      *decimal.Decimal `json:"per_day_salary,omitempty"`
	Bonuses           *decimal.Decimal `json:"bonuses,omitempty"`
	Allowances        *decimal.Decimal `json:"allowances,omitempty"`
	UseBiometric      *bool            `json:"use_biometric,omitempty"`
	FallbackToRegular *bool            `json:"fallback_to_regular,omitempty"`
}

func (r *PreviewSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TeacherID) {
		errs = append(errs, validator.ValidationError{Field: "teacher_id", Message: "is required"})
	}
	errs = append(errs, validatePeriod(r.Month, r.Year)...)
	if r.BasicSalary != nil && r.BasicSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_salary", Message: "must be non-negative"})
	}
	if r.PerDaySalary != nil && r.PerDaySalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "per_day_salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Input converts the request, defaulting both attendance sources to on.
func (r *PreviewSalaryRequest) Input() CalculateInput {
	in := CalculateInput{
		TeacherID:         r.TeacherID,
		Month:             r.Month,
		Year:              r.Year,
		BasicSalary:       r.BasicSalary,
		PerDaySalary:      r.PerDaySalary,
		UseBiometric:      true,
		FallbackToRegular: true,
	}
	if r.Bonuses != nil {
		in.Bonuses = *r.Bonuses
	}
	if r.Allowances != nil {
		in.Allowances = *r.Allowances
	}
	if r.UseBiometric != nil {
		in.UseBiometric = *r.UseBiometric
	}
	if r.FallbackToRegular != nil {
		in.FallbackToRegular = *r.FallbackToRegular
	}
	return in
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	return errs
}

type CalculationResponse struct {
	ID                   string                     `json:"id,omitempty"`
	TeacherID            string                     `json:"teacher_id"`
	TeacherName          *string                    `json:"teacher_name,omitempty"`
	Month                int                        `json:"month"`
	Year                 int                        `json:"year"`
	BasicSalary          decimal.Decimal            `json:"basic_salary"`
	PerDaySalary         decimal.Decimal            `json:"per_day_salary"`
	TotalWorkingDays     int                        `json:"total_working_days"`
	PresentDays          int                        `json:"present_days"`
	AbsentDays           int                        `json:"absent_days"`
	HalfDays             int                        `json:"half_days"`
	LateDays             int                        `json:"late_days"`
	TotalDeductions      decimal.Decimal            `json:"total_deductions"`
	Bonuses              decimal.Decimal            `json:"bonuses"`
	Allowances           decimal.Decimal            `json:"allowances"`
	NetSalary            decimal.Decimal            `json:"net_salary"`
	AttendancePercentage decimal.Decimal            `json:"attendance_percentage"`
	DeductionsByRule     map[string]decimal.Decimal `json:"deductions_by_rule"`
	CalculationDetails   CalculationDetails         `json:"calculation_details"`
	IsApproved           bool                       `json:"is_approved"`
	ApprovedBy           *string                    `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time                 `json:"approved_at,omitempty"`
	CreatedAt            *time.Time                 `json:"created_at,omitempty"`
	UpdatedAt            *time.Time                 `json:"updated_at,omitempty"`
}

type CalculateSalaryResponse struct {
	Calculations []CalculationResponse `json:"calculations"`
	Errors       []string              `json:"errors,omitempty"`
}

type CalculationFilter struct {
	Month      *int
	Year       *int
	TeacherID  *string
	IsApproved *bool
}

type BulkApproveRequest struct {
	CalculationIDs []string `json:"calculation_ids"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.CalculationIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "calculation_ids", Message: "at least one id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkApproveResponse struct {
	ApprovedCount int      `json:"approved_count"`
	TotalCount    int      `json:"total_count"`
	Errors        []string `json:"errors,omitempty"`
}

// ========== RULE DTOs ==========

type CreateRuleRequest struct {
	RuleName             string          `json:"rule_name"`
	RuleType             string          `json:"rule_type"`
	ConditionDescription *string         `json:"condition_description,omitempty"`
	DeductionType        string          `json:"deduction_type"`
	DeductionValue       decimal.Decimal `json:"deduction_value"`
	GraceMinutes         *int            `json:"grace_minutes,omitempty"`
	MaxLateCount         *int            `json:"max_late_count,omitempty"`
	IsActive             *bool           `json:"is_active,omitempty"`
}

func (r *CreateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RuleName) {
		errs = append(errs, validator.ValidationError{Field: "rule_name", Message: "is required"})
	}
	if _, err := ParseRuleType(r.RuleType); err != nil {
		errs = append(errs, validator.ValidationError{Field: "rule_type", Message: "must be one of late_coming, half_day, absent, early_departure"})
	}
	if _, err := ParseDeductionType(r.DeductionType); err != nil {
		errs = append(errs, validator.ValidationError{Field: "deduction_type", Message: "must be one of percentage, fixed_amount, full_day, half_day"})
	}
	if r.DeductionValue.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deduction_value", Message: "must be non-negative"})
	}
	if r.GraceMinutes != nil && *r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_minutes", Message: "must be non-negative"})
	}
	if r.MaxLateCount != nil && *r.MaxLateCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_late_count", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRuleRequest struct {
	ID                   string           `json:"-"`
	RuleName             *string          `json:"rule_name,omitempty"`
	RuleType             *string          `json:"rule_type,omitempty"`
	ConditionDescription *string          `json:"condition_description,omitempty"`
	DeductionType        *string          `json:"deduction_type,omitempty"`
	DeductionValue       *decimal.Decimal `json:"deduction_value,omitempty"`
	GraceMinutes         *int             `json:"grace_minutes,omitempty"`
	MaxLateCount         *int             `json:"max_late_count,omitempty"`
	IsActive             *bool            `json:"is_active,omitempty"`
}

func (r *UpdateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RuleName != nil && validator.IsEmpty(*r.RuleName) {
		errs = append(errs, validator.ValidationError{Field: "rule_name", Message: "cannot be empty"})
	}
	if r.RuleType != nil {
		if _, err := ParseRuleType(*r.RuleType); err != nil {
			errs = append(errs, validator.ValidationError{Field: "rule_type", Message: "must be one of late_coming, half_day, absent, early_departure"})
		}
	}
	if r.DeductionType != nil {
		if _, err := ParseDeductionType(*r.DeductionType); err != nil {
			errs = append(errs, validator.ValidationError{Field: "deduction_type", Message: "must be one of percentage, fixed_amount, full_day, half_day"})
		}
	}
	if r.DeductionValue != nil && r.DeductionValue.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deduction_value", Message: "must be non-negative"})
	}
	if r.GraceMinutes != nil && *r.GraceMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_minutes", Message: "must be non-negative"})
	}
	if r.MaxLateCount != nil && *r.MaxLateCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_late_count", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RuleResponse struct {
	ID                   string          `json:"id"`
	RuleName             string          `json:"rule_name"`
	RuleType             RuleType        `json:"rule_type"`
	ConditionDescription *string         `json:"condition_description,omitempty"`
	DeductionType        DeductionType   `json:"deduction_type"`
	DeductionValue       decimal.Decimal `json:"deduction_value"`
	GraceMinutes         int             `json:"grace_minutes"`
	MaxLateCount         int             `json:"max_late_count"`
	IsActive             bool            `json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ========== SALARY CONFIG DTOs ==========

type CreateConfigRequest struct {
	TeacherID          string          `json:"teacher_id"`
	BasicMonthlySalary decimal.Decimal `json:"basic_monthly_salary"`
	PerDaySalary       decimal.Decimal `json:"per_day_salary"`
	EffectiveFrom      string          `json:"effective_from"`
	AdjustmentReason   *string         `json:"adjustment_reason,omitempty"`
}

func (r *CreateConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TeacherID) {
		errs = append(errs, validator.ValidationError{Field: "teacher_id", Message: "is required"})
	}
	if r.BasicMonthlySalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "basic_monthly_salary", Message: "must be non-negative"})
	}
	if r.PerDaySalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "per_day_salary", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateConfigRequest struct {
	ID          string  `json:"-"`
	EffectiveTo *string `json:"effective_to,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.EffectiveTo == nil && r.IsActive == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "nothing to update"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ConfigResponse struct {
	ID                 string          `json:"id"`
	TeacherID          string          `json:"teacher_id"`
	TeacherName        *string         `json:"teacher_name,omitempty"`
	BasicMonthlySalary decimal.Decimal `json:"basic_monthly_salary"`
	PerDaySalary       decimal.Decimal `json:"per_day_salary"`
	EffectiveFrom      string          `json:"effective_from"`
	EffectiveTo        *string         `json:"effective_to,omitempty"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
