package salary

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceStatus enum
type AttendanceStatus string

const (
	StatusPresent        AttendanceStatus = "present"
	StatusAbsent         AttendanceStatus = "absent"
	StatusHalfDay        AttendanceStatus = "half_day"
	StatusLate           AttendanceStatus = "late"
	StatusEarlyDeparture AttendanceStatus = "early_departure"
)

// ParseAttendanceStatus accepts the canonical value and the capitalised
// device spellings ("Late", "HalfDay", "EarlyDeparture").
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "present":
		return StatusPresent, nil
	case "absent":
		return StatusAbsent, nil
	case "half_day", "halfday":
		return StatusHalfDay, nil
	case "late":
		return StatusLate, nil
	case "early_departure", "earlydeparture":
		return StatusEarlyDeparture, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAttendanceStatus, s)
}

// RuleType enum
type RuleType string

const (
	RuleLateComing     RuleType = "late_coming"
	RuleHalfDay        RuleType = "half_day"
	RuleAbsent         RuleType = "absent"
	RuleEarlyDeparture RuleType = "early_departure"
)

func ParseRuleType(s string) (RuleType, error) {
	switch RuleType(strings.ToLower(strings.TrimSpace(s))) {
	case RuleLateComing:
		return RuleLateComing, nil
	case RuleHalfDay:
		return RuleHalfDay, nil
	case RuleAbsent:
		return RuleAbsent, nil
	case RuleEarlyDeparture:
		return RuleEarlyDeparture, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRuleType, s)
}

// Label is the breakdown key used when a rule has no name.
func (t RuleType) Label() string {
	switch t {
	case RuleLateComing:
		return "Late Coming"
	case RuleHalfDay:
		return "Half Day"
	case RuleAbsent:
		return "Absent"
	case RuleEarlyDeparture:
		return "Early Departure"
	}
	return string(t)
}

// DeductionType enum
type DeductionType string

const (
	DeductionPercentage  DeductionType = "percentage"
	DeductionFixedAmount DeductionType = "fixed_amount"
	DeductionFullDay     DeductionType = "full_day"
	DeductionHalfDay     DeductionType = "half_day"
)

func ParseDeductionType(s string) (DeductionType, error) {
	switch DeductionType(strings.ToLower(strings.TrimSpace(s))) {
	case DeductionPercentage:
		return DeductionPercentage, nil
	case DeductionFixedAmount:
		return DeductionFixedAmount, nil
	case DeductionFullDay:
		return DeductionFullDay, nil
	case DeductionHalfDay:
		return DeductionHalfDay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDeductionType, s)
}

// AttendanceEvent is one day of attendance as seen by the rule engine.
type AttendanceEvent struct {
	Date                  time.Time
	Status                AttendanceStatus
	LateMinutes           int
	EarlyDepartureMinutes int
	DeductionAmount       decimal.Decimal
	DeductionReason       string
}

// DeductionRule - configurable attendance penalty
type DeductionRule struct {
	ID                   string
	RuleName             string
	RuleType             RuleType
	ConditionDescription *string
	DeductionType        DeductionType
	DeductionValue       decimal.Decimal
	GraceMinutes         int
	MaxLateCount         int
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DefaultMaxLateCount is the number of free late arrivals per month.
const DefaultMaxLateCount = 3

// Key is the breakdown key this rule accrues under.
func (r DeductionRule) Key() string {
	if strings.TrimSpace(r.RuleName) == "" {
		return r.RuleType.Label()
	}
	return r.RuleName
}

// Amount returns one application of the rule for the given per-day salary.
func (r DeductionRule) Amount(perDay decimal.Decimal) decimal.Decimal {
	switch r.DeductionType {
	case DeductionPercentage:
		return r.DeductionValue.Div(decimal.NewFromInt(100)).Mul(perDay)
	case DeductionFixedAmount:
		return r.DeductionValue
	case DeductionFullDay:
		return perDay
	case DeductionHalfDay:
		return perDay.Div(decimal.NewFromInt(2))
	}
	return decimal.Zero
}

// TeacherSalaryConfig - versioned salary entry; amounts are never edited in place
type TeacherSalaryConfig struct {
	ID                 string
	TeacherID          string
	BasicMonthlySalary decimal.Decimal
	PerDaySalary       decimal.Decimal
	EffectiveFrom      time.Time
	EffectiveTo        *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	TeacherName *string
}

// AttendanceSummary is the per-month tally stored alongside a calculation.
type AttendanceSummary struct {
	Present              int             `json:"present"`
	Absent               int             `json:"absent"`
	HalfDay              int             `json:"half_day"`
	Late                 int             `json:"late"`
	TotalAttendanceDays  int             `json:"total_attendance_days"`
	AttendancePercentage decimal.Decimal `json:"attendance_percentage"`
}

// CalculationDetails is persisted as JSONB in calculation_details.
type CalculationDetails struct {
	AttendanceRecordsCount int                        `json:"attendance_records_count"`
	DeductionRulesApplied  int                        `json:"deduction_rules_applied"`
	DeductionsByRule       map[string]decimal.Decimal `json:"deductions_by_rule"`
	AttendanceSummary      AttendanceSummary          `json:"attendance_summary"`
}

// CalculationResult is the output of one salary computation.
type CalculationResult struct {
	TeacherID        string
	Month            int
	Year             int
	BasicSalary      decimal.Decimal
	PerDaySalary     decimal.Decimal
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	HalfDays         int
	LateDays         int
	TotalDeductions  decimal.Decimal
	Bonuses          decimal.Decimal
	Allowances       decimal.Decimal
	NetSalary        decimal.Decimal
	Details          CalculationDetails
}

// MonthlySalaryCalculation - persisted result, unique per teacher and month
type MonthlySalaryCalculation struct {
	ID               string
	TeacherID        string
	Month            int
	Year             int
	BasicSalary      decimal.Decimal
	PerDaySalary     decimal.Decimal
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	HalfDays         int
	LateDays         int
	TotalDeductions  decimal.Decimal
	Bonuses          decimal.Decimal
	Allowances       decimal.Decimal
	NetSalary        decimal.Decimal
	Details          CalculationDetails
	IsApproved       bool
	ApprovedBy       *string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	TeacherName *string
}

// FromResult copies a fresh computation into the persisted shape.
// Approval is always reset.
func FromResult(r CalculationResult) MonthlySalaryCalculation {
	return MonthlySalaryCalculation{
		TeacherID:        r.TeacherID,
		Month:            r.Month,
		Year:             r.Year,
		BasicSalary:      r.BasicSalary,
		PerDaySalary:     r.PerDaySalary,
		TotalWorkingDays: r.TotalWorkingDays,
		PresentDays:      r.PresentDays,
		AbsentDays:       r.AbsentDays,
		HalfDays:         r.HalfDays,
		LateDays:         r.LateDays,
		TotalDeductions:  r.TotalDeductions,
		Bonuses:          r.Bonuses,
		Allowances:       r.Allowances,
		NetSalary:        r.NetSalary,
		Details:          r.Details,
	}
}
