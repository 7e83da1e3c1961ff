package salary

import "errors"

var (
	ErrSalaryConfigNotFound       = errors.New("no active salary configuration")
	ErrCalculationNotFound        = errors.New("salary calculation not found")
	ErrCalculationAlreadyApproved = errors.New("salary calculation already approved")
	ErrRuleNotFound               = errors.New("deduction rule not found")
	ErrInvalidMonth               = errors.New("month must be between 1 and 12")
	ErrInvalidYear                = errors.New("invalid year")
	ErrNoTeachers                 = errors.New("no teachers found")
	ErrNoCalculations             = errors.New("no salary calculations could be completed")
	ErrUnknownAttendanceStatus    = errors.New("unknown attendance status")
	ErrInvalidRuleType            = errors.New("invalid rule type")
	ErrInvalidDeductionType       = errors.New("invalid deduction type")
)

// BatchError wraps ErrNoCalculations with the per-teacher failures.
type BatchError struct {
	Errors []string
}

func (e *BatchError) Error() string {
	return ErrNoCalculations.Error()
}

func (e *BatchError) Unwrap() error {
	return ErrNoCalculations
}
