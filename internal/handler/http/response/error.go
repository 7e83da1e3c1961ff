package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/domain/user"
	"github.com/schoolms/sms-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A batch where no teacher could be computed carries the per-teacher reasons.
	var batchErr *salary.BatchError
	if errors.As(err, &batchErr) {
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    map[string][]string{"errors": batchErr.Errors},
			Error: &ErrorDetail{
				Code:    "UNPROCESSABLE_ENTITY",
				Message: batchErr.Error(),
			},
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrMissingClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions), errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, err.Error())

	// Teacher errors
	case errors.Is(err, teacher.ErrTeacherNotFound):
		NotFound(w, "Teacher not found")

	// Salary domain errors
	case errors.Is(err, salary.ErrSalaryConfigNotFound):
		NotFound(w, "No active salary configuration for teacher")
	case errors.Is(err, salary.ErrCalculationNotFound):
		NotFound(w, "Salary calculation not found")
	case errors.Is(err, salary.ErrRuleNotFound):
		NotFound(w, "Deduction rule not found")
	case errors.Is(err, salary.ErrCalculationAlreadyApproved):
		Conflict(w, "Salary calculation already approved")
	case errors.Is(err, salary.ErrNoTeachers):
		NotFound(w, "No teachers found")
	case errors.Is(err, salary.ErrInvalidMonth), errors.Is(err, salary.ErrInvalidYear),
		errors.Is(err, salary.ErrInvalidRuleType), errors.Is(err, salary.ErrInvalidDeductionType):
		BadRequest(w, err.Error(), nil)

	// Biometric domain errors
	case errors.Is(err, biometric.ErrTimingNotFound):
		NotFound(w, "School timing not found")
	case errors.Is(err, biometric.ErrRecordNotFound):
		NotFound(w, "Biometric record not found")
	case errors.Is(err, biometric.ErrUploadNotFound):
		NotFound(w, "Upload history not found")
	case errors.Is(err, biometric.ErrInvalidFileType), errors.Is(err, biometric.ErrEmptyCSV),
		errors.Is(err, biometric.ErrMissingCSVColumns), errors.Is(err, biometric.ErrInvalidCSV),
		errors.Is(err, biometric.ErrInvalidClockFormat):
		BadRequest(w, err.Error(), nil)

	// Invoice domain errors
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		NotFound(w, "Invoice not found")
	case errors.Is(err, invoice.ErrCalculationNotApproved):
		BadRequest(w, "Salary calculation must be approved before generating invoice", nil)
	case errors.Is(err, invoice.ErrInvoiceExists), errors.Is(err, invoice.ErrInvoiceNumberConflict):
		Conflict(w, err.Error())
	case errors.Is(err, invoice.ErrInvalidStatus), errors.Is(err, invoice.ErrInvalidTemplate),
		errors.Is(err, invoice.ErrInvalidFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
