package biometric

import (
	"io"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== TIMING DTOs ==========

type CreateTimingRequest struct {
	TimingName         string `json:"timing_name"`
	ArrivalTime        string `json:"arrival_time"`
	DepartureTime      string `json:"departure_time"`
	GracePeriodMinutes *int   `json:"grace_period_minutes,omitempty"`
	IsActive           *bool  `json:"is_active,omitempty"`
}

func (r *CreateTimingRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TimingName) {
		errs = append(errs, validator.ValidationError{Field: "timing_name", Message: "is required"})
	}
	if !validator.IsValidClock(r.ArrivalTime) {
		errs = append(errs, validator.ValidationError{Field: "arrival_time", Message: ErrInvalidClockFormat.Error()})
	}
	if !validator.IsValidClock(r.DepartureTime) {
		errs = append(errs, validator.ValidationError{Field: "departure_time", Message: ErrInvalidClockFormat.Error()})
	}
	if r.GracePeriodMinutes != nil && *r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_period_minutes", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTimingRequest struct {
	ID                 string  `json:"-"`
	TimingName         *string `json:"timing_name,omitempty"`
	ArrivalTime        *string `json:"arrival_time,omitempty"`
	DepartureTime      *string `json:"departure_time,omitempty"`
	GracePeriodMinutes *int    `json:"grace_period_minutes,omitempty"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

func (r *UpdateTimingRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TimingName != nil && validator.IsEmpty(*r.TimingName) {
		errs = append(errs, validator.ValidationError{Field: "timing_name", Message: "cannot be empty"})
	}
	if r.ArrivalTime != nil && !validator.IsValidClock(*r.ArrivalTime) {
		errs = append(errs, validator.ValidationError{Field: "arrival_time", Message: ErrInvalidClockFormat.Error()})
	}
	if r.DepartureTime != nil && !validator.IsValidClock(*r.DepartureTime) {
		errs = append(errs, validator.ValidationError{Field: "departure_time", Message: ErrInvalidClockFormat.Error()})
	}
	if r.GracePeriodMinutes != nil && *r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "grace_period_minutes", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimingResponse struct {
	ID                 string    `json:"id"`
	TimingName         string    `json:"timing_name"`
	ArrivalTime        string    `json:"arrival_time"`
	DepartureTime      string    `json:"departure_time"`
	GracePeriodMinutes int       `json:"grace_period_minutes"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ========== UPLOAD DTOs ==========

type UploadRequest struct {
	FileName   string
	FileSize   int64
	Content    io.Reader
	UploadedBy *string
}

type UploadResponse struct {
	UploadID          string       `json:"upload_id"`
	FileName          string       `json:"file_name"`
	RecordsProcessed  int          `json:"records_processed"`
	RecordsSuccessful int          `json:"records_successful"`
	RecordsFailed     int          `json:"records_failed"`
	UploadStatus      UploadStatus `json:"upload_status"`
	Errors            []RowError   `json:"errors,omitempty"`
}

type UploadHistoryResponse struct {
	ID                string       `json:"id"`
	FileName          string       `json:"file_name"`
	FileSize          int64        `json:"file_size"`
	RecordsProcessed  int          `json:"records_processed"`
	RecordsSuccessful int          `json:"records_successful"`
	RecordsFailed     int          `json:"records_failed"`
	UploadStatus      UploadStatus `json:"upload_status"`
	ErrorLog          *string      `json:"error_log,omitempty"`
	UploadedBy        *string      `json:"uploaded_by,omitempty"`
	UploadDate        time.Time    `json:"upload_date"`
}

// ========== RECORD DTOs ==========

type RecordFilter struct {
	TeacherID *string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type RecordResponse struct {
	ID                    string                  `json:"id"`
	TeacherID             string                  `json:"teacher_id"`
	TeacherName           *string                 `json:"teacher_name,omitempty"`
	AttendanceDate        string                  `json:"attendance_date"`
	CheckInTime           *string                 `json:"check_in_time,omitempty"`
	CheckOutTime          *string                 `json:"check_out_time,omitempty"`
	Status                salary.AttendanceStatus `json:"status"`
	LateMinutes           int                     `json:"late_minutes"`
	EarlyDepartureMinutes int                     `json:"early_departure_minutes"`
	DeductionAmount       decimal.Decimal         `json:"deduction_amount"`
	DeductionReason       *string                 `json:"deduction_reason,omitempty"`
	UploadedFileID        *string                 `json:"uploaded_file_id,omitempty"`
}
