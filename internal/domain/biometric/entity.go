package biometric

import (
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
)

// ClockLayout is the storage format of school timing clock values.
const ClockLayout = "15:04:05"

// Device export layouts.
const (
	CSVDateLayout = "Monday, January 2, 2006"
	CSVTimeLayout = "3:04:05 PM"
)

// Device punch types.
const (
	PunchCheckIn  = "C/In"
	PunchCheckOut = "C/Out"
)

// RequiredColumns must all be present in an upload's header row.
var RequiredColumns = []string{"Name", "Time", "Date", "Status"}

// SchoolTiming - expected arrival/departure for a shift
type SchoolTiming struct {
	ID                 string
	TimingName         string
	ArrivalTime        string
	DepartureTime      string
	GracePeriodMinutes int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultGracePeriodMinutes applies when a timing is created without one.
const DefaultGracePeriodMinutes = 5

// Record - one teacher-day from the biometric device
type Record struct {
	ID                    string
	TeacherID             string
	AttendanceDate        time.Time
	CheckInTime           *string
	CheckOutTime          *string
	Status                salary.AttendanceStatus
	LateMinutes           int
	EarlyDepartureMinutes int
	DeductionAmount       decimal.Decimal
	DeductionReason       *string
	UploadedFileID        *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Joined fields
	TeacherName *string
}

// Event converts the stored record into the engine's view of the day.
func (r Record) Event() salary.AttendanceEvent {
	ev := salary.AttendanceEvent{
		Date:                  r.AttendanceDate,
		Status:                r.Status,
		LateMinutes:           r.LateMinutes,
		EarlyDepartureMinutes: r.EarlyDepartureMinutes,
		DeductionAmount:       r.DeductionAmount,
	}
	if r.DeductionReason != nil {
		ev.DeductionReason = *r.DeductionReason
	}
	return ev
}

// UploadStatus enum
type UploadStatus string

const (
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadPartial    UploadStatus = "partial"
	UploadFailed     UploadStatus = "failed"
)

// FinalStatus derives the terminal state of an upload from its counters.
func FinalStatus(successful, failed int) UploadStatus {
	switch {
	case failed == 0:
		return UploadCompleted
	case successful > 0:
		return UploadPartial
	default:
		return UploadFailed
	}
}

// UploadHistory - audit row for one CSV upload
type UploadHistory struct {
	ID                string
	FileName          string
	FileSize          int64
	FilePath          *string
	RecordsProcessed  int
	RecordsSuccessful int
	RecordsFailed     int
	UploadStatus      UploadStatus
	ErrorLog          *string
	UploadedBy        *string
	UploadDate        time.Time
}

// CSVRow is one data line of a device export.
type CSVRow struct {
	Line   int
	Name   string
	Time   string
	Date   string
	Status string
}

// RowError records why a single line was rejected.
type RowError struct {
	Line   int    `json:"line"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
