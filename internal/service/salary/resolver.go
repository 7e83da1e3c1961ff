package salary

import (
	"context"
	"log/slog"
	"sort"

	"github.com/schoolms/sms-backend-go/internal/domain/attendance"
	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/shopspring/decimal"
)

// Resolver picks the attendance source for a teacher-month. Biometric
// records win whenever any exist; the manual register is only consulted
// when the device has nothing for the month.
type Resolver struct {
	biometricRepo  biometric.RecordRepository
	attendanceRepo attendance.AttendanceRepository
	teacherRepo    teacher.TeacherRepository
}

func NewResolver(
	biometricRepo biometric.RecordRepository,
	attendanceRepo attendance.AttendanceRepository,
	teacherRepo teacher.TeacherRepository,
) *Resolver {
	return &Resolver{
		biometricRepo:  biometricRepo,
		attendanceRepo: attendanceRepo,
		teacherRepo:    teacherRepo,
	}
}

// Resolve never fails: a source that cannot be read contributes no events.
// Events are returned oldest first.
func (r *Resolver) Resolve(ctx context.Context, teacherID string, month, year int, useBiometric, fallbackToRegular bool) []salary.AttendanceEvent {
	from, to := MonthRange(year, month)

	if useBiometric {
		records, err := r.biometricRepo.ListByTeacherAndRange(ctx, teacherID, from, to)
		if err != nil {
			slog.Warn("Failed to read biometric attendance", "teacher_id", teacherID, "month", month, "year", year, "error", err)
		} else if len(records) > 0 {
			events := make([]salary.AttendanceEvent, 0, len(records))
			for _, rec := range records {
				events = append(events, rec.Event())
			}
			sortByDate(events)
			return events
		}
	}

	if !fallbackToRegular {
		return nil
	}

	t, err := r.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		slog.Warn("Failed to load teacher for manual attendance", "teacher_id", teacherID, "error", err)
		return nil
	}

	records, err := r.attendanceRepo.ListByUserAndRange(ctx, t.UserID, from, to)
	if err != nil {
		slog.Warn("Failed to read manual attendance", "teacher_id", teacherID, "user_id", t.UserID, "error", err)
		return nil
	}

	events := make([]salary.AttendanceEvent, 0, len(records))
	for _, rec := range records {
		status, ok := manualStatus(rec.Status)
		if !ok {
			slog.Warn("Skipping manual attendance with unknown status", "teacher_id", teacherID, "date", rec.Date, "status", rec.Status)
			continue
		}
		events = append(events, salary.AttendanceEvent{
			Date:            rec.Date,
			Status:          status,
			DeductionAmount: decimal.Zero,
		})
	}
	sortByDate(events)
	return events
}

// manualStatus maps the register's vocabulary onto the engine's. An excused
// day counts as present.
func manualStatus(s string) (salary.AttendanceStatus, bool) {
	if s == attendance.StatusExcused {
		return salary.StatusPresent, true
	}
	status, err := salary.ParseAttendanceStatus(s)
	if err != nil {
		return "", false
	}
	return status, true
}

func sortByDate(events []salary.AttendanceEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}
