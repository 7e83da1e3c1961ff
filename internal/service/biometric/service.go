package biometric

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/pkg/jwt"
	"github.com/schoolms/sms-backend-go/internal/pkg/metrics"
	"github.com/schoolms/sms-backend-go/internal/service/file"
	salarysvc "github.com/schoolms/sms-backend-go/internal/service/salary"
	"github.com/shopspring/decimal"
)

const (
	rowSuccess = "success"
	rowFailed  = "failed"
)

type BiometricServiceImpl struct {
	timingRepo  biometric.TimingRepository
	recordRepo  biometric.RecordRepository
	uploadRepo  biometric.UploadRepository
	ruleRepo    salary.RuleRepository
	configRepo  salary.ConfigRepository
	teacherRepo teacher.TeacherRepository
	matcher     biometric.TeacherMatcher
	fileService file.FileService
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewBiometricService(
	timingRepo biometric.TimingRepository,
	recordRepo biometric.RecordRepository,
	uploadRepo biometric.UploadRepository,
	ruleRepo salary.RuleRepository,
	configRepo salary.ConfigRepository,
	teacherRepo teacher.TeacherRepository,
	matcher biometric.TeacherMatcher,
	fileService file.FileService,
	m *metrics.Metrics,
) biometric.BiometricService {
	return &BiometricServiceImpl{
		timingRepo:  timingRepo,
		recordRepo:  recordRepo,
		uploadRepo:  uploadRepo,
		ruleRepo:    ruleRepo,
		configRepo:  configRepo,
		teacherRepo: teacherRepo,
		matcher:     matcher,
		fileService: fileService,
		metrics:     m,
		now:         time.Now,
	}
}

// ========== UPLOAD ==========

// ingestRun carries the lookups shared by every row of one upload.
type ingestRun struct {
	uploadID string
	timing   *biometric.SchoolTiming
	lateRule *salary.DeductionRule
	teachers map[string]*teacher.Teacher
	perDay   map[string]decimal.Decimal
}

func (s *BiometricServiceImpl) Upload(ctx context.Context, req biometric.UploadRequest) (biometric.UploadResponse, error) {
	started := s.now()

	if !strings.EqualFold(filepath.Ext(req.FileName), ".csv") {
		return biometric.UploadResponse{}, biometric.ErrInvalidFileType
	}

	raw, err := io.ReadAll(req.Content)
	if err != nil {
		return biometric.UploadResponse{}, fmt.Errorf("failed to read upload: %w", err)
	}

	rows, err := ReadRows(bytes.NewReader(raw))
	if err != nil {
		s.metrics.Upload(string(biometric.UploadFailed), s.now().Sub(started).Seconds())
		return biometric.UploadResponse{}, err
	}

	run := s.newRun(ctx)

	var filePath *string
	if s.fileService != nil {
		stored, err := s.fileService.UploadAttendanceExport(ctx, bytes.NewReader(raw), req.FileName, started)
		if err != nil {
			slog.Warn("Failed to archive biometric export", "file_name", req.FileName, "error", err)
		} else {
			filePath = &stored
		}
	}

	upload, err := s.uploadRepo.CreateUpload(ctx, biometric.UploadHistory{
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		FilePath:     filePath,
		UploadStatus: biometric.UploadProcessing,
		UploadedBy:   req.UploadedBy,
		UploadDate:   started,
	})
	if err != nil {
		if filePath != nil {
			if delErr := s.fileService.DeleteFile(ctx, *filePath); delErr != nil {
				slog.Warn("Failed to remove orphaned export", "path", *filePath, "error", delErr)
			}
		}
		return biometric.UploadResponse{}, fmt.Errorf("failed to create upload history: %w", err)
	}

	run.uploadID = upload.ID

	var rowErrors []biometric.RowError
	successful := 0
	for _, row := range rows {
		if err := s.ingestRow(ctx, run, row); err != nil {
			rowErrors = append(rowErrors, biometric.RowError{Line: row.Line, Name: row.Name, Reason: err.Error()})
			s.metrics.CSVRow(rowFailed)
			continue
		}
		successful++
		s.metrics.CSVRow(rowSuccess)
	}

	upload.RecordsProcessed = len(rows)
	upload.RecordsSuccessful = successful
	upload.RecordsFailed = len(rowErrors)
	upload.UploadStatus = biometric.FinalStatus(successful, len(rowErrors))
	if len(rowErrors) > 0 {
		lines := make([]string, 0, len(rowErrors))
		for _, re := range rowErrors {
			lines = append(lines, re.Reason)
		}
		log := strings.Join(lines, "\n")
		upload.ErrorLog = &log
	}

	if err := s.uploadRepo.FinishUpload(ctx, upload); err != nil {
		return biometric.UploadResponse{}, fmt.Errorf("failed to finish upload history: %w", err)
	}

	s.metrics.Upload(string(upload.UploadStatus), s.now().Sub(started).Seconds())
	slog.Info("Biometric upload processed",
		"upload_id", upload.ID,
		"file_name", upload.FileName,
		"processed", upload.RecordsProcessed,
		"successful", successful,
		"failed", len(rowErrors),
		"status", upload.UploadStatus,
	)

	return biometric.UploadResponse{
		UploadID:          upload.ID,
		FileName:          upload.FileName,
		RecordsProcessed:  upload.RecordsProcessed,
		RecordsSuccessful: successful,
		RecordsFailed:     len(rowErrors),
		UploadStatus:      upload.UploadStatus,
		Errors:            rowErrors,
	}, nil
}

// newRun loads the timing and late rule shared by every row. Read failures
// leave them unset: rows are still stored, without late or early detection.
func (s *BiometricServiceImpl) newRun(ctx context.Context) *ingestRun {
	run := &ingestRun{
		teachers: make(map[string]*teacher.Teacher),
		perDay:   make(map[string]decimal.Decimal),
	}

	timing, err := s.timingRepo.GetActiveTiming(ctx)
	switch {
	case err == nil:
		run.timing = &timing
	case errors.Is(err, biometric.ErrTimingNotFound):
		slog.Warn("No active school timing; late arrivals will not be detected")
	default:
		slog.Warn("Failed to load school timing; late arrivals will not be detected", "error", err)
	}

	rules, err := s.ruleRepo.ListRules(ctx, true)
	if err != nil {
		slog.Warn("Failed to load deduction rules; late deductions will not be precomputed", "error", err)
		return run
	}
	for _, r := range rules {
		if r.RuleType == salary.RuleLateComing {
			rule := r
			run.lateRule = &rule
			break
		}
	}

	return run
}

func (s *BiometricServiceImpl) ingestRow(ctx context.Context, run *ingestRun, row biometric.CSVRow) error {
	t, err := s.matchTeacher(ctx, run, row.Name)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("Teacher not found: %s", row.Name)
	}

	date, punch, err := ParseStamp(row.Date, row.Time)
	if err != nil {
		return fmt.Errorf("Invalid date/time format for %s: %s, %s", row.Name, row.Date, row.Time)
	}
	clock := punch.Format(biometric.ClockLayout)

	rec := biometric.Record{
		TeacherID:       t.ID,
		AttendanceDate:  date,
		Status:          salary.StatusPresent,
		DeductionAmount: decimal.Zero,
		UploadedFileID:  &run.uploadID,
	}

	switch {
	case strings.EqualFold(row.Status, biometric.PunchCheckIn):
		// A check-out already stored for the day survives a later check-in row.
		existing, err := s.recordRepo.GetByTeacherAndDate(ctx, t.ID, date)
		switch {
		case err == nil:
			rec.ID = existing.ID
			rec.CheckOutTime = existing.CheckOutTime
			rec.EarlyDepartureMinutes = existing.EarlyDepartureMinutes
		case errors.Is(err, biometric.ErrRecordNotFound):
		default:
			return fmt.Errorf("failed to load attendance for %s: %w", row.Name, err)
		}
		rec.CheckInTime = &clock
		if run.timing != nil {
			arrival, err := clockOf(run.timing.ArrivalTime)
			if err != nil {
				return fmt.Errorf("invalid arrival time %q in school timing", run.timing.ArrivalTime)
			}
			grace := arrival.Add(time.Duration(run.timing.GracePeriodMinutes) * time.Minute)
			if punch.After(grace) {
				rec.Status = salary.StatusLate
				rec.LateMinutes = minutesAfter(punch, arrival)
				if run.lateRule != nil {
					perDay := s.perDaySalary(ctx, run, t.ID, date)
					reason := fmt.Sprintf("Late arrival: %d minutes", rec.LateMinutes)
					rec.DeductionAmount = run.lateRule.Amount(perDay)
					rec.DeductionReason = &reason
				}
			}
		}
		if rec.Status == salary.StatusPresent && rec.EarlyDepartureMinutes > 0 {
			rec.Status = salary.StatusEarlyDeparture
		}

	case strings.EqualFold(row.Status, biometric.PunchCheckOut):
		existing, err := s.recordRepo.GetByTeacherAndDate(ctx, t.ID, date)
		switch {
		case err == nil:
			existing.UploadedFileID = &run.uploadID
			rec = existing
		case errors.Is(err, biometric.ErrRecordNotFound):
		default:
			return fmt.Errorf("failed to load attendance for %s: %w", row.Name, err)
		}
		rec.CheckOutTime = &clock
		if run.timing != nil {
			departure, err := clockOf(run.timing.DepartureTime)
			if err != nil {
				return fmt.Errorf("invalid departure time %q in school timing", run.timing.DepartureTime)
			}
			rec.EarlyDepartureMinutes = minutesAfter(departure, punch)
			if rec.EarlyDepartureMinutes > 0 && rec.Status == salary.StatusPresent {
				rec.Status = salary.StatusEarlyDeparture
			}
		}
	}

	if _, err := s.recordRepo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("failed to save attendance for %s: %w", row.Name, err)
	}
	return nil
}

func (s *BiometricServiceImpl) matchTeacher(ctx context.Context, run *ingestRun, name string) (*teacher.Teacher, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := run.teachers[key]; ok {
		return t, nil
	}

	t, found, err := s.matcher.Match(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		run.teachers[key] = nil
		return nil, nil
	}
	run.teachers[key] = &t
	return &t, nil
}

// perDaySalary is the teacher's configured per-day rate, falling back to
// basic / working days of the record's month, and 0 without a config.
func (s *BiometricServiceImpl) perDaySalary(ctx context.Context, run *ingestRun, teacherID string, date time.Time) decimal.Decimal {
	key := teacherID + date.Format("2006-01")
	if v, ok := run.perDay[key]; ok {
		return v
	}

	v := decimal.Zero
	cfg, err := s.configRepo.GetActiveConfig(ctx, teacherID)
	switch {
	case err == nil:
		v = cfg.PerDaySalary
		if !v.IsPositive() {
			if wd := salarysvc.WorkingDays(date.Year(), int(date.Month())); wd > 0 {
				v = cfg.BasicMonthlySalary.Div(decimal.NewFromInt(int64(wd)))
			}
		}
	case errors.Is(err, salary.ErrSalaryConfigNotFound):
	default:
		slog.Warn("Failed to load salary config for late deduction", "teacher_id", teacherID, "error", err)
	}

	run.perDay[key] = v
	return v
}

func (s *BiometricServiceImpl) ListUploadHistory(ctx context.Context) ([]biometric.UploadHistoryResponse, error) {
	uploads, err := s.uploadRepo.ListUploads(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]biometric.UploadHistoryResponse, 0, len(uploads))
	for _, u := range uploads {
		result = append(result, biometric.UploadHistoryResponse{
			ID:                u.ID,
			FileName:          u.FileName,
			FileSize:          u.FileSize,
			RecordsProcessed:  u.RecordsProcessed,
			RecordsSuccessful: u.RecordsSuccessful,
			RecordsFailed:     u.RecordsFailed,
			UploadStatus:      u.UploadStatus,
			ErrorLog:          u.ErrorLog,
			UploadedBy:        u.UploadedBy,
			UploadDate:        u.UploadDate,
		})
	}
	return result, nil
}

// ========== RECORDS ==========

func (s *BiometricServiceImpl) ListRecords(ctx context.Context, filter biometric.RecordFilter) ([]biometric.RecordResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !claims.IsManager() {
		own, err := s.teacherRepo.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, teacher.ErrTeacherNotFound) {
				return []biometric.RecordResponse{}, nil
			}
			return nil, err
		}
		filter.TeacherID = &own.ID
	}

	records, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]biometric.RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result, nil
}

// ========== TIMINGS ==========

func (s *BiometricServiceImpl) ListTimings(ctx context.Context) ([]biometric.TimingResponse, error) {
	timings, err := s.timingRepo.ListTimings(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]biometric.TimingResponse, 0, len(timings))
	for _, t := range timings {
		result = append(result, mapToTimingResponse(t))
	}
	return result, nil
}

func (s *BiometricServiceImpl) CreateTiming(ctx context.Context, req biometric.CreateTimingRequest) (biometric.TimingResponse, error) {
	if err := req.Validate(); err != nil {
		return biometric.TimingResponse{}, err
	}

	timing := biometric.SchoolTiming{
		TimingName:         strings.TrimSpace(req.TimingName),
		ArrivalTime:        req.ArrivalTime,
		DepartureTime:      req.DepartureTime,
		GracePeriodMinutes: biometric.DefaultGracePeriodMinutes,
		IsActive:           true,
	}
	if req.GracePeriodMinutes != nil {
		timing.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if req.IsActive != nil {
		timing.IsActive = *req.IsActive
	}

	created, err := s.timingRepo.CreateTiming(ctx, timing)
	if err != nil {
		return biometric.TimingResponse{}, err
	}

	slog.Info("School timing created", "timing_id", created.ID, "name", created.TimingName)
	return mapToTimingResponse(created), nil
}

func (s *BiometricServiceImpl) UpdateTiming(ctx context.Context, req biometric.UpdateTimingRequest) (biometric.TimingResponse, error) {
	if err := req.Validate(); err != nil {
		return biometric.TimingResponse{}, err
	}

	if _, err := s.timingRepo.GetTimingByID(ctx, req.ID); err != nil {
		return biometric.TimingResponse{}, err
	}
	if err := s.timingRepo.UpdateTiming(ctx, req); err != nil {
		return biometric.TimingResponse{}, err
	}

	updated, err := s.timingRepo.GetTimingByID(ctx, req.ID)
	if err != nil {
		return biometric.TimingResponse{}, err
	}
	return mapToTimingResponse(updated), nil
}

// ========== MAPPERS ==========

func mapToTimingResponse(t biometric.SchoolTiming) biometric.TimingResponse {
	return biometric.TimingResponse{
		ID:                 t.ID,
		TimingName:         t.TimingName,
		ArrivalTime:        t.ArrivalTime,
		DepartureTime:      t.DepartureTime,
		GracePeriodMinutes: t.GracePeriodMinutes,
		IsActive:           t.IsActive,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func mapToRecordResponse(r biometric.Record) biometric.RecordResponse {
	return biometric.RecordResponse{
		ID:                    r.ID,
		TeacherID:             r.TeacherID,
		TeacherName:           r.TeacherName,
		AttendanceDate:        r.AttendanceDate.Format("2006-01-02"),
		CheckInTime:           r.CheckInTime,
		CheckOutTime:          r.CheckOutTime,
		Status:                r.Status,
		LateMinutes:           r.LateMinutes,
		EarlyDepartureMinutes: r.EarlyDepartureMinutes,
		DeductionAmount:       r.DeductionAmount,
		DeductionReason:       r.DeductionReason,
		UploadedFileID:        r.UploadedFileID,
	}
}
