package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/pkg/database"
)

// ========== SCHOOL TIMINGS ==========

type timingRepository struct {
	db *database.DB
}

func NewTimingRepository(db *database.DB) biometric.TimingRepository {
	return &timingRepository{db: db}
}

const timingColumns = `id, timing_name, arrival_time::text, departure_time::text, grace_period_minutes,
	is_active, created_at, updated_at`

func scanTiming(row pgx.Row) (biometric.SchoolTiming, error) {
	var t biometric.SchoolTiming
	err := row.Scan(
		&t.ID, &t.TimingName, &t.ArrivalTime, &t.DepartureTime, &t.GracePeriodMinutes,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *timingRepository) GetActiveTiming(ctx context.Context) (biometric.SchoolTiming, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timingColumns + ` FROM school_timings WHERE is_active = TRUE ORDER BY created_at LIMIT 1`

	t, err := scanTiming(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return biometric.SchoolTiming{}, biometric.ErrTimingNotFound
		}
		return biometric.SchoolTiming{}, fmt.Errorf("failed to get active school timing: %w", err)
	}
	return t, nil
}

func (r *timingRepository) GetTimingByID(ctx context.Context, id string) (biometric.SchoolTiming, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTiming(q.QueryRow(ctx, `SELECT `+timingColumns+` FROM school_timings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return biometric.SchoolTiming{}, biometric.ErrTimingNotFound
		}
		return biometric.SchoolTiming{}, fmt.Errorf("failed to get school timing: %w", err)
	}
	return t, nil
}

func (r *timingRepository) ListTimings(ctx context.Context) ([]biometric.SchoolTiming, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+timingColumns+` FROM school_timings ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list school timings: %w", err)
	}
	defer rows.Close()

	var timings []biometric.SchoolTiming
	for rows.Next() {
		t, err := scanTiming(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan school timing: %w", err)
		}
		timings = append(timings, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate school timings: %w", err)
	}
	return timings, nil
}

func (r *timingRepository) CreateTiming(ctx context.Context, timing biometric.SchoolTiming) (biometric.SchoolTiming, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO school_timings (timing_name, arrival_time, departure_time, grace_period_minutes, is_active)
		VALUES ($1, $2::text::time, $3::text::time, $4, $5)
		RETURNING ` + timingColumns

	created, err := scanTiming(q.QueryRow(ctx, query,
		timing.TimingName, timing.ArrivalTime, timing.DepartureTime, timing.GracePeriodMinutes, timing.IsActive,
	))
	if err != nil {
		return biometric.SchoolTiming{}, fmt.Errorf("failed to create school timing: %w", err)
	}
	return created, nil
}

func (r *timingRepository) UpdateTiming(ctx context.Context, req biometric.UpdateTimingRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID}
	argIdx := 2

	if req.TimingName != nil {
		setParts = append(setParts, fmt.Sprintf("timing_name = $%d", argIdx))
		args = append(args, *req.TimingName)
		argIdx++
	}
	if req.ArrivalTime != nil {
		setParts = append(setParts, fmt.Sprintf("arrival_time = $%d::text::time", argIdx))
		args = append(args, *req.ArrivalTime)
		argIdx++
	}
	if req.DepartureTime != nil {
		setParts = append(setParts, fmt.Sprintf("departure_time = $%d::text::time", argIdx))
		args = append(args, *req.DepartureTime)
		argIdx++
	}
	if req.GracePeriodMinutes != nil {
		setParts = append(setParts, fmt.Sprintf("grace_period_minutes = $%d", argIdx))
		args = append(args, *req.GracePeriodMinutes)
		argIdx++
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE school_timings SET %s WHERE id = $1`, strings.Join(setParts, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update school timing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return biometric.ErrTimingNotFound
	}
	return nil
}

// ========== BIOMETRIC RECORDS ==========

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) biometric.RecordRepository {
	return &recordRepository{db: db}
}

const recordColumns = `b.id, b.teacher_id, b.attendance_date, b.check_in_time::text, b.check_out_time::text,
	b.status, b.late_minutes, b.early_departure_minutes, b.deduction_amount, b.deduction_reason,
	b.uploaded_file_id, b.created_at, b.updated_at`

func scanRecord(row pgx.Row, withName bool) (biometric.Record, error) {
	var rec biometric.Record
	dest := []interface{}{
		&rec.ID, &rec.TeacherID, &rec.AttendanceDate, &rec.CheckInTime, &rec.CheckOutTime,
		&rec.Status, &rec.LateMinutes, &rec.EarlyDepartureMinutes, &rec.DeductionAmount, &rec.DeductionReason,
		&rec.UploadedFileID, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withName {
		dest = append(dest, &rec.TeacherName)
	}
	err := row.Scan(dest...)
	return rec, err
}

func collectRecords(rows pgx.Rows, withName bool) ([]biometric.Record, error) {
	defer rows.Close()

	var records []biometric.Record
	for rows.Next() {
		rec, err := scanRecord(rows, withName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan biometric record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate biometric records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) ListByTeacherAndRange(ctx context.Context, teacherID string, from, to time.Time) ([]biometric.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM biometric_attendance b
		WHERE b.teacher_id = $1 AND b.attendance_date >= $2 AND b.attendance_date < $3
		ORDER BY b.attendance_date ASC
	`

	rows, err := q.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list biometric records: %w", err)
	}
	return collectRecords(rows, false)
}

func (r *recordRepository) GetByTeacherAndDate(ctx context.Context, teacherID string, date time.Time) (biometric.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM biometric_attendance b
		WHERE b.teacher_id = $1 AND b.attendance_date = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, teacherID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return biometric.Record{}, biometric.ErrRecordNotFound
		}
		return biometric.Record{}, fmt.Errorf("failed to get biometric record: %w", err)
	}
	return rec, nil
}

func (r *recordRepository) Upsert(ctx context.Context, rec biometric.Record) (biometric.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO biometric_attendance AS b (
			teacher_id, attendance_date, check_in_time, check_out_time, status,
			late_minutes, early_departure_minutes, deduction_amount, deduction_reason, uploaded_file_id
		) VALUES ($1, $2, $3::text::time, $4::text::time, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (teacher_id, attendance_date) DO UPDATE SET
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = COALESCE(EXCLUDED.check_out_time, b.check_out_time),
			status = EXCLUDED.status,
			late_minutes = EXCLUDED.late_minutes,
			early_departure_minutes = EXCLUDED.early_departure_minutes,
			deduction_amount = EXCLUDED.deduction_amount,
			deduction_reason = EXCLUDED.deduction_reason,
			uploaded_file_id = EXCLUDED.uploaded_file_id,
			updated_at = NOW()
		RETURNING ` + recordColumns

	saved, err := scanRecord(q.QueryRow(ctx, query,
		rec.TeacherID, rec.AttendanceDate, rec.CheckInTime, rec.CheckOutTime, rec.Status,
		rec.LateMinutes, rec.EarlyDepartureMinutes, rec.DeductionAmount, rec.DeductionReason, rec.UploadedFileID,
	), false)
	if err != nil {
		return biometric.Record{}, fmt.Errorf("failed to save biometric record: %w", err)
	}
	saved.TeacherName = rec.TeacherName
	return saved, nil
}

func (r *recordRepository) List(ctx context.Context, filter biometric.RecordFilter) ([]biometric.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `, t.full_name
		FROM biometric_attendance b
		LEFT JOIN teachers t ON t.id = b.teacher_id
		WHERE 1 = 1
	`
	var args []interface{}
	argIdx := 1

	if filter.TeacherID != nil {
		query += fmt.Sprintf(" AND b.teacher_id = $%d", argIdx)
		args = append(args, *filter.TeacherID)
		argIdx++
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND b.attendance_date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND b.attendance_date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}
	query += " ORDER BY b.attendance_date DESC, t.full_name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list biometric records: %w", err)
	}
	return collectRecords(rows, true)
}

// ========== UPLOAD HISTORY ==========

type uploadRepository struct {
	db *database.DB
}

func NewUploadRepository(db *database.DB) biometric.UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) CreateUpload(ctx context.Context, upload biometric.UploadHistory) (biometric.UploadHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO csv_upload_history (file_name, file_size, file_path, upload_status, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, upload_date
	`

	err := q.QueryRow(ctx, query,
		upload.FileName, upload.FileSize, upload.FilePath, upload.UploadStatus, upload.UploadedBy,
	).Scan(&upload.ID, &upload.UploadDate)
	if err != nil {
		return biometric.UploadHistory{}, fmt.Errorf("failed to create upload history: %w", err)
	}
	return upload, nil
}

func (r *uploadRepository) FinishUpload(ctx context.Context, upload biometric.UploadHistory) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE csv_upload_history
		SET records_processed = $2, records_successful = $3, records_failed = $4,
			upload_status = $5, error_log = $6
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		upload.ID, upload.RecordsProcessed, upload.RecordsSuccessful, upload.RecordsFailed,
		upload.UploadStatus, upload.ErrorLog,
	)
	if err != nil {
		return fmt.Errorf("failed to finish upload history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return biometric.ErrUploadNotFound
	}
	return nil
}

func (r *uploadRepository) ListUploads(ctx context.Context) ([]biometric.UploadHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, file_name, file_size, file_path, records_processed, records_successful,
			records_failed, upload_status, error_log, uploaded_by, upload_date
		FROM csv_upload_history
		ORDER BY upload_date DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload history: %w", err)
	}
	defer rows.Close()

	var uploads []biometric.UploadHistory
	for rows.Next() {
		var u biometric.UploadHistory
		if err := rows.Scan(
			&u.ID, &u.FileName, &u.FileSize, &u.FilePath, &u.RecordsProcessed, &u.RecordsSuccessful,
			&u.RecordsFailed, &u.UploadStatus, &u.ErrorLog, &u.UploadedBy, &u.UploadDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upload history: %w", err)
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upload history: %w", err)
	}
	return uploads, nil
}
