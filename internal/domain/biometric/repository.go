package biometric

import (
	"context"
	"time"
)

type TimingRepository interface {
	// GetActiveTiming returns the earliest-created active timing.
	GetActiveTiming(ctx context.Context) (SchoolTiming, error)
	GetTimingByID(ctx context.Context, id string) (SchoolTiming, error)
	ListTimings(ctx context.Context) ([]SchoolTiming, error)
	CreateTiming(ctx context.Context, timing SchoolTiming) (SchoolTiming, error)
	UpdateTiming(ctx context.Context, req UpdateTimingRequest) error
}

type RecordRepository interface {
	// ListByTeacherAndRange returns records with from <= date < to, oldest first.
	ListByTeacherAndRange(ctx context.Context, teacherID string, from, to time.Time) ([]Record, error)
	GetByTeacherAndDate(ctx context.Context, teacherID string, date time.Time) (Record, error)
	// Upsert is keyed on (teacher_id, attendance_date); the later write wins.
	Upsert(ctx context.Context, record Record) (Record, error)
	List(ctx context.Context, filter RecordFilter) ([]Record, error)
}

type UploadRepository interface {
	CreateUpload(ctx context.Context, upload UploadHistory) (UploadHistory, error)
	FinishUpload(ctx context.Context, upload UploadHistory) error
	ListUploads(ctx context.Context) ([]UploadHistory, error)
}
