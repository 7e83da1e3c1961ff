package biometric

import (
	"context"

	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
)

type BiometricService interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
	ListUploadHistory(ctx context.Context) ([]UploadHistoryResponse, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]RecordResponse, error)

	ListTimings(ctx context.Context) ([]TimingResponse, error)
	CreateTiming(ctx context.Context, req CreateTimingRequest) (TimingResponse, error)
	UpdateTiming(ctx context.Context, req UpdateTimingRequest) (TimingResponse, error)
}

// TeacherMatcher resolves a device name to a teacher.
type TeacherMatcher interface {
	Match(ctx context.Context, name string) (teacher.Teacher, bool, error)
}
