package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/sms-backend-go/internal/pkg/storage"
)

type FileService interface {
	// UploadAttendanceExport archives a raw biometric export and returns its storage path.
	UploadAttendanceExport(ctx context.Context, file io.Reader, filename string, uploadedAt time.Time) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, path string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadAttendanceExport(ctx context.Context, file io.Reader, filename string, uploadedAt time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".csv" {
		return "", fmt.Errorf("invalid file type: only csv allowed")
	}

	// Generate unique filename
	newFilename := uuid.New().String() + ext
	path := filepath.Join("biometric", uploadedAt.Format("2006-01-02"), newFilename)

	uploaded, err := s.storage.Upload(ctx, file, path, "text/csv")
	if err != nil {
		return "", fmt.Errorf("failed to archive attendance export: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}
