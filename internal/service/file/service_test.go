package file

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/schoolms/sms-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAttendanceExport(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewFileService(store)
	ctx := context.Background()

	path, err := svc.UploadAttendanceExport(ctx, strings.NewReader("Name,Time,Date,Status\n"), "March.CSV", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("biometric", "2024-03-04"), filepath.Dir(path))
	assert.Equal(t, ".csv", filepath.Ext(path))

	rc, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Name,Time,Date,Status\n", string(body))

	require.NoError(t, svc.DeleteFile(ctx, path))
	exists, err := store.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUploadAttendanceExport_RejectsNonCSV(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = NewFileService(store).UploadAttendanceExport(context.Background(), strings.NewReader("x"), "export.xlsx", time.Now())

	assert.Error(t, err)
}
