package teacher

import (
	"context"
	"errors"
)

var (
	ErrTeacherNotFound = errors.New("teacher not found")
)

// TeacherRepository is a read-only view over the staff directory.
type TeacherRepository interface {
	GetByID(ctx context.Context, id string) (Teacher, error)
	GetByUserID(ctx context.Context, userID string) (Teacher, error)
	GetByIDs(ctx context.Context, ids []string) ([]Teacher, error)
	// List returns active teachers ordered by name.
	List(ctx context.Context) ([]Teacher, error)
}
