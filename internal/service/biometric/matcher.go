package biometric

import (
	"context"
	"fmt"
	"strings"

	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
)

type teacherMatcher struct {
	teacherRepo teacher.TeacherRepository
}

// NewTeacherMatcher resolves device names against the active staff directory.
// Lookup order: employee id, exact name, then name substring. Comparisons
// ignore case.
func NewTeacherMatcher(teacherRepo teacher.TeacherRepository) biometric.TeacherMatcher {
	return &teacherMatcher{teacherRepo: teacherRepo}
}

func (m *teacherMatcher) Match(ctx context.Context, name string) (teacher.Teacher, bool, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return teacher.Teacher{}, false, nil
	}

	teachers, err := m.teacherRepo.List(ctx)
	if err != nil {
		return teacher.Teacher{}, false, fmt.Errorf("failed to list teachers: %w", err)
	}

	for _, t := range teachers {
		if t.EmployeeID != nil && strings.ToLower(*t.EmployeeID) == needle {
			return t, true, nil
		}
	}
	for _, t := range teachers {
		if strings.ToLower(t.FullName) == needle {
			return t, true, nil
		}
	}
	for _, t := range teachers {
		if strings.Contains(strings.ToLower(t.FullName), needle) {
			return t, true, nil
		}
	}
	return teacher.Teacher{}, false, nil
}
