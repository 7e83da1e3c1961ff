package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/pkg/database"
)

type teacherRepository struct {
	db *database.DB
}

func NewTeacherRepository(db *database.DB) teacher.TeacherRepository {
	return &teacherRepository{db: db}
}

const teacherColumns = `id, user_id, employee_id, full_name, email, is_active, created_at, updated_at`

func scanTeacher(row pgx.Row) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := row.Scan(&t.ID, &t.UserID, &t.EmployeeID, &t.FullName, &t.Email, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *teacherRepository) GetByID(ctx context.Context, id string) (teacher.Teacher, error) {
	return r.getOne(ctx, "id", id)
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID string) (teacher.Teacher, error) {
	return r.getOne(ctx, "user_id", userID)
}

func (r *teacherRepository) getOne(ctx context.Context, column, value string) (teacher.Teacher, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE %s = $1`, teacherColumns, column)

	t, err := scanTeacher(q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return teacher.Teacher{}, teacher.ErrTeacherNotFound
		}
		return teacher.Teacher{}, fmt.Errorf("failed to get teacher: %w", err)
	}
	return t, nil
}

func (r *teacherRepository) GetByIDs(ctx context.Context, ids []string) ([]teacher.Teacher, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = ANY($1::uuid[]) ORDER BY full_name`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get teachers: %w", err)
	}
	return collectTeachers(rows)
}

func (r *teacherRepository) List(ctx context.Context) ([]teacher.Teacher, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE is_active = TRUE ORDER BY full_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return collectTeachers(rows)
}

func collectTeachers(rows pgx.Rows) ([]teacher.Teacher, error) {
	defer rows.Close()

	var teachers []teacher.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teachers: %w", err)
	}
	return teachers, nil
}
