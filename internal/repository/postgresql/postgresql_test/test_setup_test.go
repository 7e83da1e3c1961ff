package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/schoolms/sms-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.ApplyMigrations(ctx, filepath.Join("..", "..", "..", "..", "migrations")))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables empties every table the salary module owns.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"invoices",
		"monthly_salary_calculations",
		"teacher_salary_config",
		"biometric_attendance",
		"csv_upload_history",
		"attendance_rules",
		"school_timings",
		"attendance",
		"teachers",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateTeacher inserts a teacher and returns its id.
func (t *TestDatabaseSetup) CreateTeacher(tb testing.TB, userID, employeeID, name string) string {
	tb.Helper()

	var id string
	err := t.DB.QueryRow(context.Background(), `
		INSERT INTO teachers (user_id, employee_id, full_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, employeeID, name).Scan(&id)
	require.NoError(tb, err)
	return id
}

// Close releases the pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
