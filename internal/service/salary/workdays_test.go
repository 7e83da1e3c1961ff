package salary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{"30 days with 8 weekend days", 2023, 6, 22},
		{"leap february", 2024, 2, 21},
		{"plain february", 2023, 2, 20},
		{"31 days starting monday", 2024, 1, 23},
		{"30 days with five sundays", 2024, 9, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkingDays(tt.year, tt.month))
		})
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2024, 12)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
