package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is a read-only view over the manual register.
type AttendanceRepository interface {
	// ListByUserAndRange returns records with from <= date < to, oldest first.
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
}
