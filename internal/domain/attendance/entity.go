package attendance

import (
	"time"
)

// Manual status values as recorded by staff.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
	StatusExcused = "excused"
)

// Record is a manually entered attendance mark. It is keyed by user, not
// by teacher, because the register covers all staff.
type Record struct {
	ID        string
	UserID    string
	Date      time.Time
	Status    string
	Remarks   *string
	CreatedAt time.Time
}
