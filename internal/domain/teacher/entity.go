package teacher

import "time"

type Teacher struct {
	ID         string
	UserID     string
	EmployeeID *string
	FullName   string
	Email      *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
