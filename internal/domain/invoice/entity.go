package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusSent:
		return StatusSent, nil
	case StatusPaid:
		return StatusPaid, nil
	case StatusOverdue:
		return StatusOverdue, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Template enum
type Template string

const (
	TemplateDetailed Template = "detailed"
	TemplateSimple   Template = "simple"
)

func ParseTemplate(s string) (Template, error) {
	switch Template(strings.ToLower(strings.TrimSpace(s))) {
	case "", TemplateDetailed:
		return TemplateDetailed, nil
	case TemplateSimple:
		return TemplateSimple, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, s)
}

// ItemCategory enum
type ItemCategory string

const (
	CategorySalary     ItemCategory = "salary"
	CategoryAttendance ItemCategory = "attendance"
	CategoryDeduction  ItemCategory = "deduction"
	CategoryBonus      ItemCategory = "bonus"
)

// Item is one invoice line; stored as a JSONB array.
type Item struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ItemCategory    `json:"category"`
}

// Invoice - salary statement issued for one approved calculation
type Invoice struct {
	ID            string
	InvoiceNumber string
	TeacherID     string
	CalculationID string
	Month         int
	Year          int
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        Status
	Items         []Item
	Subtotal      decimal.Decimal
	Deductions    decimal.Decimal
	Bonuses       decimal.Decimal
	Tax           decimal.Decimal
	NetAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	TeacherName *string
}

// NumberPrefix is the month-scoped prefix shared by all invoice numbers.
func NumberPrefix(year, month int) string {
	return fmt.Sprintf("INV-%04d-%02d", year, month)
}

// FormatNumber renders INV-YYYY-MM-NNNNN.
func FormatNumber(year, month, seq int) string {
	return fmt.Sprintf("%s-%05d", NumberPrefix(year, month), seq%100000)
}
