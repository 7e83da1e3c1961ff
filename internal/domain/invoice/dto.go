package invoice

import (
	"time"

	"github.com/schoolms/sms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GenerateInvoiceRequest struct {
	CalculationID string  `json:"calculation_id"`
	InvoiceDate   *string `json:"invoice_date,omitempty"`
	DueDate       *string `json:"due_date,omitempty"`
	Template      string  `json:"template,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (r *GenerateInvoiceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CalculationID) {
		errs = append(errs, validator.ValidationError{Field: "calculation_id", Message: "is required"})
	}
	var invoiceDate, dueDate time.Time
	var okInvoice, okDue bool
	if r.InvoiceDate != nil {
		if invoiceDate, okInvoice = validator.IsValidDate(*r.InvoiceDate); !okInvoice {
			errs = append(errs, validator.ValidationError{Field: "invoice_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.DueDate != nil {
		if dueDate, okDue = validator.IsValidDate(*r.DueDate); !okDue {
			errs = append(errs, validator.ValidationError{Field: "due_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if okInvoice && okDue && dueDate.Before(invoiceDate) {
		errs = append(errs, validator.ValidationError{Field: "due_date", Message: "must not be before invoice_date"})
	}
	if _, err := ParseTemplate(r.Template); err != nil {
		errs = append(errs, validator.ValidationError{Field: "template", Message: "must be detailed or simple"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateInvoiceRequest struct {
	ID      string  `json:"-"`
	Status  *string `json:"status,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil {
		if _, err := ParseStatus(*r.Status); err != nil {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of draft, sent, paid, overdue, cancelled"})
		}
	}
	if r.DueDate != nil {
		if _, ok := validator.IsValidDate(*r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "due_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.Status == nil && r.DueDate == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "nothing to update"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InvoiceFilter struct {
	TeacherID     *string
	Month         *int
	Year          *int
	Status        *Status
	CalculationID *string
}

type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	TeacherID     string          `json:"teacher_id"`
	TeacherName   *string         `json:"teacher_name,omitempty"`
	CalculationID string          `json:"calculation_id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date"`
	Status        Status          `json:"status"`
	Items         []Item          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Deductions    decimal.Decimal `json:"deductions"`
	Bonuses       decimal.Decimal `json:"bonuses"`
	Tax           decimal.Decimal `json:"tax"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Format enum for downloads
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", ErrInvalidFormat
}

// Document is a rendered invoice ready to stream.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}
