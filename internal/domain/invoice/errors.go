package invoice

import "errors"

var (
	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrCalculationNotApproved = errors.New("salary calculation must be approved before invoicing")
	ErrInvalidStatus          = errors.New("invalid invoice status")
	ErrInvalidTemplate        = errors.New("invalid invoice template")
	ErrInvalidFormat          = errors.New("format must be pdf or html")
	ErrInvoiceExists          = errors.New("invoice already exists for this calculation")
	ErrInvoiceNumberConflict  = errors.New("invoice number already in use")
)
