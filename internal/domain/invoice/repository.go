package invoice

import (
	"context"
	"time"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv Invoice) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	GetByCalculationID(ctx context.Context, calculationID string) (Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	Update(ctx context.Context, req UpdateInvoiceRequest) error
	// CountInMonth counts invoices issued for the salary period, which share one number prefix.
	CountInMonth(ctx context.Context, year, month int) (int, error)
	// MarkOverdue flips draft/sent invoices due before today and returns the count.
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
}
