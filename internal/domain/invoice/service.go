package invoice

import (
	"context"
	"time"
)

type InvoiceService interface {
	Generate(ctx context.Context, req GenerateInvoiceRequest) (InvoiceResponse, error)
	Get(ctx context.Context, id string) (InvoiceResponse, error)
	List(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, error)
	Update(ctx context.Context, req UpdateInvoiceRequest) (InvoiceResponse, error)
	Render(ctx context.Context, id string, format Format) (Document, error)
	SweepOverdue(ctx context.Context, today time.Time) (int, error)
}
