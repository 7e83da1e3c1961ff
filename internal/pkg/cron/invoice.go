package cron

import (
	"context"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
)

// InvoiceJobs contains invoice-related cron jobs
type InvoiceJobs struct {
	invoiceService invoice.InvoiceService
	interval       time.Duration
	now            func() time.Time
}

// NewInvoiceJobs creates invoice cron jobs; interval <= 0 registers nothing.
func NewInvoiceJobs(invoiceService invoice.InvoiceService, interval time.Duration) *InvoiceJobs {
	return &InvoiceJobs{
		invoiceService: invoiceService,
		interval:       interval,
		now:            time.Now,
	}
}

// RegisterJobs registers all invoice-related cron jobs
func (j *InvoiceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_overdue_invoices", j.interval, j.MarkOverdueInvoices)
}

// MarkOverdueInvoices flips draft/sent invoices past their due date to overdue
func (j *InvoiceJobs) MarkOverdueInvoices(ctx context.Context) error {
	n := j.now().UTC()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	_, err := j.invoiceService.SweepOverdue(ctx, today)
	return err
}
