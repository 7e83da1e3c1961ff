package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/pkg/jwt"
	"github.com/schoolms/sms-backend-go/internal/pkg/metrics"
	"github.com/schoolms/sms-backend-go/internal/pkg/validator"
)

// Options are the school-wide invoice settings.
type Options struct {
	DueDays         int
	DefaultTemplate invoice.Template
	SchoolName      string
	SchoolAddress   string
}

const defaultDueDays = 30

type InvoiceServiceImpl struct {
	invoiceRepo     invoice.InvoiceRepository
	calculationRepo salary.CalculationRepository
	teacherRepo     teacher.TeacherRepository
	metrics         *metrics.Metrics
	opts            Options
	now             func() time.Time
}

func NewInvoiceService(
	invoiceRepo invoice.InvoiceRepository,
	calculationRepo salary.CalculationRepository,
	teacherRepo teacher.TeacherRepository,
	m *metrics.Metrics,
	opts Options,
) invoice.InvoiceService {
	if opts.DueDays <= 0 {
		opts.DueDays = defaultDueDays
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = invoice.TemplateDetailed
	}
	return &InvoiceServiceImpl{
		invoiceRepo:     invoiceRepo,
		calculationRepo: calculationRepo,
		teacherRepo:     teacherRepo,
		metrics:         m,
		opts:            opts,
		now:             time.Now,
	}
}

func (s *InvoiceServiceImpl) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ========== GENERATE ==========

func (s *InvoiceServiceImpl) Generate(ctx context.Context, req invoice.GenerateInvoiceRequest) (invoice.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return invoice.InvoiceResponse{}, err
	}

	existing, err := s.invoiceRepo.GetByCalculationID(ctx, req.CalculationID)
	if err == nil {
		s.metrics.Invoice(metrics.OutcomeExisting)
		return mapToInvoiceResponse(existing), nil
	}
	if !errors.Is(err, invoice.ErrInvoiceNotFound) {
		return invoice.InvoiceResponse{}, fmt.Errorf("failed to check existing invoice: %w", err)
	}

	calc, err := s.calculationRepo.GetCalculationByID(ctx, req.CalculationID)
	if err != nil {
		return invoice.InvoiceResponse{}, err
	}
	if !calc.IsApproved {
		s.metrics.Invoice(metrics.OutcomeError)
		return invoice.InvoiceResponse{}, invoice.ErrCalculationNotApproved
	}

	tmpl := s.opts.DefaultTemplate
	if strings.TrimSpace(req.Template) != "" {
		tmpl, _ = invoice.ParseTemplate(req.Template)
	}

	inv := Synthesize(calc, tmpl)
	inv.Status = invoice.StatusDraft
	inv.Notes = req.Notes
	inv.InvoiceDate = s.today()
	if req.InvoiceDate != nil {
		inv.InvoiceDate, _ = validator.IsValidDate(*req.InvoiceDate)
	}
	inv.DueDate = inv.InvoiceDate.AddDate(0, 0, s.opts.DueDays)
	if req.DueDate != nil {
		inv.DueDate, _ = validator.IsValidDate(*req.DueDate)
	}
	inv.InvoiceNumber = s.nextNumber(ctx, calc.Year, calc.Month)

	created, err := s.invoiceRepo.Create(ctx, inv)
	if errors.Is(err, invoice.ErrInvoiceNumberConflict) {
		inv.InvoiceNumber = s.fallbackNumber(calc.Year, calc.Month)
		slog.Warn("Invoice number taken, retrying with timestamp number",
			"calculation_id", calc.ID, "invoice_number", inv.InvoiceNumber)
		created, err = s.invoiceRepo.Create(ctx, inv)
	}
	if errors.Is(err, invoice.ErrInvoiceExists) {
		winner, gerr := s.invoiceRepo.GetByCalculationID(ctx, calc.ID)
		if gerr != nil {
			return invoice.InvoiceResponse{}, fmt.Errorf("failed to load concurrent invoice: %w", gerr)
		}
		s.metrics.Invoice(metrics.OutcomeExisting)
		return mapToInvoiceResponse(winner), nil
	}
	if err != nil {
		s.metrics.Invoice(metrics.OutcomeError)
		return invoice.InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.metrics.Invoice(metrics.OutcomeCreated)
	slog.Info("Invoice generated",
		"invoice_id", created.ID,
		"invoice_number", created.InvoiceNumber,
		"calculation_id", calc.ID,
		"teacher_id", calc.TeacherID,
		"template", tmpl,
	)
	return mapToInvoiceResponse(created), nil
}

// nextNumber is INV-YYYY-MM-NNNNN with NNNNN one past the month's count.
func (s *InvoiceServiceImpl) nextNumber(ctx context.Context, year, month int) string {
	count, err := s.invoiceRepo.CountInMonth(ctx, year, month)
	if err != nil {
		slog.Warn("Failed to count invoices, using timestamp number", "year", year, "month", month, "error", err)
		return s.fallbackNumber(year, month)
	}
	return invoice.FormatNumber(year, month, count+1)
}

func (s *InvoiceServiceImpl) fallbackNumber(year, month int) string {
	return invoice.FormatNumber(year, month, int(s.now().Unix()%100000))
}

// ========== READS ==========

func (s *InvoiceServiceImpl) Get(ctx context.Context, id string) (invoice.InvoiceResponse, error) {
	inv, err := s.getScoped(ctx, id)
	if err != nil {
		return invoice.InvoiceResponse{}, err
	}
	return mapToInvoiceResponse(inv), nil
}

func (s *InvoiceServiceImpl) List(ctx context.Context, filter invoice.InvoiceFilter) ([]invoice.InvoiceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.SweepOverdue(ctx, s.today()); err != nil {
		slog.Warn("Overdue sweep failed before listing invoices", "error", err)
	}

	if !claims.IsManager() {
		own, err := s.teacherRepo.GetByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, teacher.ErrTeacherNotFound) {
				return []invoice.InvoiceResponse{}, nil
			}
			return nil, err
		}
		filter.TeacherID = &own.ID
	}

	invoices, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]invoice.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, mapToInvoiceResponse(inv))
	}
	return result, nil
}

func (s *InvoiceServiceImpl) Render(ctx context.Context, id string, format invoice.Format) (invoice.Document, error) {
	inv, err := s.getScoped(ctx, id)
	if err != nil {
		return invoice.Document{}, err
	}
	return render(inv, format, s.opts)
}

// getScoped hides other teachers' invoices behind ErrInvoiceNotFound.
func (s *InvoiceServiceImpl) getScoped(ctx context.Context, id string) (invoice.Invoice, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return invoice.Invoice{}, err
	}

	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return invoice.Invoice{}, err
	}

	if !claims.IsManager() {
		own, err := s.teacherRepo.GetByUserID(ctx, claims.UserID)
		if err != nil || own.ID != inv.TeacherID {
			return invoice.Invoice{}, invoice.ErrInvoiceNotFound
		}
	}
	return inv, nil
}

// ========== UPDATES ==========

func (s *InvoiceServiceImpl) Update(ctx context.Context, req invoice.UpdateInvoiceRequest) (invoice.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return invoice.InvoiceResponse{}, err
	}
	if req.Status != nil {
		status, _ := invoice.ParseStatus(*req.Status)
		normalized := string(status)
		req.Status = &normalized
	}

	if _, err := s.invoiceRepo.GetByID(ctx, req.ID); err != nil {
		return invoice.InvoiceResponse{}, err
	}
	if err := s.invoiceRepo.Update(ctx, req); err != nil {
		return invoice.InvoiceResponse{}, err
	}

	updated, err := s.invoiceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return invoice.InvoiceResponse{}, err
	}

	slog.Info("Invoice updated", "invoice_id", updated.ID, "status", updated.Status)
	return mapToInvoiceResponse(updated), nil
}

func (s *InvoiceServiceImpl) SweepOverdue(ctx context.Context, today time.Time) (int, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	if n > 0 {
		s.metrics.Overdue(n)
		slog.Info("Invoices marked overdue", "count", n)
	}
	return n, nil
}

// ========== MAPPERS ==========

func mapToInvoiceResponse(inv invoice.Invoice) invoice.InvoiceResponse {
	items := inv.Items
	if items == nil {
		items = []invoice.Item{}
	}
	return invoice.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		TeacherID:     inv.TeacherID,
		TeacherName:   inv.TeacherName,
		CalculationID: inv.CalculationID,
		Month:         inv.Month,
		Year:          inv.Year,
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Status:        inv.Status,
		Items:         items,
		Subtotal:      inv.Subtotal,
		Deductions:    inv.Deductions,
		Bonuses:       inv.Bonuses,
		Tax:           inv.Tax,
		NetAmount:     inv.NetAmount,
		TotalAmount:   inv.TotalAmount,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
