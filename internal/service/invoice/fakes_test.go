package invoice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/domain/user"
)

func ctxAs(userID string, role user.Role) context.Context {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	tok, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
	})
	if err != nil {
		panic(err)
	}
	return jwtauth.NewContext(context.Background(), tok, nil)
}

type fakeInvoiceRepo struct {
	invoices []invoice.Invoice
	countErr error
	// conflictOnce rejects the next Create with a number conflict.
	conflictOnce bool
	// raceWinner is inserted just before the next Create, simulating a concurrent request.
	raceWinner *invoice.Invoice
	creates    int
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	f.creates++
	if f.raceWinner != nil {
		f.invoices = append(f.invoices, *f.raceWinner)
		f.raceWinner = nil
	}
	if f.conflictOnce {
		f.conflictOnce = false
		return invoice.Invoice{}, invoice.ErrInvoiceNumberConflict
	}
	for _, existing := range f.invoices {
		if existing.CalculationID == inv.CalculationID {
			return invoice.Invoice{}, invoice.ErrInvoiceExists
		}
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return invoice.Invoice{}, invoice.ErrInvoiceNumberConflict
		}
	}
	inv.ID = fmt.Sprintf("inv-%d", len(f.invoices)+1)
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	f.invoices = append(f.invoices, inv)
	return inv, nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id string) (invoice.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return invoice.Invoice{}, invoice.ErrInvoiceNotFound
}

func (f *fakeInvoiceRepo) GetByCalculationID(_ context.Context, calculationID string) (invoice.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.CalculationID == calculationID {
			return inv, nil
		}
	}
	return invoice.Invoice{}, invoice.ErrInvoiceNotFound
}

func (f *fakeInvoiceRepo) List(_ context.Context, filter invoice.InvoiceFilter) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range f.invoices {
		if filter.TeacherID != nil && inv.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, req invoice.UpdateInvoiceRequest) error {
	for i := range f.invoices {
		if f.invoices[i].ID != req.ID {
			continue
		}
		if req.Status != nil {
			f.invoices[i].Status = invoice.Status(*req.Status)
		}
		if req.DueDate != nil {
			d, _ := time.Parse("2006-01-02", *req.DueDate)
			f.invoices[i].DueDate = d
		}
		if req.Notes != nil {
			f.invoices[i].Notes = req.Notes
		}
		return nil
	}
	return invoice.ErrInvoiceNotFound
}

func (f *fakeInvoiceRepo) CountInMonth(_ context.Context, year, month int) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	prefix := invoice.NumberPrefix(year, month)
	n := 0
	for _, inv := range f.invoices {
		if strings.HasPrefix(inv.InvoiceNumber, prefix) {
			n++
		}
	}
	return n, nil
}

func (f *fakeInvoiceRepo) MarkOverdue(_ context.Context, today time.Time) (int, error) {
	n := 0
	for i := range f.invoices {
		inv := &f.invoices[i]
		if (inv.Status == invoice.StatusDraft || inv.Status == invoice.StatusSent) && inv.DueDate.Before(today) {
			inv.Status = invoice.StatusOverdue
			n++
		}
	}
	return n, nil
}

type fakeCalculationRepo struct {
	calcs map[string]salary.MonthlySalaryCalculation
}

func (f *fakeCalculationRepo) UpsertCalculation(_ context.Context, c salary.MonthlySalaryCalculation) (salary.MonthlySalaryCalculation, error) {
	f.calcs[c.ID] = c
	return c, nil
}

func (f *fakeCalculationRepo) GetCalculationByID(_ context.Context, id string) (salary.MonthlySalaryCalculation, error) {
	c, ok := f.calcs[id]
	if !ok {
		return salary.MonthlySalaryCalculation{}, salary.ErrCalculationNotFound
	}
	return c, nil
}

func (f *fakeCalculationRepo) ListCalculations(_ context.Context, _ salary.CalculationFilter) ([]salary.MonthlySalaryCalculation, error) {
	return nil, nil
}

func (f *fakeCalculationRepo) ApproveCalculation(_ context.Context, id string, approvedBy *string, approvedAt time.Time) error {
	c := f.calcs[id]
	c.IsApproved = true
	c.ApprovedBy = approvedBy
	c.ApprovedAt = &approvedAt
	f.calcs[id] = c
	return nil
}

type fakeTeacherRepo struct {
	teachers []teacher.Teacher
}

func (f *fakeTeacherRepo) GetByID(_ context.Context, id string) (teacher.Teacher, error) {
	for _, t := range f.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrTeacherNotFound
}

func (f *fakeTeacherRepo) GetByUserID(_ context.Context, userID string) (teacher.Teacher, error) {
	for _, t := range f.teachers {
		if t.UserID == userID {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrTeacherNotFound
}

func (f *fakeTeacherRepo) GetByIDs(_ context.Context, _ []string) ([]teacher.Teacher, error) {
	return f.teachers, nil
}

func (f *fakeTeacherRepo) List(_ context.Context) ([]teacher.Teacher, error) {
	return f.teachers, nil
}
