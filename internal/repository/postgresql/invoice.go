package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/pkg/database"
)

type invoiceRepository struct {
	db *database.DB
}

func NewInvoiceRepository(db *database.DB) invoice.InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `i.id, i.invoice_number, i.teacher_id, i.calculation_id, i.month, i.year,
	i.invoice_date, i.due_date, i.status, i.items, i.subtotal, i.deductions, i.bonuses, i.tax,
	i.net_amount, i.total_amount, i.notes, i.created_at, i.updated_at, t.full_name`

func scanInvoice(row pgx.Row) (invoice.Invoice, error) {
	var inv invoice.Invoice
	var items []byte
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.TeacherID, &inv.CalculationID, &inv.Month, &inv.Year,
		&inv.InvoiceDate, &inv.DueDate, &inv.Status, &items, &inv.Subtotal, &inv.Deductions, &inv.Bonuses, &inv.Tax,
		&inv.NetAmount, &inv.TotalAmount, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt, &inv.TeacherName,
	)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return invoice.Invoice{}, fmt.Errorf("failed to decode invoice items: %w", err)
		}
	}
	return inv, nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	items := inv.Items
	if items == nil {
		items = []invoice.Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to encode invoice items: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, teacher_id, calculation_id, month, year, invoice_date, due_date,
			status, items, subtotal, deductions, bonuses, tax, net_amount, total_amount, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		inv.InvoiceNumber, inv.TeacherID, inv.CalculationID, inv.Month, inv.Year, inv.InvoiceDate, inv.DueDate,
		inv.Status, itemsJSON, inv.Subtotal, inv.Deductions, inv.Bonuses, inv.Tax, inv.NetAmount, inv.TotalAmount, inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, "uk_invoice_calculation"):
			return invoice.Invoice{}, invoice.ErrInvoiceExists
		case isUniqueViolation(err, "uk_invoice_number"):
			return invoice.Invoice{}, invoice.ErrInvoiceNumberConflict
		}
		return invoice.Invoice{}, fmt.Errorf("failed to create invoice: %w", err)
	}
	inv.Items = items
	return inv, nil
}

func (r *invoiceRepository) getOne(ctx context.Context, column, value string) (invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM invoices i
		LEFT JOIN teachers t ON t.id = i.teacher_id
		WHERE i.%s = $1
	`, invoiceColumns, column)

	inv, err := scanInvoice(q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invoice.Invoice{}, invoice.ErrInvoiceNotFound
		}
		return invoice.Invoice{}, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (invoice.Invoice, error) {
	return r.getOne(ctx, "id", id)
}

func (r *invoiceRepository) GetByCalculationID(ctx context.Context, calculationID string) (invoice.Invoice, error) {
	return r.getOne(ctx, "calculation_id", calculationID)
}

func (r *invoiceRepository) List(ctx context.Context, filter invoice.InvoiceFilter) ([]invoice.Invoice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices i
		LEFT JOIN teachers t ON t.id = i.teacher_id
		WHERE 1 = 1
	`
	var args []interface{}
	argIdx := 1

	if filter.TeacherID != nil {
		query += fmt.Sprintf(" AND i.teacher_id = $%d", argIdx)
		args = append(args, *filter.TeacherID)
		argIdx++
	}
	if filter.Month != nil {
		query += fmt.Sprintf(" AND i.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		query += fmt.Sprintf(" AND i.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.CalculationID != nil {
		query += fmt.Sprintf(" AND i.calculation_id = $%d", argIdx)
		args = append(args, *filter.CalculationID)
		argIdx++
	}
	query += " ORDER BY i.invoice_date DESC, i.invoice_number DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, req invoice.UpdateInvoiceRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID}
	argIdx := 2

	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *req.Status)
		argIdx++
	}
	if req.DueDate != nil {
		setParts = append(setParts, fmt.Sprintf("due_date = $%d::date", argIdx))
		args = append(args, *req.DueDate)
		argIdx++
	}
	if req.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *req.Notes)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE invoices SET %s WHERE id = $1`, strings.Join(setParts, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) CountInMonth(ctx context.Context, year, month int) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE year = $1 AND month = $2`,
		year, month,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

func (r *invoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status IN ('draft', 'sent') AND due_date < $1
	`

	tag, err := q.Exec(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
