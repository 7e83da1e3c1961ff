package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/pkg/pdf"
	"github.com/shopspring/decimal"
)

var htmlInvoice = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": money,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Invoice.InvoiceNumber}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.header { text-align: center; margin-bottom: 30px; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
td.num { text-align: right; }
.total { font-weight: bold; }
.footer { margin-top: 30px; text-align: center; }
</style>
</head>
<body>
<div class="header">
<h1>{{.SchoolName}}</h1>
{{if .SchoolAddress}}<p>{{.SchoolAddress}}</p>{{end}}
<h2>SALARY INVOICE</h2>
<p>Invoice Number: {{.Invoice.InvoiceNumber}}</p>
</div>
<div class="invoice-details">
<p>Teacher: {{.TeacherName}}</p>
<p>Period: {{.Period}}</p>
<p>Date: {{.Invoice.InvoiceDate.Format "2006-01-02"}}</p>
<p>Due Date: {{.Invoice.DueDate.Format "2006-01-02"}}</p>
<p>Status: {{.Invoice.Status}}</p>
</div>
<table>
<thead><tr><th>Description</th><th>Quantity</th><th>Unit Price</th><th>Amount</th></tr></thead>
<tbody>
{{range .Invoice.Items}}<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Amount}}</td></tr>
{{end}}</tbody>
</table>
<div class="total">
<p>Subtotal: {{money .Invoice.Subtotal}}</p>
<p>Deductions: {{money .Invoice.Deductions}}</p>
<p>Bonuses: {{money .Invoice.Bonuses}}</p>
<p>Tax: {{money .Invoice.Tax}}</p>
<p><strong>Total: {{money .Invoice.TotalAmount}}</strong></p>
</div>
{{with .Notes}}<div class="footer"><p>Notes: {{.}}</p></div>{{end}}
</body>
</html>
`))

type htmlView struct {
	SchoolName    string
	SchoolAddress string
	TeacherName   string
	Period        string
	Notes         string
	Invoice       invoice.Invoice
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func period(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

func teacherName(inv invoice.Invoice) string {
	if inv.TeacherName != nil && *inv.TeacherName != "" {
		return *inv.TeacherName
	}
	return inv.TeacherID
}

func renderHTML(inv invoice.Invoice, opts Options) ([]byte, error) {
	view := htmlView{
		SchoolName:    opts.SchoolName,
		SchoolAddress: opts.SchoolAddress,
		TeacherName:   teacherName(inv),
		Period:        period(inv.Year, inv.Month),
		Invoice:       inv,
	}
	if inv.Notes != nil {
		view.Notes = *inv.Notes
	}

	var buf bytes.Buffer
	err := htmlInvoice.Execute(&buf, view)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice html: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDF(inv invoice.Invoice, opts Options) ([]byte, error) {
	data := pdf.InvoiceData{
		SchoolName:    opts.SchoolName,
		SchoolAddress: opts.SchoolAddress,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.InvoiceDate.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Period:        period(inv.Year, inv.Month),
		Status:        string(inv.Status),
		TeacherName:   teacherName(inv),
		TeacherID:     inv.TeacherID,
		Subtotal:      money(inv.Subtotal),
		Deductions:    money(inv.Deductions),
		Bonuses:       money(inv.Bonuses),
		Tax:           money(inv.Tax),
		Total:         money(inv.TotalAmount),
	}
	if inv.Notes != nil {
		data.Notes = *inv.Notes
	}
	for _, item := range inv.Items {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: item.Description,
			Qty:         item.Quantity,
			UnitPrice:   money(item.UnitPrice),
			Amount:      money(item.Amount),
		})
	}
	return pdf.GenerateInvoice(data)
}

func render(inv invoice.Invoice, format invoice.Format, opts Options) (invoice.Document, error) {
	switch format {
	case invoice.FormatHTML:
		body, err := renderHTML(inv, opts)
		if err != nil {
			return invoice.Document{}, err
		}
		return invoice.Document{
			FileName:    inv.InvoiceNumber + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        body,
		}, nil
	case invoice.FormatPDF:
		body, err := renderPDF(inv, opts)
		if err != nil {
			return invoice.Document{}, err
		}
		return invoice.Document{
			FileName:    inv.InvoiceNumber + ".pdf",
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	}
	return invoice.Document{}, invoice.ErrInvalidFormat
}
