package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// InvoiceData is a salary invoice with every amount already formatted.
type InvoiceData struct {
	SchoolName    string
	SchoolAddress string
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	Period        string
	Status        string

	TeacherName string
	TeacherID   string

	Items []InvoiceItem

	Subtotal   string
	Deductions string
	Bonuses    string
	Tax        string
	Total      string
	Notes      string
}

type InvoiceItem struct {
	Description string
	Qty         int
	UnitPrice   string
	Amount      string
}

// GenerateInvoice lays the invoice out on A4 and returns the PDF bytes.
func GenerateInvoice(invoice InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, invoice.SchoolName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "SALARY INVOICE", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	if invoice.SchoolAddress != "" {
		m.AddRow(8, text.NewCol(12, invoice.SchoolAddress, props.Text{Size: 9}))
	}

	// Invoice meta
	m.AddRow(24,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0, Size: 9}),
			text.New("Date of issue: "+invoice.IssueDate, props.Text{Top: 5, Size: 9}),
			text.New("Date due: "+invoice.DueDate, props.Text{Top: 10, Size: 9}),
			text.New("Salary period: "+invoice.Period, props.Text{Top: 15, Size: 9}),
		),
		col.New(6).Add(
			text.New("Pay to", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.New(invoice.TeacherName, props.Text{Top: 5, Size: 9, Align: align.Right}),
			text.New(invoice.TeacherID, props.Text{Top: 10, Size: 8, Align: align.Right}),
			text.New("Status: "+invoice.Status, props.Text{Top: 15, Size: 9, Align: align.Right}),
		),
	)

	// Items
	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	totals := []struct{ label, value string }{
		{"Subtotal", invoice.Subtotal},
		{"Deductions", invoice.Deductions},
		{"Bonuses", invoice.Bonuses},
		{"Tax", invoice.Tax},
	}
	for _, t := range totals {
		m.AddRow(7,
			col.New(8),
			text.NewCol(2, t.label, props.Text{Size: 9}),
			text.NewCol(2, t.value, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, invoice.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if invoice.Notes != "" {
		m.AddRow(14, text.NewCol(12, "Notes: "+invoice.Notes, props.Text{Size: 9, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice pdf: %w", err)
	}

	return doc.GetBytes(), nil
}
